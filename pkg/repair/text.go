package repair

import (
	"strings"
	"unicode"
)

// splitLines splits text on line breaks. CRLF input is normalised to LF
// and the returned eol restores it on join. A trailing newline leaves an
// empty final element.
func splitLines(text string) ([]string, string) {
	eol := "\n"
	if strings.Contains(text, "\r\n") {
		eol = "\r\n"
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	return strings.Split(text, "\n"), eol
}

func joinLines(lines []string, eol string) string {
	return strings.Join(lines, eol)
}

// appendTail inserts extra lines before the empty element left by a
// trailing newline, so appended closers stay inside the final newline.
func appendTail(lines []string, extra ...string) []string {
	if n := len(lines); n > 0 && lines[n-1] == "" {
		out := make([]string, 0, n+len(extra))
		out = append(out, lines[:n-1]...)
		out = append(out, extra...)
		return append(out, "")
	}
	return append(lines, extra...)
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func indent(level, width int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(" ", level*width)
}

// leadingWord returns the identifier at the start of a trimmed line, after
// any closing braces. "} else {" yields "else"; "else:" yields "else".
func leadingWord(trimmed string) string {
	s := strings.TrimLeft(trimmed, "} \t")
	end := 0
	for end < len(s) && isWordByte(s[end]) {
		end++
	}
	return s[:end]
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
