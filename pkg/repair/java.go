package repair

import (
	"context"
	"regexp"
	"strings"

	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/scan"
)

//nolint:gochecknoglobals // Compiled once.
var (
	javaBlockWords = wordSet(
		"public", "private", "protected", "class", "interface", "enum",
		"if", "else", "for", "while", "do", "switch", "case", "default",
		"try", "catch", "finally", "return", "break", "continue",
	)
	javaControlWords = wordSet("if", "else", "for", "while", "do", "switch", "try", "catch", "finally")

	javaImportLine     = regexp.MustCompile(`^(import|package)\s`)
	javaModifierPrefix = regexp.MustCompile(`^(public|private|protected|static|final|synchronized)\b`)
	javaParenControl   = regexp.MustCompile(`^(else\s+if|if|for|while)\s*\(`)
	javaElse           = regexp.MustCompile(`^else\b`)
)

type javaEngine struct {
	formatter Formatter
	width     int
}

func newJavaEngine(f Formatter, width int) *javaEngine {
	return &javaEngine{formatter: f, width: width}
}

func (e *javaEngine) Language() Language { return LanguageJava }

// Analyze fixes terminators and unclosed braces, then formats. A soft
// formatter failure keeps the repaired text.
func (e *javaEngine) Analyze(ctx context.Context, src Source) (*Analysis, error) {
	an := newAnalysis(LanguageJava, src)
	lines, eol := splitLines(string(src.Content))

	lines, unclosed, stray := fixJavaSyntax(lines)
	if unclosed > 0 {
		an.warn("%d unclosed brace(s) at end of file", unclosed)
	}
	if stray > 0 {
		an.warn("%d closing brace(s) without an opener", stray)
	}

	final, err := handoff(ctx, e.formatter, an,
		formatter.Request{
			Tool:    formatter.GoogleJavaFormat,
			Path:    src.Path,
			Content: []byte(joinLines(lines, eol)),
		},
		func(text string) string { return formatJavaFallback(text, e.width) },
		softKeepRepaired,
	)
	if err != nil {
		return nil, err
	}

	an.record(final)
	return an, nil
}

// needsJavaTerminator decides whether a trimmed code line is a statement
// missing its semicolon.
func needsJavaTerminator(trimmed string) bool {
	if trimmed == "" || hasAnySuffix(trimmed, ";", "{", "}", ",", ":") {
		return false
	}
	if strings.HasPrefix(trimmed, "@") {
		return false
	}
	if javaBlockWords[leadingWord(trimmed)] {
		return false
	}
	if strings.HasSuffix(trimmed, ")") {
		return !javaModifierPrefix.MatchString(trimmed)
	}
	return true
}

// fixJavaSyntax normalises import and package terminators, adds missing
// statement terminators, and closes braces left open at end of file.
// It returns the number of unclosed braces and of stray closers seen.
func fixJavaSyntax(lines []string) ([]string, int, int) {
	sc := scan.New(scan.JavaSyntax)
	out := make([]string, len(lines))
	var stack []int
	stray := 0

	for i, line := range lines {
		if sc.Classify(line) != scan.Code {
			out[i] = line
			continue
		}

		trimmed := strings.TrimSpace(line)
		for _, ch := range trimmed {
			switch ch {
			case '{':
				stack = append(stack, i)
			case '}':
				if len(stack) == 0 {
					stray++
					continue
				}
				stack = stack[:len(stack)-1]
			}
		}

		switch {
		case javaImportLine.MatchString(trimmed):
			lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out[i] = lead + strings.TrimRight(trimmed, ";") + ";"
		case needsJavaTerminator(trimmed):
			out[i] = trimRight(line) + ";"
		default:
			out[i] = trimRight(line)
		}
	}

	// Closers appended inside an unterminated comment would not count.
	if len(stack) > 0 && !sc.State().InBlockComment {
		out = appendTail(out, "", strings.Repeat("}", len(stack)))
	}
	return out, len(stack), stray
}

// splitJavaControl splits a control statement into its header and any
// body on the same line. ok is false for lines that are not control
// statements or whose condition parentheses do not close.
func splitJavaControl(trimmed string) (header, body string, ok bool) {
	if loc := javaParenControl.FindStringIndex(trimmed); loc != nil {
		open := loc[1] - 1
		closeIdx := matchParen(trimmed, open)
		if closeIdx < 0 {
			return "", "", false
		}
		return trimmed[:closeIdx+1], strings.TrimSpace(trimmed[closeIdx+1:]), true
	}
	if javaElse.MatchString(trimmed) {
		return "else", strings.TrimSpace(trimmed[len("else"):]), true
	}
	return "", "", false
}

// matchParen returns the index of the parenthesis closing the one at
// open, skipping string and character literals, or -1.
func matchParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// simpleJavaStatement reports whether a trimmed line can be wrapped as the
// single-statement body of a braceless control statement.
func simpleJavaStatement(trimmed string) bool {
	return trimmed != "" &&
		!strings.ContainsAny(trimmed, "{}") &&
		!javaControlWords[leadingWord(trimmed)]
}

// formatJavaFallback re-indents by brace depth and wraps braceless control
// bodies in braces. It runs fixJavaSyntax first, so it is safe on
// unrepaired input.
func formatJavaFallback(text string, width int) string {
	lines, eol := splitLines(text)
	lines, _, _ = fixJavaSyntax(lines)
	kinds := scan.ClassifyAll(scan.JavaSyntax, lines)

	out := make([]string, 0, len(lines))
	depth := 0
	closeAfter := -1

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch kinds[i] {
		case scan.Blank:
			out = append(out, "")

		case scan.Code:
			lead := scan.LeadingClosers(trimmed, "}")
			depth = max(depth-lead, 0)
			opens, closes := scan.CountBraces(trimmed)

			// "} else" keeps its closer in front of the rewritten header.
			rest := strings.TrimLeft(trimmed, "} \t")
			prefix := trimmed[:len(trimmed)-len(rest)]

			header, body, isControl := splitJavaControl(rest)
			switch {
			case isControl && closeAfter < 0 && body != "" && body != ";" && simpleJavaStatement(body):
				if needsJavaTerminator(body) {
					body += ";"
				}
				out = append(out,
					indent(depth, width)+prefix+header+" {",
					indent(depth+1, width)+body,
					indent(depth, width)+"}")

			case isControl && closeAfter < 0 && body == "":
				next, ok := nextCodeIndex(kinds, i)
				if ok && simpleJavaStatement(strings.TrimSpace(lines[next])) {
					out = append(out, indent(depth, width)+prefix+header+" {")
					depth++
					closeAfter = next
				} else {
					out = append(out, indent(depth, width)+trimmed)
				}

			default:
				out = append(out, indent(depth, width)+trimmed)
				depth = max(depth+opens-(closes-lead), 0)
			}

		default:
			out = append(out, indent(depth, width)+trimmed)
		}

		if i == closeAfter {
			depth--
			out = append(out, indent(depth, width)+"}")
			closeAfter = -1
		}
	}

	return joinLines(out, eol)
}

func nextCodeIndex(kinds []scan.Kind, i int) (int, bool) {
	for j := i + 1; j < len(kinds); j++ {
		if kinds[j] == scan.Code {
			return j, true
		}
	}
	return 0, false
}
