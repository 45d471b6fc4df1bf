package scan

import "strings"

// CountBraces returns the number of opening and closing curly braces on a
// code line. String literals are not tracked, so a brace inside a quoted
// string is counted like any other.
func CountBraces(line string) (opens, closes int) {
	return strings.Count(line, "{"), strings.Count(line, "}")
}

// LeadingClosers returns how many bytes from closers start the trimmed
// line, ignoring whitespace between them.
func LeadingClosers(trimmed, closers string) int {
	n := 0
	for i := 0; i < len(trimmed); i++ {
		switch {
		case strings.IndexByte(closers, trimmed[i]) >= 0:
			n++
		case trimmed[i] == ' ' || trimmed[i] == '\t':
		default:
			return n
		}
	}
	return n
}

// Balance is the result of a character-level brace scan.
type Balance struct {
	// Net is the count of opening braces minus closing braces.
	Net int

	// Unterminated is set when a string or block comment is still open
	// at end of input.
	Unterminated bool
}

// Balanced reports whether opens and closes match.
func (b Balance) Balanced() bool {
	return b.Net == 0
}

// ValidateBalance scans text character by character and counts braces
// outside comments and string or character literals. Backslash escapes
// inside literals are honoured. Only block and line comment syntax from
// syntax is used; preprocessor lines are scanned like code.
func ValidateBalance(text string, syntax Syntax) Balance {
	var (
		bal      Balance
		state    State
		quote    byte
		escaped  bool
		closeTok string
	)

	lineTok := syntax.LineComment

	for i := 0; i < len(text); i++ {
		ch := text[i]

		switch {
		case state.InLineComment:
			if ch == '\n' {
				state.InLineComment = false
			}

		case state.InBlockComment:
			if strings.HasPrefix(text[i:], closeTok) {
				state.InBlockComment = false
				i += len(closeTok) - 1
			}

		case state.InString:
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				state.InString = false
			case ch == '\n' && quote != '`':
				// Unterminated single-line literal; recover at end of line.
				state.InString = false
			}

		default:
			block := blockAt(syntax.Blocks, text[i:])
			switch {
			case lineTok != "" && strings.HasPrefix(text[i:], lineTok):
				state.InLineComment = true
				i += len(lineTok) - 1
			case block >= 0:
				state.InBlockComment = true
				closeTok = syntax.Blocks[block].Close
				i += len(syntax.Blocks[block].Open) - 1
			case ch == '"' || ch == '\'' || ch == '`':
				state.InString = true
				quote = ch
			case ch == '{':
				bal.Net++
			case ch == '}':
				bal.Net--
			}
		}
	}

	bal.Unterminated = state.InBlockComment || state.InString
	return bal
}

// blockAt returns the index of the block whose opener prefixes text, or -1.
func blockAt(blocks []Block, text string) int {
	for i, b := range blocks {
		if strings.HasPrefix(text, b.Open) {
			return i
		}
	}
	return -1
}

// CodeBraces totals CountBraces over the Code lines of a buffer, using a
// fresh scanner.
func CodeBraces(syntax Syntax, lines []string) (opens, closes int) {
	sc := New(syntax)
	for _, line := range lines {
		if sc.Classify(line) != Code {
			continue
		}
		o, c := CountBraces(line)
		opens += o
		closes += c
	}
	return opens, closes
}
