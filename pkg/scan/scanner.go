// Package scan classifies source lines as code or non-code so that the
// repair passes never make structural decisions inside comments, strings,
// or preprocessor directives.
//
// A Scanner is stateful and line-oriented: feed it every line of a buffer
// in order through Classify. Each repair pass creates its own Scanner;
// passes never share scan state.
package scan

import "strings"

// Syntax describes the comment and directive tokens of a language.
type Syntax struct {
	// LineComment starts a comment running to end of line ("//" or "#").
	LineComment string

	// Blocks lists the delimiter pairs of multi-line regions the scanner
	// treats as opaque. None disables block tracking.
	Blocks []Block

	// Preprocessor enables '#' directive lines with '\' continuation.
	Preprocessor bool
}

// Block is an opening and closing delimiter pair, such as "/*" and "*/".
type Block struct {
	Open  string
	Close string
}

// Syntaxes for the supported language families.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	cComment = []Block{{Open: "/*", Close: "*/"}}

	CSyntax = Syntax{
		LineComment:  "//",
		Blocks:       cComment,
		Preprocessor: true,
	}

	JavaSyntax = Syntax{
		LineComment: "//",
		Blocks:      cComment,
	}

	JavaScriptSyntax = JavaSyntax

	// PythonSyntax treats triple-quoted strings of either quote as opaque
	// blocks. A block only closes on its own delimiter.
	PythonSyntax = Syntax{
		LineComment: "#",
		Blocks: []Block{
			{Open: `"""`, Close: `"""`},
			{Open: "'''", Close: "'''"},
		},
	}
)

// Kind is the classification of a single line.
type Kind int

const (
	// Code is a line eligible for structural repair.
	Code Kind = iota
	// Blank is an empty or whitespace-only line.
	Blank
	// LineComment is a line whose first token starts a line comment.
	LineComment
	// BlockComment is a line that opens, continues, or closes a block comment.
	BlockComment
	// Preprocessor is a directive line or one of its continuations.
	Preprocessor
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Blank:
		return "blank"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	case Preprocessor:
		return "preprocessor"
	default:
		return "unknown"
	}
}

// State is the scanner state carried between lines.
type State struct {
	InBlockComment             bool
	InLineComment              bool
	InString                   bool
	InPreprocessorContinuation bool
}

// Scanner classifies lines of one buffer in order.
type Scanner struct {
	syntax Syntax
	state  State

	// closer ends the open block while state.InBlockComment is set.
	closer string
}

// New returns a Scanner with fresh state.
func New(syntax Syntax) *Scanner {
	return &Scanner{syntax: syntax}
}

// State returns the state after the most recently classified line.
func (s *Scanner) State() State {
	return s.state
}

// Classify returns the kind of line and advances the scanner state.
// It never fails; an unterminated block comment stays open to EOF.
func (s *Scanner) Classify(line string) Kind {
	s.state.InLineComment = false

	trimmed := strings.TrimSpace(line)

	if s.state.InBlockComment {
		if strings.Contains(trimmed, s.closer) {
			s.state.InBlockComment = false
		}
		return BlockComment
	}

	if s.state.InPreprocessorContinuation {
		s.state.InPreprocessorContinuation = strings.HasSuffix(trimmed, `\`)
		return Preprocessor
	}

	if s.syntax.Preprocessor && strings.HasPrefix(trimmed, "#") {
		s.state.InPreprocessorContinuation = strings.HasSuffix(trimmed, `\`)
		return Preprocessor
	}

	if trimmed == "" {
		return Blank
	}

	if s.syntax.LineComment != "" && strings.HasPrefix(trimmed, s.syntax.LineComment) {
		s.state.InLineComment = true
		return LineComment
	}

	if b, idx := firstBlock(s.syntax.Blocks, trimmed); idx >= 0 {
		rest := trimmed[idx+len(b.Open):]
		if !strings.Contains(rest, b.Close) {
			s.state.InBlockComment = true
			s.closer = b.Close
		}
		return BlockComment
	}

	return Code
}

// firstBlock returns the block whose opener appears earliest in line, and
// its index, or -1 when none does.
func firstBlock(blocks []Block, line string) (Block, int) {
	var (
		found Block
		at    = -1
	)
	for _, b := range blocks {
		if i := strings.Index(line, b.Open); i >= 0 && (at < 0 || i < at) {
			found, at = b, i
		}
	}
	return found, at
}

// ClassifyAll classifies every line of a buffer with a fresh scanner.
func ClassifyAll(syntax Syntax, lines []string) []Kind {
	sc := New(syntax)
	kinds := make([]Kind, len(lines))
	for i, line := range lines {
		kinds[i] = sc.Classify(line)
	}
	return kinds
}
