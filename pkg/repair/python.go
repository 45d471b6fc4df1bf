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
	pyBlockWords  = wordSet("if", "elif", "else", "for", "while", "try", "except", "finally", "with", "def", "class")
	pyDedentWords = wordSet("elif", "else", "except", "finally")

	pyBareDef   = regexp.MustCompile(`^def\s+[A-Za-z_]\w*$`)
	pyBareClass = regexp.MustCompile(`^class\s+[A-Za-z_]\w*$`)
)

type pythonEngine struct {
	formatter Formatter
	width     int
}

func newPythonEngine(f Formatter, width int) *pythonEngine {
	return &pythonEngine{formatter: f, width: width}
}

func (e *pythonEngine) Language() Language { return LanguagePython }

// Analyze adds missing block colons and rebuilds indentation from block
// structure, then formats. The repaired text doubles as the fallback.
func (e *pythonEngine) Analyze(ctx context.Context, src Source) (*Analysis, error) {
	an := newAnalysis(LanguagePython, src)
	repaired := repairPython(string(src.Content), e.width)

	final, err := handoff(ctx, e.formatter, an,
		formatter.Request{
			Tool:    formatter.Black,
			Path:    src.Path,
			Content: []byte(repaired),
		},
		func(text string) string { return text },
		softFallback,
	)
	if err != nil {
		return nil, err
	}

	an.record(final)
	return an, nil
}

// fixPythonLine adds the colon or parameter list a block header is missing.
func fixPythonLine(trimmed string) string {
	switch {
	case pyBareDef.MatchString(trimmed):
		return trimmed + "():"
	case pyBareClass.MatchString(trimmed):
		return trimmed + ":"
	case pyBlockWords[leadingWord(trimmed)] && !hasAnySuffix(trimmed, ":", `\`):
		return trimmed + ":"
	default:
		return trimmed
	}
}

// repairPython walks the lines with an indentation stack. A line ending in
// ":" opens a level; elif, else, except, and finally close one. Blank and
// comment lines, and the body of triple-quoted strings, are left alone.
func repairPython(text string, width int) string {
	lines, eol := splitLines(text)
	sc := scan.New(scan.PythonSyntax)
	stack := []int{0}
	out := make([]string, len(lines))

	for i, line := range lines {
		inString := sc.State().InBlockComment
		kind := sc.Classify(line)
		trimmed := strings.TrimSpace(line)
		top := stack[len(stack)-1]

		switch {
		case kind == scan.Blank, kind == scan.LineComment:
			out[i] = line

		case kind == scan.BlockComment && inString:
			out[i] = line

		case kind == scan.BlockComment:
			// First line of a triple-quoted string: position it, but it is
			// not a header.
			out[i] = indent(top, 1) + trimmed

		default:
			if pyDedentWords[leadingWord(trimmed)] && len(stack) > 1 {
				stack = stack[:len(stack)-1]
				top = stack[len(stack)-1]
			}
			fixed := fixPythonLine(trimmed)
			out[i] = indent(top, 1) + fixed
			if strings.HasSuffix(fixed, ":") {
				stack = append(stack, top+width)
			}
		}
	}

	if n := len(out); n == 0 || out[n-1] != "" {
		out = append(out, "")
	}
	return joinLines(out, eol)
}
