package repair

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/scan"
)

//nolint:gochecknoglobals // Compiled once.
var (
	cControlWords   = wordSet("if", "else", "for", "while", "do", "switch")
	cStatementWords = wordSet("return", "break", "continue", "goto")

	cCallPattern   = regexp.MustCompile(`[a-zA-Z_]\w*\s*\([^)]*\)$`)
	cTypePrefix    = regexp.MustCompile(`^(int|void|char|float|double|bool|short|long|unsigned|signed|const|static|volatile|extern|uint8_t|uint16_t|uint32_t|int8_t|int16_t|int32_t)\s+`)
	cFunctionDef   = regexp.MustCompile(`^[a-zA-Z_]\w*\s+[a-zA-Z_]\w*\s*\([^)]*\)\s*[^{]*$`)
	cLoopPrefix    = regexp.MustCompile(`^(for|while|if)\b`)
	cSignatureLine = regexp.MustCompile(`^(int|void|char|float|double|bool|short|long|unsigned|signed|static|inline)\s+[a-zA-Z_]\w*\s*\([^)]*\)\s*[^{;]*$`)
)

type cfamilyEngine struct {
	formatter Formatter
	width     int
}

func newCFamilyEngine(f Formatter, width int) *cfamilyEngine {
	return &cfamilyEngine{formatter: f, width: width}
}

func (e *cfamilyEngine) Language() Language { return LanguageC }

// Analyze runs dialect normalisation, terminator insertion, function
// opener insertion, and brace balancing, then formats the result.
func (e *cfamilyEngine) Analyze(ctx context.Context, src Source) (*Analysis, error) {
	an := newAnalysis(LanguageC, src)
	lines, eol := splitLines(string(src.Content))

	d := detectDialect(string(src.Content))
	an.Dialect = d.name

	lines = d.normalize(lines)
	lines = insertCTerminators(lines)
	lines = insertFunctionOpeners(lines)
	lines, net, blocked := balanceCBraces(lines)
	switch {
	case net < 0:
		an.warn("%d more closing than opening braces; left as is", -net)
	case blocked:
		an.warn("%d unclosed brace(s) left open: file ends inside a comment or directive", net)
	}

	repaired := joinLines(lines, eol)
	if net >= 0 && !blocked {
		if bal := scan.ValidateBalance(repaired, scan.CSyntax); !bal.Balanced() {
			an.warn("braces still unbalanced after repair (net %+d)", bal.Net)
		}
	}

	logging.FromContext(ctx).Debug("c-family repair",
		logging.FieldPath, src.Path, logging.FieldDialect, d.name)

	final, err := handoff(ctx, e.formatter, an,
		formatter.Request{
			Tool:    formatter.Uncrustify,
			Path:    src.Path,
			Content: []byte(repaired),
			Lang:    uncrustifyLang(src.Path),
		},
		func(text string) string { return formatCFallback(text, e.width) },
		softFallback,
	)
	if err != nil {
		return nil, err
	}

	an.record(final)
	return an, nil
}

func uncrustifyLang(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".h":
		return "C"
	default:
		return "CPP"
	}
}

// needsCTerminator decides whether a trimmed code line is a statement
// missing its semicolon.
func needsCTerminator(trimmed string) bool {
	if trimmed == "" || hasAnySuffix(trimmed, ";", "{", "}", ",") {
		return false
	}

	word := leadingWord(trimmed)
	if cControlWords[word] {
		return false
	}

	statement := cStatementWords[word] ||
		strings.Contains(trimmed, "=") ||
		cCallPattern.MatchString(trimmed) ||
		cTypePrefix.MatchString(trimmed)
	if !statement {
		return false
	}

	return !cFunctionDef.MatchString(trimmed) && !cLoopPrefix.MatchString(trimmed)
}

func insertCTerminators(lines []string) []string {
	out := make([]string, len(lines))
	sc := scan.New(scan.CSyntax)
	for i, line := range lines {
		out[i] = line
		if sc.Classify(line) != scan.Code {
			continue
		}
		if needsCTerminator(strings.TrimSpace(line)) {
			out[i] = trimRight(line) + ";"
		}
	}
	return out
}

// insertFunctionOpeners adds a "{" line after a function signature whose
// body opener is missing. A signature followed by a line starting with
// "{" already has one.
func insertFunctionOpeners(lines []string) []string {
	kinds := scan.ClassifyAll(scan.CSyntax, lines)
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		out = append(out, line)
		if kinds[i] != scan.Code {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !cSignatureLine.MatchString(trimmed) || hasAnySuffix(trimmed, "{", ";") {
			continue
		}
		if next, ok := nextCodeLine(lines, kinds, i); ok && strings.HasPrefix(next, "{") {
			continue
		}
		out = append(out, "{")
	}
	return out
}

// nextCodeLine returns the trimmed text of the first code line after i.
func nextCodeLine(lines []string, kinds []scan.Kind, i int) (string, bool) {
	for j := i + 1; j < len(lines); j++ {
		if kinds[j] == scan.Code {
			return strings.TrimSpace(lines[j]), true
		}
	}
	return "", false
}

// balanceCBraces appends closing braces for unclosed openers. It returns
// the net brace count before balancing; a negative count is left alone.
// blocked is set when closers were needed but the buffer ends inside a
// block comment or directive, where appended closers would not count.
func balanceCBraces(lines []string) ([]string, int, bool) {
	// Closers go before the empty element left by a trailing newline, so
	// the end state is taken before it.
	body := lines
	if n := len(lines); n > 0 && lines[n-1] == "" {
		body = lines[:n-1]
	}

	sc := scan.New(scan.CSyntax)
	net := 0
	for _, line := range body {
		if sc.Classify(line) == scan.Code {
			opens, closes := scan.CountBraces(line)
			net += opens - closes
		}
	}
	if net <= 0 {
		return lines, net, false
	}
	if end := sc.State(); end.InBlockComment || end.InPreprocessorContinuation {
		return lines, net, true
	}

	closers := make([]string, net)
	for i := range closers {
		closers[i] = "}"
	}
	return appendTail(lines, closers...), net, false
}

// formatCFallback re-indents by brace depth. Preprocessor lines are
// flush-left, comments follow the current depth, and blank lines are
// emptied.
func formatCFallback(text string, width int) string {
	lines, eol := splitLines(text)
	sc := scan.New(scan.CSyntax)
	out := make([]string, len(lines))
	depth := 0

	for i, line := range lines {
		kind := sc.Classify(line)
		trimmed := strings.TrimSpace(line)

		switch kind {
		case scan.Blank:
			out[i] = ""
		case scan.Preprocessor:
			out[i] = trimmed
		case scan.LineComment, scan.BlockComment:
			out[i] = indent(depth, width) + trimmed
		default:
			opens, closes := scan.CountBraces(trimmed)
			lead := scan.LeadingClosers(trimmed, "}")
			out[i] = indent(max(depth-lead, 0), width) + trimmed
			depth = max(depth+opens-closes, 0)
		}
	}
	return joinLines(out, eol)
}

// dialect is an embedded C flavour with its own token normalisations.
type dialect struct {
	name     string
	detect   func(text string) bool
	rewrites []rewrite
}

type rewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

func (d dialect) normalize(lines []string) []string {
	if len(d.rewrites) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	sc := scan.New(scan.CSyntax)
	for i, line := range lines {
		out[i] = line
		if sc.Classify(line) != scan.Code {
			continue
		}
		for _, rw := range d.rewrites {
			out[i] = rw.pattern.ReplaceAllString(out[i], rw.replacement)
		}
	}
	return out
}

// Dialect names.
const (
	DialectSTM32   = "stm32"
	DialectAVR     = "avr"
	DialectESP32   = "esp32"
	DialectGeneric = "generic"
)

// dialects are checked in order; the first match wins.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dialects = []dialect{
	{
		name: DialectSTM32,
		detect: func(text string) bool {
			return strings.Contains(text, "HAL_") ||
				(strings.Contains(text, "GPIO") && strings.Contains(text, "->")) ||
				strings.Contains(text, "RCC->")
		},
		rewrites: []rewrite{
			{regexp.MustCompile(`(\w+)\s*->\s*(\w+)\s*=[ \t]*([^=\s])`), "${1}->${2} = ${3}"},
			{regexp.MustCompile(`\bRCC\s*->\s*(\w+)`), "RCC->${1}"},
			{regexp.MustCompile(`\bGPIO([A-Z])\s*->\s*(\w+)`), "GPIO${1}->${2}"},
			{regexp.MustCompile(`\b(HAL_\w+)\s+\(`), "${1}("},
		},
	},
	{
		name: DialectAVR,
		detect: func(text string) bool {
			return strings.Contains(text, "DDR") ||
				strings.Contains(text, "PORT") ||
				strings.Contains(text, "PIN") ||
				strings.Contains(text, "avr/io.h")
		},
		rewrites: []rewrite{
			{regexp.MustCompile(`\bPORT([A-Z])\s*=[ \t]*([^=\s])`), "PORT${1} = ${2}"},
			{regexp.MustCompile(`\bDDR([A-Z])\s*=[ \t]*([^=\s])`), "DDR${1} = ${2}"},
			{regexp.MustCompile(`\b_BV\s+\(`), "_BV("},
		},
	},
	{
		name: DialectESP32,
		detect: func(text string) bool {
			return strings.Contains(text, "esp_") ||
				strings.Contains(text, "gpio_config") ||
				strings.Contains(text, "freertos/FreeRTOS.h")
		},
		rewrites: []rewrite{
			{regexp.MustCompile(`\b(ESP_ERROR_CHECK|ESP_LOG[EWIDV]|gpio_\w+|esp_\w+)\s+\(`), "${1}("},
		},
	},
}

func detectDialect(text string) dialect {
	for _, d := range dialects {
		if d.detect(text) {
			return d
		}
	}
	return dialect{name: DialectGeneric}
}

// DetectDialect returns the embedded dialect name for C-family text.
func DetectDialect(text string) string {
	return detectDialect(text).name
}
