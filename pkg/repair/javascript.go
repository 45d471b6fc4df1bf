package repair

import (
	"context"
	"regexp"
	"strings"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/scan"
)

//nolint:gochecknoglobals // Compiled once.
var (
	jsVarKeyword  = regexp.MustCompile(`\bvar\b`)
	jsAssignLine  = regexp.MustCompile(`^[a-zA-Z_$][\w$]*\s*=[^=]`)
	jsConsoleLine = regexp.MustCompile(`^console\.\w+\(.*\)$`)
	jsCallLine    = regexp.MustCompile(`^[a-zA-Z_$][\w$]*\(.*\)$`)
	jsModuleLine  = regexp.MustCompile(`^(import|export)\b`)
)

type javascriptEngine struct {
	formatter Formatter
	width     int
}

func newJavaScriptEngine(f Formatter, width int) *javascriptEngine {
	return &javascriptEngine{formatter: f, width: width}
}

func (e *javascriptEngine) Language() Language { return LanguageJavaScript }

// Analyze upgrades declaration keywords using the syntax tree, then
// formats. When the tree cannot be built the regex pass runs instead, and
// the tree rewrites are retried on its output: the terminators it adds can
// make the buffer parse, and a later run must not find more to upgrade. A
// soft formatter failure keeps the rewritten text.
func (e *javascriptEngine) Analyze(ctx context.Context, src Source) (*Analysis, error) {
	an := newAnalysis(LanguageJavaScript, src)
	logger := logging.FromContext(ctx).With(logging.FieldPath, src.Path)
	g := grammarFor(src.Path)

	rewritten, count, err := rewriteDeclarations(ctx, g, src.Content)
	if err != nil {
		logger.Debug("syntax tree unavailable, using regex pass", logging.FieldError, err)
		an.ParseFallback = true
		rewritten = []byte(regexRepairJS(string(src.Content)))

		if retried, n, retryErr := rewriteDeclarations(ctx, g, rewritten); retryErr == nil {
			rewritten, count = retried, n
		}
	}
	an.Rewrites = count
	logger.Debug("declarations rewritten", logging.FieldRewrites, count)

	final, err := handoff(ctx, e.formatter, an,
		formatter.Request{
			Tool:    formatter.Prettier,
			Path:    src.Path,
			Content: rewritten,
		},
		func(text string) string { return formatJSFallback(text, e.width) },
		softKeepRepaired,
	)
	if err != nil {
		return nil, err
	}

	an.record(final)
	return an, nil
}

// regexRepairJS is the path taken when parsing fails: every var becomes
// let and obvious statements get a terminator.
func regexRepairJS(text string) string {
	text = jsVarKeyword.ReplaceAllString(text, "let")

	lines, eol := splitLines(text)
	sc := scan.New(scan.JavaScriptSyntax)
	for i, line := range lines {
		if sc.Classify(line) != scan.Code {
			continue
		}
		if needsJSTerminator(strings.TrimSpace(line)) {
			lines[i] = trimRight(line) + ";"
		}
	}
	return joinLines(lines, eol)
}

func needsJSTerminator(trimmed string) bool {
	if trimmed == "" || hasAnySuffix(trimmed, ";", "{", "}", ",") {
		return false
	}
	if jsModuleLine.MatchString(trimmed) {
		return false
	}
	return jsAssignLine.MatchString(trimmed) ||
		jsConsoleLine.MatchString(trimmed) ||
		jsCallLine.MatchString(trimmed)
}

// formatJSFallback re-indents by the net depth of braces and parentheses.
func formatJSFallback(text string, width int) string {
	lines, eol := splitLines(text)
	sc := scan.New(scan.JavaScriptSyntax)
	out := make([]string, len(lines))
	depth := 0

	for i, line := range lines {
		kind := sc.Classify(line)
		trimmed := strings.TrimSpace(line)

		switch kind {
		case scan.Blank:
			out[i] = ""
		case scan.Code:
			lead := scan.LeadingClosers(trimmed, "})")
			out[i] = indent(max(depth-lead, 0), width) + trimmed
			opens := strings.Count(trimmed, "{") + strings.Count(trimmed, "(")
			closes := strings.Count(trimmed, "}") + strings.Count(trimmed, ")")
			depth = max(depth+opens-closes, 0)
		default:
			out[i] = indent(depth, width) + trimmed
		}
	}
	return joinLines(out, eol)
}
