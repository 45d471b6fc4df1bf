package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gojanitor/pkg/repair"
	"github.com/yaklabco/gojanitor/pkg/runner"
)

// FormatOutcome formats one file's result as a single line:
//
//	src/main.c  (c, fallback)  fixed (backup created), 2 fixes
func (s *Styles) FormatOutcome(path string, outcome runner.FileOutcome) string {
	if outcome.Error != nil {
		return s.FormatFileError(path, outcome.Error)
	}

	res := outcome.Result
	if res == nil {
		return s.FilePath.Render(path) + "\n"
	}

	var builder strings.Builder
	builder.WriteString(s.FilePath.Render(path))

	if res.Analysis != nil {
		builder.WriteString("  " + s.FormatLanguage(res.Analysis))
	}

	summary := res.Summary()
	switch {
	case res.Skipped:
		builder.WriteString("  " + s.Dim.Render(summary))
	case res.Modified:
		builder.WriteString("  " + s.Fixed.Render(summary))
		n := res.EditCount()
		builder.WriteString(s.Dim.Render(fmt.Sprintf(", %d %s", n, plural(n, "fix", "fixes"))))
	default:
		builder.WriteString("  " + s.Dim.Render(summary))
	}

	builder.WriteString("\n")
	return builder.String()
}

// FormatLanguage renders "(language, outcome)", adding the dialect for
// C-family files.
func (s *Styles) FormatLanguage(an *repair.Analysis) string {
	lang := string(an.Language)
	if an.Dialect != "" {
		lang += "/" + an.Dialect
	}

	outcome := string(an.Outcome)
	if an.Outcome == repair.OutcomeFallback {
		outcome = s.Fallback.Render(outcome)
	}

	return s.Language.Render("("+lang+", ") + outcome + s.Language.Render(")")
}

// FormatWarning formats an engine warning for a file.
func (s *Styles) FormatWarning(path, message string) string {
	return fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(path),
		s.Warning.Render("warning"),
		s.Message.Render(message),
	)
}

// FormatFileError formats a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n",
		s.FilePath.Render(path),
		s.Error.Render(fmt.Sprintf("error: %v", err)),
	)
}
