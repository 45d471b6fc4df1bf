package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/gojanitor/pkg/config"
	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/repair"
)

// maxIndentWidth bounds indent_width values.
const maxIndentWidth = 16

// ValidationError describes one invalid or suspicious config field.
type ValidationError struct {
	// Field is the YAML path, e.g. "indent_width.python" or "ignore[2]".
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationResult splits findings into errors, which stop loading, and
// warnings, which are reported and otherwise ignored.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether no errors were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a resolved configuration. A nil config is valid.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, table, json, diff", cfg.Format)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.FormatterTimeout < 0 {
		result.fail("formatter_timeout", cfg.FormatterTimeout, "formatter_timeout must not be negative")
	}
	switch cfg.Backups.Mode {
	case "", config.BackupModeSidecar, config.BackupModeNone:
	default:
		result.fail("backups.mode", cfg.Backups.Mode,
			"invalid backup mode %q; must be one of: %s, %s", cfg.Backups.Mode, config.BackupModeSidecar, config.BackupModeNone)
	}

	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	checkIndentWidths(cfg.IndentWidth, result)
	checkFormatters(cfg.Formatters, result)
	return result
}

// checkIndentWidths rejects unusable widths. Unknown languages only warn
// so a config shared with newer releases still loads.
func checkIndentWidths(widths map[string]int, result *ValidationResult) {
	for _, lang := range slices.Sorted(maps.Keys(widths)) {
		field := "indent_width." + lang
		width := widths[lang]

		if !slices.Contains(repair.Languages(), repair.Language(lang)) {
			result.warn(field, lang, "unknown language %q; it will be ignored", lang)
			continue
		}
		if width < 1 || width > maxIndentWidth {
			result.fail(field, width, "indent width must be between 1 and %d", maxIndentWidth)
		}
	}
}

func checkFormatters(overrides map[string]config.FormatterConfig, result *ValidationResult) {
	known := formatter.DefaultTools()
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		if _, ok := known[name]; !ok {
			result.warn("formatters."+name, name,
				"unknown formatter %q; known formatters are: %s", name, strings.Join(known.Names(), ", "))
		}
	}
}
