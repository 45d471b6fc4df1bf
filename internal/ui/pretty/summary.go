package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gojanitor/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// plural picks the singular or plural word for n.
func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "7 fixes in 3 of 12 files, 1 warning, 1 error".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesModified == 0 && stats.FilesErrored == 0 && stats.WarningsTotal == 0 {
		return s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed,
				plural(stats.FilesProcessed, wordFile, wordFiles))) + "\n"
	}

	var parts []string

	if stats.FilesModified > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s in %d of %d %s",
			stats.FixesTotal, plural(stats.FixesTotal, "fix", "fixes"),
			stats.FilesModified, stats.FilesProcessed,
			plural(stats.FilesProcessed, wordFile, wordFiles))))
	} else {
		parts = append(parts, fmt.Sprintf("%d %s checked", stats.FilesProcessed,
			plural(stats.FilesProcessed, wordFile, wordFiles)))
	}

	if stats.WarningsTotal > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s",
			stats.WarningsTotal, plural(stats.WarningsTotal, "warning", "warnings"))))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s",
			stats.FilesErrored, plural(stats.FilesErrored, "error", "errors"))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files processed:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	builder.WriteString("  Files modified:      " +
		s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	builder.WriteString("  Total fixes applied: " +
		s.SummaryValue.Render(strconv.Itoa(stats.FixesTotal)) + "\n")

	if stats.FilesFallback > 0 {
		builder.WriteString("  Fallback formatted:  " +
			s.Fallback.Render(strconv.Itoa(stats.FilesFallback)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:       " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.WarningsTotal > 0 {
		builder.WriteString("  Warnings:            " +
			s.Warning.Render(strconv.Itoa(stats.WarningsTotal)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files with errors:   " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Completed with errors"))
	case stats.FilesModified > 0:
		builder.WriteString(s.Success.Render(fmt.Sprintf("Fixed %d %s",
			stats.FilesModified, plural(stats.FilesModified, wordFile, wordFiles))))
	default:
		builder.WriteString(s.Success.Render("No issues found! Your code looks clean."))
	}
	builder.WriteString("\n")

	return builder.String()
}
