package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gojanitor/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minFileWidth     = 20
	minStatusWidth   = 14
	heavySeparator   = "="
	defaultTermWidth = 100
)

// RowKind selects the styling of a table row.
type RowKind int

// Row kinds.
const (
	RowClean RowKind = iota
	RowFixed
	RowWarned
	RowErrored
)

// TableRow represents a single row in the outcome table.
type TableRow struct {
	File     string
	Language string
	Outcome  string
	Fixes    int
	Status   string
	Kind     RowKind
}

// LanguageRow is one row of the supported-languages table.
type LanguageRow struct {
	Language   string
	Extensions []string
	Formatter  string
	Available  bool
	Path       string
}

// TableFormatter formats run results as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats runner results as a styled table, one row per file.
// Clean files are left out unless includeClean is set.
func (t *TableFormatter) FormatTable(result *runner.Result, displayPath func(string) string, includeClean bool) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := CollectRows(result, displayPath, includeClean)
	if len(rows) == 0 {
		return ""
	}

	headers := []string{"FILE", "LANGUAGE", "OUTCOME", "FIXES", "STATUS"}
	cells := make([][]string, len(rows))
	styles := make([]lipgloss.Style, len(rows))
	for i, row := range rows {
		fixes := ""
		if row.Fixes > 0 {
			fixes = strconv.Itoa(row.Fixes)
		}
		cells[i] = []string{row.File, row.Language, row.Outcome, fixes, row.Status}
		styles[i] = t.getRowStyle(row.Kind)
	}

	var builder strings.Builder
	builder.WriteString(t.render(headers, cells, styles, 0))
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// FormatLanguages renders the supported languages with formatter availability.
func (t *TableFormatter) FormatLanguages(rows []LanguageRow) string {
	headers := []string{"LANGUAGE", "EXTENSIONS", "FORMATTER", "AVAILABLE"}
	cells := make([][]string, len(rows))
	styles := make([]lipgloss.Style, len(rows))
	for i, row := range rows {
		available := "no (fallback)"
		styles[i] = t.styles.TableWarnRow
		if row.Available {
			available = "yes"
			if row.Path != "" {
				available += " " + row.Path
			}
			styles[i] = lipgloss.NewStyle()
		}
		cells[i] = []string{row.Language, strings.Join(row.Extensions, " "), row.Formatter, available}
	}
	return t.render(headers, cells, styles, 1)
}

// CollectRows converts file outcomes to table rows in run order.
func CollectRows(result *runner.Result, displayPath func(string) string, includeClean bool) []TableRow {
	if displayPath == nil {
		displayPath = func(p string) string { return p }
	}

	var rows []TableRow
	for _, file := range result.Files {
		row := TableRow{File: displayPath(file.Path)}

		switch {
		case file.Error != nil:
			row.Status = "error"
			row.Kind = RowErrored
		case file.Result == nil:
			continue
		default:
			res := file.Result
			row.Status = res.Summary()
			if res.Analysis != nil {
				row.Language = string(res.Language)
				if res.Dialect != "" {
					row.Language += "/" + res.Dialect
				}
				row.Outcome = string(res.Outcome)
			}
			switch {
			case res.Skipped:
				row.Kind = RowClean
			case res.Analysis != nil && len(res.Warnings) > 0:
				row.Kind = RowWarned
				row.Status += fmt.Sprintf(" (%d %s)", len(res.Warnings), plural(len(res.Warnings), "warning", "warnings"))
			case res.Modified:
				row.Kind = RowFixed
			}
			if res.Modified && res.Analysis != nil {
				row.Fixes = res.EditCount()
			}
		}

		if row.Kind == RowClean && !includeClean {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

// render lays out headers and cells in padded columns. The column at
// shrink gives up width when the table is wider than the terminal.
func (t *TableFormatter) render(headers []string, cells [][]string, styles []lipgloss.Style, shrink int) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range cells {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	if shrink == 0 {
		widths[0] = max(widths[0], minFileWidth)
	}

	total := t.calculateTotalWidth(widths)
	if total > t.termWidth {
		excess := total - t.termWidth
		widths[shrink] = max(minStatusWidth, widths[shrink]-excess)
		total = t.calculateTotalWidth(widths)
	}

	var builder strings.Builder

	builder.WriteString(t.styles.TableHeader.Render(formatCells(headers, widths)))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")

	for i, row := range cells {
		truncated := make([]string, len(row))
		for j, cell := range row {
			if j == 0 && shrink == 0 {
				truncated[j] = truncateFilePath(cell, widths[j])
			} else {
				truncated[j] = truncateString(cell, widths[j])
			}
		}
		builder.WriteString(styles[i].Render(formatCells(truncated, widths)))
		builder.WriteString("\n")
	}

	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")

	return builder.String()
}

func formatCells(cells []string, widths []int) string {
	var builder strings.Builder
	for i, cell := range cells {
		builder.WriteString(" ")
		if i == len(cells)-1 {
			builder.WriteString(cell)
			continue
		}
		builder.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
		builder.WriteString(strings.Repeat(" ", tablePadding-1))
	}
	return strings.TrimRight(builder.String(), " ")
}

// calculateTotalWidth calculates the total table width from column widths.
func (t *TableFormatter) calculateTotalWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w + tablePadding
	}
	return total
}

// getRowStyle returns the style for a row kind.
func (t *TableFormatter) getRowStyle(kind RowKind) lipgloss.Style {
	switch kind {
	case RowErrored:
		return t.styles.TableErrorRow
	case RowWarned:
		return t.styles.TableWarnRow
	case RowFixed:
		return t.styles.TableFixedRow
	default:
		return lipgloss.NewStyle()
	}
}

// formatLegend formats the legend explaining the table colors.
func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(
			" Legend: fixed = rewritten | warnings = review the file | error = left untouched",
		)
	}

	fixedSample := t.styles.TableFixedRow.Render(" fixed ")
	warnSample := t.styles.TableWarnRow.Render(" warnings ")
	errorSample := t.styles.TableErrorRow.Render(" error ")

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s  %s  %s", fixedSample, warnSample, errorSample),
	)
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d files checked", stats.FilesProcessed))

	if stats.FilesModified > 0 {
		parts = append(parts, t.styles.Fixed.Render(fmt.Sprintf("%d fixed", stats.FilesModified)))
	}

	if stats.FixesTotal > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", stats.FixesTotal, plural(stats.FixesTotal, "fix", "fixes")))
	}

	if stats.WarningsTotal > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d %s",
			stats.WarningsTotal, plural(stats.WarningsTotal, "warning", "warnings"))))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d %s",
			stats.FilesErrored, plural(stats.FilesErrored, "error", "errors"))))
	}

	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
