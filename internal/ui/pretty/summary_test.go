package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gojanitor/internal/ui/pretty"
	"github.com/yaklabco/gojanitor/pkg/runner"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed: 10,
		FilesModified:  3,
		FixesTotal:     15,
		FilesFallback:  4,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files processed:     10")
	assert.Contains(t, result, "Files modified:      3")
	assert.Contains(t, result, "Total fixes applied: 15")
	assert.Contains(t, result, "Fallback formatted:  4")
	assert.Contains(t, result, "Fixed 3 files")
	assert.NotContains(t, result, "Files with errors:")
}

func TestFormatSummary_NoIssues(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSummary(runner.Stats{FilesProcessed: 5})

	assert.Contains(t, result, "No issues found! Your code looks clean.")
	assert.NotContains(t, result, "Warnings:")
}

func TestFormatSummary_WithErrors(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed: 10,
		FilesModified:  2,
		FilesErrored:   1,
		WarningsTotal:  3,
		FilesSkipped:   1,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Files with errors:   1")
	assert.Contains(t, result, "Warnings:            3")
	assert.Contains(t, result, "Files skipped:       1")
	assert.Contains(t, result, "Completed with errors")
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "no issues",
			stats: runner.Stats{FilesProcessed: 5},
			want:  "No issues found (5 files checked)\n",
		},
		{
			name:  "single file",
			stats: runner.Stats{FilesProcessed: 1},
			want:  "No issues found (1 file checked)\n",
		},
		{
			name:  "fixes",
			stats: runner.Stats{FilesProcessed: 12, FilesModified: 3, FixesTotal: 7},
			want:  "7 fixes in 3 of 12 files\n",
		},
		{
			name:  "one fix with warning and error",
			stats: runner.Stats{FilesProcessed: 4, FilesModified: 1, FixesTotal: 1, WarningsTotal: 1, FilesErrored: 2},
			want:  "1 fix in 1 of 4 files, 1 warning, 2 errors\n",
		},
		{
			name:  "warnings only",
			stats: runner.Stats{FilesProcessed: 2, WarningsTotal: 2},
			want:  "2 files checked, 2 warnings\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}
