package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/yaklabco/gojanitor/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	DryRun  bool             `json:"dryRun"`
	Files   []JSONFileResult `json:"files"`
	Errors  []string         `json:"errors,omitempty"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path       string   `json:"path"`
	Language   string   `json:"language,omitempty"`
	Dialect    string   `json:"dialect,omitempty"`
	Formatter  string   `json:"formatter,omitempty"`
	Outcome    string   `json:"outcome,omitempty"`
	Modified   bool     `json:"modified"`
	Written    bool     `json:"written"`
	Backup     bool     `json:"backup,omitempty"`
	Fixes      int      `json:"fixes"`
	Warnings   []string `json:"warnings,omitempty"`
	Skipped    bool     `json:"skipped,omitempty"`
	SkipReason string   `json:"skipReason,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesProcessed  int            `json:"filesProcessed"`
	FilesModified   int            `json:"filesModified"`
	FilesWritten    int            `json:"filesWritten"`
	FilesSkipped    int            `json:"filesSkipped"`
	FilesErrored    int            `json:"filesErrored"`
	FilesFallback   int            `json:"filesFallback"`
	TotalFixes      int            `json:"totalFixes"`
	TotalWarnings   int            `json:"totalWarnings"`
	FilesByLanguage map[string]int `json:"filesByLanguage"`
	ModifiedFiles   []string       `json:"modifiedFiles"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesModified, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		DryRun:  r.opts.DryRun,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			FilesByLanguage: make(map[string]int),
			ModifiedFiles:   make([]string, 0),
		},
	}

	if result == nil {
		return output
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}

	for _, file := range result.Files {
		output.Files = append(output.Files, r.fileResult(file))
	}

	for _, err := range result.Errors {
		output.Errors = append(output.Errors, err.Error())
	}

	stats := result.Stats
	output.Summary.FilesProcessed = stats.FilesProcessed
	output.Summary.FilesModified = stats.FilesModified
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.FilesSkipped = stats.FilesSkipped
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.FilesFallback = stats.FilesFallback
	output.Summary.TotalFixes = stats.FixesTotal
	output.Summary.TotalWarnings = stats.WarningsTotal
	maps.Copy(output.Summary.FilesByLanguage, stats.FilesByLanguage)
	for _, path := range result.ModifiedFiles() {
		output.Summary.ModifiedFiles = append(output.Summary.ModifiedFiles, r.opts.displayPath(path))
	}

	return output
}

func (r *JSONReporter) fileResult(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{Path: r.opts.displayPath(file.Path)}

	if file.Error != nil {
		out.Error = file.Error.Error()
		return out
	}

	res := file.Result
	if res == nil {
		return out
	}

	out.Modified = res.Modified && !res.Skipped
	out.Written = res.Written
	out.Backup = res.BackupCreated
	out.Skipped = res.Skipped
	out.SkipReason = res.SkipReason

	if res.Analysis != nil {
		out.Language = string(res.Language)
		out.Dialect = res.Dialect
		out.Formatter = res.Formatter
		out.Outcome = string(res.Outcome)
		out.Warnings = res.Warnings
		if out.Modified {
			out.Fixes = res.EditCount()
		}
	}

	return out
}
