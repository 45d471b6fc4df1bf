package runner

import "github.com/yaklabco/gojanitor/pkg/repair"

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// May be nil if the file encountered an error during processing.
	Result *repair.PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Warning is one non-fatal problem attached to a file.
type Warning struct {
	Path    string
	Message string
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files an engine ran over.
	FilesProcessed int

	// FilesModified is the number of files whose content changed, written
	// or (in dry-run mode) pending.
	FilesModified int

	// FilesWritten is the number of files rewritten on disk.
	FilesWritten int

	// FilesSkipped is the number of files skipped (unsupported, or changed
	// concurrently).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesFallback is the number of files formatted by a built-in
	// fallback instead of the external tool.
	FilesFallback int

	// FixesTotal sums the edit counts of modified files.
	FixesTotal int

	// WarningsTotal counts warnings across all files.
	WarningsTotal int

	// FilesByLanguage counts processed files per language family.
	FilesByLanguage map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasChanges reports whether any file was, or in dry-run mode would be,
// modified.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesModified > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// ModifiedFiles returns the paths of modified files in run order.
func (r *Result) ModifiedFiles() []string {
	if r == nil {
		return nil
	}
	var paths []string
	for _, f := range r.Files {
		if f.Result != nil && f.Result.Modified && !f.Result.Skipped {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// Warnings flattens the per-file warnings in run order.
func (r *Result) Warnings() []Warning {
	if r == nil {
		return nil
	}
	var out []Warning
	for _, f := range r.Files {
		if f.Result == nil || f.Result.Analysis == nil {
			continue
		}
		for _, msg := range f.Result.Warnings {
			out = append(out, Warning{Path: f.Path, Message: msg})
		}
	}
	return out
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		FilesByLanguage: make(map[string]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	res := outcome.Result
	if res == nil {
		return
	}

	if res.Skipped {
		r.Stats.FilesSkipped++
	}

	if res.Analysis == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.FilesByLanguage[string(res.Language)]++
	r.Stats.WarningsTotal += len(res.Warnings)

	if res.Fallback() {
		r.Stats.FilesFallback++
	}

	if res.Modified && !res.Skipped {
		r.Stats.FilesModified++
		r.Stats.FixesTotal += res.EditCount()
	}

	if res.Written {
		r.Stats.FilesWritten++
	}
}
