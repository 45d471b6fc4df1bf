package repair

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/config"
	"github.com/yaklabco/gojanitor/pkg/fix"
	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/fsutil"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrFormatFailure indicates an external formatter ran but left
	// nothing usable.
	ErrFormatFailure = errors.New("format failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// SkipUnsupported is the skip reason for files without an engine.
const SkipUnsupported = "unsupported file type"

// PipelineResult contains the result of processing a single file through the safety pipeline.
type PipelineResult struct {
	// Analysis is the engine's result. Nil when the file was skipped
	// before an engine ran.
	*Analysis

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Modified is true if the repaired content differs from the original.
	Modified bool

	// ModifiedContent is the new content (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff for dry-run mode (nil if not in dry-run).
	Diff *fix.Diff

	// Skipped is true if the file was skipped (unsupported, or changed
	// by someone else while it was being repaired).
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// Unstable is true when verification found that a second run would
	// still change the output.
	Unstable bool
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	if pr.Skipped {
		return "skipped: " + pr.SkipReason
	}
	if pr.Written {
		if pr.BackupCreated {
			return "fixed (backup created)"
		}
		return "fixed"
	}
	if pr.Modified {
		return "changes pending"
	}
	return "ok"
}

// Fallback reports whether the built-in fallback formatter produced the
// final text.
func (pr *PipelineResult) Fallback() bool {
	return pr.Analysis != nil && pr.Outcome == OutcomeFallback
}

// PipelineOptions controls safety pipeline behavior.
type PipelineOptions struct {
	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// Verify re-runs the engine on its own output and records a warning
	// when the result is not stable.
	Verify bool
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		DryRun: false,
		Backup: fsutil.DefaultBackupConfig(),
		Verify: false,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Registry selects the engine for each path.
	Registry *Registry
}

// NewPipeline creates a new safety pipeline with the given registry.
func NewPipeline(registry *Registry) *Pipeline {
	return &Pipeline{Registry: registry}
}

// NewPipelineFromConfig builds the formatter adapter and the engines
// described by cfg.
func NewPipelineFromConfig(cfg *config.Config) *Pipeline {
	return NewPipeline(NewRegistry(formatter.FromConfig(cfg), OptionsFromConfig(cfg)))
}

// ProcessFile runs the full safety pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Select the engine; unsupported files are skipped.
//  3. Repair and format in memory.
//  4. Optionally re-run the engine to verify the result is stable.
//  5. Generate diff (if dry-run mode).
//  6. Check for concurrent modifications.
//  7. Create backup (if enabled).
//  8. Write the modified content atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	result := &PipelineResult{
		Path: path,
	}

	// Step 1: Read and hash the original file.
	originalContent, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}
	result.OriginalInfo = info

	// Steps 2-5 run in memory.
	if err := p.repair(ctx, path, originalContent, opts, result); err != nil {
		return nil, err
	}
	if !result.Modified || result.Skipped || opts.DryRun {
		return result, nil
	}

	// Step 6: Check for concurrent modifications before writing.
	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	// Step 7: Create backup if enabled.
	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	// Step 8: Write the modified content atomically.
	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode.Perm()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	logging.FromContext(ctx).Debug("wrote repaired file",
		logging.FieldPath, path,
		logging.FieldEdits, result.EditCount())

	return result, nil
}

// ProcessContent processes in-memory content without file I/O.
// It backs --stdin mode and is useful when content is already loaded.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	originalContent []byte,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{
		Path: path,
	}
	if err := p.repair(ctx, path, originalContent, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) repair(
	ctx context.Context,
	path string,
	originalContent []byte,
	opts PipelineOptions,
	result *PipelineResult,
) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	engine, err := p.Registry.ForPath(path)
	if err != nil {
		if errors.Is(err, ErrNoEngine) {
			result.Skipped = true
			result.SkipReason = SkipUnsupported
			return nil
		}
		return err
	}
	ctx = logging.WithFields(ctx, logging.FieldLanguage, engine.Language())

	an, err := engine.Analyze(ctx, Source{Path: path, Content: originalContent})
	if err != nil {
		return categorizeError(err)
	}
	result.Analysis = an

	content, err := an.Apply()
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	logger.Debug("analyzed file",
		logging.FieldPath, path,
		logging.FieldOutcome, an.Outcome,
		logging.FieldEdits, an.EditCount())

	if !an.Changed() {
		return nil
	}
	result.Modified = true
	result.ModifiedContent = content

	if opts.Verify {
		if err := p.verify(ctx, engine, path, content, result); err != nil {
			return err
		}
	}

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, originalContent, content)
	}

	return nil
}

// verify runs the engine a second time over its own output.
func (p *Pipeline) verify(ctx context.Context, engine Engine, path string, content []byte, result *PipelineResult) error {
	second, err := engine.Analyze(ctx, Source{Path: path, Content: content})
	if err != nil {
		return fmt.Errorf("verify: %w", categorizeError(err))
	}
	if n := second.EditCount(); n > 0 {
		result.Unstable = true
		result.warn("output is not stable: a second run makes %d more edit(s)", n)
		logging.FromContext(ctx).Warn("repair is not idempotent",
			logging.FieldPath, path,
			logging.FieldEdits, n)
	}
	return nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
// It uses errors.Is for robust error detection rather than string matching.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	// Check for file not found errors.
	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	// Check for permission errors.
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	// Formatter ran but its output could not be used.
	if errors.Is(err, formatter.ErrReadBack) {
		return fmt.Errorf("%w: %w", ErrFormatFailure, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrFormatFailure) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	return PipelineOptions{
		DryRun: cfg.DryRun,
		Backup: BackupConfigFromConfig(cfg),
		Verify: cfg.Verify,
	}
}

// OptionsFromConfig converts the per-language settings in cfg. Keys that
// do not name a language are ignored here and reported by validation.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{IndentWidth: make(map[Language]int)}
	if cfg == nil {
		return opts
	}
	for _, lang := range Languages() {
		if w, ok := cfg.IndentWidth[string(lang)]; ok {
			opts.IndentWidth[lang] = w
		}
	}
	return opts
}
