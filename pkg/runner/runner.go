package runner

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/repair"
)

// Runner orchestrates multi-file repair using a repair.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *repair.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *repair.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Processes files on a bounded worker pool
//   - Aggregates results into a single Result with statistics
//   - Stops queuing files once ctx is cancelled
//
// A failing file is recorded in its FileOutcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	pipelineOpts := repair.PipelineOptionsFromConfig(opts.Config)

	// Each task owns one slot, so results stay in discovery order.
	outcomes := make([]FileOutcome, len(files))
	ran := make([]bool, len(files))

	workers := pool.New().WithMaxGoroutines(jobs)
	for i, path := range files {
		// Go blocks while every worker is busy, so this check runs
		// between files.
		if ctx.Err() != nil {
			break
		}
		workers.Go(func() {
			if ctx.Err() != nil {
				return
			}
			outcomes[i] = r.process(ctx, path, pipelineOpts)
			ran[i] = true
		})
	}
	workers.Wait()

	for i, outcome := range outcomes {
		if ran[i] {
			result.accumulate(outcome)
		}
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldFixesTotal, result.Stats.FixesTotal)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// process runs one file through the pipeline.
func (r *Runner) process(ctx context.Context, path string, opts repair.PipelineOptions) FileOutcome {
	outcome := FileOutcome{Path: path}

	pr, err := r.Pipeline.ProcessFile(ctx, path, opts)
	if err != nil {
		logging.FromContext(ctx).Debug("could not repair file",
			logging.FieldPath, path,
			logging.FieldError, err)
		outcome.Error = err
		return outcome
	}

	outcome.Result = pr
	return outcome
}
