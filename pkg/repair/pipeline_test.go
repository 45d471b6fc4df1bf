package repair_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojanitor/pkg/config"
	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/fsutil"
	"github.com/yaklabco/gojanitor/pkg/repair"
)

// formatterFunc adapts a function to repair.Formatter.
type formatterFunc func(req formatter.Request) (*formatter.Result, error)

func (f formatterFunc) Format(_ context.Context, req formatter.Request) (*formatter.Result, error) {
	return f(req)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newPipeline() *repair.Pipeline {
	return repair.NewPipeline(repair.NewRegistry(nil, repair.Options{}))
}

func TestPipeline_ProcessFile_Unchanged(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "tool.py", "x = 5\n")

	result, err := newPipeline().ProcessFile(context.Background(), path, repair.DefaultPipelineOptions())
	require.NoError(t, err)

	assert.Equal(t, path, result.Path)
	assert.NotNil(t, result.OriginalInfo)
	assert.False(t, result.Modified)
	assert.False(t, result.Written)
	assert.Nil(t, result.ModifiedContent)
	assert.Equal(t, "ok", result.Summary())
	assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))
}

func TestPipeline_ProcessFile_Fix(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", "x = 5\n")

	result, err := newPipeline().ProcessFile(context.Background(), path, repair.DefaultPipelineOptions())
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.True(t, result.Written)
	assert.True(t, result.BackupCreated)
	assert.True(t, result.Fallback())
	assert.Equal(t, "fixed (backup created)", result.Summary())
	assert.Equal(t, "x = 5;\n", readFile(t, path))
	assert.Equal(t, "x = 5\n", readFile(t, fsutil.BackupPath(path, fsutil.BackupModeSidecar)))
}

func TestPipeline_ProcessFile_NoBackup(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", "x = 5\n")
	opts := repair.DefaultPipelineOptions()
	opts.Backup.Enabled = false

	result, err := newPipeline().ProcessFile(context.Background(), path, opts)
	require.NoError(t, err)

	assert.Equal(t, "fixed", result.Summary())
	assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))
}

func TestPipeline_ProcessFile_DryRun(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", "x = 5\n")
	opts := repair.DefaultPipelineOptions()
	opts.DryRun = true

	result, err := newPipeline().ProcessFile(context.Background(), path, opts)
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.False(t, result.Written)
	assert.Equal(t, "changes pending", result.Summary())
	require.NotNil(t, result.Diff)
	assert.True(t, result.Diff.HasChanges())
	assert.Contains(t, result.Diff.String(), "+x = 5;")
	assert.Equal(t, "x = 5\n", readFile(t, path), "dry run must not write")
}

func TestPipeline_ProcessFile_Unsupported(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "notes.txt", "hello\n")

	result, err := newPipeline().ProcessFile(context.Background(), path, repair.DefaultPipelineOptions())
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Equal(t, repair.SkipUnsupported, result.SkipReason)
	assert.Nil(t, result.Analysis)
	assert.False(t, result.Fallback())
	assert.Equal(t, "skipped: unsupported file type", result.Summary())
}

func TestPipeline_ProcessFile_Missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gone.c")

	_, err := newPipeline().ProcessFile(context.Background(), path, repair.DefaultPipelineOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, repair.ErrFileNotFound))
	assert.True(t, repair.IsPipelineError(err))
}

func TestPipeline_ProcessFile_ReadBackFailure(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", "x = 5\n")
	broken := formatterFunc(func(req formatter.Request) (*formatter.Result, error) {
		return nil, fmt.Errorf("%w: %s: gone", formatter.ErrReadBack, req.Tool)
	})
	pipeline := repair.NewPipeline(repair.NewRegistry(broken, repair.Options{}))

	_, err := pipeline.ProcessFile(context.Background(), path, repair.DefaultPipelineOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, repair.ErrFormatFailure))
	assert.True(t, errors.Is(err, formatter.ErrReadBack))
	assert.Equal(t, "x = 5\n", readFile(t, path), "failed file must stay untouched")
}

func TestPipeline_ProcessFile_Cancelled(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", "x = 5\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline().ProcessFile(ctx, path, repair.DefaultPipelineOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPipeline_Verify(t *testing.T) {
	t.Parallel()

	stamping := formatterFunc(func(req formatter.Request) (*formatter.Result, error) {
		return &formatter.Result{Tool: req.Tool, Content: append(req.Content, "// stamped\n"...)}, nil
	})
	pipeline := repair.NewPipeline(repair.NewRegistry(stamping, repair.Options{}))
	opts := repair.DefaultPipelineOptions()
	opts.Verify = true

	result, err := pipeline.ProcessContent(context.Background(), "main.c", []byte("x = 5\n"), opts)
	require.NoError(t, err)
	assert.True(t, result.Unstable)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "not stable")

	stable, err := newPipeline().ProcessContent(context.Background(), "main.c", []byte("x = 5\n"), opts)
	require.NoError(t, err)
	assert.False(t, stable.Unstable)
	assert.Empty(t, stable.Warnings)
}

func TestPipeline_ProcessContent(t *testing.T) {
	t.Parallel()

	opts := repair.DefaultPipelineOptions()
	opts.DryRun = true

	result, err := newPipeline().ProcessContent(context.Background(), "app.js", []byte("var a = 1\n"), opts)
	require.NoError(t, err)
	assert.True(t, result.Modified)
	assert.Equal(t, "const a = 1\n", string(result.ModifiedContent))
	assert.NotNil(t, result.Diff)
	assert.False(t, result.Written)
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, repair.DefaultPipelineOptions(), repair.PipelineOptionsFromConfig(nil))

	cfg := config.NewConfig()
	cfg.DryRun = true
	cfg.Verify = true
	cfg.NoBackups = true

	opts := repair.PipelineOptionsFromConfig(cfg)
	assert.True(t, opts.DryRun)
	assert.True(t, opts.Verify)
	assert.False(t, opts.Backup.Enabled)
	assert.Equal(t, fsutil.BackupModeSidecar, opts.Backup.Mode)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.IndentWidth["python"] = 2
	cfg.IndentWidth["cobol"] = 7

	opts := repair.OptionsFromConfig(cfg)
	assert.Equal(t, map[repair.Language]int{repair.LanguagePython: 2}, opts.IndentWidth)

	reg := repair.NewRegistry(nil, opts)
	an, err := reg.FixBuffer(context.Background(), "app.py", []byte("if x\ny = 1\n"))
	require.NoError(t, err)
	out, err := an.Apply()
	require.NoError(t, err)
	assert.Equal(t, "if x:\n  y = 1\n", string(out))
}
