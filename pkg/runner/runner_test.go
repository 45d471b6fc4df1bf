package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/yaklabco/gojanitor/pkg/config"
	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/repair"
	"github.com/yaklabco/gojanitor/pkg/runner"
)

// formatterFunc adapts a function to repair.Formatter.
type formatterFunc func(req formatter.Request) (*formatter.Result, error)

func (f formatterFunc) Format(_ context.Context, req formatter.Request) (*formatter.Result, error) {
	return f(req)
}

func newRunner(f repair.Formatter) *runner.Runner {
	return runner.New(repair.NewPipeline(repair.NewRegistry(f, repair.Options{})))
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

//nolint:gochecknoglobals // Shared fixture.
var mixedTree = map[string]string{
	"src/main.c":      "int x = 1\n",
	"src/clean.c":     "int y = 2;\n",
	"src/App.java":    "class App {\nint n = 0\n",
	"scripts/tool.py": "if ready\nrun()\n",
	"web/app.js":      "var a = 1;\n",
	"README.txt":      "not code\n",
}

func TestNew(t *testing.T) {
	t.Parallel()

	pipeline := repair.NewPipeline(repair.NewRegistry(nil, repair.Options{}))
	fileRunner := runner.New(pipeline)

	if fileRunner.Pipeline != pipeline {
		t.Error("Pipeline not set correctly")
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"notes.txt": "hello\n"})

	result, err := newRunner(nil).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 0 || len(result.Files) != 0 {
		t.Errorf("expected no files, got %+v", result.Stats)
	}
	if result.HasChanges() || result.HasErrors() {
		t.Error("empty run must report neither changes nor errors")
	}
}

func TestRunner_Run_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"main.c": "x = 5\n"})
	path := filepath.Join(dir, "main.c")

	opts := runner.Options{
		Paths:      []string{"main.c"},
		WorkingDir: dir,
		Config:     config.NewConfig(),
	}

	result, err := newRunner(nil).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Files) != 1 || result.Files[0].Path != path {
		t.Fatalf("unexpected files: %+v", result.Files)
	}
	if got := readString(t, path); got != "x = 5;\n" {
		t.Errorf("file content = %q", got)
	}

	stats := result.Stats
	if stats.FilesProcessed != 1 || stats.FilesModified != 1 || stats.FilesWritten != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.FixesTotal == 0 || stats.FixesTotal != result.Files[0].Result.EditCount() {
		t.Errorf("FixesTotal = %d, want the file's edit count", stats.FixesTotal)
	}
	if stats.FilesFallback != 1 {
		t.Errorf("FilesFallback = %d, want 1", stats.FilesFallback)
	}
	if !result.Files[0].Result.BackupCreated {
		t.Error("expected a sidecar backup")
	}
}

func TestRunner_Run_MixedLanguages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, mixedTree)

	opts := runner.Options{
		WorkingDir: dir,
		Jobs:       4,
		Config:     config.NewConfig(),
	}

	result, err := newRunner(nil).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := result.Stats
	if stats.FilesDiscovered != 5 || stats.FilesProcessed != 5 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.FilesModified != 4 {
		t.Errorf("FilesModified = %d, want 4", stats.FilesModified)
	}

	wantLangs := map[string]int{"c": 2, "java": 1, "python": 1, "javascript": 1}
	for lang, n := range wantLangs {
		if stats.FilesByLanguage[lang] != n {
			t.Errorf("FilesByLanguage[%s] = %d, want %d", lang, stats.FilesByLanguage[lang], n)
		}
	}

	modified := result.ModifiedFiles()
	if !slices.IsSorted(modified) {
		t.Errorf("modified files not in order: %v", modified)
	}
	if slices.Contains(modified, filepath.Join(dir, "src/clean.c")) {
		t.Error("clean.c should not be modified")
	}

	warnings := result.Warnings()
	if len(warnings) == 0 || warnings[0].Path != filepath.Join(dir, "src/App.java") {
		t.Errorf("expected the unclosed class warning, got %+v", warnings)
	}
	if stats.WarningsTotal != len(warnings) {
		t.Errorf("WarningsTotal = %d, want %d", stats.WarningsTotal, len(warnings))
	}

	if got := readString(t, filepath.Join(dir, "scripts/tool.py")); got != "if ready:\n    run()\n" {
		t.Errorf("tool.py = %q", got)
	}
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, mixedTree)

	cfg := config.NewConfig()
	cfg.DryRun = true

	result, err := newRunner(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesModified != 4 || result.Stats.FilesWritten != 0 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
	if !result.HasChanges() {
		t.Error("dry run should report pending changes")
	}

	for name, content := range mixedTree {
		if got := readString(t, filepath.Join(dir, name)); got != content {
			t.Errorf("%s was written during dry run: %q", name, got)
		}
	}

	for _, f := range result.Files {
		if f.Result.Modified && f.Result.Diff == nil {
			t.Errorf("%s: missing diff", f.Path)
		}
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for i := range 20 {
		files[fmt.Sprintf("pkg%d/file%02d.c", i%3, i)] = fmt.Sprintf("int v%d = %d\n", i, i)
	}
	writeTree(t, dir, files)

	cfg := config.NewConfig()
	cfg.DryRun = true

	run := func(jobs int) *runner.Result {
		result, err := newRunner(nil).Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Jobs:       jobs,
			Config:     cfg,
		})
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}
		return result
	}

	serial := run(1)
	parallel := run(8)

	if serial.Stats.FixesTotal != parallel.Stats.FixesTotal ||
		serial.Stats.FilesModified != parallel.Stats.FilesModified {
		t.Errorf("stats differ: serial %+v, parallel %+v", serial.Stats, parallel.Stats)
	}
	if len(serial.Files) != len(parallel.Files) {
		t.Fatalf("file counts differ: %d vs %d", len(serial.Files), len(parallel.Files))
	}
	for i := range serial.Files {
		if serial.Files[i].Path != parallel.Files[i].Path {
			t.Errorf("file %d differs: %s vs %s", i, serial.Files[i].Path, parallel.Files[i].Path)
		}
		if string(serial.Files[i].Result.ModifiedContent) != string(parallel.Files[i].Result.ModifiedContent) {
			t.Errorf("content of %s differs", serial.Files[i].Path)
		}
	}
}

func TestRunner_Run_FailureDoesNotStopBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.py": "if x\ny = 1\n",
		"b.c":  "x = 5\n",
	})

	brokenBlack := formatterFunc(func(req formatter.Request) (*formatter.Result, error) {
		if req.Tool == formatter.Black {
			return nil, fmt.Errorf("%w: %s", formatter.ErrReadBack, req.Tool)
		}
		return nil, formatter.ErrUnavailable
	})

	result, err := newRunner(brokenBlack).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Config:     config.NewConfig(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasErrors() || result.Stats.FilesErrored != 1 {
		t.Errorf("expected one errored file, got %+v", result.Stats)
	}
	if !errors.Is(result.Files[0].Error, repair.ErrFormatFailure) {
		t.Errorf("a.py error = %v", result.Files[0].Error)
	}
	if got := readString(t, filepath.Join(dir, "a.py")); got != "if x\ny = 1\n" {
		t.Errorf("failed file was modified: %q", got)
	}
	if got := readString(t, filepath.Join(dir, "b.c")); got != "x = 5;\n" {
		t.Errorf("b.c = %q", got)
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, mixedTree)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(nil).Run(ctx, runner.Options{WorkingDir: dir})
	if err == nil {
		t.Fatal("expected an error for a cancelled run")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	for name, content := range mixedTree {
		if got := readString(t, filepath.Join(dir, name)); got != content {
			t.Errorf("%s was written after cancellation", name)
		}
	}
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	if result.HasChanges() || result.HasErrors() {
		t.Error("nil result must report nothing")
	}
	if result.ModifiedFiles() != nil || result.Warnings() != nil {
		t.Error("nil result must have no files or warnings")
	}
}
