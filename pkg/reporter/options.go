package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Verbose prints one line per processed file, clean ones included.
	Verbose bool

	// DryRun words the output as pending changes rather than applied ones.
	DryRun bool

	// Compact uses compact/minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, the process working directory is used.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}

// displayPath makes path relative to the working directory. Paths that
// would need more than two parent traversals fall back to the base name.
func (o Options) displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	base := o.WorkingDir
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Base(path)
		}
		base = cwd
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.Base(path)
	}
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
