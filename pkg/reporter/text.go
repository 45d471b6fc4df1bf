package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gojanitor/internal/ui/pretty"
	"github.com/yaklabco/gojanitor/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		switch {
		case file.Error != nil:
			fmt.Fprint(r.bw, r.styles.FormatFileError(path, file.Error))
			continue
		case r.opts.Verbose:
			fmt.Fprint(r.bw, r.styles.FormatOutcome(path, file))
		}

		if file.Result == nil || file.Result.Analysis == nil {
			continue
		}
		for _, msg := range file.Result.Warnings {
			fmt.Fprint(r.bw, r.styles.FormatWarning(path, msg))
		}
	}

	for _, err := range result.Errors {
		fmt.Fprintf(r.bw, "%s\n", r.styles.Error.Render("error: "+err.Error()))
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		r.writeModified(result)
	}

	return result.Stats.FilesModified, nil
}

// writeModified lists the modified files after the summary.
func (r *TextReporter) writeModified(result *runner.Result) {
	modified := result.ModifiedFiles()
	if len(modified) == 0 {
		return
	}

	title := "Modified files:"
	if r.opts.DryRun {
		title = "Files that would be modified:"
	}

	fmt.Fprintln(r.bw)
	fmt.Fprintln(r.bw, r.styles.Bold.Render(title))
	for _, path := range modified {
		fmt.Fprintf(r.bw, "  - %s\n", r.styles.FilePath.Render(r.opts.displayPath(path)))
	}
}
