package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/gojanitor/internal/ui/pretty"
	"github.com/yaklabco/gojanitor/pkg/fix"
	"github.com/yaklabco/gojanitor/pkg/runner"
)

// DiffReporter prints pending changes as git-style unified diffs.
// Diffs are only recorded for dry runs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprint(r.out, r.styles.FormatFileError(r.opts.displayPath(file.Path), file.Error))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		d := file.Result.Diff
		files++
		additions += d.Additions
		deletions += d.Deletions
		r.writeDiff(r.opts.displayPath(d.Path), d)
	}

	if files > 0 && r.opts.ShowSummary {
		fmt.Fprintln(r.out, r.shortstat(files, additions, deletions))
	}
	return files, nil
}

func (r *DiffReporter) writeDiff(path string, d *fix.Diff) {
	s := r.styles
	fmt.Fprintln(r.out, s.DiffHeader.Render("diff --git a/"+path+" b/"+path))
	fmt.Fprintln(r.out, s.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.out, s.DiffAdd.Render("+++ b/"+path))

	for _, h := range d.Hunks {
		fmt.Fprintln(r.out, s.DiffHunk.Render(h.Header()))
		for _, l := range h.Lines {
			text := string(l.Op) + l.Text
			switch l.Op {
			case fix.OpInsert:
				text = s.DiffAdd.Render(text)
			case fix.OpDelete:
				text = s.DiffRemove.Render(text)
			default:
				text = s.DiffContext.Render(text)
			}
			fmt.Fprintln(r.out, text)
			if l.NoNewline {
				fmt.Fprintln(r.out, s.Dim.Render(`\ No newline at end of file`))
			}
		}
	}
	fmt.Fprintln(r.out)
}

// shortstat mirrors git's "N files changed, X insertions(+), Y deletions(-)".
func (r *DiffReporter) shortstat(files, additions, deletions int) string {
	parts := []string{fmt.Sprintf("%d %s changed", files, pluralize(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, pluralize(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, pluralize(deletions, "deletion", "deletions"))))
	}
	return strings.Join(parts, ", ")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
