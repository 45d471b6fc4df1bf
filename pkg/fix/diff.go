package fix

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Op marks a diff line as kept, removed, or added.
type Op byte

// Diff line operations, spelled as their unified diff prefixes.
const (
	OpKeep   Op = ' '
	OpDelete Op = '-'
	OpInsert Op = '+'
)

// Line is one line of a hunk.
type Line struct {
	Op   Op
	Text string

	// NoNewline marks the final line of a side that has no trailing newline.
	NoNewline bool
}

// String renders the line with its prefix, followed by the no-newline
// marker when needed. The result has no trailing newline.
func (l Line) String() string {
	s := string(l.Op) + l.Text
	if l.NoNewline {
		s += "\n" + noNewlineMarker
	}
	return s
}

// Hunk is a run of changes with surrounding context.
// Start lines are 1-based; a side with zero lines names the line before it.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Lines              []Line
}

// Header returns the "@@ -a,b +c,d @@" line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%s +%s @@", span(h.OldStart, h.OldLines), span(h.NewStart, h.NewLines))
}

// Diff is a unified, line-based diff of one file.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

const (
	// diffContext is the number of unchanged lines kept around each change.
	diffContext = 3

	noNewlineMarker = `\ No newline at end of file`
)

// GenerateDiff returns the diff from original to modified, or nil when
// the two are byte-identical.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}

	script := editScript(splitLines(original), splitLines(modified))

	d := &Diff{Path: path, Hunks: buildHunks(script)}
	for _, l := range script {
		switch l.Op {
		case OpInsert:
			d.Additions++
		case OpDelete:
			d.Deletions++
		}
	}
	if len(d.Hunks) == 0 {
		return nil
	}
	return d
}

// HasChanges reports whether the diff has at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// Body renders the hunks without file headers.
func (d *Diff) Body() string {
	if !d.HasChanges() {
		return ""
	}
	var b strings.Builder
	for _, h := range d.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')
		for _, l := range h.Lines {
			b.WriteString(l.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String renders the diff with "---" and "+++" headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return "--- a/" + path + "\n+++ b/" + path + "\n" + d.Body()
}

func span(start, count int) string {
	if count == 1 {
		return fmt.Sprint(start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// splitLines cuts content into lines. Only the last line can lack a newline.
func splitLines(content []byte) []Line {
	if len(content) == 0 {
		return nil
	}
	parts := strings.SplitAfter(string(content), "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	lines := make([]Line, len(parts))
	for i, p := range parts {
		text, hadNewline := strings.CutSuffix(p, "\n")
		lines[i] = Line{Text: text, NoNewline: !hadNewline}
	}
	return lines
}

// editScript returns every line of both sides tagged with its operation,
// deletions before insertions within each replaced run. Lines compare with
// their newline, so losing or gaining the final newline is a change.
func editScript(a, b []Line) []Line {
	m := difflib.NewMatcher(lineKeys(a), lineKeys(b))

	script := make([]Line, 0, len(a)+len(b))
	tag := func(lines []Line, op Op) {
		for _, l := range lines {
			l.Op = op
			script = append(script, l)
		}
	}
	for _, oc := range m.GetOpCodes() {
		switch oc.Tag {
		case 'e':
			tag(a[oc.I1:oc.I2], OpKeep)
		case 'd':
			tag(a[oc.I1:oc.I2], OpDelete)
		case 'i':
			tag(b[oc.J1:oc.J2], OpInsert)
		case 'r':
			tag(a[oc.I1:oc.I2], OpDelete)
			tag(b[oc.J1:oc.J2], OpInsert)
		}
	}
	return script
}

func lineKeys(lines []Line) []string {
	keys := make([]string, len(lines))
	for i, l := range lines {
		keys[i] = l.Text
		if !l.NoNewline {
			keys[i] += "\n"
		}
	}
	return keys
}

// buildHunks groups an edit script into hunks. Changes separated by no
// more than twice the context length share a hunk.
func buildHunks(script []Line) []Hunk {
	type position struct{ old, new int }
	at := make([]position, len(script)+1)
	oldLine, newLine := 1, 1
	for i, l := range script {
		at[i] = position{oldLine, newLine}
		if l.Op != OpInsert {
			oldLine++
		}
		if l.Op != OpDelete {
			newLine++
		}
	}
	at[len(script)] = position{oldLine, newLine}

	var hunks []Hunk
	for i := 0; i < len(script); {
		if script[i].Op == OpKeep {
			i++
			continue
		}

		end := i
		for end < len(script) {
			if script[end].Op != OpKeep {
				end++
				continue
			}
			run := end
			for run < len(script) && script[run].Op == OpKeep {
				run++
			}
			if run == len(script) || run-end > 2*diffContext {
				break
			}
			end = run
		}

		start := max(i-diffContext, 0)
		stop := min(end+diffContext, len(script))

		h := Hunk{
			OldStart: at[start].old,
			NewStart: at[start].new,
			Lines:    append([]Line(nil), script[start:stop]...),
		}
		for _, l := range h.Lines {
			if l.Op != OpInsert {
				h.OldLines++
			}
			if l.Op != OpDelete {
				h.NewLines++
			}
		}
		if h.OldLines == 0 {
			h.OldStart--
		}
		if h.NewLines == 0 {
			h.NewStart--
		}
		hunks = append(hunks, h)
		i = stop
	}
	return hunks
}
