// Package pretty renders janitor results for terminals with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds one renderer per role in the CLI output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Per-file outcome lines.
	FilePath lipgloss.Style
	Language lipgloss.Style
	Message  lipgloss.Style
	Fixed    lipgloss.Style
	Fallback lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableFixedRow  lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// ANSI 16-color indexes.
const (
	colorNone   = ""
	colorGrey   = "8"
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorBlue   = "12"
	colorCyan   = "14"
	colorWhite  = "7"
)

type attr uint8

const (
	bold attr = 1 << iota
	italic
)

// painter builds styles; a disabled painter returns plain styles only.
type painter bool

func (p painter) style(color string, attrs attr) lipgloss.Style {
	s := lipgloss.NewStyle()
	if !p {
		return s
	}
	if color != colorNone {
		s = s.Foreground(lipgloss.Color(color))
	}
	if attrs&bold != 0 {
		s = s.Bold(true)
	}
	if attrs&italic != 0 {
		s = s.Italic(true)
	}
	return s
}

// NewStyles returns the output styles, plain when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	p := painter(colorEnabled)
	return &Styles{
		Error:   p.style(colorRed, bold),
		Warning: p.style(colorYellow, bold),
		Info:    p.style(colorBlue, bold),

		FilePath: p.style(colorNone, bold),
		Language: p.style(colorGrey, 0),
		Message:  p.style(colorNone, 0),
		Fixed:    p.style(colorGreen, 0),
		Fallback: p.style(colorGrey, italic),

		DiffHeader:  p.style(colorNone, bold),
		DiffHunk:    p.style(colorCyan, 0),
		DiffAdd:     p.style(colorGreen, 0),
		DiffRemove:  p.style(colorRed, 0),
		DiffContext: p.style(colorGrey, 0),

		SummaryTitle: p.style(colorNone, bold),
		SummaryValue: p.style(colorNone, 0),
		Success:      p.style(colorGreen, bold),
		Failure:      p.style(colorRed, bold),

		TableHeader:    p.style(colorWhite, bold),
		TableErrorRow:  p.style(colorRed, 0),
		TableWarnRow:   p.style(colorYellow, 0),
		TableFixedRow:  p.style(colorGreen, 0),
		TableLegend:    p.style(colorGrey, italic),
		TableSeparator: p.style(colorGrey, 0),

		Dim:  p.style(colorGrey, 0),
		Bold: p.style(colorNone, bold),
	}
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are absolute; anything else means auto, which requires a terminal and
// an empty NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
