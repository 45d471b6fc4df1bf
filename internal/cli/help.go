package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gojanitor/internal/ui/pretty"
	"github.com/yaklabco/gojanitor/pkg/repair"
)

// helpPalette holds the styles used when rendering command help.
type helpPalette struct {
	command    lipgloss.Style
	heading    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	dim        lipgloss.Style
	language   lipgloss.Style
}

func newHelpPalette(colorEnabled bool) helpPalette {
	styles := pretty.NewStyles(colorEnabled)
	palette := helpPalette{
		command:    styles.Bold,
		heading:    styles.SummaryTitle,
		subcommand: styles.Fixed,
		flag:       styles.Info,
		dim:        styles.Dim,
		language:   styles.Language,
	}
	if colorEnabled {
		palette.command = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
		palette.flag = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	}
	return palette
}

// HelpFormatter renders Cobra help and usage text with the CLI palette.
// The root command's help also lists the supported language families.
type HelpFormatter struct {
	palette helpPalette
	usage   *template.Template
	help    *template.Template
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	h := &HelpFormatter{palette: newHelpPalette(pretty.IsColorEnabled(colorMode, writer))}

	funcs := template.FuncMap{
		"command":    h.palette.command.Render,
		"heading":    h.palette.heading.Render,
		"subcommand": h.palette.subcommand.Render,
		"dim":        h.palette.dim.Render,
		"flags":      h.renderFlags,
		"languages":  h.renderLanguages,
		"join":       strings.Join,
		"rpad":       rpad,
		"trim":       trimTrailingWhitespaces,
	}

	h.usage = template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	h.help = template.Must(template.Must(h.usage.Clone()).New("help").Parse(helpTemplate))
	return h
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}{{end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}{{end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}
{{- if not .HasParent}}

{{ heading "Languages:" }}
{{ languages }}{{end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}{{ template "usage" . }}`

// flagLine splits a pflag usage line into indent, flag names with an
// optional type, and description.
var flagLine = regexp.MustCompile(`^(\s*)(-\S+(?:, --\S+)?)( [a-zA-Z]+)?(\s{2,})(.*)$`)

func (h *HelpFormatter) renderFlags(usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lines[i] = m[1] + h.palette.flag.Render(m[2]) + h.palette.dim.Render(m[3]) + m[4] + m[5]
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) renderLanguages() string {
	langs := repair.Languages()
	lines := make([]string, 0, len(langs))
	for _, lang := range langs {
		lines = append(lines, fmt.Sprintf("  %s %s",
			h.palette.language.Render(rpad(string(lang), 12)),
			strings.Join(repair.ExtensionsFor(lang), " ")))
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand installs the styled help and usage functions on cmd.
// Subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := h.usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
