package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every formatter and language setting.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// Tools lists the external formatters to document in a full template.
	Tools []ToolInfo
}

// ToolInfo describes one external formatter for template generation.
// It keeps this package free of a dependency on pkg/formatter.
type ToolInfo struct {
	Name      string
	Command   string
	Args      []string
	Languages []string
}

// templateLanguages are the keys accepted under indent_width.
//
//nolint:gochecknoglobals // Immutable template data.
var templateLanguages = []struct {
	name  string
	width int
}{
	{"c", 4},
	{"java", 4},
	{"javascript", 2},
	{"python", 4},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(opts)
	}
	if opts.Full {
		return generateFullTemplate(opts), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Number of parallel workers (0 = auto)
# jobs: 0

# Re-run each engine on its own output and warn if it is not stable
# verify: false

# Skip external formatters and use the built-in fallbacks
# no_formatters: false

# Time limit for one external formatter run
# formatter_timeout: 30s

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "third_party/**"

# Backups written before a file is rewritten
backups:
  enabled: true
  mode: sidecar
`)

	return buf.Bytes()
}

// generateFullTemplate creates a full template with every setting documented.
func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`
#
# Full template: this template lists every setting with its default value.
# Uncomment and modify settings as needed.

# Number of parallel workers (0 = auto based on CPU cores)
jobs: 0

# Re-run each engine on its own output and warn if it is not stable
verify: false

# Process files that look machine generated
include_generated: false

# Skip external formatters and use the built-in fallbacks
no_formatters: false

# Time limit for one external formatter run
formatter_timeout: 30s

# Backup configuration: mode is sidecar or none
backups:
  enabled: true
  mode: sidecar

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"
  - ".git/**"

# Fallback formatter indentation per language
indent_width:
`)

	for _, lang := range templateLanguages {
		fmt.Fprintf(&buf, "  %s: %d\n", lang.name, lang.width)
	}

	buf.WriteString("\n# External formatter overrides. {file} and {lang} are expanded.\n")
	buf.WriteString("# formatters:\n")

	tools := append([]ToolInfo(nil), opts.Tools...)
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})

	for _, tool := range tools {
		if len(tool.Languages) > 0 {
			fmt.Fprintf(&buf, "#   # Used for: %s\n", strings.Join(tool.Languages, ", "))
		}
		fmt.Fprintf(&buf, "#   %s:\n", tool.Name)
		fmt.Fprintf(&buf, "#     command: %s\n", tool.Command)
		if len(tool.Args) > 0 {
			fmt.Fprintf(&buf, "#     args: [%s]\n", quoteArgs(tool.Args))
		}
		buf.WriteString("#     disabled: false\n")
	}

	return buf.Bytes()
}

func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = fmt.Sprintf("%q", arg)
	}
	return strings.Join(quoted, ", ")
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON(opts TemplateOptions) ([]byte, error) {
	widths := make(map[string]int, len(templateLanguages))
	for _, lang := range templateLanguages {
		widths[lang.name] = lang.width
	}

	cfg := map[string]any{
		"jobs":              0,
		"verify":            false,
		"include_generated": false,
		"no_formatters":     false,
		"formatter_timeout": DefaultFormatterTimeout.String(),
		"backups": map[string]any{
			"enabled": true,
			"mode":    BackupModeSidecar,
		},
		"ignore":       []string{"vendor/**", "node_modules/**", ".git/**"},
		"indent_width": widths,
	}

	if opts.Full && len(opts.Tools) > 0 {
		formatters := make(map[string]any, len(opts.Tools))
		for _, tool := range opts.Tools {
			formatters[tool.Name] = map[string]any{
				"command":  tool.Command,
				"args":     tool.Args,
				"disabled": false,
			}
		}
		cfg["formatters"] = formatters
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gojanitor configuration
# See: https://github.com/yaklabco/gojanitor`
}
