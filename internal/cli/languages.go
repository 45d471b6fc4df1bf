package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/internal/ui/pretty"
	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/repair"
	"github.com/yaklabco/gojanitor/pkg/reporter"
)

// languageInfo is one supported language family with its formatter.
type languageInfo struct {
	Language   string   `json:"language"`
	Extensions []string `json:"extensions"`
	Formatter  string   `json:"formatter"`
	Available  bool     `json:"available"`
	Path       string   `json:"path,omitempty"`
}

func newLanguagesCommand(global *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported languages and formatter availability",
		Long: `List every supported language family with its file extensions and the
external formatter its engine uses. A formatter that cannot be found is
replaced by the built-in fallback formatter at run time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLanguages(cmd, global, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, table, json")

	return cmd
}

func runLanguages(cmd *cobra.Command, global *globalFlags, format string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logging.Default())

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := loadConfig(ctx, workDir, global.configPath, nil)
	if err != nil {
		return err
	}

	infos := collectLanguages(formatter.FromConfig(cfg))
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(infos); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case "table":
		return writeLanguagesTable(out, global.color, infos)
	case "text", "":
		writeLanguagesText(out, global.color, infos)
		return nil
	default:
		return usageError("unknown format %q; valid formats: text, table, json", format)
	}
}

// collectLanguages resolves each family's formatter through adapter.
func collectLanguages(adapter *formatter.Adapter) []languageInfo {
	langs := repair.Languages()
	infos := make([]languageInfo, 0, len(langs))
	for _, lang := range langs {
		info := languageInfo{
			Language:   string(lang),
			Extensions: repair.ExtensionsFor(lang),
			Formatter:  repair.FormatterFor(lang),
		}
		if path, err := adapter.Locate(info.Formatter); err == nil {
			info.Available = true
			info.Path = path
		}
		infos = append(infos, info)
	}
	return infos
}

func writeLanguagesTable(out io.Writer, colorMode string, infos []languageInfo) error {
	colorEnabled := pretty.IsColorEnabled(colorMode, out)
	table := pretty.NewTableFormatter(pretty.NewStyles(colorEnabled), colorEnabled, reporter.TerminalWidth(out))

	rows := make([]pretty.LanguageRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, pretty.LanguageRow(info))
	}

	if _, err := fmt.Fprint(out, table.FormatLanguages(rows)); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func writeLanguagesText(out io.Writer, colorMode string, infos []languageInfo) {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	for _, info := range infos {
		status := styles.Fallback.Render("not found, using fallback")
		if info.Available {
			status = styles.Success.Render(info.Path)
		}
		fmt.Fprintf(out, "%-12s %-28s %s: %s\n",
			styles.Language.Render(info.Language),
			fmt.Sprint(info.Extensions),
			info.Formatter,
			status,
		)
	}
}
