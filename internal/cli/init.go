package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gojanitor/internal/configloader"
	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/config"
	"github.com/yaklabco/gojanitor/pkg/formatter"
	"github.com/yaklabco/gojanitor/pkg/repair"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// stdoutPath selects standard output for --output.
const stdoutPath = "-"

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gojanitor configuration file",
		Long: `Create a new .gojanitor.yml configuration file in the current directory
with sensible defaults. The full template also documents every external
formatter with its default command line.

When the file already exists and standard input is a terminal, init asks
before overwriting it.

Examples:
  gojanitor init                      Create minimal .gojanitor.yml
  gojanitor init --full               Document every setting and formatter
  gojanitor init --format json        Print the defaults as JSON
  gojanitor init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every setting documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path, or - for stdout (default: .gojanitor.yml, stdout for json)")

	return cmd
}

func runInit(in io.Reader, out io.Writer, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return usageError("invalid format %q: must be yaml or json", flags.format)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
		Tools:  templateTools(),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.ProjectConfigName
		if flags.format == "json" {
			outputPath = stdoutPath
		}
	}

	if outputPath == stdoutPath {
		if _, err := out.Write(content); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !isTerminal(in) {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		ok, err := confirm(in, out, fmt.Sprintf("%s already exists. Overwrite?", outputPath))
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("left existing file unchanged", logging.FieldPath, outputPath)
			return nil
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write file: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'gojanitor languages' to see which formatters are installed")

	return nil
}

// templateTools describes the default formatters for the full template.
func templateTools() []config.ToolInfo {
	tools := formatter.DefaultTools()
	infos := make([]config.ToolInfo, 0, len(tools))
	for _, name := range tools.Names() {
		tool := tools[name]
		info := config.ToolInfo{Name: name, Command: tool.Command, Args: tool.Args}
		for _, lang := range repair.Languages() {
			if repair.FormatterFor(lang) == name {
				info.Languages = append(info.Languages, string(lang))
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question, defaulting to no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
