package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gojanitor/internal/configloader"
	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/config"
	"github.com/yaklabco/gojanitor/pkg/langdetect"
	"github.com/yaklabco/gojanitor/pkg/repair"
	"github.com/yaklabco/gojanitor/pkg/reporter"
	"github.com/yaklabco/gojanitor/pkg/runner"
)

// stdinBaseName names a piped buffer whose language was sniffed.
const stdinBaseName = "stdin"

type fixFlags struct {
	format        string
	include       []string
	exclude       []string
	stdin         bool
	stdinFilename string
	verbose       bool
	compact       bool
}

func newFixCommand(global *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &fixFlags{}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Repair and format source files in place",
		Long:  fixLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, global, &cfg, flags, false)
		},
	}

	addFixFlags(cmd, &cfg, flags)
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show what would change without writing files")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not write .gojanitor.bak backups")

	return cmd
}

const fixLongDescription = `Repair syntax mistakes and format source files.

By default, processes every supported file under the current directory.
Specify paths to process specific files or directories. Files named
explicitly are processed even when they look vendored or generated.

Examples:
  gojanitor fix                          # Fix the current directory
  gojanitor fix src/ main.c              # Fix a directory and a file
  gojanitor fix --dry-run --format diff  # Show the changes as diffs
  gojanitor fix --no-formatters          # Use only the built-in formatters
  cat App.java | gojanitor fix --stdin --stdin-filename App.java`

func newCheckCommand(global *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &fixFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report files that fix would change",
		Long: `Run the repair engines without writing anything.

Exits with status 1 when any file would change, which makes it suitable
for CI and pre-commit hooks.

Examples:
  gojanitor check                  # Check the current directory
  gojanitor check --format json    # Machine-readable report
  gojanitor check --format diff    # Show the pending changes`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.DryRun = true
			return runFix(cmd, args, global, &cfg, flags, true)
		},
	}

	addFixFlags(cmd, &cfg, flags)

	return cmd
}

func addFixFlags(cmd *cobra.Command, cfg *config.Config, flags *fixFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, diff")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&cfg.Verify, "verify", false, "re-run each engine on its output and warn when unstable")
	cmd.Flags().BoolVar(&cfg.NoFormatters, "no-formatters", false, "skip external formatters and use the built-in ones")
	cmd.Flags().BoolVar(&cfg.IncludeGenerated, "include-generated", false,
		"process files that look generated or minified")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only process files matching these globs")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "skip files matching these globs")
	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "read one buffer from stdin and write the result to stdout")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "",
		"file name used to pick the engine for --stdin")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "print a line for every processed file")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
}

func runFix(
	cmd *cobra.Command,
	args []string,
	global *globalFlags,
	cliCfg *config.Config,
	flags *fixFlags,
	check bool,
) error {
	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}

	// Only flags the user set override lower layers.
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(format)
	}
	cliCfg.Ignore = flags.exclude

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := loadConfig(ctx, workDir, global.configPath, cliCfg)
	if err != nil {
		return err
	}

	// Diffs are only produced for dry runs.
	if format == reporter.FormatDiff {
		cfg.DryRun = true
	}

	logger.Debug("configuration loaded",
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldVerify, cfg.Verify,
	)

	pipeline := repair.NewPipelineFromConfig(cfg)

	if flags.stdin {
		if len(args) > 0 {
			return usageError("--stdin does not take paths")
		}
		return runStdin(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), pipeline.Registry, flags.stdinFilename, check)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir
	runOpts.IncludeGlobs = flags.include

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, runErr := runner.New(pipeline).Run(ctx, runOpts)
	if result == nil {
		return fmt.Errorf("run failed: %w", runErr)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      reporter.Format(cfg.Format),
		Color:       global.color,
		ShowSummary: true,
		Verbose:     flags.verbose,
		DryRun:      cfg.DryRun,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("create reporter: %w", err))
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if runErr != nil {
		return runErr
	}

	return resultError(result, check)
}

// loadConfig resolves the layered configuration and logs its warnings.
func loadConfig(ctx context.Context, workDir, explicitPath string, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: explicitPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult.Config, nil
}

// runStdin repairs one buffer and writes the result to out. Warnings go
// to the log. In check mode nothing is written and a pending change is
// reported through the exit code.
func runStdin(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	registry *repair.Registry,
	filename string,
	check bool,
) error {
	logger := logging.FromContext(ctx)

	content, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	if filename == "" {
		ext := langdetect.Detect(content)
		if ext == "" {
			return usageError("could not detect the language of stdin; pass --stdin-filename")
		}
		filename = stdinBaseName + ext
		logger.Debug("detected stdin language", logging.FieldPath, filename)
	}

	if _, ok := repair.LanguageForPath(filename); !ok {
		return usageError("unsupported file type: %s", filepath.Ext(filename))
	}

	an, err := registry.FixBuffer(ctx, filename, content)
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("fix %s: %w", filename, err))
	}

	for _, msg := range an.Warnings {
		logger.Warn(msg, logging.FieldPath, filename)
	}

	if check {
		if an.Changed() {
			return withExitCode(ExitChangesPending, ErrChangesPending)
		}
		return nil
	}

	fixed, err := an.Apply()
	if err != nil {
		return withExitCode(ExitIOError, err)
	}
	if _, err := out.Write(fixed); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}
