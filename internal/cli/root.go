// Package cli provides the Cobra command structure for gojanitor.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gojanitor/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
	logFile    string
}

func (g *globalFlags) level() string {
	if g.debug {
		return "debug"
	}
	return "info"
}

// NewRootCommand creates the root gojanitor command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}
	var logCloser io.Closer

	rootCmd := &cobra.Command{
		Use:   "gojanitor",
		Short: "Repair common syntax mistakes in C, Java, Python and JavaScript",
		Long: `gojanitor repairs the syntax mistakes people and generators most often leave
behind: missing semicolons and colons, unbalanced braces and brackets, lost
indentation. It then hands each file to the language's canonical formatter
(uncrustify, google-java-format, black, prettier) and falls back to a
built-in formatter when the tool is not installed.

Files are rewritten atomically, with an optional sidecar backup, and a run
never stops because one file failed.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.logFile != "" {
				logger, closer := logging.NewWithFile(flags.logFile, flags.level())
				logging.SetDefault(logger)
				logCloser = closer
				return
			}
			if flags.debug {
				logging.SetLevel("debug")
			}
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "",
		"also write logs to this file, rotated by size")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitInvalidUsage, err)
	})

	rootCmd.AddCommand(newFixCommand(flags))
	rootCmd.AddCommand(newCheckCommand(flags))
	rootCmd.AddCommand(newLanguagesCommand(flags))
	rootCmd.AddCommand(newRestoreCommand(flags))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(flags.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
