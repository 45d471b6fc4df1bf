package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/repair"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, commit hash, and build date of gojanitor, and
whether this build parses JavaScript and TypeScript with syntax trees.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return err
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{})
			logger.Info("gojanitor",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				logging.FieldSyntaxTrees, repair.SyntaxTrees(),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print the version number only")

	return cmd
}
