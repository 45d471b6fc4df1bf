package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/fsutil"
	"github.com/yaklabco/gojanitor/pkg/runner"
)

func newRestoreCommand(global *globalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "restore [paths...]",
		Short: "Restore files from their .gojanitor.bak backups",
		Long: `Copy each backup written by fix back over its file and remove the backup.

Files without a backup are left alone. Generated files are included so
that everything fix touched can be undone.

Examples:
  gojanitor restore              # Restore everything under the current directory
  gojanitor restore src/main.c   # Restore one file
  gojanitor restore --dry-run    # List the backups that would be restored`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args, global, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list backups without restoring them")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string, global *globalFlags, dryRun bool) error {
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

	cfg, err := loadConfig(ctx, workDir, global.configPath, nil)
	if err != nil {
		return err
	}
	mode := fsutil.BackupMode(cfg.Backups.Mode)

	opts := runner.OptionsFromConfig(cfg, args)
	opts.WorkingDir = workDir
	opts.IncludeGenerated = true

	files, err := runner.Discover(ctx, opts)
	if err != nil {
		return withExitCode(ExitIOError, err)
	}

	out := cmd.OutOrStdout()
	var restored, failed int
	for _, path := range files {
		if !fsutil.BackupExists(path, mode) {
			continue
		}

		display := path
		if rel, err := filepath.Rel(workDir, path); err == nil {
			display = rel
		}

		if dryRun {
			fmt.Fprintf(out, "would restore %s\n", display)
			restored++
			continue
		}

		ok, err := fsutil.RestoreBackup(ctx, path, mode)
		if err != nil {
			logger.Error("restore failed", logging.FieldPath, display, logging.FieldError, err)
			failed++
			continue
		}
		if ok {
			fmt.Fprintf(out, "restored %s\n", display)
			restored++
		}
	}

	verb := "Restored"
	if dryRun {
		verb = "Would restore"
	}
	fmt.Fprintf(out, "%s %d %s\n", verb, restored, pluralFiles(restored))

	if failed > 0 {
		return withExitCode(ExitIOError, fmt.Errorf("%d %s could not be restored", failed, pluralFiles(failed)))
	}
	return nil
}

func pluralFiles(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
