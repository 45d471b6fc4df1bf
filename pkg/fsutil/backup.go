package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar writes the backup next to the original.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to the original path in sidecar mode.
const BackupSuffix = ".gojanitor.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns sidecar backups, enabled.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Enabled: true, Mode: BackupModeSidecar}
}

// BackupPath returns where the backup of path lives, or "" when the mode
// stores no backups. Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup copies path to its backup location. An existing backup is
// never overwritten, so repeated runs keep the content from before the
// first repair. Reports whether a new backup was written.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled || cfg.Mode == BackupModeNone {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	dest := BackupPath(path, cfg.Mode)
	if BackupExists(path, cfg.Mode) {
		return false, nil
	}

	stat, err := os.Stat(path)
	if err != nil {
		return false, classifyStatError(path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := WriteAtomic(ctx, dest, content, stat.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write backup %s: %w", dest, err)
	}

	return true, nil
}

// RestoreBackup copies the backup of path back over path and removes the
// backup. Reports false when no backup exists.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	if mode == BackupModeNone {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}

	src := BackupPath(path, mode)
	content, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read backup %s: %w", src, err)
	}

	fileMode := DefaultFileMode
	if stat, err := os.Stat(src); err == nil {
		fileMode = stat.Mode().Perm()
	}

	if err := WriteAtomic(ctx, path, content, fileMode); err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}

	if _, err := RemoveBackup(path, mode); err != nil {
		return true, err
	}
	return true, nil
}

// RemoveBackup deletes the backup of path. Reports whether one existed.
func RemoveBackup(path string, mode BackupMode) (bool, error) {
	if mode == BackupModeNone {
		return false, nil
	}

	err := os.Remove(BackupPath(path, mode))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("remove backup: %w", err)
	}
}

// BackupExists reports whether a backup of path is present.
func BackupExists(path string, mode BackupMode) bool {
	dest := BackupPath(path, mode)
	if dest == "" {
		return false
	}
	_, err := os.Stat(dest)
	return err == nil
}
