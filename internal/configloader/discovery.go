package configloader

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths lists the config files found for each file layer.
// An empty string means the layer has no file.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// projectConfigNames are tried in order in each directory of the upward search.
var projectConfigNames = []string{
	ProjectConfigName,
	".gojanitor.yaml",
	"gojanitor.yml",
	"gojanitor.yaml",
}

// globalConfigNames are tried in the system and user config directories.
var globalConfigNames = []string{"config.yml", "config.yaml"}

// DiscoverPaths finds the system, user and project config files for workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), globalConfigNames),
		User:    firstFile(userConfigDir(), globalConfigNames),
		Project: project,
	}, nil
}

// systemConfigDir is /etc/gojanitor, or %ProgramData%\gojanitor on Windows.
func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/gojanitor"
	}
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, "gojanitor")
}

// userConfigDir honours XDG_CONFIG_HOME and falls back to ~/.config.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gojanitor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gojanitor")
}

// FindProjectConfig searches startDir and its parents for a project
// config file. The search stops after a directory holding a VCS root
// marker, at the home directory, or at the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for dir := range searchDirs(start) {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}
		if path := firstFile(dir, projectConfigNames); path != "" {
			return path, nil
		}
	}
	return "", nil
}

// searchDirs yields start and each parent up to the search boundary.
func searchDirs(start string) iter.Seq[string] {
	home, _ := os.UserHomeDir()
	return func(yield func(string) bool) {
		for dir := start; ; {
			if !yield(dir) || isVCSRoot(dir) || dir == home {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range []string{".git", ".hg", ".svn"} {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
