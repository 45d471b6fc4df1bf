// Package runner discovers source files and repairs them concurrently.
package runner

import (
	"github.com/yaklabco/gojanitor/pkg/config"
	"github.com/yaklabco/gojanitor/pkg/repair"
)

// Options controls multi-file repair behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// to repair. Defaults to every extension with an engine.
	Extensions []string

	// IncludeGlobs are additional glob patterns to include, relative to WorkingDir.
	// Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	// These merge ignore rules from config and CLI (e.g. --ignore).
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// IncludeGenerated keeps files that look machine generated or
	// minified. Vendored directories are skipped regardless.
	IncludeGenerated bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns every extension that has a repair engine.
func DefaultExtensions() []string {
	return repair.SupportedExtensions()
}

// OptionsFromConfig fills the config-driven fields of Options.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths, Config: cfg}
	if cfg != nil {
		opts.ExcludeGlobs = cfg.Ignore
		opts.IncludeGenerated = cfg.IncludeGenerated
		opts.Jobs = cfg.Jobs
	}
	return opts
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
