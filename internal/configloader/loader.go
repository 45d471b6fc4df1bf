// Package configloader resolves the effective gojanitor configuration
// from defaults, config files, the environment and command-line flags.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/config"
)

// ProjectConfigName is the file gojanitor init writes.
const ProjectConfigName = ".gojanitor.yml"

// LoadOptions controls which layers Load reads.
type LoadOptions struct {
	// WorkingDir anchors the project config search and the .env lookup.
	// Empty means the process working directory.
	WorkingDir string

	// ExplicitPath comes from --config and sits above the project file.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool
	IgnoreDotEnv        bool

	// CLIConfig holds flag values. Only non-zero fields override.
	CLIConfig *config.Config
}

// LoadResult is the resolved configuration and where it came from.
type LoadResult struct {
	Config     *config.Config
	Paths      *ConfigPaths
	LoadedFrom []string
	Warnings   []string
}

// fileLayer is one config file in precedence order.
type fileLayer struct {
	name    string
	path    string
	skipped bool
}

// Load resolves the configuration. Each layer overrides the ones before it:
//
//	defaults < system < user < project < --config < GOJANITOR_* (.env below
//	the real environment) < flags
//
// The result is validated; the first validation error is returned as a
// *ValidationError and warnings are carried in LoadResult.Warnings.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	for _, layer := range []fileLayer{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	} {
		if layer.skipped || layer.path == "" {
			continue
		}
		if cfg, err = overlayFile(cfg, layer.path); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		logger.Debug("loaded config", logging.FieldPath, layer.path, logging.FieldLayer, layer.name)
	}

	if err := applyEnvLayer(cfg, workDir, opts); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

func applyEnvLayer(cfg *config.Config, workDir string, opts LoadOptions) error {
	switch {
	case opts.IgnoreEnv:
		return nil
	case opts.IgnoreDotEnv:
		return LoadFromEnv(cfg)
	default:
		return LoadFromEnvWithDotEnv(cfg, workDir)
	}
}

// overlayFile decodes the YAML at path over cfg, so keys the file omits
// keep their earlier values and an explicit false still applies.
func overlayFile(cfg *config.Config, path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	layered, err := config.OverlayYAML(cfg, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return layered, nil
}
