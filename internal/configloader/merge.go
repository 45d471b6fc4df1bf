package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/gojanitor/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
//
// Files are layered by decoding over the running config instead, so that
// an explicit false in YAML still counts. merge serves the CLI layer,
// where only flags the user set are non-zero.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	// Scalars: override overwrites base if set (non-zero value)
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.FormatterTimeout != 0 {
		result.FormatterTimeout = override.FormatterTimeout
	}

	// Booleans can only be switched on from this layer.
	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}
	if override.NoFormatters {
		result.NoFormatters = true
	}
	if override.Verify {
		result.Verify = true
	}
	if override.IncludeGenerated {
		result.IncludeGenerated = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	// Maps: deep merge
	result.IndentWidth = mergeMap(base.IndentWidth, override.IndentWidth)
	result.Formatters = mergeMap(base.Formatters, override.Formatters)

	// Slices: override replaces base entirely if non-nil
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return &result
}

// mergeMap returns a new map holding base's entries overlaid with override's.
func mergeMap[V any](base, override map[string]V) map[string]V {
	result := make(map[string]V, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
