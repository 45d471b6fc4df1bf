// Package config defines core configuration types for gojanitor.
// These types are pure data structures; discovery, layering and validation
// live in internal/configloader.
package config

import "time"

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// FormatterConfig overrides how one external formatter is invoked.
type FormatterConfig struct {
	// Command is an executable name on PATH or a path to one.
	Command string `yaml:"command,omitempty"`

	// Args replaces the built-in argument list. {file} and {lang} are
	// expanded before the tool runs.
	Args []string `yaml:"args,omitempty"`

	// Disabled skips the tool so the engine's fallback formatter runs.
	Disabled bool `yaml:"disabled,omitempty"`
}

// OutputFormat specifies the output format for run results.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatDiff  OutputFormat = "diff"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// Backup modes.
const (
	BackupModeSidecar = "sidecar"
	BackupModeNone    = "none"
)

// DefaultFormatterTimeout bounds a single external formatter run.
const DefaultFormatterTimeout = 30 * time.Second

// Config is the root configuration structure for gojanitor.
type Config struct {
	// Ignore contains glob patterns for files to skip. ** matches any
	// number of directories.
	Ignore []string `yaml:"ignore"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups"`

	// IndentWidth overrides the fallback formatter indent per language
	// ("c", "java", "python", "javascript").
	IndentWidth map[string]int `yaml:"indent_width,omitempty"`

	// Formatters overrides external formatters by tool name.
	Formatters map[string]FormatterConfig `yaml:"formatters,omitempty"`

	// FormatterTimeout bounds each external formatter run.
	FormatterTimeout time.Duration `yaml:"formatter_timeout"`

	// NoFormatters turns every external formatter off.
	NoFormatters bool `yaml:"no_formatters"`

	// Verify re-runs the engine on its own output and warns when a second
	// pass would still change something.
	Verify bool `yaml:"verify"`

	// Jobs is the number of parallel workers (0 means GOMAXPROCS).
	Jobs int `yaml:"jobs"`

	// IncludeGenerated processes files that look machine generated.
	IncludeGenerated bool `yaml:"include_generated"`

	// CLI-level options (not persisted to config files).

	// DryRun shows what would be fixed without making changes.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Ignore: nil,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    BackupModeSidecar,
		},
		IndentWidth:      make(map[string]int),
		Formatters:       make(map[string]FormatterConfig),
		FormatterTimeout: DefaultFormatterTimeout,
		Format:           FormatText,
		Jobs:             0, // 0 means use GOMAXPROCS
	}
}
