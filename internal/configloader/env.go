package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yaklabco/gojanitor/pkg/config"
)

const envVarPrefix = "GOJANITOR_"

// DotEnvFile is read from the working directory as a layer below the
// real environment.
const DotEnvFile = ".env"

// envVar binds GOJANITOR_<suffix> to one config field.
type envVar struct {
	suffix string
	field  string
	help   string
	apply  func(cfg *config.Config, value string) error
}

func boolVar(target func(*config.Config) *bool) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		*target(cfg) = b
		return nil
	}
}

func intVar(target func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		*target(cfg) = n
		return nil
	}
}

//nolint:gochecknoglobals // Read-only table.
var envVars = []envVar{
	{"DRY_RUN", "dry_run", "Dry-run mode: true or false",
		boolVar(func(c *config.Config) *bool { return &c.DryRun })},
	{"JOBS", "jobs", "Number of parallel workers (0 = auto)",
		intVar(func(c *config.Config) *int { return &c.Jobs })},
	{"FORMAT", "format", "Output format: text, table, json, or diff",
		func(c *config.Config, v string) error { c.Format = config.OutputFormat(v); return nil }},
	{"BACKUPS_ENABLED", "backups.enabled", "Enable backups when fixing: true or false",
		boolVar(func(c *config.Config) *bool { return &c.Backups.Enabled })},
	{"BACKUPS_MODE", "backups.mode", "Backup mode: sidecar or none",
		func(c *config.Config, v string) error { c.Backups.Mode = v; return nil }},
	{"IGNORE", "ignore", "Comma-separated list of ignore patterns",
		func(c *config.Config, v string) error { c.Ignore = splitList(v); return nil }},
	{"NO_BACKUPS", "no_backups", "Disable backups: true or false",
		boolVar(func(c *config.Config) *bool { return &c.NoBackups })},
	{"NO_FORMATTERS", "no_formatters", "Use built-in fallbacks only: true or false",
		boolVar(func(c *config.Config) *bool { return &c.NoFormatters })},
	{"VERIFY", "verify", "Check that a second run is a no-op: true or false",
		boolVar(func(c *config.Config) *bool { return &c.Verify })},
	{"INCLUDE_GENERATED", "include_generated", "Process generated files: true or false",
		boolVar(func(c *config.Config) *bool { return &c.IncludeGenerated })},
	{"FORMATTER_TIMEOUT", "formatter_timeout", "Time limit per formatter run, e.g. 30s",
		func(c *config.Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid duration %q", v)
			}
			c.FormatterTimeout = d
			return nil
		}},
}

// LoadFromEnv applies GOJANITOR_* variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

// LoadFromEnvWithDotEnv is LoadFromEnv with dir/.env underneath the real
// environment. A missing .env is not an error.
func LoadFromEnvWithDotEnv(cfg *config.Config, dir string) error {
	path := filepath.Join(dir, DotEnvFile)
	dotenv, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return applyEnv(cfg, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
}

func applyEnv(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}
	for _, ev := range envVars {
		name := envVarPrefix + ev.suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank elements.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetEnvVarName returns the variable bound to a config field, or "".
func GetEnvVarName(field string) string {
	for _, ev := range envVars {
		if ev.field == field {
			return envVarPrefix + ev.suffix
		}
	}
	return ""
}

// ListEnvVars maps every supported variable to its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for _, ev := range envVars {
		vars[envVarPrefix+ev.suffix] = ev.help
	}
	return vars
}
