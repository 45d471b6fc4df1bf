package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
// It produces human-readable output with appropriate formatting.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Fields absent from
// data keep their zero values; layering onto defaults is the loader's job.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.IndentWidth == nil {
		cfg.IndentWidth = make(map[string]int)
	}
	if cfg.Formatters == nil {
		cfg.Formatters = make(map[string]FormatterConfig)
	}

	return cfg, nil
}

// OverlayYAML decodes data on top of a copy of base. Keys present in data
// replace base's values, including explicit false and zero values; map
// entries are merged key by key. base is not modified.
func OverlayYAML(base *Config, data []byte) (*Config, error) {
	cfg := base.Clone()
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.IndentWidth == nil {
		cfg.IndentWidth = make(map[string]int)
	}
	if cfg.Formatters == nil {
		cfg.Formatters = make(map[string]FormatterConfig)
	}

	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := &Config{
		Ignore:           slices.Clone(c.Ignore),
		Backups:          c.Backups,
		IndentWidth:      maps.Clone(c.IndentWidth),
		FormatterTimeout: c.FormatterTimeout,
		NoFormatters:     c.NoFormatters,
		Verify:           c.Verify,
		Jobs:             c.Jobs,
		IncludeGenerated: c.IncludeGenerated,
	}

	if c.Formatters != nil {
		clone.Formatters = make(map[string]FormatterConfig, len(c.Formatters))
		for name, fc := range c.Formatters {
			clone.Formatters[name] = fc.clone()
		}
	}

	c.copyCLIFields(clone)

	return clone
}

// copyCLIFields copies CLI-only fields (yaml:"-") to the target config.
func (c *Config) copyCLIFields(target *Config) {
	target.DryRun = c.DryRun
	target.Format = c.Format
	target.NoBackups = c.NoBackups
}

func (fc FormatterConfig) clone() FormatterConfig {
	fc.Args = slices.Clone(fc.Args)
	return fc
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
