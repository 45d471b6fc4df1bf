package config_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojanitor/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	tools := []config.ToolInfo{
		{Name: "prettier", Command: "prettier", Args: []string{"--write", "{file}"}, Languages: []string{"javascript"}},
		{Name: "black", Command: "black", Args: []string{"-q", "{file}"}, Languages: []string{"python"}},
	}

	t.Run("minimal template parses", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# gojanitor configuration")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.True(t, cfg.Backups.Enabled)
		assert.Equal(t, config.BackupModeSidecar, cfg.Backups.Mode)
	})

	t.Run("full template parses and documents tools", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Tools: tools})
		require.NoError(t, err)

		out := string(data)
		assert.Contains(t, out, "#   black:")
		assert.Contains(t, out, `#     args: ["--write", "{file}"]`)
		assert.Less(t, strings.Index(out, "#   black:"), strings.Index(out, "#   prettier:"))

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.IndentWidth["javascript"])
		assert.Equal(t, config.DefaultFormatterTimeout, cfg.FormatterTimeout)
		assert.Empty(t, cfg.Formatters)
	})

	t.Run("json template", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json", Full: true, Tools: tools})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "30s", decoded["formatter_timeout"])
		assert.Contains(t, decoded["formatters"], "black")
	})
}
