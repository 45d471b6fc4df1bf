package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gojanitor/internal/cli"
	"github.com/yaklabco/gojanitor/pkg/reporter"
)

// brokenC is missing its terminator; the fallback formatter adds it.
const brokenC = "x = 5\n"

// cleanPython needs no repair.
const cleanPython = "x = 5\n"

// project writes a throwaway tree plus a config file that pins the
// settings the tests depend on.
func project(t *testing.T, files map[string]string) (dir, cfgFile string) {
	t.Helper()

	dir = t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfgFile = filepath.Join(t.TempDir(), "gojanitor.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("no_formatters: true\njobs: 2\n"), 0o644))
	return dir, cfgFile
}

type execResult struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) execResult {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestIntegration_Fix(t *testing.T) {
	t.Parallel()

	dir, cfgFile := project(t, map[string]string{
		"main.c":  brokenC,
		"tool.py": cleanPython,
	})

	res := execute(t, "", "fix", "--config", cfgFile, dir)
	require.NoError(t, res.err)

	assert.Equal(t, "x = 5;\n", readFile(t, filepath.Join(dir, "main.c")))
	assert.Equal(t, cleanPython, readFile(t, filepath.Join(dir, "tool.py")))
	assert.Equal(t, brokenC, readFile(t, filepath.Join(dir, "main.c.gojanitor.bak")))

	assert.Contains(t, res.stdout, "Files processed:     2")
	assert.Contains(t, res.stdout, "Files modified:      1")
	assert.Contains(t, res.stdout, "Modified files:")
	assert.Contains(t, res.stdout, "main.c")
}

func TestIntegration_FixNoBackups(t *testing.T) {
	t.Parallel()

	dir, cfgFile := project(t, map[string]string{"main.c": brokenC})

	res := execute(t, "", "fix", "--config", cfgFile, "--no-backups", dir)
	require.NoError(t, res.err)

	assert.Equal(t, "x = 5;\n", readFile(t, filepath.Join(dir, "main.c")))
	assert.NoFileExists(t, filepath.Join(dir, "main.c.gojanitor.bak"))
}

func TestIntegration_DryRun(t *testing.T) {
	t.Parallel()

	dir, cfgFile := project(t, map[string]string{"main.c": brokenC})

	res := execute(t, "", "fix", "--config", cfgFile, "--dry-run", dir)
	require.NoError(t, res.err)

	assert.Equal(t, brokenC, readFile(t, filepath.Join(dir, "main.c")))
	assert.Contains(t, res.stdout, "Files that would be modified:")
}

func TestIntegration_Check(t *testing.T) {
	t.Parallel()

	t.Run("changes pending", func(t *testing.T) {
		t.Parallel()

		dir, cfgFile := project(t, map[string]string{"main.c": brokenC})

		res := execute(t, "", "check", "--config", cfgFile, dir)
		require.Error(t, res.err)
		assert.ErrorIs(t, res.err, cli.ErrChangesPending)
		assert.Equal(t, cli.ExitChangesPending, cli.ExitCode(res.err))
		assert.Equal(t, brokenC, readFile(t, filepath.Join(dir, "main.c")))
	})

	t.Run("clean tree", func(t *testing.T) {
		t.Parallel()

		dir, cfgFile := project(t, map[string]string{"tool.py": cleanPython})

		res := execute(t, "", "check", "--config", cfgFile, dir)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "No issues found! Your code looks clean.")
	})
}

func TestIntegration_JSONFormat(t *testing.T) {
	t.Parallel()

	dir, cfgFile := project(t, map[string]string{
		"main.c":  brokenC,
		"tool.py": cleanPython,
	})

	res := execute(t, "", "check", "--config", cfgFile, "--format", "json", dir)
	assert.Equal(t, cli.ExitChangesPending, cli.ExitCode(res.err))

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &output))

	assert.True(t, output.DryRun)
	assert.Len(t, output.Files, 2)
	assert.Equal(t, 2, output.Summary.FilesProcessed)
	assert.Equal(t, 1, output.Summary.FilesModified)
	assert.Equal(t, 2, output.Summary.FilesFallback)
}

func TestIntegration_DiffFormatImpliesDryRun(t *testing.T) {
	t.Parallel()

	dir, cfgFile := project(t, map[string]string{"main.c": brokenC})

	res := execute(t, "", "fix", "--config", cfgFile, "--format", "diff", dir)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "-x = 5\n")
	assert.Contains(t, res.stdout, "+x = 5;\n")
	assert.Equal(t, brokenC, readFile(t, filepath.Join(dir, "main.c")))
}

func TestIntegration_ExcludeGlob(t *testing.T) {
	t.Parallel()

	dir, cfgFile := project(t, map[string]string{
		"src/main.c":   brokenC,
		"build/main.c": brokenC,
	})

	res := execute(t, "", "fix", "--config", cfgFile, "--exclude", "build/**", dir)
	require.NoError(t, res.err)

	assert.Equal(t, "x = 5;\n", readFile(t, filepath.Join(dir, "src/main.c")))
	assert.Equal(t, brokenC, readFile(t, filepath.Join(dir, "build/main.c")))
}

func TestIntegration_Stdin(t *testing.T) {
	t.Parallel()

	_, cfgFile := project(t, nil)

	t.Run("named buffer", func(t *testing.T) {
		t.Parallel()

		res := execute(t, brokenC, "fix", "--config", cfgFile, "--stdin", "--stdin-filename", "main.c")
		require.NoError(t, res.err)
		assert.Equal(t, "x = 5;\n", res.stdout)
	})

	t.Run("detected language", func(t *testing.T) {
		t.Parallel()

		res := execute(t, "if __name__ == '__main__':\n    main()\n", "fix", "--config", cfgFile, "--stdin")
		require.NoError(t, res.err)
		assert.Equal(t, "if __name__ == '__main__':\n    main()\n", res.stdout)
	})

	t.Run("undetectable", func(t *testing.T) {
		t.Parallel()

		res := execute(t, "hello\n", "fix", "--config", cfgFile, "--stdin")
		require.Error(t, res.err)
		assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
	})

	t.Run("unsupported name", func(t *testing.T) {
		t.Parallel()

		res := execute(t, "hello\n", "fix", "--config", cfgFile, "--stdin", "--stdin-filename", "notes.txt")
		assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
	})

	t.Run("check", func(t *testing.T) {
		t.Parallel()

		res := execute(t, brokenC, "check", "--config", cfgFile, "--stdin", "--stdin-filename", "main.c")
		assert.Equal(t, cli.ExitChangesPending, cli.ExitCode(res.err))
		assert.Empty(t, res.stdout)
	})
}

func TestIntegration_Restore(t *testing.T) {
	t.Parallel()

	dir, cfgFile := project(t, map[string]string{"main.c": brokenC})
	path := filepath.Join(dir, "main.c")

	require.NoError(t, execute(t, "", "fix", "--config", cfgFile, dir).err)
	require.Equal(t, "x = 5;\n", readFile(t, path))

	res := execute(t, "", "restore", "--config", cfgFile, "--dry-run", dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Would restore 1 file")
	assert.Equal(t, "x = 5;\n", readFile(t, path))

	res = execute(t, "", "restore", "--config", cfgFile, dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Restored 1 file")
	assert.Equal(t, brokenC, readFile(t, path))
	assert.NoFileExists(t, path+".gojanitor.bak")
}

func TestIntegration_Languages(t *testing.T) {
	t.Parallel()

	_, cfgFile := project(t, nil)

	res := execute(t, "", "languages", "--config", cfgFile, "--format", "json")
	require.NoError(t, res.err)

	var infos []struct {
		Language   string   `json:"language"`
		Extensions []string `json:"extensions"`
		Formatter  string   `json:"formatter"`
		Available  bool     `json:"available"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &infos))
	require.Len(t, infos, 4)

	assert.Equal(t, "c", infos[0].Language)
	assert.Equal(t, "uncrustify", infos[0].Formatter)
	assert.Contains(t, infos[0].Extensions, ".h")
	for _, info := range infos {
		assert.False(t, info.Available, "no_formatters disables %s", info.Formatter)
	}

	res = execute(t, "", "languages", "--config", cfgFile)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "not found, using fallback")

	res = execute(t, "", "languages", "--config", cfgFile, "--format", "table")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "no (fallback)")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), ".gojanitor.yml")

	res := execute(t, "", "init", "--full", "--output", out)
	require.NoError(t, res.err)
	content := readFile(t, out)
	assert.Contains(t, content, "backups:")
	assert.Contains(t, content, "#   black:")

	res = execute(t, "", "init", "--output", out)
	require.Error(t, res.err, "existing file needs --force")
	assert.Contains(t, res.err.Error(), "--force")

	res = execute(t, "", "init", "--force", "--output", out)
	require.NoError(t, res.err)

	res = execute(t, "", "init", "--format", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"backups"`)
}

func TestIntegration_ExitCodes(t *testing.T) {
	t.Parallel()

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		res := execute(t, "", "fix", "--no-such-flag")
		assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		res := execute(t, "", "fix", "--format", "sarif")
		assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		cfgFile := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(cfgFile, []byte("jobs: -1\n"), 0o644))

		dir, _ := project(t, map[string]string{"main.c": brokenC})
		res := execute(t, "", "fix", "--config", cfgFile, dir)
		assert.Equal(t, cli.ExitConfigError, cli.ExitCode(res.err))
		assert.Equal(t, brokenC, readFile(t, filepath.Join(dir, "main.c")))
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, cfgFile := project(t, nil)
		res := execute(t, "", "fix", "--config", cfgFile, filepath.Join(t.TempDir(), "missing"))
		assert.Equal(t, cli.ExitIOError, cli.ExitCode(res.err))
	})
}
