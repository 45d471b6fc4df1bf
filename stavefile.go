//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":     Build,
	"t":     Test.Default,
	"l":     Lint.Default,
	"c":     Check,
	"i":     Install,
	"fmt":   Lint.Fmt,
	"smoke": Bench.Smoke,
	"fmts":  Bench.Formatters,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// ---------------------------------------------------------------------------
// Top-level targets
// ---------------------------------------------------------------------------

// Build compiles the gojanitor binary with version info.
// Skips recompilation when source files have not changed.
func Build() error {
	rebuild, err := target.Dir("bin/gojanitor", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/gojanitor is up to date")
		return nil
	}
	fmt.Println("Building gojanitor...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/gojanitor", "./cmd/gojanitor")
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	if err := sh.Rm("coverage.out"); err != nil {
		return err
	}
	return sh.Rm("coverage.html")
}

// Install installs gojanitor to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing gojanitor...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gojanitor")
}

// Uninstall removes gojanitor from $GOBIN or $GOPATH/bin.
func Uninstall() error {
	fmt.Println("Uninstalling gojanitor...")
	binPath, err := findInstalledBinary("gojanitor")
	if err != nil {
		return err
	}
	if err := os.Remove(binPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("gojanitor is not installed")
			return nil
		}
		return fmt.Errorf("remove binary: %w", err)
	}
	fmt.Printf("Removed %s\n", binPath)
	return nil
}

// Deps ensures all dependencies are downloaded.
func Deps() error {
	fmt.Println("Downloading dependencies...")
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage generates a test coverage report and opens it.
func Coverage() error {
	st.Deps(Test.Default)
	fmt.Println("Generating coverage report...")
	if err := sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html"); err != nil {
		return err
	}
	return sh.RunV("open", "coverage.html")
}

// ---------------------------------------------------------------------------
// Test namespace
// ---------------------------------------------------------------------------

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	return gotestsum("pkgname-and-test-fails")
}

// Verbose runs all tests with standard-verbose output.
func (Test) Verbose() error {
	fmt.Println("Running tests (verbose)...")
	return gotestsum("standard-verbose")
}

func gotestsum(format string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", "tool", "gotestsum", "-f", format, "--",
		"-race", "-p", procs, "-parallel", procs, "./...",
		"-coverprofile=coverage.out", "-covermode=atomic")
}

// ---------------------------------------------------------------------------
// Lint namespace
// ---------------------------------------------------------------------------

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix (for CI pipelines).
func (Lint) CI() error {
	fmt.Println("Running linters (CI mode)...")
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	fmt.Println("Formatting code...")
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck verifies code formatting without modifying files.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	fmt.Println("✓ Code formatting OK")
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	fmt.Println("Running go vet...")
	return sh.RunV("go", "vet", "./...")
}

// ---------------------------------------------------------------------------
// CI namespace
// ---------------------------------------------------------------------------

// Gate runs all CI checks in idiomatic Go order.
func (CI) Gate() error {
	fmt.Println("Running CI gate checks...")
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		CI.ModTidy,
		CI.Cross,
	)
	fmt.Println("\n✓ All CI gate checks passed!")
	return nil
}

// ModTidy fails when "go mod tidy" would change go.mod or go.sum.
func (CI) ModTidy() error {
	fmt.Println("Checking go.mod/go.sum are tidy...")
	files := []string{"go.mod", "go.sum"}
	before := make(map[string][]byte, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[name] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for _, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s after tidy: %w", name, err)
		}
		if !bytes.Equal(before[name], after) {
			return fmt.Errorf("%s changed after 'go mod tidy' - please commit the changes", name)
		}
	}
	fmt.Println("✓ go.mod/go.sum are tidy")
	return nil
}

// Cross builds the release platforms. The JavaScript engine links the
// tree-sitter C runtime, so every target needs a C cross compiler: set
// CC_<goos>_<goarch> (e.g. CC_linux_arm64="zig cc -target aarch64-linux")
// to enable a platform. The host platform always builds with the default CC.
func (CI) Cross() error {
	fmt.Println("Cross-compiling for release platforms...")
	platforms := []struct{ goos, goarch string }{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "amd64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
		{"freebsd", "amd64"},
	}

	built := 0
	for _, p := range platforms {
		env := map[string]string{"GOOS": p.goos, "GOARCH": p.goarch, "CGO_ENABLED": "1"}
		native := p.goos == runtime.GOOS && p.goarch == runtime.GOARCH
		if cc := os.Getenv("CC_" + p.goos + "_" + p.goarch); cc != "" {
			env["CC"] = cc
		} else if !native {
			fmt.Printf("  Skipping %s/%s (no CC_%s_%s)\n", p.goos, p.goarch, p.goos, p.goarch)
			continue
		}

		fmt.Printf("  Building %s/%s...\n", p.goos, p.goarch)
		out := filepath.Join(os.TempDir(), "gojanitor-"+p.goos+"-"+p.goarch)
		if err := sh.RunWith(env, "go", "build", "-o", out, "./cmd/gojanitor"); err != nil {
			return fmt.Errorf("build failed for %s/%s: %w", p.goos, p.goarch, err)
		}
		_ = os.Remove(out)
		built++
	}
	fmt.Printf("✓ %d platform(s) build successfully\n", built)
	return nil
}

// ---------------------------------------------------------------------------
// Bench namespace
// ---------------------------------------------------------------------------

// Default runs Go benchmarks.
func (Bench) Default() error {
	fmt.Println("Running benchmarks...")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-bench=.", "-benchmem",
		"./...",
	)
}

// Smoke builds the binary and runs a dry run over the smoke fixtures with
// external formatters disabled.
func (Bench) Smoke() error {
	fmt.Println("Running gojanitor smoke check...")
	st.Deps(Build)
	start := time.Now()
	err := sh.RunV("bin/gojanitor", "fix", "--dry-run", "--no-formatters", "--format", "table", "testdata/smoke")
	fmt.Printf("Finished in %s\n", time.Since(start).Round(time.Millisecond))
	return err
}

// Formatters reports which external formatters are installed.
func (Bench) Formatters() error {
	fmt.Println("Checking external formatters...")
	missing := checkFormatters()
	if len(missing) > 0 {
		fmt.Printf("%d formatter(s) missing; the built-in fallback will be used for them\n", len(missing))
		return nil
	}
	fmt.Println("✓ All external formatters found")
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}

// findInstalledBinary returns the path where go install would place the binary.
func findInstalledBinary(name string) (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, name), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", name), nil
}

// checkFormatters prints the status of each external formatter and returns
// the names of the missing ones.
func checkFormatters() []string {
	tools := []struct {
		name    string
		args    []string
		install string
	}{
		{"uncrustify", []string{"--version"}, "brew install uncrustify"},
		{"google-java-format", []string{"--version"}, "brew install google-java-format"},
		{"black", []string{"--version"}, "pipx install black"},
		{"prettier", []string{"--version"}, "npm install -g prettier"},
	}

	var missing []string
	for _, tool := range tools {
		if err := exec.Command(tool.name, tool.args...).Run(); err != nil { //nolint:gosec // args are constant
			fmt.Printf("  ✗ %s (install with: %s)\n", tool.name, tool.install)
			missing = append(missing, tool.name)
			continue
		}
		fmt.Printf("  ✓ %s\n", tool.name)
	}
	return missing
}
