package configloader

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFindProjectConfig_NamePreference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, "gojanitor.yaml"), "jobs: 1\n")

	got, err := FindProjectConfig(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "gojanitor.yaml"); got != want {
		t.Errorf("FindProjectConfig() = %q, want %q", got, want)
	}

	writeConfig(t, filepath.Join(dir, ProjectConfigName), "jobs: 2\n")
	got, err = FindProjectConfig(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, ProjectConfigName); got != want {
		t.Errorf("dotfile should be preferred, got %q", got)
	}
}

func TestFindProjectConfig_IgnoresDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := filepath.Join(dir, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(repo, ProjectConfigName), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("a directory named like the config must not match, got %q", got)
	}
}

func TestSearchDirs_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := filepath.Join(dir, "repo")
	deep := filepath.Join(repo, "a", "b")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(repo, ".hg"), 0755); err != nil {
		t.Fatal(err)
	}

	got := slices.Collect(searchDirs(deep))
	want := []string{deep, filepath.Join(repo, "a"), repo}
	if !slices.Equal(got, want) {
		t.Errorf("searchDirs() = %v, want %v", got, want)
	}
}

func TestDiscoverPaths_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := DiscoverPaths(ctx, t.TempDir()); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}
