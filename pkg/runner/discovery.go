package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/gobwas/glob"
)

// generatedSniffSize is how much of a file is read to decide whether it
// was machine generated.
const generatedSniffSize = 16 * 1024

// Discover finds source files matching opts and returns their absolute
// paths, sorted and without duplicates.
//
// Directory walks skip dot directories, node_modules and other vendored
// trees, and (unless opts.IncludeGenerated) generated or minified files.
// Files named explicitly are only filtered by extension and globs.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	f, err := newFilter(workDir, opts)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, arg := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			if f.keepFile(path, filepath.Dir(path)) {
				files = append(files, path)
			}
			continue
		}

		found, err := f.walk(ctx, path, path)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// pattern is one compiled include or exclude glob.
type pattern struct {
	full glob.Glob

	// top matches "**/x" patterns against a top-level x.
	top glob.Glob

	// baseOnly is set for patterns without a slash, which also match the
	// last path element.
	baseOnly bool
}

func compilePatterns(sources []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(sources))
	for _, src := range sources {
		src = filepath.ToSlash(src)
		full, err := glob.Compile(src, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", src, err)
		}
		p := pattern{full: full, baseOnly: !strings.Contains(src, "/")}
		if rest, ok := strings.CutPrefix(src, "**/"); ok {
			if p.top, err = glob.Compile(rest, '/'); err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", src, err)
			}
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// matches reports whether the slash-separated relative path rel matches.
func (p pattern) matches(rel string) bool {
	switch {
	case p.full.Match(rel):
		return true
	case p.top != nil && p.top.Match(rel):
		return true
	case p.baseOnly:
		return p.full.Match(pathBase(strings.TrimSuffix(rel, "/")))
	}
	return false
}

func pathBase(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[i+1:]
	}
	return rel
}

// filter holds the per-run matching state derived from Options.
type filter struct {
	workDir    string
	extensions map[string]bool
	include    []pattern
	exclude    []pattern
	opts       Options
}

func newFilter(workDir string, opts Options) (*filter, error) {
	include, err := compilePatterns(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool)
	for _, ext := range opts.effectiveExtensions() {
		exts[strings.ToLower(ext)] = true
	}

	return &filter{
		workDir:    workDir,
		extensions: exts,
		include:    include,
		exclude:    exclude,
		opts:       opts,
	}, nil
}

// relPaths returns path relative to the working directory and, when the
// path lies outside it, relative to the walk root too. The last element
// is relative to the nearest of the two.
func (f *filter) relPaths(path, root string) []string {
	var rels []string
	if rel, err := filepath.Rel(f.workDir, path); err == nil {
		rels = append(rels, filepath.ToSlash(rel))
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return rels
		}
	}
	if rel, err := filepath.Rel(root, path); err == nil && rel != "." {
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func anyMatch(patterns []pattern, rels []string) bool {
	for _, p := range patterns {
		for _, rel := range rels {
			if p.matches(rel) {
				return true
			}
		}
	}
	return false
}

// keepFile applies the extension, exclude and include checks.
func (f *filter) keepFile(path, root string) bool {
	if !f.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	rels := f.relPaths(path, root)
	if anyMatch(f.exclude, rels) {
		return false
	}
	return len(f.include) == 0 || anyMatch(f.include, rels)
}

// skipDir reports whether a directory below the walk root is pruned.
func (f *filter) skipDir(path, root string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || name == "node_modules" {
		return true
	}

	rels := f.relPaths(path, root)
	if len(rels) == 0 {
		return false
	}
	if enry.IsVendor(rels[len(rels)-1] + "/") {
		return true
	}
	for _, rel := range rels {
		// "dir/**" matches "dir/" through an empty "**".
		rels = append(rels, rel+"/")
	}
	return anyMatch(f.exclude, rels)
}

// skipWalkedFile applies the checks that only apply to files found by
// walking, not to files named on the command line.
func (f *filter) skipWalkedFile(path, root string) bool {
	if enry.IsDotFile(filepath.Base(path)) {
		return true
	}
	if rels := f.relPaths(path, root); len(rels) > 0 && enry.IsVendor(rels[len(rels)-1]) {
		return true
	}
	return !f.opts.IncludeGenerated && isGenerated(path)
}

// walk collects matching files under dir. root is the directory the
// user named, used for glob matching outside the working directory.
func (f *filter) walk(ctx context.Context, dir, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != dir && f.skipDir(path, root) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, ok := resolveSymlink(path)
			if !ok {
				return nil
			}
			if target.IsDir() {
				if !f.opts.FollowSymlinks {
					return nil
				}
				// Walk the resolved target; WalkDir does not follow links.
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // broken between stat and eval
				}
				sub, err := f.walk(ctx, resolved, resolved)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if f.skipWalkedFile(path, root) || !f.keepFile(path, root) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", dir, err)
	}
	return files, nil
}

// resolveSymlink stats a link's target. Broken links report false.
func resolveSymlink(path string) (fs.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return info, true
}

// isGenerated sniffs the head of a file for generator markers and
// minification. Unreadable files are left to the pipeline to report.
func isGenerated(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	head := make([]byte, generatedSniffSize)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}
	return enry.IsGenerated(path, head[:n])
}
