package formatter

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const resolverCacheSize = 64

// resolution is a cached lookup outcome. Misses are cached too so a batch
// does not rescan PATH for a tool that is not installed.
type resolution struct {
	path string
	err  error
}

// Resolver maps tool commands to executable paths and memoises results.
// It is safe for concurrent use.
type Resolver struct {
	cache    *lru.Cache[string, resolution]
	lookPath func(string) (string, error)
}

// NewResolver returns a Resolver backed by exec.LookPath.
func NewResolver() *Resolver {
	return NewResolverWithLookPath(exec.LookPath)
}

// NewResolverWithLookPath returns a Resolver using a custom lookup.
func NewResolverWithLookPath(lookPath func(string) (string, error)) *Resolver {
	cache, err := lru.New[string, resolution](resolverCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &Resolver{cache: cache, lookPath: lookPath}
}

// Resolve returns the executable path for command. Commands containing a
// path separator are checked on disk; bare names are looked up on PATH.
// Failures wrap ErrUnavailable.
func (r *Resolver) Resolve(command string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("%w: empty command", ErrUnavailable)
	}

	if cached, ok := r.cache.Get(command); ok {
		return cached.path, cached.err
	}

	res := r.resolve(command)
	r.cache.Add(command, res)
	return res.path, res.err
}

func (r *Resolver) resolve(command string) resolution {
	if strings.ContainsRune(command, filepath.Separator) || strings.ContainsRune(command, '/') {
		info, err := os.Stat(command)
		if err != nil {
			return resolution{err: fmt.Errorf("%w: %s: %w", ErrUnavailable, command, err)}
		}
		if info.IsDir() {
			return resolution{err: fmt.Errorf("%w: %s is a directory", ErrUnavailable, command)}
		}
		return resolution{path: command}
	}

	path, err := r.lookPath(command)
	if err != nil {
		return resolution{err: fmt.Errorf("%w: %s not found on PATH: %w", ErrUnavailable, command, err)}
	}
	return resolution{path: path}
}

// Purge drops all cached lookups.
func (r *Resolver) Purge() {
	r.cache.Purge()
}
