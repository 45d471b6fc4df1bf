package repair

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gojanitor/pkg/formatter"
)

// Language identifies a language family.
type Language string

// Supported language families.
const (
	LanguageC          Language = "c"
	LanguageJava       Language = "java"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
)

// extensionTable maps lowercase file extensions to language families.
//
//nolint:gochecknoglobals // Read-only lookup table.
var extensionTable = map[string]Language{
	".c":    LanguageC,
	".h":    LanguageC,
	".cpp":  LanguageC,
	".cc":   LanguageC,
	".cxx":  LanguageC,
	".hpp":  LanguageC,
	".ino":  LanguageC,
	".pde":  LanguageC,
	".java": LanguageJava,
	".py":   LanguagePython,
	".js":   LanguageJavaScript,
	".jsx":  LanguageJavaScript,
	".ts":   LanguageJavaScript,
	".tsx":  LanguageJavaScript,
}

// LanguageForPath returns the language family for path by extension,
// case-insensitively.
func LanguageForPath(path string) (Language, bool) {
	lang, ok := extensionTable[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// SupportedExtensions returns every handled extension, sorted.
func SupportedExtensions() []string {
	return slices.Sorted(maps.Keys(extensionTable))
}

// ExtensionsFor returns the extensions mapped to lang, sorted.
func ExtensionsFor(lang Language) []string {
	var exts []string
	for ext, l := range extensionTable {
		if l == lang {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)
	return exts
}

// Languages returns every supported family in a stable order.
func Languages() []Language {
	return []Language{LanguageC, LanguageJava, LanguagePython, LanguageJavaScript}
}

// FormatterFor names the external formatter the engine for lang hands
// its output to.
func FormatterFor(lang Language) string {
	switch lang {
	case LanguageC:
		return formatter.Uncrustify
	case LanguageJava:
		return formatter.GoogleJavaFormat
	case LanguagePython:
		return formatter.Black
	case LanguageJavaScript:
		return formatter.Prettier
	default:
		return ""
	}
}

// Options tunes the engines.
type Options struct {
	// IndentWidth overrides the fallback formatter indent per language.
	// Missing or non-positive entries use the language default.
	IndentWidth map[Language]int
}

//nolint:gochecknoglobals // Read-only lookup table.
var defaultIndent = map[Language]int{
	LanguageC:          4,
	LanguageJava:       4,
	LanguagePython:     4,
	LanguageJavaScript: 2,
}

func (o Options) indent(lang Language) int {
	if w, ok := o.IndentWidth[lang]; ok && w > 0 {
		return w
	}
	return defaultIndent[lang]
}

// Registry maps language families to engines. The set of engines is fixed
// at construction, so a Registry is safe for concurrent use.
type Registry struct {
	engines map[Language]Engine
}

// NewRegistry builds the engines for every supported family. A nil
// formatter makes every engine use its fallback.
func NewRegistry(f Formatter, opts Options) *Registry {
	if f == nil {
		f = unavailableFormatter{}
	}
	return &Registry{
		engines: map[Language]Engine{
			LanguageC:          newCFamilyEngine(f, opts.indent(LanguageC)),
			LanguageJava:       newJavaEngine(f, opts.indent(LanguageJava)),
			LanguagePython:     newPythonEngine(f, opts.indent(LanguagePython)),
			LanguageJavaScript: newJavaScriptEngine(f, opts.indent(LanguageJavaScript)),
		},
	}
}

// Engine returns the engine for lang.
func (r *Registry) Engine(lang Language) (Engine, bool) {
	e, ok := r.engines[lang]
	return e, ok
}

// ForPath returns the engine for path's extension, or ErrNoEngine.
func (r *Registry) ForPath(path string) (Engine, error) {
	lang, ok := LanguageForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEngine, path)
	}
	e, ok := r.engines[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEngine, path)
	}
	return e, nil
}

// FixBuffer repairs content as if it were the file at path and returns
// the analysis. Nothing is read or written. The path must have a
// supported extension.
func (r *Registry) FixBuffer(ctx context.Context, path string, content []byte) (*Analysis, error) {
	engine, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	return engine.Analyze(ctx, Source{Path: path, Content: content})
}
