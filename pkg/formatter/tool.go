// Package formatter runs external canonical formatters over repaired
// source. Text is written to a throwaway file next to the original, the
// tool rewrites it in place, and the result is read back. The throwaway
// file is removed on every exit path.
package formatter

import (
	"maps"
	"slices"
	"strings"
)

// Tool names.
const (
	Uncrustify       = "uncrustify"
	GoogleJavaFormat = "google-java-format"
	Black            = "black"
	Prettier         = "prettier"
)

// Placeholders expanded in Tool.Args.
const (
	PlaceholderFile = "{file}"
	PlaceholderLang = "{lang}"
)

// Tool describes how to invoke one external formatter.
type Tool struct {
	// Name identifies the tool in config and logs.
	Name string

	// Command is an executable name looked up on PATH, or a path.
	Command string

	// Args are passed to Command after placeholder expansion.
	Args []string

	// Disabled skips the tool; engines use their fallback formatters.
	Disabled bool
}

// Argv expands the placeholders in t.Args.
func (t Tool) Argv(file, lang string) []string {
	argv := make([]string, 0, len(t.Args))
	for _, arg := range t.Args {
		arg = strings.ReplaceAll(arg, PlaceholderFile, file)
		arg = strings.ReplaceAll(arg, PlaceholderLang, lang)
		argv = append(argv, arg)
	}
	return argv
}

// Set maps tool names to tools.
type Set map[string]Tool

// DefaultTools returns the built-in tool table.
func DefaultTools() Set {
	return Set{
		Uncrustify: {
			Name:    Uncrustify,
			Command: "uncrustify",
			Args:    []string{"-q", "-l", PlaceholderLang, "-f", PlaceholderFile, "-o", PlaceholderFile},
		},
		GoogleJavaFormat: {
			Name:    GoogleJavaFormat,
			Command: "google-java-format",
			Args:    []string{"--aosp", "--replace", PlaceholderFile},
		},
		Black: {
			Name:    Black,
			Command: "black",
			Args:    []string{"-q", PlaceholderFile},
		},
		Prettier: {
			Name:    Prettier,
			Command: "prettier",
			Args:    []string{"--write", PlaceholderFile},
		},
	}
}

// Override describes user changes to one tool.
type Override struct {
	Command  string
	Args     []string
	Disabled bool
}

// WithOverrides returns a copy of s with overrides applied. Overrides for
// unknown names add new tools.
func (s Set) WithOverrides(overrides map[string]Override) Set {
	out := maps.Clone(s)
	if out == nil {
		out = Set{}
	}
	for name, o := range overrides {
		tool := out[name]
		tool.Name = name
		if o.Command != "" {
			tool.Command = o.Command
		}
		if len(o.Args) > 0 {
			tool.Args = slices.Clone(o.Args)
		}
		tool.Disabled = o.Disabled
		out[name] = tool
	}
	return out
}

// Names returns the tool names in sorted order.
func (s Set) Names() []string {
	return slices.Sorted(maps.Keys(s))
}
