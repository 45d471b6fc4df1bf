// Package langdetect guesses the language of source text that arrives
// without a file name, such as a buffer piped to fix --stdin. It uses
// go-enry for shebangs and classification, with a few strong patterns
// checked first.
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Extensions returned by Detect. Each one selects a repair engine.
const (
	extC          = ".c"
	extCPP        = ".cpp"
	extJava       = ".java"
	extPython     = ".py"
	extJavaScript = ".js"
	extTypeScript = ".ts"
)

// classifierCandidates limits the enry classifier to the languages a
// repair engine exists for.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{"C", "C++", "Java", "Python", "JavaScript", "TypeScript"}

//nolint:gochecknoglobals // Read-only lookup table.
var enryExtensions = map[string]string{
	"C":          extC,
	"C++":        extCPP,
	"Java":       extJava,
	"Python":     extPython,
	"JavaScript": extJavaScript,
	"TypeScript": extTypeScript,
}

//nolint:gochecknoglobals // Compiled once.
var (
	javaPackageRe = regexp.MustCompile(`(?m)^\s*package\s+[\w.]+\s*;`)
	javaClassRe   = regexp.MustCompile(`(?m)^\s*(public\s+|final\s+|abstract\s+)*(class|interface|enum)\s+\w+`)
	pythonBlockRe = regexp.MustCompile(`(?m)^\s*(def|class|if|elif|for|while|with)\b[^;{]*:\s*$`)
	tsTypeRe      = regexp.MustCompile(`(?m)(:\s*(string|number|boolean|any|void)\b|^\s*(export\s+)?(interface|type)\s+\w+)`)
)

// Detect returns a file extension for the language content appears to
// be written in, or "" when it does not look like a supported language.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return ""
	}

	// Strategy 1: a shebang decides on its own.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return enryExtensions[lang]
	}

	// Strategy 2: language-specific patterns.
	if ext := detectByPattern(string(content)); ext != "" {
		return ext
	}

	// Strategy 3: the classifier, trusted only when it is sure.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe {
		return enryExtensions[lang]
	}

	return ""
}

// detectByPattern checks for patterns that are highly indicative, most
// specific first.
func detectByPattern(content string) string {
	switch {
	case strings.Contains(content, "#include"):
		if isCPP(content) {
			return extCPP
		}
		return extC
	case javaPackageRe.MatchString(content),
		strings.Contains(content, "import java."),
		strings.Contains(content, "public static void main"):
		return extJava
	case pythonBlockRe.MatchString(content),
		strings.Contains(content, "__name__"):
		return extPython
	case tsTypeRe.MatchString(content):
		return extTypeScript
	case javaClassRe.MatchString(content) && strings.Contains(content, ";"):
		return extJava
	case strings.Contains(content, "=>"),
		strings.Contains(content, "const "),
		strings.Contains(content, "let "),
		strings.Contains(content, "function "),
		strings.Contains(content, "console.log"),
		strings.Contains(content, "require("):
		return extJavaScript
	}
	return ""
}

func isCPP(content string) bool {
	return strings.Contains(content, "std::") ||
		strings.Contains(content, "#include <iostream>") ||
		strings.Contains(content, "namespace ") ||
		strings.Contains(content, "template<") ||
		strings.Contains(content, "template <")
}
