//go:build !cgo

package repair

import (
	"context"
	"errors"
)

// errNoTree is returned by every parse in builds without cgo, where the
// tree-sitter runtime is not linked. The engine takes its regex pass.
var errNoTree = errors.New("syntax trees require a cgo build")

// SyntaxTrees reports whether JavaScript and TypeScript are parsed with
// tree-sitter in this build.
func SyntaxTrees() bool { return false }

type grammar struct{}

func grammarFor(string) *grammar { return nil }

func rewriteDeclarations(context.Context, *grammar, []byte) ([]byte, int, error) {
	return nil, 0, errNoTree
}
