//go:build cgo

package repair

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/yaklabco/gojanitor/internal/logging"
	"github.com/yaklabco/gojanitor/pkg/fix"
)

// grammar pairs a tree-sitter language with a pool of parsers for it.
// Parsers are not safe for concurrent use; the pool hands each analysis
// its own.
type grammar struct {
	name string
	pool sync.Pool
}

func newGrammar(name string, lang *sitter.Language) *grammar {
	g := &grammar{name: name}
	g.pool.New = func() any {
		p := sitter.NewParser()
		p.SetLanguage(lang)
		return p
	}
	return g
}

//nolint:gochecknoglobals // Parser pools are shared across engines.
var (
	grammarJavaScript = newGrammar("javascript", javascript.GetLanguage())
	grammarTypeScript = newGrammar("typescript", tslang.GetLanguage())
	grammarTSX        = newGrammar("tsx", tsxlang.GetLanguage())
)

func grammarFor(path string) *grammar {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return grammarTypeScript
	case ".tsx":
		return grammarTSX
	default:
		return grammarJavaScript
	}
}

// rewriteDeclarations parses content and applies the keyword upgrades.
// It fails when the parser errors or the tree's top level is an error.
func rewriteDeclarations(ctx context.Context, g *grammar, content []byte) ([]byte, int, error) {
	parser, _ := g.pool.Get().(*sitter.Parser)
	defer g.pool.Put(parser)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, 0, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if topLevelError(root) {
		return nil, 0, fmt.Errorf("%w: %s", errParseFailed, g.name)
	}

	edits := planDeclarationEdits(root, content)
	if len(edits) == 0 {
		return content, 0, nil
	}

	if conflict := fix.CheckOverlaps(edits); conflict != nil {
		logging.FromContext(ctx).Debug("overlapping declaration edits, keeping the earliest",
			logging.FieldDialect, g.name, logging.FieldError, conflict)
	}
	accepted, _, err := fix.Resolve(edits, len(content))
	if err != nil {
		return nil, 0, err
	}
	return fix.ApplyShifted(content, accepted), len(accepted), nil
}

var errParseFailed = errors.New("syntax tree has a top-level error")

// SyntaxTrees reports whether JavaScript and TypeScript are parsed with
// tree-sitter in this build.
func SyntaxTrees() bool { return true }

// Node types from the javascript and typescript grammars.
const (
	nodeVariableDeclaration = "variable_declaration"
	nodeLexicalDeclaration  = "lexical_declaration"
	nodeForIn               = "for_in_statement"
	nodeDeclarator          = "variable_declarator"
	nodeAssignment          = "assignment_expression"
	nodeAugmented           = "augmented_assignment_expression"
	nodeUpdate              = "update_expression"
	nodeExport              = "export_statement"
	nodeExportSpecifier     = "export_specifier"
	nodeProgram             = "program"
	nodeError               = "ERROR"
)

func topLevelError(root *sitter.Node) bool {
	if root == nil || root.IsError() {
		return true
	}
	for i := 0; i < int(root.ChildCount()); i++ {
		if child := root.Child(i); child != nil && child.Type() == nodeError {
			return true
		}
	}
	return false
}

// declSite is one declaration whose keyword may be upgraded.
type declSite struct {
	keyword     string
	start, end  uint32 // keyword token range
	names       []string
	initialized bool
	exported    bool
	topLevel    bool

	// scopeStart and scopeEnd bound where a reassignment disqualifies
	// the declaration from becoming const.
	scopeStart, scopeEnd uint32
}

// declScan collects declaration sites and the facts needed to judge them.
type declScan struct {
	src      []byte
	sites    []declSite
	assigned map[string][]uint32
	exported map[string]bool
}

// planDeclarationEdits returns keyword edits for root: var becomes let or
// const, and let becomes const when every bound name is initialised, never
// reassigned in its scope, and not exported. Declarations inside error
// subtrees are skipped.
func planDeclarationEdits(root *sitter.Node, src []byte) []fix.TextEdit {
	ds := &declScan{
		src:      src,
		assigned: make(map[string][]uint32),
		exported: make(map[string]bool),
	}
	ds.walk(root, false)

	var edits []fix.TextEdit
	for _, site := range ds.sites {
		target := site.keyword
		switch site.keyword {
		case "var":
			target = "let"
			if ds.constEligible(site) {
				target = "const"
			}
		case "let":
			if ds.constEligible(site) {
				target = "const"
			}
		}
		if target == site.keyword {
			continue
		}
		edits = append(edits, fix.TextEdit{
			StartOffset: int(site.start),
			EndOffset:   int(site.end),
			NewText:     target,
		})
	}
	return edits
}

func (ds *declScan) constEligible(site declSite) bool {
	if !site.initialized || site.exported || len(site.names) == 0 {
		return false
	}
	for _, name := range site.names {
		if site.topLevel && ds.exported[name] {
			return false
		}
		for _, pos := range ds.assigned[name] {
			if pos >= site.scopeStart && pos < site.scopeEnd {
				return false
			}
		}
	}
	return true
}

func (ds *declScan) walk(n *sitter.Node, inError bool) {
	if n == nil {
		return
	}
	if n.Type() == nodeError {
		inError = true
	}

	switch n.Type() {
	case nodeVariableDeclaration, nodeLexicalDeclaration:
		if !inError && !n.HasError() {
			ds.addDeclaration(n)
		}

	case nodeForIn:
		if kind := n.ChildByFieldName("kind"); kind != nil {
			if !inError && !n.HasError() {
				ds.addForInHead(n, kind)
			}
		} else {
			ds.markAssigned(n.ChildByFieldName("left"))
		}

	case nodeAssignment, nodeAugmented:
		ds.markAssigned(n.ChildByFieldName("left"))

	case nodeUpdate:
		ds.markAssigned(n.ChildByFieldName("argument"))

	case nodeExport:
		ds.collectExports(n)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		ds.walk(n.NamedChild(i), inError)
	}
}

func (ds *declScan) addDeclaration(n *sitter.Node) {
	kind := keywordToken(n)
	if kind == nil {
		return
	}

	site := ds.newSite(n, kind)
	site.initialized = true
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != nodeDeclarator {
			continue
		}
		site.names = bindingNames(decl.ChildByFieldName("name"), ds.src, site.names)
		if decl.ChildByFieldName("value") == nil {
			site.initialized = false
		}
	}
	ds.sites = append(ds.sites, site)
}

// addForInHead records "for (let x of xs)"; loop heads need no initialiser.
func (ds *declScan) addForInHead(n, kind *sitter.Node) {
	site := ds.newSite(n, kind)
	site.initialized = true
	site.names = bindingNames(n.ChildByFieldName("left"), ds.src, nil)

	// The loop variable's scope is the loop itself.
	site.scopeStart, site.scopeEnd = n.StartByte(), n.EndByte()
	ds.sites = append(ds.sites, site)
}

func (ds *declScan) newSite(n, kind *sitter.Node) declSite {
	site := declSite{
		keyword: kind.Content(ds.src),
		start:   kind.StartByte(),
		end:     kind.EndByte(),
	}

	scope := n.Parent()
	if scope != nil && scope.Type() == nodeExport {
		site.exported = true
		scope = scope.Parent()
	}
	if scope != nil && (scope.Type() == "switch_case" || scope.Type() == "switch_default") {
		scope = scope.Parent()
	}
	if scope == nil {
		site.scopeStart, site.scopeEnd = 0, uint32(len(ds.src))
		site.topLevel = true
		return site
	}
	site.scopeStart, site.scopeEnd = scope.StartByte(), scope.EndByte()
	site.topLevel = scope.Type() == nodeProgram
	return site
}

// keywordToken returns the var, let, or const token of a declaration.
func keywordToken(n *sitter.Node) *sitter.Node {
	if kind := n.ChildByFieldName("kind"); kind != nil {
		return kind
	}
	if n.ChildCount() == 0 {
		return nil
	}
	first := n.Child(0)
	switch first.Type() {
	case "var", "let", "const":
		return first
	}
	return nil
}

func (ds *declScan) markAssigned(target *sitter.Node) {
	if target == nil {
		return
	}
	pos := target.StartByte()
	for _, name := range bindingNames(target, ds.src, nil) {
		ds.assigned[name] = append(ds.assigned[name], pos)
	}
}

// collectExports records names exported by clause ("export { a, b }") or
// as a default expression ("export default a").
func (ds *declScan) collectExports(n *sitter.Node) {
	if value := n.ChildByFieldName("value"); value != nil && value.Type() == "identifier" {
		ds.exported[value.Content(ds.src)] = true
	}
	var visit func(*sitter.Node)
	visit = func(c *sitter.Node) {
		if c.Type() == nodeExportSpecifier {
			if name := c.ChildByFieldName("name"); name != nil {
				ds.exported[name.Content(ds.src)] = true
			}
			return
		}
		for i := 0; i < int(c.NamedChildCount()); i++ {
			visit(c.NamedChild(i))
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "export_clause" {
			visit(child)
		}
	}
}

// bindingNames appends the identifiers bound by a name or pattern node.
// Member and subscript targets bind nothing; default values are skipped.
func bindingNames(n *sitter.Node, src []byte, names []string) []string {
	if n == nil {
		return names
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return append(names, n.Content(src))
	case "member_expression", "subscript_expression":
		return names
	case "assignment_pattern", "object_assignment_pattern":
		return bindingNames(n.ChildByFieldName("left"), src, names)
	case "pair_pattern":
		return bindingNames(n.ChildByFieldName("value"), src, names)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		names = bindingNames(n.NamedChild(i), src, names)
	}
	return names
}
