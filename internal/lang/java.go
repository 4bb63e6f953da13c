package lang

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/jward/strata/internal/model"
)

// ParsedFile pairs a tree-sitter parse tree with the source it was parsed
// from. Nodes only yield text against their original source bytes.
type ParsedFile struct {
	Tree *sitter.Tree
	Src  []byte
}

// RootNode returns the tree's root.
func (p *ParsedFile) RootNode() *sitter.Node {
	return p.Tree.RootNode()
}

// JavaParser parses Java sources and caches trees by path so the navigation
// detector can reuse the extraction-phase parse instead of re-parsing.
// Safe for concurrent use; each Parse call builds its own parser instance.
type JavaParser struct {
	cache *lru.Cache[string, *ParsedFile]
}

// DefaultTreeCacheSize bounds the number of parse trees retained.
const DefaultTreeCacheSize = 512

// NewJavaParser creates a JavaParser with an LRU tree cache of the given
// size. Sizes below 1 fall back to DefaultTreeCacheSize.
func NewJavaParser(cacheSize int) *JavaParser {
	if cacheSize < 1 {
		cacheSize = DefaultTreeCacheSize
	}
	cache, _ := lru.New[string, *ParsedFile](cacheSize)
	return &JavaParser{cache: cache}
}

// Parse returns the parse tree for path, reusing a cached tree only when it
// was built from byte-identical content. A changed file reparses and replaces
// the stale entry, so a long-lived parser stays correct across runs.
func (p *JavaParser) Parse(ctx context.Context, path string, content []byte) (*ParsedFile, error) {
	if pf, ok := p.cache.Get(path); ok && bytes.Equal(pf.Src, content) {
		return pf, nil
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	pf := &ParsedFile{Tree: tree, Src: content}
	p.cache.Add(path, pf)
	return pf, nil
}

// JavaExtractor is the AST-backed extractor for Java sources. It walks the
// tree-sitter syntax tree with explicit recursive functions; traversal state
// travels as parameters, never as captured mutable fields.
type JavaExtractor struct {
	parser *JavaParser
}

// NewJavaExtractor creates a JavaExtractor sharing the given parser.
func NewJavaExtractor(parser *JavaParser) *JavaExtractor {
	return &JavaExtractor{parser: parser}
}

func (e *JavaExtractor) Language() model.Language { return model.LangJava }

// Extract walks the parsed tree and emits one component stub per type
// declaration, including nested types. A tree containing syntax errors still
// yields whatever declarations parsed cleanly; the returned error is a soft
// diagnostic, never a reason to drop the partial stubs.
func (e *JavaExtractor) Extract(ctx context.Context, content []byte, path string) ([]*model.Component, error) {
	pf, err := e.parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("java: %w", err)
	}
	// Node ranges are only valid against the bytes the tree was parsed from.
	root := pf.RootNode()
	src := pf.Src
	pkg := javaPackage(root, src)

	var comps []*model.Component
	collectJavaTypes(root, src, pkg, path, &comps)

	if root.HasError() {
		return comps, fmt.Errorf("java: %s has syntax errors, extraction is partial", path)
	}
	return comps, nil
}

// javaPackage finds the package declaration, if any.
func javaPackage(root *sitter.Node, src []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "package_declaration" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				inner := child.NamedChild(j)
				if inner.Type() == "scoped_identifier" || inner.Type() == "identifier" {
					return inner.Content(src)
				}
			}
		}
	}
	return ""
}

// collectJavaTypes recursively gathers type declarations into comps.
func collectJavaTypes(node *sitter.Node, src []byte, pkg, path string, comps *[]*model.Component) {
	var kind model.Kind
	switch node.Type() {
	case "class_declaration":
		kind = model.KindClass
	case "interface_declaration":
		kind = model.KindInterface
	case "enum_declaration":
		kind = model.KindEnum
	case "annotation_type_declaration":
		kind = model.KindAnnotation
	}

	if kind != "" {
		if c := buildJavaComponent(node, src, pkg, path, kind); c != nil {
			*comps = append(*comps, c)
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectJavaTypes(node.NamedChild(i), src, pkg, path, comps)
	}
}

// buildJavaComponent turns one type-declaration node into a component stub.
func buildJavaComponent(node *sitter.Node, src []byte, pkg, path string, kind model.Kind) *model.Component {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(src)

	c := &model.Component{
		ID:       model.QualifiedID(pkg, name),
		Name:     name,
		Package:  pkg,
		Kind:     kind,
		Language: model.LangJava,
		FilePath: path,
	}
	c.Annotations = javaAnnotations(node, src)

	// Supertypes. Classes carry a "superclass" node and a "super_interfaces"
	// node; interfaces carry "extends_interfaces".
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "superclass":
			for _, t := range typeListNames(child, src) {
				c.Extends = &model.Ref{Name: t}
				break
			}
		case "super_interfaces", "extends_interfaces":
			for _, t := range typeListNames(child, src) {
				if child.Type() == "extends_interfaces" && c.Extends == nil {
					c.Extends = &model.Ref{Name: t}
					continue
				}
				c.Implements = append(c.Implements, &model.Ref{Name: t})
			}
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		walkJavaBody(body, src, c)
	}
	return c
}

// typeListNames extracts type names under a superclass/super_interfaces node.
func typeListNames(node *sitter.Node, src []byte) []string {
	var names []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "type_identifier", "scoped_type_identifier":
			names = append(names, stripGenerics(n.Content(src)))
			return
		case "generic_type":
			// The base type of the generic, not its arguments.
			if base := n.NamedChild(0); base != nil {
				names = append(names, stripGenerics(base.Content(src)))
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(node)
	return names
}

// javaAnnotations collects annotation names from a node's modifiers child.
func javaAnnotations(node *sitter.Node, src []byte) []string {
	var anns []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			m := child.NamedChild(j)
			if m.Type() == "marker_annotation" || m.Type() == "annotation" {
				if n := m.ChildByFieldName("name"); n != nil {
					anns = append(anns, n.Content(src))
				}
			}
		}
	}
	return anns
}

// javaVisibility reads the visibility keyword from a node's modifiers child.
// Java's default is package-private.
func javaVisibility(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "modifiers" {
			continue
		}
		text := child.Content(src)
		for _, v := range []string{"public", "private", "protected"} {
			if strings.Contains(text, v) {
				return v
			}
		}
	}
	return "package"
}

// injectionAnnotations are annotation names that mark dependency injection.
var injectionAnnotations = map[string]bool{
	"Inject": true, "Autowired": true, "Resource": true,
	"BindView": true, "InjectView": true,
}

func hasInjectionAnnotation(anns []string) bool {
	for _, a := range anns {
		if injectionAnnotations[model.SimpleName(a)] {
			return true
		}
	}
	return false
}

// walkJavaBody captures fields, methods, and constructor-injection
// parameters from a class/interface body. Nested type declarations are
// handled by the outer collectJavaTypes recursion, not here.
func walkJavaBody(body *sitter.Node, src []byte, c *model.Component) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		decl := body.NamedChild(i)
		switch decl.Type() {
		case "field_declaration":
			captureJavaField(decl, src, c)
		case "method_declaration":
			if m := buildJavaMethod(decl, src); m != nil {
				c.Methods = append(c.Methods, *m)
			}
		case "constructor_declaration":
			captureJavaConstructor(decl, src, c)
		}
	}
}

func captureJavaField(decl *sitter.Node, src []byte, c *model.Component) {
	typeNode := decl.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	typeName := stripGenerics(typeNode.Content(src))
	anns := javaAnnotations(decl, src)
	injected := hasInjectionAnnotation(anns)

	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		c.Fields = append(c.Fields, model.Field{
			Name:        nameNode.Content(src),
			Type:        typeName,
			Visibility:  javaVisibility(decl, src),
			Injected:    injected,
			Annotations: anns,
		})
	}

	if !isDependencyType(typeName) {
		return
	}
	if injected {
		c.Injected = append(c.Injected, &model.Ref{Name: typeName})
	} else {
		c.Dependencies = append(c.Dependencies, &model.Ref{Name: typeName})
	}
}

func buildJavaMethod(decl *sitter.Node, src []byte) *model.Method {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	m := &model.Method{
		Name:       nameNode.Content(src),
		Visibility: javaVisibility(decl, src),
	}
	if ret := decl.ChildByFieldName("type"); ret != nil {
		m.ReturnType = stripGenerics(ret.Content(src))
	}
	m.Params = javaParams(decl.ChildByFieldName("parameters"), src)
	return m
}

// javaParams reads a formal_parameters node into Param records.
func javaParams(params *sitter.Node, src []byte) []model.Param {
	if params == nil {
		return nil
	}
	var out []model.Param
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() != "formal_parameter" && p.Type() != "spread_parameter" {
			continue
		}
		var param model.Param
		if t := p.ChildByFieldName("type"); t != nil {
			param.Type = stripGenerics(t.Content(src))
		}
		if n := p.ChildByFieldName("name"); n != nil {
			param.Name = n.Content(src)
		}
		out = append(out, param)
	}
	return out
}

// captureJavaConstructor records constructor parameters as dependency stubs.
// Parameters of an @Inject/@Autowired constructor are injected dependencies;
// plain constructor parameters are ordinary ones.
func captureJavaConstructor(decl *sitter.Node, src []byte, c *model.Component) {
	injected := hasInjectionAnnotation(javaAnnotations(decl, src))
	for _, p := range javaParams(decl.ChildByFieldName("parameters"), src) {
		if !isDependencyType(p.Type) {
			continue
		}
		ref := &model.Ref{Name: p.Type}
		if injected {
			c.Injected = append(c.Injected, ref)
		} else {
			c.Dependencies = append(c.Dependencies, ref)
		}
	}
}
