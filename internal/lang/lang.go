// Package lang holds the per-language extractors. Each extractor turns one
// file's content into component stubs with unresolved reference names; the
// resolver binds those names later.
//
// Two extractor families coexist and must stay separated:
//
//   - AST-backed (Java): walks a tree-sitter syntax tree. Exact within what
//     the grammar exposes.
//   - Lexical (Kotlin, Dart): regex token scanning. Heuristic by design —
//     lower precision is an accepted tradeoff, not a defect.
package lang

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jward/strata/internal/model"
)

// Extractor produces component stubs from one file's content. Extract never
// panics on malformed input: it returns whatever partial stubs it could
// produce (possibly none) and a non-nil error only as a soft diagnostic for
// the caller to log. Returned stubs are valid even when the error is non-nil.
type Extractor interface {
	Language() model.Language
	Extract(ctx context.Context, content []byte, path string) ([]*model.Component, error)
}

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]model.Language{
	".java": model.LangJava,
	".kt":   model.LangKotlin,
	".dart": model.LangDart,
	".xml":  model.LangXML,
}

// LanguageForFile returns the canonical language for a path based on its
// extension. Returns ("", false) for unrecognized extensions.
func LanguageForFile(path string) (model.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// Registry hands out extractors by language. The Java extractor shares a
// JavaParser so the navigation detector can reuse cached parse trees.
type Registry struct {
	extractors map[model.Language]Extractor
	parser     *JavaParser
}

// NewRegistry builds a Registry with all supported extractors.
func NewRegistry(parser *JavaParser) *Registry {
	r := &Registry{
		extractors: make(map[model.Language]Extractor),
		parser:     parser,
	}
	for _, e := range []Extractor{
		NewJavaExtractor(parser),
		NewKotlinExtractor(),
		NewDartExtractor(),
		NewLayoutExtractor(),
	} {
		r.extractors[e.Language()] = e
	}
	return r
}

// ForFile returns the extractor responsible for path, if any.
func (r *Registry) ForFile(path string) (Extractor, bool) {
	lang, ok := LanguageForFile(path)
	if !ok {
		return nil, false
	}
	e, ok := r.extractors[lang]
	return e, ok
}

// ForLanguage returns the extractor for a canonical language name.
func (r *Registry) ForLanguage(lang model.Language) (Extractor, bool) {
	e, ok := r.extractors[lang]
	return e, ok
}

// stripGenerics cuts a type expression at its first type-argument bracket
// and trims whitespace: "List<User>" → "List", "Map<K, V> " → "Map".
func stripGenerics(typeExpr string) string {
	if i := strings.IndexAny(typeExpr, "<("); i >= 0 {
		typeExpr = typeExpr[:i]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(typeExpr), "?"))
}

// primitiveTypes are type names that never become dependency stubs.
var primitiveTypes = map[string]bool{
	"void": true, "int": true, "long": true, "short": true, "byte": true,
	"float": true, "double": true, "boolean": true, "char": true,
	"String": true, "Integer": true, "Long": true, "Boolean": true,
	"Double": true, "Float": true, "Object": true, "Unit": true,
	"Int": true, "Char": true, "Byte": true, "Short": true,
	"bool": true, "num": true, "dynamic": true, "var": true, "val": true,
}

// isDependencyType reports whether a type name is worth recording as a
// dependency stub: named, non-primitive, and not a bare generic parameter.
func isDependencyType(name string) bool {
	if name == "" || primitiveTypes[name] {
		return false
	}
	// Single uppercase letters are almost always type parameters.
	if len(name) == 1 {
		return false
	}
	return true
}
