package lang

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jward/strata/internal/model"
)

// DartExtractor is the lexical extractor for Dart. Like the Kotlin path it
// is regex-driven and best-effort; Flutter widget classes are recognized by
// their base types and emitted with the widget kind.
type DartExtractor struct{}

// NewDartExtractor creates a DartExtractor.
func NewDartExtractor() *DartExtractor {
	return &DartExtractor{}
}

func (e *DartExtractor) Language() model.Language { return model.LangDart }

var (
	dartLibraryRe = regexp.MustCompile(`(?m)^\s*library\s+([\w.]+)\s*;`)

	// Class declarations with optional extends/with/implements clauses.
	dartClassRe = regexp.MustCompile(`(?m)^\s*(?:abstract\s+)?(class|mixin|enum)\s+(\w+)(?:<[^>{]*>)?((?:\s+(?:extends|with|implements|on)\s+[\w<>,.\s]+?)*)\s*\{`)

	dartExtendsRe    = regexp.MustCompile(`\bextends\s+([\w<>.]+)`)
	dartWithRe       = regexp.MustCompile(`\bwith\s+([\w<>,.\s]+?)(?:\s+implements|\s*$)`)
	dartImplementsRe = regexp.MustCompile(`\bimplements\s+([\w<>,.\s]+?)\s*$`)

	// Typed member fields: `final UserRepository _repo;` / `AuthService auth;`
	dartFieldRe = regexp.MustCompile(`(?m)^\s*(?:static\s+)?(?:final\s+|const\s+|late\s+)*([A-Z][\w<>?.]*)\s+(_?\w+)\s*(?:=|;)`)

	// Methods with explicit return types or `void`, block or arrow bodies.
	dartMethodRe = regexp.MustCompile(`(?m)^\s*(?:@override\s+)?(?:static\s+)?([\w<>?.]+)\s+(_?\w+)\s*\(([^)]*)\)\s*(?:async\s*\*?\s*)?(?:\{|=>)`)

	// Service-locator retrieval: GetIt.I<AuthService>(), getIt<Api>(),
	// Provider.of<CartModel>(context).
	dartLocatorRe = regexp.MustCompile(`(?:GetIt\.(?:I|instance)|getIt|locator)\s*<([\w.]+)>`)
	dartProviderRe = regexp.MustCompile(`Provider\.of<([\w.]+)>`)
)

// widgetBases are Flutter base types whose subclasses are widgets.
var widgetBases = map[string]bool{
	"StatelessWidget": true, "StatefulWidget": true, "State": true,
	"ConsumerWidget": true, "HookWidget": true, "InheritedWidget": true,
}

// Extract scans Dart source for class declarations. The package qualifier is
// the declared library name when present, otherwise the file stem — Dart has
// no package statement, and a file-scoped qualifier keeps ids unique enough
// for simple-name resolution to work.
func (e *DartExtractor) Extract(_ context.Context, content []byte, path string) ([]*model.Component, error) {
	src := string(content)

	pkg := ""
	if m := dartLibraryRe.FindStringSubmatch(src); m != nil {
		pkg = m[1]
	} else {
		pkg = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	matches := dartClassRe.FindAllStringSubmatchIndex(src, -1)
	comps := make([]*model.Component, 0, len(matches))
	for i, m := range matches {
		bodyEnd := len(src)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		comps = append(comps, e.buildComponent(src, m, bodyEnd, pkg, path))
	}
	return comps, nil
}

func (e *DartExtractor) buildComponent(src string, m []int, bodyEnd int, pkg, path string) *model.Component {
	keyword := src[m[2]:m[3]]
	name := src[m[4]:m[5]]
	clauses := ""
	if m[6] >= 0 {
		clauses = src[m[6]:m[7]]
	}

	kind := model.KindClass
	switch keyword {
	case "enum":
		kind = model.KindEnum
	case "mixin":
		kind = model.KindInterface
	}

	c := &model.Component{
		ID:       model.QualifiedID(pkg, name),
		Name:     name,
		Package:  pkg,
		Kind:     kind,
		Language: model.LangDart,
		FilePath: path,
	}

	if em := dartExtendsRe.FindStringSubmatch(clauses); em != nil {
		base := stripGenerics(em[1])
		c.Extends = &model.Ref{Name: base}
		if widgetBases[base] {
			c.Kind = model.KindWidget
		}
	}
	for _, re := range []*regexp.Regexp{dartWithRe, dartImplementsRe} {
		if im := re.FindStringSubmatch(clauses); im != nil {
			for _, part := range strings.Split(im[1], ",") {
				if t := stripGenerics(part); isDependencyType(t) {
					c.Implements = append(c.Implements, &model.Ref{Name: t})
				}
			}
		}
	}

	e.captureBody(src[m[0]:bodyEnd], name, c)
	return c
}

func (e *DartExtractor) captureBody(body, className string, c *model.Component) {
	for _, m := range dartFieldRe.FindAllStringSubmatch(body, -1) {
		typeName := stripGenerics(m[1])
		if !isDependencyType(typeName) || widgetBases[typeName] {
			continue
		}
		vis := "public"
		if strings.HasPrefix(m[2], "_") {
			vis = "private"
		}
		c.Fields = append(c.Fields, model.Field{Name: m[2], Type: typeName, Visibility: vis})
		c.Dependencies = append(c.Dependencies, &model.Ref{Name: typeName})
	}

	for _, m := range dartMethodRe.FindAllStringSubmatch(body, -1) {
		retType := stripGenerics(m[1])
		name := m[2]
		// A "method" whose name matches the class is the constructor; its
		// typed parameters are constructor-injected collaborators.
		if name == className {
			e.captureConstructorParams(m[3], c)
			continue
		}
		// Filter control-flow keywords the method regex can mistake for
		// return types.
		if retType == "if" || retType == "for" || retType == "while" || retType == "switch" || retType == "return" {
			continue
		}
		vis := "public"
		if strings.HasPrefix(name, "_") {
			vis = "private"
		}
		method := model.Method{Name: name, ReturnType: retType, Visibility: vis}
		for _, p := range splitTopLevel(m[3], ',') {
			fields := strings.Fields(strings.TrimSpace(p))
			if len(fields) >= 2 {
				method.Params = append(method.Params, model.Param{
					Type: stripGenerics(fields[0]), Name: fields[1],
				})
			}
		}
		c.Methods = append(c.Methods, method)
	}

	for _, re := range []*regexp.Regexp{dartLocatorRe, dartProviderRe} {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			if t := stripGenerics(m[1]); isDependencyType(t) {
				c.Injected = append(c.Injected, &model.Ref{Name: t})
			}
		}
	}
}

// captureConstructorParams records typed constructor parameters as
// dependencies. `this.field` params refer to already-captured fields.
func (e *DartExtractor) captureConstructorParams(params string, c *model.Component) {
	for _, p := range splitTopLevel(params, ',') {
		fields := strings.Fields(strings.TrimSpace(strings.Trim(p, "{}[]")))
		if len(fields) < 2 || strings.HasPrefix(fields[0], "this.") {
			continue
		}
		if t := stripGenerics(fields[0]); isDependencyType(t) {
			c.Dependencies = append(c.Dependencies, &model.Ref{Name: t})
		}
	}
}
