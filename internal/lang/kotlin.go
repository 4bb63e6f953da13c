package lang

import (
	"context"
	"regexp"
	"strings"

	"github.com/jward/strata/internal/model"
)

// KotlinExtractor is a lexical extractor: it scans token patterns rather
// than a syntax tree, because no Kotlin grammar ships with the parser stack.
// It is heuristic — it can miss declarations regex cannot see (expression
// bodies, exotic formatting) and occasionally over-matches locals as fields.
// That tradeoff is intentional; callers treat its output as best-effort.
type KotlinExtractor struct{}

// NewKotlinExtractor creates a KotlinExtractor.
func NewKotlinExtractor() *KotlinExtractor {
	return &KotlinExtractor{}
}

func (e *KotlinExtractor) Language() model.Language { return model.LangKotlin }

var (
	ktPackageRe = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)`)

	// Type declarations, with leading annotations and modifiers. Group 1 is
	// the modifier run (for enum/annotation detection), group 2 the keyword,
	// group 3 the name.
	ktTypeRe = regexp.MustCompile(`(?m)^\s*((?:@\w+(?:\([^)]*\))?\s+)*(?:(?:public|private|internal|protected|abstract|open|final|sealed|data|inner|enum|annotation)\s+)*)(class|interface|object)\s+(\w+)`)

	// Property injection: @Inject lateinit var repo: UserRepository
	ktInjectPropRe = regexp.MustCompile(`@Inject\s+(?:lateinit\s+)?var\s+(\w+)\s*:\s*([\w.<>?]+)`)

	// Delegate injection: val vm: LoginViewModel by viewModel()
	ktDelegateRe = regexp.MustCompile(`va[lr]\s+(\w+)\s*:\s*([\w.<>?]+)\s+by\s+(inject|viewModel|viewModels|activityViewModels)\b`)

	// Service-locator retrieval: get<UserRepository>() and
	// ServiceLocator.resolve(UserRepository::class)
	ktLocatorGetRe  = regexp.MustCompile(`\bget<([\w.]+)>\s*\(`)
	ktLocatorCallRe = regexp.MustCompile(`(?:ServiceLocator|Injector)\.\w+\(\s*([\w.]+)::class`)

	// Member properties with explicit types.
	ktFieldRe = regexp.MustCompile(`(?m)^\s*(private|protected|public|internal)?\s*(?:lateinit\s+)?va[lr]\s+(\w+)\s*:\s*([\w.<>?]+)`)

	// Functions. Group 1 modifiers, group 2 name, group 3 params, group 4
	// return type.
	ktFunRe = regexp.MustCompile(`(?m)^\s*((?:(?:public|private|protected|internal|override|open|suspend|inline|operator|infix)\s+)*)fun\s+(?:<[^>]+>\s+)?(\w+)\s*\(([^)]*)\)(?:\s*:\s*([\w.<>?]+))?`)
)

// Extract scans Kotlin source for declarations. Malformed input never
// fails: patterns that do not match simply contribute nothing.
func (e *KotlinExtractor) Extract(_ context.Context, content []byte, path string) ([]*model.Component, error) {
	src := string(content)

	pkg := ""
	if m := ktPackageRe.FindStringSubmatch(src); m != nil {
		pkg = m[1]
	}

	matches := ktTypeRe.FindAllStringSubmatchIndex(src, -1)
	comps := make([]*model.Component, 0, len(matches))
	for i, m := range matches {
		// The region from this declaration to the next one approximates the
		// type's body; lexical extraction has no brace matching for bodies.
		bodyEnd := len(src)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		c := e.buildComponent(src, m, bodyEnd, pkg, path)
		if c != nil {
			comps = append(comps, c)
		}
	}
	return comps, nil
}

func (e *KotlinExtractor) buildComponent(src string, m []int, bodyEnd int, pkg, path string) *model.Component {
	modifiers := src[m[2]:m[3]]
	keyword := src[m[4]:m[5]]
	name := src[m[6]:m[7]]

	kind := model.KindClass
	switch {
	case keyword == "interface":
		kind = model.KindInterface
	case keyword == "object":
		kind = model.KindObject
	case strings.Contains(modifiers, "enum"):
		kind = model.KindEnum
	case strings.Contains(modifiers, "annotation"):
		kind = model.KindAnnotation
	}

	c := &model.Component{
		ID:       model.QualifiedID(pkg, name),
		Name:     name,
		Package:  pkg,
		Kind:     kind,
		Language: model.LangKotlin,
		FilePath: path,
	}
	for _, ann := range regexp.MustCompile(`@(\w+)`).FindAllStringSubmatch(modifiers, -1) {
		c.Annotations = append(c.Annotations, ann[1])
	}

	// Scan forward from the name for an optional primary constructor and a
	// supertype list. `class Foo @Inject constructor(...) : Base(), Iface {`
	rest := src[m[7]:bodyEnd]
	header := rest
	if i := strings.IndexByte(header, '{'); i >= 0 {
		header = header[:i]
	}
	if nl := strings.Index(header, "\n\n"); nl >= 0 {
		header = header[:nl]
	}

	injectedCtor := strings.Contains(header, "@Inject")
	if params, after, ok := scanParenGroup(header); ok {
		e.captureConstructor(params, injectedCtor, c)
		header = after
	}
	if i := strings.Index(header, ":"); i >= 0 {
		e.captureSupertypes(header[i+1:], c)
	}

	e.captureBody(src[m[1]:bodyEnd], c)
	return c
}

// scanParenGroup finds the first balanced parenthesis group in s, skipping
// any annotation or `constructor` tokens before it. Returns the group's
// contents, the remainder of s after it, and whether a group was found
// before any `:` or end of header.
func scanParenGroup(s string) (contents, after string, ok bool) {
	depth := 0
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			depth--
			if depth == 0 && start >= 0 {
				return s[start:i], s[i+1:], true
			}
		case ':':
			if depth == 0 {
				return "", "", false
			}
		}
	}
	return "", "", false
}

// captureConstructor records primary-constructor parameters as dependency
// stubs. `val`/`var` params are also fields.
func (e *KotlinExtractor) captureConstructor(params string, injected bool, c *model.Component) {
	for _, p := range splitTopLevel(params, ',') {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paramInjected := injected || strings.Contains(p, "@Inject")
		i := strings.Index(p, ":")
		if i < 0 {
			continue
		}
		nameSide := strings.Fields(p[:i])
		typeName := stripGenerics(strings.TrimSpace(strings.SplitN(p[i+1:], "=", 2)[0]))
		if len(nameSide) == 0 || !isDependencyType(typeName) {
			continue
		}
		paramName := nameSide[len(nameSide)-1]

		if strings.Contains(p[:i], "val ") || strings.Contains(p[:i], "var ") {
			c.Fields = append(c.Fields, model.Field{
				Name: paramName, Type: typeName, Visibility: "public", Injected: paramInjected,
			})
		}
		ref := &model.Ref{Name: typeName}
		if paramInjected {
			c.Injected = append(c.Injected, ref)
		} else {
			c.Dependencies = append(c.Dependencies, ref)
		}
	}
}

// captureSupertypes splits the `: Base(), Iface by impl` clause. Entries
// with a constructor call are the superclass; bare names are interfaces.
func (e *KotlinExtractor) captureSupertypes(clause string, c *model.Component) {
	if i := strings.IndexByte(clause, '{'); i >= 0 {
		clause = clause[:i]
	}
	for _, entry := range splitTopLevel(clause, ',') {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if i := strings.Index(entry, " by "); i >= 0 {
			entry = entry[:i]
		}
		hasCall := strings.Contains(entry, "(")
		name := stripGenerics(entry)
		if name == "" || !isDependencyType(name) {
			continue
		}
		if hasCall && c.Extends == nil {
			c.Extends = &model.Ref{Name: name}
		} else if c.Extends == nil && c.Kind == model.KindClass && looksLikeBaseClass(name) {
			c.Extends = &model.Ref{Name: name}
		} else {
			c.Implements = append(c.Implements, &model.Ref{Name: name})
		}
	}
}

// looksLikeBaseClass guesses whether a bare supertype name (no constructor
// call, e.g. when the subclass delegates to a secondary constructor) is a
// class rather than an interface. Heuristic: well-known framework base-class
// suffixes.
func looksLikeBaseClass(name string) bool {
	for _, suffix := range []string{"Activity", "Fragment", "ViewModel", "Service", "Application", "Dialog", "Adapter"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// captureBody scans the declaration region for properties, functions, and
// injection idioms.
func (e *KotlinExtractor) captureBody(body string, c *model.Component) {
	// Primary-constructor val/var params are already fields; the body regexes
	// must not double-capture them.
	seen := map[string]bool{}
	for _, f := range c.Fields {
		seen[f.Name] = true
	}

	for _, m := range ktInjectPropRe.FindAllStringSubmatch(body, -1) {
		typeName := stripGenerics(m[2])
		if !isDependencyType(typeName) {
			continue
		}
		c.Fields = append(c.Fields, model.Field{
			Name: m[1], Type: typeName, Injected: true, Annotations: []string{"Inject"},
		})
		c.Injected = append(c.Injected, &model.Ref{Name: typeName})
		seen[m[1]] = true
	}

	for _, m := range ktDelegateRe.FindAllStringSubmatch(body, -1) {
		typeName := stripGenerics(m[2])
		if seen[m[1]] || !isDependencyType(typeName) {
			continue
		}
		c.Fields = append(c.Fields, model.Field{
			Name: m[1], Type: typeName, Injected: true,
		})
		c.Injected = append(c.Injected, &model.Ref{Name: typeName})
		seen[m[1]] = true
	}

	for _, re := range []*regexp.Regexp{ktLocatorGetRe, ktLocatorCallRe} {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			typeName := stripGenerics(m[1])
			if isDependencyType(typeName) {
				c.Injected = append(c.Injected, &model.Ref{Name: typeName})
			}
		}
	}

	for _, m := range ktFieldRe.FindAllStringSubmatch(body, -1) {
		name, typeName := m[2], stripGenerics(m[3])
		if seen[name] || !isDependencyType(typeName) {
			continue
		}
		vis := m[1]
		if vis == "" {
			vis = "public"
		}
		c.Fields = append(c.Fields, model.Field{Name: name, Type: typeName, Visibility: vis})
		c.Dependencies = append(c.Dependencies, &model.Ref{Name: typeName})
		seen[name] = true
	}

	for _, m := range ktFunRe.FindAllStringSubmatch(body, -1) {
		method := model.Method{
			Name:       m[2],
			ReturnType: stripGenerics(m[4]),
			Visibility: ktVisibility(m[1]),
		}
		for _, p := range splitTopLevel(m[3], ',') {
			p = strings.TrimSpace(p)
			if i := strings.Index(p, ":"); i >= 0 {
				method.Params = append(method.Params, model.Param{
					Name: strings.TrimSpace(p[:i]),
					Type: stripGenerics(strings.SplitN(p[i+1:], "=", 2)[0]),
				})
			}
		}
		c.Methods = append(c.Methods, method)
	}
}

func ktVisibility(modifiers string) string {
	for _, v := range []string{"private", "protected", "internal"} {
		if strings.Contains(modifiers, v) {
			return v
		}
	}
	return "public"
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// parentheses or angle brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '<':
			depth++
		case ')', '>':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
