// Package resolve turns unresolved reference stubs into a consistent
// component registry. One linear pass builds two lookup indices; one pass
// per reference binds it, so total work is O(N + Σdeps) — there is no
// pairwise comparison anywhere in this package.
package resolve

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/jward/strata/internal/classify"
	"github.com/jward/strata/internal/model"
)

// Resolver owns the registry indices for one resolution run. Not safe for
// concurrent use: resolution is the pipeline's synchronization barrier and
// runs single-threaded over the complete stub set.
type Resolver struct {
	byID     map[string]*model.Component
	bySimple map[string]*model.Component

	// placeholders canonicalizes external nodes: every unresolved mention
	// of the same name shares one component-shaped stand-in.
	placeholders map[string]*model.Component

	// lookups counts index probes, so tests can verify near-linear cost.
	lookups int

	logger *log.Logger
	diags  []model.Diagnostic
}

// New creates a Resolver. A nil logger falls back to stderr.
func New(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Resolver{
		byID:         make(map[string]*model.Component),
		bySimple:     make(map[string]*model.Component),
		placeholders: make(map[string]*model.Component),
		logger:       logger,
	}
}

// Resolve binds every reference stub on every component and returns the
// canonical component set: deduplicated inputs followed by any external
// placeholders created along the way.
//
// Duplicate ids keep the first-seen entry as canonical and drop the rest
// with a log entry; ids are never mutated. Resolution is monotonic — a ref
// that already has a target is left untouched.
func (r *Resolver) Resolve(stubs []*model.Component) []*model.Component {
	canonical := r.buildIndices(stubs)

	for _, c := range canonical {
		for _, ref := range c.AllRefs() {
			if ref.Resolved() {
				continue
			}
			ref.Target = r.resolveName(ref.Name)
		}
	}

	out := make([]*model.Component, 0, len(canonical)+len(r.placeholders))
	out = append(out, canonical...)
	for _, p := range r.placeholders {
		out = append(out, p)
	}
	return out
}

// buildIndices populates byId and bySimpleName in one pass and returns the
// deduplicated input. The simple-name index is a fallback; last writer wins
// there by design.
func (r *Resolver) buildIndices(stubs []*model.Component) []*model.Component {
	canonical := make([]*model.Component, 0, len(stubs))
	for _, c := range stubs {
		if first, dup := r.byID[c.ID]; dup {
			r.logger.Warn("duplicate component id, keeping first occurrence",
				"id", c.ID, "kept", first.FilePath, "dropped", c.FilePath)
			r.diags = append(r.diags, model.Diagnostic{
				Path: c.FilePath, Stage: "resolve",
				Message: "duplicate component id " + c.ID + ", first occurrence kept",
			})
			continue
		}
		r.byID[c.ID] = c
		r.bySimple[c.Name] = c
		canonical = append(canonical, c)
	}
	return canonical
}

// resolveName applies the ordered strategy: exact id, simple name, then the
// package-suffix heuristic. Anything still unresolved becomes an external
// placeholder.
func (r *Resolver) resolveName(name string) *model.Component {
	r.lookups++
	if c, ok := r.byID[name]; ok {
		return c
	}

	simple := model.SimpleName(name)
	if simple == name {
		r.lookups++
		if c, ok := r.bySimple[name]; ok {
			return c
		}
		return r.placeholder(name)
	}

	// Qualified name: strip the qualifier up to the last separator.
	r.lookups++
	if c, ok := r.bySimple[simple]; ok {
		return c
	}

	// Package-suffix heuristic: the qualifier may itself be a known id
	// suffixed with an inner-class or member segment.
	qualifier := name[:len(name)-len(simple)-1]
	r.lookups++
	if c, ok := r.byID[qualifier]; ok {
		return c
	}

	return r.placeholder(name)
}

// placeholder returns the canonical external node for name, creating it on
// first use. Placeholders run through the classifier's name-based rules so
// they carry a best-guess layer and category from birth.
func (r *Resolver) placeholder(name string) *model.Component {
	if p, ok := r.placeholders[name]; ok {
		return p
	}
	p := &model.Component{
		ID:          name,
		Name:        model.SimpleName(name),
		Kind:        model.KindExternal,
		Placeholder: true,
		Layer:       classify.LayerByName(name),
		Category:    classify.CategoryByName(name),
	}
	r.placeholders[name] = p
	return p
}

// Lookups reports how many index probes the resolver has performed.
func (r *Resolver) Lookups() int { return r.lookups }

// Diagnostics returns soft failures recorded during resolution.
func (r *Resolver) Diagnostics() []model.Diagnostic { return r.diags }
