package strata

import "github.com/jward/strata/internal/model"

// Result is the finished output of one analysis run: in-memory collections
// only. Downstream collaborators (visual canvas, diagram renderers, the
// narrative-documentation generator) consume it read-only; any export
// format is their concern, not the engine's.
type Result struct {
	Root string

	Components      []*model.Component
	Relationships   []model.Relationship
	NavigationFlows []model.NavigationFlow
	UserFlows       []model.UserFlowComponent
	Processes       []model.BusinessProcess

	Manifest     model.ManifestInfo
	Dependencies []model.ProjectDependency
	Diagnostics  []model.Diagnostic

	// Lookups is the resolver's index-probe count for this run, exposed so
	// callers and benchmarks can observe resolution cost.
	Lookups int
}

// ComponentByID returns the component with the given id, or nil.
func (r *Result) ComponentByID(id string) *model.Component {
	for _, c := range r.Components {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ComponentsByLayer counts components per layer, placeholders included.
func (r *Result) ComponentsByLayer() map[model.Layer]int {
	counts := make(map[model.Layer]int)
	for _, c := range r.Components {
		counts[c.Layer]++
	}
	return counts
}

// ComponentsByLanguage counts non-placeholder components per language.
func (r *Result) ComponentsByLanguage() map[model.Language]int {
	counts := make(map[model.Language]int)
	for _, c := range r.Components {
		if !c.Placeholder {
			counts[c.Language]++
		}
	}
	return counts
}

// RelationshipsByType counts edges per relation type.
func (r *Result) RelationshipsByType() map[model.RelationType]int {
	counts := make(map[model.RelationType]int)
	for _, rel := range r.Relationships {
		counts[rel.Type]++
	}
	return counts
}

// Placeholders returns the external placeholder nodes in the registry.
func (r *Result) Placeholders() []*model.Component {
	var out []*model.Component
	for _, c := range r.Components {
		if c.Placeholder {
			out = append(out, c)
		}
	}
	return out
}
