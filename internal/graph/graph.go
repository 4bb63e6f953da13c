// Package graph converts the resolved component set into a flat, typed edge
// list. Building is a pure function: no registry mutation, no lookups beyond
// what each component already carries.
package graph

import (
	"sort"

	"github.com/jward/strata/internal/model"
)

// Build emits one edge per structural reference:
//
//   - EXTENDS per non-nil extends ref
//   - IMPLEMENTS per implements entry
//   - DEPENDS_ON per dependency (resolved or placeholder)
//   - INJECTED per injected dependency that resolved inside the tree,
//     AUTOWIRED when the injected type stayed external or ambiguous
//   - NAVIGATES_TO per navigation flow between distinct screens
//
// An unresolved extends/implements name becomes the edge target as a
// literal string — an external node id, not a failure. Placeholder
// components contribute no outgoing edges. The result is sorted and
// deduplicated so edge order never depends on input order.
func Build(comps []*model.Component, flows []model.NavigationFlow) []model.Relationship {
	var rels []model.Relationship
	add := func(sourceID string, ref *model.Ref, typ model.RelationType) {
		rels = append(rels, model.Relationship{
			SourceID: sourceID,
			TargetID: ref.TargetID(),
			Type:     typ,
		})
	}

	for _, c := range comps {
		if c.Placeholder {
			continue
		}
		if c.Extends != nil {
			add(c.ID, c.Extends, model.RelExtends)
		}
		for _, ref := range c.Implements {
			add(c.ID, ref, model.RelImplements)
		}
		for _, ref := range c.Dependencies {
			add(c.ID, ref, model.RelDependsOn)
		}
		for _, ref := range c.Injected {
			typ := model.RelInjected
			if !ref.Resolved() || ref.Target.Placeholder {
				typ = model.RelAutowired
			}
			add(c.ID, ref, typ)
		}
	}

	// Flow endpoints carry file-stem screen names while structural edges
	// carry qualified component ids. A screen name held by exactly one
	// component is rewritten to that component's id, so the edge list speaks
	// a single node namespace; ambiguous or external names stay literal.
	ids := screenIDs(comps)
	for _, f := range flows {
		if f.SourceScreenID == "" || f.TargetScreenID == "" || f.SourceScreenID == f.TargetScreenID {
			continue
		}
		rels = append(rels, model.Relationship{
			SourceID: screenID(ids, f.SourceScreenID),
			TargetID: screenID(ids, f.TargetScreenID),
			Type:     model.RelNavigatesTo,
		})
	}

	return dedupe(rels)
}

// screenIDs maps each simple name held by exactly one component to that
// component's id.
func screenIDs(comps []*model.Component) map[string]string {
	ids := make(map[string]string, len(comps))
	ambiguous := map[string]bool{}
	for _, c := range comps {
		if _, seen := ids[c.Name]; seen {
			ambiguous[c.Name] = true
			continue
		}
		ids[c.Name] = c.ID
	}
	for name := range ambiguous {
		delete(ids, name)
	}
	return ids
}

func screenID(ids map[string]string, name string) string {
	if id, ok := ids[name]; ok {
		return id
	}
	return name
}

// dedupe sorts edges and removes exact duplicates.
func dedupe(rels []model.Relationship) []model.Relationship {
	sort.Slice(rels, func(i, j int) bool {
		a, b := rels[i], rels[j]
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		if a.TargetID != b.TargetID {
			return a.TargetID < b.TargetID
		}
		return a.Type < b.Type
	})
	out := rels[:0]
	for i, r := range rels {
		if i > 0 && r == rels[i-1] {
			continue
		}
		out = append(out, r)
	}
	return out
}
