package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/strata/internal/model"
)

func TestBuild_EdgePerReference(t *testing.T) {
	t.Parallel()
	base := &model.Component{ID: "com.app.Base", Name: "Base"}
	iface := &model.Component{ID: "com.app.Iface", Name: "Iface"}
	repo := &model.Component{ID: "com.app.Repo", Name: "Repo"}
	svc := &model.Component{ID: "com.app.Svc", Name: "Svc"}

	c := &model.Component{
		ID:           "com.app.Login",
		Name:         "Login",
		Extends:      &model.Ref{Name: "Base", Target: base},
		Implements:   []*model.Ref{{Name: "Iface", Target: iface}},
		Dependencies: []*model.Ref{{Name: "Repo", Target: repo}},
		Injected:     []*model.Ref{{Name: "Svc", Target: svc}},
	}

	rels := Build([]*model.Component{c, base, iface, repo, svc}, nil)
	assert.ElementsMatch(t, []model.Relationship{
		{SourceID: "com.app.Login", TargetID: "com.app.Base", Type: model.RelExtends},
		{SourceID: "com.app.Login", TargetID: "com.app.Iface", Type: model.RelImplements},
		{SourceID: "com.app.Login", TargetID: "com.app.Repo", Type: model.RelDependsOn},
		{SourceID: "com.app.Login", TargetID: "com.app.Svc", Type: model.RelInjected},
	}, rels)
}

func TestBuild_InjectedExternalBecomesAutowired(t *testing.T) {
	t.Parallel()
	ph := &model.Component{ID: "dagger.Lazy", Name: "Lazy", Placeholder: true}
	c := &model.Component{
		ID: "com.app.Login",
		Injected: []*model.Ref{
			{Name: "dagger.Lazy", Target: ph},
			{Name: "UnboundService"}, // never resolved
		},
	}

	rels := Build([]*model.Component{c, ph}, nil)
	require.Len(t, rels, 2)
	for _, r := range rels {
		assert.Equal(t, model.RelAutowired, r.Type)
	}
}

func TestBuild_UnresolvedRefUsesLiteralName(t *testing.T) {
	t.Parallel()
	c := &model.Component{
		ID:      "com.app.Login",
		Extends: &model.Ref{Name: "androidx.AppCompatActivity"},
	}
	rels := Build([]*model.Component{c}, nil)
	require.Len(t, rels, 1)
	assert.Equal(t, "androidx.AppCompatActivity", rels[0].TargetID)
	assert.Equal(t, model.RelExtends, rels[0].Type)
}

func TestBuild_PlaceholdersEmitNoOutgoingEdges(t *testing.T) {
	t.Parallel()
	ph := &model.Component{
		ID:          "ext.Thing",
		Placeholder: true,
		Extends:     &model.Ref{Name: "ShouldNotAppear"},
	}
	rels := Build([]*model.Component{ph}, nil)
	assert.Empty(t, rels)
}

func TestBuild_NavigationFlows(t *testing.T) {
	t.Parallel()
	flows := []model.NavigationFlow{
		{SourceScreenID: "Login", TargetScreenID: "Main", Type: model.NavForward},
		{SourceScreenID: "Login", TargetScreenID: "Main", Type: model.NavForward}, // duplicate call site
		{SourceScreenID: "Main", TargetScreenID: "Main", Type: model.NavForward},  // self-loop dropped
		{SourceScreenID: "Main", TargetScreenID: "", Type: model.NavForward},      // empty dropped
	}
	rels := Build(nil, flows)
	assert.Equal(t, []model.Relationship{
		{SourceID: "Login", TargetID: "Main", Type: model.RelNavigatesTo},
	}, rels)
}

func TestBuild_NavigationEndpointsUseComponentIDs(t *testing.T) {
	t.Parallel()
	login := &model.Component{ID: "com.app.LoginActivity", Name: "LoginActivity"}
	main := &model.Component{ID: "com.app.MainActivity", Name: "MainActivity"}
	// Two components share the simple name Settings; that endpoint must
	// stay literal rather than guess between them.
	s1 := &model.Component{ID: "com.app.a.Settings", Name: "Settings"}
	s2 := &model.Component{ID: "com.app.b.Settings", Name: "Settings"}

	flows := []model.NavigationFlow{
		{SourceScreenID: "LoginActivity", TargetScreenID: "MainActivity", Type: model.NavForward},
		{SourceScreenID: "MainActivity", TargetScreenID: "Settings", Type: model.NavForward},
		{SourceScreenID: "LoginActivity", TargetScreenID: "[Previous]", Type: model.NavBackward},
	}
	rels := Build([]*model.Component{login, main, s1, s2}, flows)
	assert.ElementsMatch(t, []model.Relationship{
		{SourceID: "com.app.LoginActivity", TargetID: "com.app.MainActivity", Type: model.RelNavigatesTo},
		{SourceID: "com.app.MainActivity", TargetID: "Settings", Type: model.RelNavigatesTo},
		{SourceID: "com.app.LoginActivity", TargetID: "[Previous]", Type: model.RelNavigatesTo},
	}, rels)
}

func TestBuild_SortedDeterministically(t *testing.T) {
	t.Parallel()
	b := &model.Component{ID: "b", Dependencies: []*model.Ref{{Name: "a"}}}
	a := &model.Component{ID: "a", Dependencies: []*model.Ref{{Name: "b"}}}

	first := Build([]*model.Component{b, a}, nil)
	second := Build([]*model.Component{a, b}, nil)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].SourceID)
}
