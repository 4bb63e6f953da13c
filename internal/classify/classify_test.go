package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/strata/internal/model"
)

func TestLayerOf_ExtendsOutranksName(t *testing.T) {
	t.Parallel()
	// The base type wins even when the component's own name says otherwise.
	c := &model.Component{
		Name:    "UserManager",
		Kind:    model.KindClass,
		Extends: &model.Ref{Name: "androidx.lifecycle.ViewModel"},
	}
	assert.Equal(t, model.LayerBusiness, LayerOf(c))
}

func TestLayerOf_ViewModelBaseIsNotUI(t *testing.T) {
	t.Parallel()
	// "AndroidViewModel" contains "View"; the business rule must see the
	// base type before the UI rule gets a chance to shadow it.
	for _, base := range []string{"ViewModel", "androidx.lifecycle.AndroidViewModel"} {
		c := &model.Component{
			Name:    "SessionHolder",
			Kind:    model.KindClass,
			Extends: &model.Ref{Name: base},
		}
		assert.Equal(t, model.LayerBusiness, LayerOf(c), base)
	}
}

func TestLayerOf_NameSuffixFallback(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		want model.Layer
	}{
		{"LoginActivity", model.LayerUI},
		{"ProfileFragment", model.LayerUI},
		{"CheckoutViewModel", model.LayerBusiness},
		{"UserRepository", model.LayerData},
		{"AuthService", model.LayerData},
		{"OrderEntity", model.LayerDomain},
		{"Utils", model.LayerUnknown},
	}
	for _, tc := range cases {
		c := &model.Component{Name: tc.name, Kind: model.KindClass}
		assert.Equal(t, tc.want, LayerOf(c), tc.name)
	}
}

func TestLayerOf_WidgetAndLayoutKinds(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.LayerUI, LayerOf(&model.Component{Name: "Cart", Kind: model.KindWidget}))
	assert.Equal(t, model.LayerUI, LayerOf(&model.Component{Name: "activity_main", Kind: model.KindLayout}))
}

func TestCategoryOf_NavigationOutranksUI(t *testing.T) {
	t.Parallel()
	// NavHostFragment carries both a navigation and a UI keyword; the rule
	// table puts navigation first.
	c := &model.Component{Name: "NavHostFragment", Kind: model.KindClass}
	assert.Equal(t, model.CategoryNavigation, CategoryOf(c))
}

func TestCategoryOf_ViewModelIsBusinessLogic(t *testing.T) {
	t.Parallel()
	c := &model.Component{Name: "LoginViewModel", Kind: model.KindClass}
	assert.Equal(t, model.CategoryBusinessLogic, CategoryOf(c))
	assert.Equal(t, model.CategoryBusinessLogic, CategoryByName("LoginViewModel"))
}

func TestCategoryOf_BaseTypeContributes(t *testing.T) {
	t.Parallel()
	c := &model.Component{
		Name:    "Startup",
		Kind:    model.KindClass,
		Extends: &model.Ref{Name: "android.app.Activity"},
	}
	assert.Equal(t, model.CategoryUI, CategoryOf(c))
}

func TestApply_TotalAndIdempotent(t *testing.T) {
	t.Parallel()
	comps := []*model.Component{
		{Name: "LoginActivity", Kind: model.KindClass},
		{Name: "UserRepository", Kind: model.KindClass},
		{Name: "Blob", Kind: model.KindClass},
		{Name: "activity_main", Kind: model.KindLayout},
	}
	Apply(comps)

	for _, c := range comps {
		// Totality: every component ends with defined values.
		require.NotEmpty(t, c.Layer, c.Name)
		require.NotEmpty(t, c.Category, c.Name)
	}
	assert.Equal(t, model.LayerUnknown, comps[2].Layer)
	assert.Equal(t, model.CategoryUnknown, comps[2].Category)

	// Idempotence: a second pass changes nothing.
	before := make([]model.Layer, len(comps))
	for i, c := range comps {
		before[i] = c.Layer
	}
	Apply(comps)
	for i, c := range comps {
		assert.Equal(t, before[i], c.Layer, c.Name)
	}
}

func TestApply_HonorsExplicitLayer(t *testing.T) {
	t.Parallel()
	// An upstream signal (manifest cross-check) pinned the layer; the name
	// rules would have said Data.
	c := &model.Component{Name: "SyncService", Kind: model.KindClass, Layer: model.LayerUI}
	Apply([]*model.Component{c})
	assert.Equal(t, model.LayerUI, c.Layer)
}

func TestLayerByName_QualifiedNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.LayerUI, LayerByName("com.app.ui.LoginActivity"))
	assert.Equal(t, model.LayerUnknown, LayerByName("retrofit2.Retrofit"))
}

func TestCategoryByName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.CategoryBusinessLogic, CategoryByName("okhttp3.OkHttpClient"))
	assert.Equal(t, model.CategoryNavigation, CategoryByName("androidx.navigation.NavController"))
	assert.Equal(t, model.CategoryUnknown, CategoryByName("java.time.Clock"))
}
