// Package classify assigns each component a layer and a category from fixed
// enumerations. Both classifiers are ordered rule tables evaluated top to
// bottom, first match wins, and are pure functions of the component's own
// fields — re-running classification on an unchanged set is idempotent.
package classify

import (
	"strings"

	"github.com/jward/strata/internal/model"
)

type layerRule struct {
	patterns []string
	layer    model.Layer
}

// extendsLayerRules match a component's base-type name. Substring matching:
// framework base classes surface with arbitrary qualification
// ("AppCompatActivity", "RecyclerView.Adapter"). Business and data rules run
// before the UI rule so compound names keep their meaning: "AndroidViewModel"
// must hit "ViewModel", not the UI rule's "View".
var extendsLayerRules = []layerRule{
	{[]string{"ViewModel", "Presenter", "UseCase", "Interactor", "Controller", "Bloc", "Cubit"}, model.LayerBusiness},
	{[]string{"Repository", "Dao", "DataSource", "Database", "SQLiteOpenHelper"}, model.LayerData},
	{[]string{"Activity", "Fragment", "Dialog", "Adapter", "ViewHolder", "View", "Widget", "State", "Layout", "Application"}, model.LayerUI},
}

// nameLayerRules match a component's own name by suffix.
var nameLayerRules = []layerRule{
	{[]string{"Activity", "Fragment", "Adapter", "ViewHolder", "Screen", "Page", "Dialog", "Widget", "View"}, model.LayerUI},
	{[]string{"ViewModel", "Presenter", "Controller", "UseCase", "Interactor", "Bloc"}, model.LayerBusiness},
	{[]string{"Repository", "DataSource", "Dao", "Service"}, model.LayerData},
	{[]string{"Entity", "Domain", "Model"}, model.LayerDomain},
}

type categoryRule struct {
	patterns []string
	category model.Category
}

// categoryRules are keyed on name/type substrings, widened past the layer
// vocabulary to cover routing, networking, persistence, security, and DI.
// Routing outranks UI so NavHostFragment lands in NAVIGATION; presentation
// logic outranks UI so "LoginViewModel" hits "ViewModel" before the UI
// rule's "View" can shadow it.
var categoryRules = []categoryRule{
	{[]string{"Navigator", "Router", "NavHost", "NavController", "Navigation", "Route"}, model.CategoryNavigation},
	{[]string{"ViewModel", "Presenter", "UseCase", "Interactor"}, model.CategoryBusinessLogic},
	{[]string{"Activity", "Fragment", "Screen", "Page", "Dialog", "View", "Widget", "Adapter", "Layout", "Toolbar", "Button"}, model.CategoryUI},
	{[]string{"Entity", "Model", "Dto", "Record", "Bean", "Pojo"}, model.CategoryDataModel},
	{[]string{"Repository", "Dao", "Database", "Storage", "Cache", "Prefs",
		"Api", "Client", "Http", "Retrofit", "Socket", "Request", "Response",
		"Auth", "Security", "Crypto", "Token", "Session",
		"Module", "Provider", "Injector", "Component", "Factory",
		"Service", "Manager", "Helper", "Util"}, model.CategoryBusinessLogic},
}

// Apply classifies every component in place. An explicit layer set by an
// upstream signal (e.g. the manifest cross-check) is honored as-is;
// Unknown does not count as explicit.
func Apply(comps []*model.Component) {
	for _, c := range comps {
		if c.Layer == "" || c.Layer == model.LayerUnknown {
			c.Layer = LayerOf(c)
		}
		c.Category = CategoryOf(c)
	}
}

// LayerOf computes a component's layer from its kind, base type, and name.
// Total: always returns a defined value, Unknown at worst.
func LayerOf(c *model.Component) model.Layer {
	// Widget and layout kinds are UI by construction.
	if c.Kind == model.KindWidget || c.Kind == model.KindLayout {
		return model.LayerUI
	}
	if c.Extends != nil {
		base := model.SimpleName(c.Extends.Name)
		for _, rule := range extendsLayerRules {
			for _, p := range rule.patterns {
				if strings.Contains(base, p) {
					return rule.layer
				}
			}
		}
	}
	return LayerByName(c.Name)
}

// LayerByName runs only the name-suffix rules. The resolver uses this on
// external placeholders, which have nothing but a name to go on.
func LayerByName(name string) model.Layer {
	simple := model.SimpleName(name)
	for _, rule := range nameLayerRules {
		for _, p := range rule.patterns {
			if strings.HasSuffix(simple, p) {
				return rule.layer
			}
		}
	}
	return model.LayerUnknown
}

// CategoryOf computes a component's functional category from its name and
// base type. Total; UNKNOWN at worst.
func CategoryOf(c *model.Component) model.Category {
	if c.Kind == model.KindWidget || c.Kind == model.KindLayout {
		return model.CategoryUI
	}
	subject := c.Name
	if c.Extends != nil {
		subject += " " + model.SimpleName(c.Extends.Name)
	}
	for _, rule := range categoryRules {
		for _, p := range rule.patterns {
			if strings.Contains(subject, p) {
				return rule.category
			}
		}
	}
	return model.CategoryUnknown
}

// CategoryByName runs the category table against a bare name, for
// placeholders.
func CategoryByName(name string) model.Category {
	simple := model.SimpleName(name)
	for _, rule := range categoryRules {
		for _, p := range rule.patterns {
			if strings.Contains(simple, p) {
				return rule.category
			}
		}
	}
	return model.CategoryUnknown
}
