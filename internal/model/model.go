// Package model defines the unified component model shared by every stage of
// the strata pipeline: extraction stubs, resolved components, relationship
// edges, navigation flows, and the derived user-flow and business-process
// records.
package model

import "strings"

// Language is the canonical name of a supported source language.
type Language string

const (
	LangJava   Language = "java"
	LangKotlin Language = "kotlin"
	LangDart   Language = "dart"
	LangXML    Language = "xml"
)

// Kind describes what sort of definition a Component represents.
type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindObject     Kind = "object"
	KindWidget     Kind = "widget"
	KindLayout     Kind = "layout"
	KindAnnotation Kind = "annotation"
	KindExternal   Kind = "external"
)

// Layer is the coarse architectural bucket assigned by the classifier.
// Every component has a layer after classification; Unknown is a value,
// never an absence.
type Layer string

const (
	LayerUI       Layer = "UI"
	LayerBusiness Layer = "Business Logic"
	LayerData     Layer = "Data"
	LayerDomain   Layer = "Domain"
	LayerUnknown  Layer = "Unknown"
)

// Category is the coarse functional bucket used for grouping and
// visualization.
type Category string

const (
	CategoryUI            Category = "UI"
	CategoryDataModel     Category = "DATA_MODEL"
	CategoryBusinessLogic Category = "BUSINESS_LOGIC"
	CategoryNavigation    Category = "NAVIGATION"
	CategoryUnknown       Category = "UNKNOWN"
)

// RelationType labels an edge in the structural dependency graph.
type RelationType string

const (
	RelExtends     RelationType = "EXTENDS"
	RelImplements  RelationType = "IMPLEMENTS"
	RelDependsOn   RelationType = "DEPENDS_ON"
	RelInjected    RelationType = "INJECTED"
	RelAutowired   RelationType = "AUTOWIRED"
	RelNavigatesTo RelationType = "NAVIGATES_TO"
)

// NavigationType labels a detected screen transition.
type NavigationType string

const (
	NavForward  NavigationType = "FORWARD"
	NavBackward NavigationType = "BACKWARD"
	NavReplace  NavigationType = "REPLACE"
	NavPopup    NavigationType = "POPUP"
	NavDeepLink NavigationType = "DEEP_LINK"
	NavExternal NavigationType = "EXTERNAL"
)

// FlowType classifies a screen by its position in the navigation graph.
type FlowType string

const (
	FlowEntryPoint    FlowType = "ENTRY_POINT"
	FlowMainFlow      FlowType = "MAIN_FLOW"
	FlowDecisionPoint FlowType = "DECISION_POINT"
	FlowExitPoint     FlowType = "EXIT_POINT"
	FlowErrorHandling FlowType = "ERROR_HANDLING"
)

// ProcessType is the inferred business goal of a process grouping.
type ProcessType string

const (
	ProcessAuthentication ProcessType = "AUTHENTICATION"
	ProcessRegistration   ProcessType = "REGISTRATION"
	ProcessCoreFeature    ProcessType = "CORE_FEATURE"
	ProcessProfile        ProcessType = "PROFILE_MANAGEMENT"
	ProcessPayment        ProcessType = "PAYMENT"
	ProcessSearch         ProcessType = "SEARCH"
	ProcessCommunication  ProcessType = "COMMUNICATION"
	ProcessGeneral        ProcessType = "GENERAL"
)

// Criticality ranks how central a business process is to the application.
type Criticality string

const (
	CriticalityCritical Criticality = "CRITICAL"
	CriticalityHigh     Criticality = "HIGH"
	CriticalityMedium   Criticality = "MEDIUM"
	CriticalityLow      Criticality = "LOW"
)

// Ref is a reference to another component. Extractors emit refs with only
// Name set (an unresolved stub); the resolver fills Target with either a
// canonical component from the registry or an external placeholder.
// Resolution is monotonic: once Target is non-nil it is never re-pointed.
type Ref struct {
	Name   string
	Target *Component
}

// Resolved reports whether the ref has been bound to a component.
func (r *Ref) Resolved() bool { return r != nil && r.Target != nil }

// TargetID returns the resolved target's id, or the raw stub name when the
// ref never resolved. Graph building uses the name as an external node id
// rather than treating it as a failure.
func (r *Ref) TargetID() string {
	if r.Resolved() {
		return r.Target.ID
	}
	return r.Name
}

// Param is a method or constructor parameter.
type Param struct {
	Name string
	Type string
}

// Method is a member function captured by an extractor.
type Method struct {
	Name       string
	ReturnType string
	Visibility string
	Params     []Param
}

// Field is a member variable captured by an extractor. Injected marks
// fields carrying an injection-style annotation or delegate.
type Field struct {
	Name        string
	Type        string
	Visibility  string
	Injected    bool
	Annotations []string
}

// Component is the unified structural record for one parsed definition,
// regardless of source language. IDs are qualified (package.Name when a
// package is known, bare name otherwise) and unique after resolution.
type Component struct {
	ID       string
	Name     string
	Package  string
	Kind     Kind
	Language Language
	FilePath string

	Extends      *Ref
	Implements   []*Ref
	Dependencies []*Ref
	Injected     []*Ref

	Methods     []Method
	Fields      []Field
	Annotations []string

	Layer    Layer
	Category Category

	NavigationTargets []string

	// Placeholder marks a component-shaped node standing in for a symbol
	// that could not be resolved inside the analyzed tree.
	Placeholder bool
}

// SimpleName strips any qualifier from a (possibly dotted) name.
func SimpleName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// QualifiedID builds a component id from a package and simple name.
func QualifiedID(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// AllRefs returns every reference slot on the component, resolved or not.
// Order is stable: extends, implements, dependencies, injected.
func (c *Component) AllRefs() []*Ref {
	refs := make([]*Ref, 0, 1+len(c.Implements)+len(c.Dependencies)+len(c.Injected))
	if c.Extends != nil {
		refs = append(refs, c.Extends)
	}
	refs = append(refs, c.Implements...)
	refs = append(refs, c.Dependencies...)
	refs = append(refs, c.Injected...)
	return refs
}

// Relationship is one typed edge in the structural dependency graph.
type Relationship struct {
	SourceID string
	TargetID string
	Type     RelationType
}

// NavigationFlow is a detected screen-to-screen transition. Conditions are
// advisory enrichment only and may be empty or incomplete.
type NavigationFlow struct {
	FlowID         string
	SourceScreenID string
	TargetScreenID string
	Type           NavigationType
	Conditions     []string
}

// UserFlowComponent is a screen classified by its position in the
// navigation-flow graph.
type UserFlowComponent struct {
	ID              string
	FlowType        FlowType
	Actions         []string
	OutgoingPaths   []string
	IncomingPaths   []string
	BusinessContext string
}

// ProcessStep is one screen's role inside a business process, derived 1:1
// from the process's member flows.
type ProcessStep struct {
	ScreenID    string
	FlowType    FlowType
	Description string
}

// Integration is a synthesized external-integration record attached to a
// business process by its type.
type Integration struct {
	Name string
	Kind string
}

// BusinessProcess is a heuristic grouping of user flows sharing an inferred
// business goal.
type BusinessProcess struct {
	ProcessID    string
	Name         string
	Type         ProcessType
	Criticality  Criticality
	Steps        []ProcessStep
	Integrations []Integration
}

// ManifestActivity is one activity declared in the manifest, with its
// launcher flag.
type ManifestActivity struct {
	Name     string
	Launcher bool
}

// ManifestInfo is the side-channel metadata parsed from a manifest file.
// A missing or unparseable manifest degrades to the zero value.
type ManifestInfo struct {
	Package     string
	Activities  []ManifestActivity
	Services    []string
	Receivers   []string
	Permissions []string
}

// LauncherNames returns the simple names of launcher activities.
func (m *ManifestInfo) LauncherNames() []string {
	var names []string
	for _, a := range m.Activities {
		if a.Launcher {
			names = append(names, SimpleName(a.Name))
		}
	}
	return names
}

// ProjectDependency is one build-descriptor dependency record.
type ProjectDependency struct {
	Scope    string
	Group    string
	Artifact string
	Version  string
}

// Diagnostic records a soft failure: a file that could not be fully parsed,
// a duplicate id, or a skipped input. Diagnostics never abort the run.
type Diagnostic struct {
	Path    string
	Stage   string
	Message string
}
