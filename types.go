package strata

import "github.com/jward/strata/internal/model"

// Public type aliases for internal model types used in the Result API.
// These are Go type aliases (=) — identical to the internal types at compile
// time. External consumers use these names; no conversion is needed.

type Component = model.Component
type Ref = model.Ref
type Method = model.Method
type Field = model.Field
type Relationship = model.Relationship
type NavigationFlow = model.NavigationFlow
type UserFlowComponent = model.UserFlowComponent
type BusinessProcess = model.BusinessProcess
type ProcessStep = model.ProcessStep
type Integration = model.Integration
type ManifestInfo = model.ManifestInfo
type ManifestActivity = model.ManifestActivity
type ProjectDependency = model.ProjectDependency
type Diagnostic = model.Diagnostic

type Language = model.Language
type Layer = model.Layer
type Category = model.Category
type RelationType = model.RelationType
type NavigationType = model.NavigationType
type FlowType = model.FlowType
