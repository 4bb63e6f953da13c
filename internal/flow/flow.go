// Package flow derives user-flow components and business processes from the
// classified component set and the detected navigation edges. Everything
// here is read-only synthesis: flows and processes are built once from the
// finished graph and never fed back into it.
package flow

import (
	"sort"
	"strings"

	"github.com/jward/strata/internal/model"
)

// Synthesize filters components to screen-like ones, classifies each by its
// position in the navigation graph, and groups the results into business
// processes by inferred goal. launchers are the manifest's launcher activity
// simple names; they force ENTRY_POINT.
func Synthesize(comps []*model.Component, flows []model.NavigationFlow, launchers []string) ([]model.UserFlowComponent, []model.BusinessProcess) {
	launcherSet := make(map[string]bool, len(launchers))
	for _, l := range launchers {
		launcherSet[l] = true
	}

	incoming := make(map[string][]string)
	outgoing := make(map[string][]string)
	for _, f := range flows {
		// Bracketed targets ([Implicit] ..., [Previous]) are placeholders,
		// not screens; they never contribute graph positions.
		if strings.HasPrefix(f.TargetScreenID, "[") {
			continue
		}
		outgoing[f.SourceScreenID] = append(outgoing[f.SourceScreenID], f.TargetScreenID)
		incoming[f.TargetScreenID] = append(incoming[f.TargetScreenID], f.SourceScreenID)
	}

	var userFlows []model.UserFlowComponent
	for _, c := range comps {
		if !screenLike(c) {
			continue
		}
		in := uniqueSorted(incoming[c.Name])
		out := uniqueSorted(outgoing[c.Name])
		context := businessContext(c.Name)
		userFlows = append(userFlows, model.UserFlowComponent{
			ID:              c.ID,
			FlowType:        classifyFlow(c.Name, len(in), len(out), launcherSet),
			Actions:         userActions(c.Methods),
			IncomingPaths:   in,
			OutgoingPaths:   out,
			BusinessContext: context,
		})
	}
	sort.Slice(userFlows, func(i, j int) bool { return userFlows[i].ID < userFlows[j].ID })

	return userFlows, buildProcesses(userFlows)
}

// screenLike reports whether a component represents a screen. Widgets, UI
// name suffixes, and UI base types qualify; adapters and view holders are UI
// but not screens.
func screenLike(c *model.Component) bool {
	if c.Placeholder {
		return false
	}
	if c.Kind == model.KindWidget {
		return true
	}
	for _, suffix := range []string{"Activity", "Fragment", "Screen", "Page", "Dialog"} {
		if strings.HasSuffix(c.Name, suffix) && c.Name != suffix {
			return true
		}
	}
	if c.Extends != nil {
		base := model.SimpleName(c.Extends.Name)
		for _, suffix := range []string{"Activity", "Fragment", "StatelessWidget", "StatefulWidget", "State"} {
			if strings.HasSuffix(base, suffix) {
				return true
			}
		}
	}
	return false
}

var errorNameKeywords = []string{"error", "exception", "crash", "failure", "fail"}

// launcherPrefixes are names that denote an app entry screen even when the
// graph shows incoming edges (a deep link can re-enter a splash screen).
// "main" and "home" are deliberately absent: a hub screen with real incoming
// edges keeps its graph-derived type — those names only become entry points
// through zero in-degree or a manifest launcher flag.
var launcherPrefixes = []string{"launch", "splash"}

// classifyFlow applies the fixed priority order: entry, exit, decision,
// error handling, main flow.
func classifyFlow(name string, in, out int, launcherSet map[string]bool) model.FlowType {
	lower := strings.ToLower(name)

	if launcherSet[name] || in == 0 {
		return model.FlowEntryPoint
	}
	for _, prefix := range launcherPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return model.FlowEntryPoint
		}
	}
	if out == 0 {
		return model.FlowExitPoint
	}
	if out > 1 {
		return model.FlowDecisionPoint
	}
	for _, kw := range errorNameKeywords {
		if strings.Contains(lower, kw) {
			return model.FlowErrorHandling
		}
	}
	return model.FlowMainFlow
}

// actionPatterns maps interaction-handler method-name fragments to action
// kinds.
var actionPatterns = []struct {
	fragment string
	kind     string
}{
	{"LongClick", "long-press"},
	{"LongPress", "long-press"},
	{"Click", "tap"},
	{"Tap", "tap"},
	{"Press", "tap"},
	{"TextChanged", "input"},
	{"TextChange", "input"},
	{"Swipe", "swipe"},
	{"Fling", "swipe"},
	{"Submit", "tap"},
}

// userActions derives user actions from interaction-handler method names.
// First matching pattern wins per method.
func userActions(methods []model.Method) []string {
	var actions []string
	for _, m := range methods {
		for _, p := range actionPatterns {
			if strings.Contains(m.Name, p.fragment) {
				actions = append(actions, p.kind+":"+m.Name)
				break
			}
		}
	}
	return actions
}

// contextRules map screen-name keywords to a business goal and process
// profile. Ordered; first match wins.
var contextRules = []struct {
	keywords    []string
	context     string
	processType model.ProcessType
	criticality model.Criticality
}{
	{[]string{"login", "signin", "auth", "password", "otp", "verify"}, "User Authentication", model.ProcessAuthentication, model.CriticalityCritical},
	{[]string{"register", "signup", "onboard", "welcome"}, "User Registration", model.ProcessRegistration, model.CriticalityHigh},
	{[]string{"pay", "checkout", "billing", "cart", "order", "wallet"}, "Payment", model.ProcessPayment, model.CriticalityCritical},
	{[]string{"main", "home", "dashboard", "hub", "landing"}, "Main Hub", model.ProcessCoreFeature, model.CriticalityHigh},
	{[]string{"profile", "account", "settings", "preference"}, "Profile Management", model.ProcessProfile, model.CriticalityMedium},
	{[]string{"search", "find", "filter", "browse", "explore"}, "Search & Discovery", model.ProcessSearch, model.CriticalityMedium},
	{[]string{"chat", "message", "inbox", "notification", "mail"}, "Messaging", model.ProcessCommunication, model.CriticalityMedium},
}

// businessContext infers a coarse business goal from a screen name.
func businessContext(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range contextRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.context
			}
		}
	}
	return "General"
}

// processProfile returns the process type and criticality for a context.
func processProfile(context string) (model.ProcessType, model.Criticality) {
	for _, rule := range contextRules {
		if rule.context == context {
			return rule.processType, rule.criticality
		}
	}
	return model.ProcessGeneral, model.CriticalityLow
}

// processIntegrations synthesizes external-integration records by process
// type. Zero integrations is a valid outcome.
func processIntegrations(t model.ProcessType) []model.Integration {
	switch t {
	case model.ProcessPayment:
		return []model.Integration{
			{Name: "Payment Gateway", Kind: "payment"},
			{Name: "Fraud Screening", Kind: "risk"},
		}
	case model.ProcessAuthentication:
		return []model.Integration{{Name: "Identity Provider", Kind: "auth"}}
	case model.ProcessRegistration:
		return []model.Integration{{Name: "Email Verification Service", Kind: "email"}}
	case model.ProcessCommunication:
		return []model.Integration{{Name: "Push Notification Service", Kind: "messaging"}}
	}
	return nil
}

// flowTypeOrder sorts process steps: entry screens first, exits last.
var flowTypeOrder = map[model.FlowType]int{
	model.FlowEntryPoint:    0,
	model.FlowMainFlow:      1,
	model.FlowDecisionPoint: 2,
	model.FlowErrorHandling: 3,
	model.FlowExitPoint:     4,
}

// buildProcesses groups user flows by business context. Steps derive 1:1
// from member flows.
func buildProcesses(userFlows []model.UserFlowComponent) []model.BusinessProcess {
	byContext := make(map[string][]model.UserFlowComponent)
	for _, uf := range userFlows {
		byContext[uf.BusinessContext] = append(byContext[uf.BusinessContext], uf)
	}

	contexts := make([]string, 0, len(byContext))
	for ctx := range byContext {
		contexts = append(contexts, ctx)
	}
	sort.Strings(contexts)

	var procs []model.BusinessProcess
	for _, ctx := range contexts {
		members := byContext[ctx]
		sort.Slice(members, func(i, j int) bool {
			oi, oj := flowTypeOrder[members[i].FlowType], flowTypeOrder[members[j].FlowType]
			if oi != oj {
				return oi < oj
			}
			return members[i].ID < members[j].ID
		})

		t, crit := processProfile(ctx)
		p := model.BusinessProcess{
			ProcessID:    "proc-" + slug(ctx),
			Name:         ctx,
			Type:         t,
			Criticality:  crit,
			Integrations: processIntegrations(t),
		}
		for _, m := range members {
			p.Steps = append(p.Steps, model.ProcessStep{
				ScreenID:    m.ID,
				FlowType:    m.FlowType,
				Description: string(m.FlowType) + " screen in " + ctx,
			})
		}
		procs = append(procs, p)
	}
	return procs
}

func slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '&':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
