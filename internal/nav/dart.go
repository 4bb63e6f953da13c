package nav

import (
	"regexp"

	"github.com/jward/strata/internal/model"
)

// Dart/Flutter navigation idioms, lexical.
var (
	// Navigator.push(context, MaterialPageRoute(builder: (_) => ProfileScreen()))
	dartPushRouteRe = regexp.MustCompile(`Navigator\s*\.\s*(?:of\s*\(\s*\w+\s*\)\s*\.\s*)?(push|pushReplacement)\s*\([^;]*?=>\s*(?:const\s+)?(\w+)\s*\(`)

	// Navigator.pushNamed(context, '/profile')
	dartPushNamedRe = regexp.MustCompile(`Navigator\s*\.\s*(?:of\s*\(\s*\w+\s*\)\s*\.\s*)?(pushNamed|pushReplacementNamed|popAndPushNamed)\s*\(\s*[^,)]*,\s*['"]([^'"]+)['"]`)

	// Navigator.pop(context)
	dartPopRe = regexp.MustCompile(`Navigator\s*\.\s*(?:of\s*\(\s*\w+\s*\)\s*\.\s*)?pop\s*\(`)

	// showDialog(context: context, builder: (_) => ConfirmDialog())
	dartShowDialogRe = regexp.MustCompile(`show(?:Dialog|ModalBottomSheet)\s*(?:<[^>]*>)?\s*\([^;]*?=>\s*(?:const\s+)?(\w+)\s*\(`)

	// url_launcher style external transitions.
	dartLaunchRe = regexp.MustCompile(`\blaunchUrl\s*\(|\blaunch\s*\(\s*['"]`)
)

// routeTarget normalizes a named route ('/profile') into a screen-ish
// identifier (profile). The resolver-independent flow graph keys on these.
func routeTarget(route string) string {
	for len(route) > 0 && route[0] == '/' {
		route = route[1:]
	}
	if route == "" {
		return "root"
	}
	return route
}

// detectDart applies the Flutter idiom table: navigate-with-constructed-
// transition-object calls, named routes, pops, dialogs, and external URL
// launches.
func detectDart(src string, b *flowBuilder) {
	for _, m := range dartPushRouteRe.FindAllStringSubmatchIndex(src, -1) {
		typ := model.NavForward
		if src[m[2]:m[3]] == "pushReplacement" {
			typ = model.NavReplace
		}
		b.add(src[m[4]:m[5]], typ, lexicalConditions(src, m[0]))
	}
	for _, m := range dartPushNamedRe.FindAllStringSubmatchIndex(src, -1) {
		typ := model.NavForward
		if src[m[2]:m[3]] != "pushNamed" {
			typ = model.NavReplace
		}
		b.add(routeTarget(src[m[4]:m[5]]), typ, lexicalConditions(src, m[0]))
	}
	for _, m := range dartPopRe.FindAllStringIndex(src, -1) {
		b.add(PreviousScreen, model.NavBackward, lexicalConditions(src, m[0]))
	}
	for _, m := range dartShowDialogRe.FindAllStringSubmatchIndex(src, -1) {
		b.add(src[m[2]:m[3]], model.NavPopup, lexicalConditions(src, m[0]))
	}
	for _, m := range dartLaunchRe.FindAllStringIndex(src, -1) {
		b.add(ImplicitTarget("ACTION_VIEW"), model.NavExternal, lexicalConditions(src, m[0]))
	}
}
