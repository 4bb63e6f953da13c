package nav

import (
	"regexp"
	"strings"

	"github.com/jward/strata/internal/model"
)

// Kotlin navigation idioms, lexical. Each pattern captures the target type
// or destination; condition metadata comes from the surrounding line window.
var (
	// Intent(this, ProfileActivity::class.java)
	ktIntentRe = regexp.MustCompile(`Intent\s*\(\s*[^,)]+,\s*([\w.]+)::class\.java`)

	// startActivity<ProfileActivity>() — extension with a single generic arg.
	ktGenericStartRe = regexp.MustCompile(`\b(?:startActivity|launchActivity|startActivityForResult)\s*<([\w.]+)>`)

	// Implicit action intents: Intent(Intent.ACTION_VIEW, ...)
	ktActionIntentRe = regexp.MustCompile(`Intent\s*\(\s*(?:Intent\.)?(ACTION_\w+)`)

	// intent.setClass(this, ProfileActivity::class.java) / setClassName(...)
	ktSetClassRe = regexp.MustCompile(`\.set(?:Class|ClassName|Component)\s*\(\s*[^,)]+,\s*"?([\w.]+?)"?(?:::class\.java)?\s*\)`)

	// findNavController().navigate(R.id.profileFragment)
	ktNavigateRe = regexp.MustCompile(`\.navigate\s*\(\s*R\.id\.(\w+)`)

	// supportFragmentManager transaction: .replace(R.id.container, ProfileFragment())
	ktFragmentTxRe = regexp.MustCompile(`\.(replace|add)\s*\(\s*R\.id\.\w+\s*,\s*(\w+)\s*\(`)

	// SettingsDialog().show(supportFragmentManager, ...)
	ktDialogShowRe = regexp.MustCompile(`(\w+(?:Dialog|DialogFragment|Sheet))\s*\([^)]*\)\s*\.show\s*\(`)

	// Back-style transitions: destination is runtime state.
	ktBackRe = regexp.MustCompile(`\b(?:popBackStack|onBackPressed|finish)\s*\(`)
)

// detectKotlin applies the Kotlin idiom table over raw source.
func detectKotlin(src string, b *flowBuilder) {
	for _, m := range ktIntentRe.FindAllStringSubmatchIndex(src, -1) {
		target := model.SimpleName(src[m[2]:m[3]])
		b.add(target, model.NavForward, lexicalConditions(src, m[0]))
	}
	for _, m := range ktGenericStartRe.FindAllStringSubmatchIndex(src, -1) {
		target := model.SimpleName(src[m[2]:m[3]])
		b.add(target, model.NavForward, lexicalConditions(src, m[0]))
	}
	for _, m := range ktActionIntentRe.FindAllStringSubmatchIndex(src, -1) {
		action := src[m[2]:m[3]]
		typ := model.NavExternal
		if strings.Contains(windowAfter(src, m[0], 1), "Uri.parse") {
			typ = model.NavDeepLink
		}
		b.add(ImplicitTarget(action), typ, lexicalConditions(src, m[0]))
	}
	for _, m := range ktSetClassRe.FindAllStringSubmatchIndex(src, -1) {
		target := model.SimpleName(src[m[2]:m[3]])
		b.add(target, model.NavForward, lexicalConditions(src, m[0]))
	}
	for _, m := range ktNavigateRe.FindAllStringSubmatchIndex(src, -1) {
		b.add(src[m[2]:m[3]], model.NavForward, lexicalConditions(src, m[0]))
	}
	for _, m := range ktFragmentTxRe.FindAllStringSubmatchIndex(src, -1) {
		typ := model.NavReplace
		if src[m[2]:m[3]] == "add" {
			typ = model.NavForward
		}
		b.add(src[m[4]:m[5]], typ, lexicalConditions(src, m[0]))
	}
	for _, m := range ktDialogShowRe.FindAllStringSubmatchIndex(src, -1) {
		b.add(src[m[2]:m[3]], model.NavPopup, lexicalConditions(src, m[0]))
	}
	for _, m := range ktBackRe.FindAllStringIndex(src, -1) {
		b.add(PreviousScreen, model.NavBackward, lexicalConditions(src, m[0]))
	}
}
