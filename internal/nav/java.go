package nav

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/strata/internal/lang"
	"github.com/jward/strata/internal/model"
)

// detectJava walks the parse tree looking for navigation call sites:
// intent construction with a class literal, setClass-style target
// assignment, NavController navigate calls, fragment transaction
// replace/add with inline-constructed fragments, and dialog shows.
func detectJava(pf *lang.ParsedFile, b *flowBuilder) {
	walkJavaNav(pf.RootNode(), pf.Src, b)
}

func walkJavaNav(node *sitter.Node, src []byte, b *flowBuilder) {
	switch node.Type() {
	case "object_creation_expression":
		javaIntentCreation(node, src, b)
	case "method_invocation":
		javaInvocation(node, src, b)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walkJavaNav(node.NamedChild(i), src, b)
	}
}

// javaIntentCreation handles `new Intent(...)`. A class-literal argument is
// an explicit forward transition; an ACTION_* argument is an implicit one,
// recorded against a placeholder target.
func javaIntentCreation(node *sitter.Node, src []byte, b *flowBuilder) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil || typeNode.Content(src) != "Intent" {
		return
	}
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return
	}

	if lit := firstDescendant(args, "class_literal"); lit != nil {
		target := classLiteralTarget(lit.Content(src))
		b.add(target, model.NavForward, javaConditions(node, src))
		return
	}

	argsText := args.Content(src)
	if i := strings.Index(argsText, "ACTION_"); i >= 0 {
		action := argsText[i:]
		if j := strings.IndexAny(action, ",) \n"); j >= 0 {
			action = action[:j]
		}
		typ := model.NavExternal
		if strings.Contains(argsText, "Uri.parse") {
			typ = model.NavDeepLink
		}
		b.add(ImplicitTarget(action), typ, javaConditions(node, src))
	}
}

// javaInvocation handles setter-based target assignment, navigation-graph
// navigate calls, and fragment container swaps.
func javaInvocation(node *sitter.Node, src []byte, b *flowBuilder) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return
	}

	switch nameNode.Content(src) {
	case "setClass", "setClassName", "setComponent":
		if lit := firstDescendant(args, "class_literal"); lit != nil {
			b.add(classLiteralTarget(lit.Content(src)), model.NavForward, javaConditions(node, src))
		} else if s := firstDescendant(args, "string_literal"); s != nil {
			b.add(model.SimpleName(strings.Trim(s.Content(src), `"`)), model.NavForward, javaConditions(node, src))
		}
	case "navigate":
		// navController.navigate(R.id.profileFragment)
		argsText := args.Content(src)
		if i := strings.Index(argsText, "R.id."); i >= 0 {
			dest := argsText[i+len("R.id."):]
			if j := strings.IndexAny(dest, ",) \n"); j >= 0 {
				dest = dest[:j]
			}
			b.add(dest, model.NavForward, javaConditions(node, src))
		}
	case "replace", "add":
		// transaction.replace(R.id.container, new ProfileFragment())
		if created := firstDescendant(args, "object_creation_expression"); created != nil {
			if t := created.ChildByFieldName("type"); t != nil {
				typ := model.NavReplace
				if nameNode.Content(src) == "add" {
					typ = model.NavForward
				}
				b.add(model.SimpleName(t.Content(src)), typ, javaConditions(node, src))
			}
		}
	case "show":
		// new SettingsDialog().show(fm, tag)
		obj := node.ChildByFieldName("object")
		if obj != nil && obj.Type() == "object_creation_expression" {
			if t := obj.ChildByFieldName("type"); t != nil {
				name := model.SimpleName(t.Content(src))
				if strings.HasSuffix(name, "Dialog") || strings.HasSuffix(name, "DialogFragment") ||
					strings.HasSuffix(name, "Sheet") {
					b.add(name, model.NavPopup, javaConditions(node, src))
				}
			}
		}
	}
}

// classLiteralTarget turns "com.app.ProfileActivity.class" into
// "ProfileActivity".
func classLiteralTarget(text string) string {
	return model.SimpleName(strings.TrimSuffix(text, ".class"))
}

// firstDescendant returns the first named descendant of the given node type,
// depth-first.
func firstDescendant(node *sitter.Node, nodeType string) *sitter.Node {
	if node.Type() == nodeType {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if found := firstDescendant(node.NamedChild(i), nodeType); found != nil {
			return found
		}
	}
	return nil
}

// javaConditions gathers advisory condition metadata for a navigation call
// site: the nearest enclosing if condition, and putExtra keys invoked on the
// same intent variable.
func javaConditions(node *sitter.Node, src []byte) []string {
	var conds []string

	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if anc.Type() == "if_statement" {
			if cond := anc.ChildByFieldName("condition"); cond != nil {
				// One parenthesis layer only: inner call parens stay intact.
				text := strings.TrimSuffix(strings.TrimPrefix(cond.Content(src), "("), ")")
				conds = append(conds, strings.TrimSpace(text))
			}
			break
		}
		if anc.Type() == "method_declaration" {
			break
		}
	}

	conds = append(conds, javaIntentExtras(node, src)...)
	return conds
}

// javaIntentExtras finds the variable the navigation object is bound to and
// collects putExtra keys invoked on it within the enclosing block.
// Best-effort by design: an intent passed around between methods is out of
// reach here.
func javaIntentExtras(node *sitter.Node, src []byte) []string {
	varName := ""
	var block *sitter.Node
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if anc.Type() == "variable_declarator" && varName == "" {
			if n := anc.ChildByFieldName("name"); n != nil {
				varName = n.Content(src)
			}
		}
		if anc.Type() == "block" {
			block = anc
			break
		}
	}
	if varName == "" || block == nil {
		return nil
	}

	var extras []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "method_invocation" {
			obj := n.ChildByFieldName("object")
			name := n.ChildByFieldName("name")
			if obj != nil && name != nil && obj.Content(src) == varName && name.Content(src) == "putExtra" {
				if args := n.ChildByFieldName("arguments"); args != nil {
					if s := firstDescendant(args, "string_literal"); s != nil {
						extras = append(extras, "extra:"+strings.Trim(s.Content(src), `"`))
					}
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(block)
	return extras
}
