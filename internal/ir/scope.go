package ir

import "inkspect/internal/syntax"

// Scope is the nearest enclosing classified ink! entity of an item.
// It is derived on demand by walking ancestors, never stored.
type Scope int

const (
	ScopeFree Scope = iota
	ScopeContract
	ScopeChainExtension
	ScopeTraitDefinition
)

// ResolveScope walks the item's ancestors to the nearest one annotated
// with a scope-defining macro. Items outside any such entity resolve
// to ScopeFree.
func ResolveScope(item *syntax.Node) Scope {
	for _, ancestor := range item.AncestorItems() {
		if s, ok := scopeOf(ancestor); ok {
			return s
		}
	}
	return ScopeFree
}

// scopeOf reports the scope an item establishes for its descendants.
func scopeOf(item *syntax.Node) (Scope, bool) {
	for _, attr := range Attributes(item) {
		if !attr.Kind.IsMacro {
			continue
		}
		switch attr.Kind.Macro {
		case Contract:
			return ScopeContract, true
		case ChainExtension:
			return ScopeChainExtension, true
		case TraitDefinition:
			return ScopeTraitDefinition, true
		}
	}
	return ScopeFree, false
}

// InTestModule reports whether the item is lexically inside a module
// annotated `#[cfg(test)]`.
func InTestModule(item *syntax.Node) bool {
	return inCfgModule(item, isCfgTest)
}

// InE2ETestModule reports whether the item is lexically inside a
// module annotated `#[cfg(all(test, feature = "e2e-tests"))]`.
func InE2ETestModule(item *syntax.Node) bool {
	return inCfgModule(item, isCfgE2ETests)
}

func inCfgModule(item *syntax.Node, pred func([]syntax.Token) bool) bool {
	for _, ancestor := range item.AncestorItems() {
		if ancestor.Kind != syntax.MODULE {
			continue
		}
		if moduleMatchesCfg(ancestor, pred) {
			return true
		}
	}
	return false
}

// IsCfgTestModule reports whether the module itself carries
// `#[cfg(test)]`.
func IsCfgTestModule(mod *syntax.Node) bool {
	return mod.Kind == syntax.MODULE && moduleMatchesCfg(mod, isCfgTest)
}

// IsCfgE2EModule reports whether the module itself carries
// `#[cfg(all(test, feature = "e2e-tests"))]`.
func IsCfgE2EModule(mod *syntax.Node) bool {
	return mod.Kind == syntax.MODULE && moduleMatchesCfg(mod, isCfgE2ETests)
}

func moduleMatchesCfg(mod *syntax.Node, pred func([]syntax.Token) bool) bool {
	for _, attrNode := range mod.Attributes() {
		if args, ok := cfgArgs(attrNode); ok && pred(args) {
			return true
		}
	}
	return false
}

// cfgArgs extracts the token tree of a `#[cfg(...)]` attribute.
func cfgArgs(attrNode *syntax.Node) ([]syntax.Token, bool) {
	toks := significant(attrNode.Tokens)
	if len(toks) < 5 || toks[0].Kind != syntax.POUND || toks[1].Kind != syntax.L_BRACK {
		return nil, false
	}
	if toks[2].Kind != syntax.IDENT || toks[2].Text != "cfg" {
		return nil, false
	}
	if toks[3].Kind != syntax.L_PAREN {
		return nil, false
	}
	inner, _ := balancedGroup(toks[3:])
	return inner, true
}

func isCfgTest(args []syntax.Token) bool {
	return len(args) == 1 && args[0].Kind == syntax.IDENT && args[0].Text == "test"
}

func isCfgE2ETests(args []syntax.Token) bool {
	if len(args) == 0 || args[0].Kind != syntax.IDENT || args[0].Text != "all" {
		return false
	}
	sawTest := false
	sawFeature := false
	for i, t := range args {
		if t.Kind == syntax.IDENT && t.Text == "test" {
			sawTest = true
		}
		if t.Kind == syntax.IDENT && t.Text == "feature" {
			// feature = "e2e-tests"
			if i+2 < len(args) && args[i+1].Kind == syntax.EQ &&
				args[i+2].Kind == syntax.STRING && args[i+2].Text == `"e2e-tests"` {
				sawFeature = true
			}
		}
	}
	return sawTest && sawFeature
}
