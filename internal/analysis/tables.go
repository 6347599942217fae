package analysis

import (
	"inkspect/internal/ir"
	"inkspect/internal/syntax"
)

// The validity tables are static total functions. Candidate slices are
// returned in a fixed canonical order so suggestion lists are
// reproducible.

// macrosFor returns the attribute macros an item kind can carry. Test
// macros additionally require the right cfg-gated module context.
func macrosFor(item *syntax.Node) []ir.MacroKind {
	switch item.Kind {
	case syntax.MODULE:
		return []ir.MacroKind{ir.Contract}
	case syntax.TRAIT:
		return []ir.MacroKind{ir.ChainExtension, ir.TraitDefinition}
	case syntax.STRUCT, syntax.ENUM, syntax.UNION:
		return []ir.MacroKind{ir.StorageItem}
	case syntax.FN:
		var out []ir.MacroKind
		if ir.InTestModule(item) {
			out = append(out, ir.Test)
		}
		if ir.InE2ETestModule(item) {
			out = append(out, ir.E2ETest)
		}
		return out
	}
	return nil
}

// argsFor returns the argument kinds an unannotated item kind accepts.
func argsFor(item *syntax.Node) []ir.ArgKind {
	switch item.Kind {
	case syntax.STRUCT:
		return []ir.ArgKind{ir.Anonymous, ir.Event, ir.Storage}
	case syntax.RECORD_FIELD:
		return []ir.ArgKind{ir.Topic}
	case syntax.FN:
		return []ir.ArgKind{
			ir.Constructor, ir.Default, ir.Extension, ir.HandleStatus,
			ir.Message, ir.Payable, ir.Selector,
		}
	case syntax.IMPL:
		return []ir.ArgKind{ir.Impl, ir.Namespace}
	}
	return nil
}

// siblingsFor returns the complementary arguments an attribute kind
// can host next to its primary.
func siblingsFor(kind ir.AttributeKind) []ir.ArgKind {
	if kind.IsMacro {
		switch kind.Macro {
		case ir.Contract:
			return []ir.ArgKind{ir.Env, ir.KeepAttr}
		case ir.TraitDefinition:
			return []ir.ArgKind{ir.KeepAttr, ir.Namespace}
		case ir.StorageItem:
			return []ir.ArgKind{ir.Derive}
		case ir.E2ETest:
			return []ir.ArgKind{ir.AdditionalContracts, ir.Environment, ir.KeepAttr}
		}
		return nil
	}
	switch kind.Arg {
	case ir.Event:
		return []ir.ArgKind{ir.Anonymous}
	case ir.Constructor, ir.Message:
		return []ir.ArgKind{ir.Default, ir.Payable, ir.Selector}
	case ir.Extension:
		return []ir.ArgKind{ir.HandleStatus}
	case ir.Impl:
		return []ir.ArgKind{ir.Namespace}
	}
	return nil
}

// scopeCompatible reports whether an argument kind may appear under
// the resolved enclosing scope. Contract-entity arguments also work
// free-standing since a contract module is optional context, but a
// detected foreign scope must match.
func scopeCompatible(kind ir.ArgKind, scope ir.Scope) bool {
	switch kind {
	case ir.Constructor, ir.Storage, ir.Event, ir.Impl, ir.Anonymous, ir.Topic:
		return scope == ir.ScopeFree || scope == ir.ScopeContract
	case ir.Message, ir.Default:
		return scope != ir.ScopeChainExtension
	case ir.Extension, ir.HandleStatus:
		return scope == ir.ScopeChainExtension
	}
	return true
}

// macroScopeCompatible reports whether an attribute macro may be
// suggested under the resolved scope. Entity-defining macros only
// apply outside any ink! entity; test macros are cfg-gated instead.
func macroScopeCompatible(kind ir.MacroKind, scope ir.Scope) bool {
	switch kind {
	case ir.Test, ir.E2ETest:
		return true
	}
	return scope == ir.ScopeFree
}
