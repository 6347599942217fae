package analysis

import (
	"strings"

	"inkspect/internal/ir"
)

// The suggestion pipeline runs every candidate set through the same
// fixed filter order: duplicates, conflicts, scope, prefix. Conflict
// filtering is implicit in how candidates are sourced (sibling tables
// for annotated items, node-kind tables otherwise).

// presentArgKinds collects every argument kind already carried by the
// item's ink! attributes, including primaries of argument attributes.
func presentArgKinds(attrs []*ir.Attribute) map[ir.ArgKind]bool {
	present := make(map[ir.ArgKind]bool)
	for _, attr := range attrs {
		if !attr.Kind.IsMacro {
			present[attr.Kind.Arg] = true
		}
		for _, arg := range attr.Args {
			present[arg.Kind] = true
		}
	}
	return present
}

// argCandidates sources and filters the argument kinds that can still
// be added to the item: sibling kinds of the primary attribute when
// one exists, the node-kind table otherwise, minus duplicates and
// scope-invalid kinds.
func argCandidates(f focus) ([]ir.ArgKind, *ir.Attribute) {
	attrs := ir.Attributes(f.item)
	primary := ir.Primary(f.item)

	var candidates []ir.ArgKind
	if primary != nil && (primary.Kind.IsMacro || primary.Kind.Arg != ir.ArgUnknown) {
		candidates = siblingsFor(primary.Kind)
	} else {
		candidates = argsFor(f.item)
	}

	present := presentArgKinds(attrs)
	scope := scopeAt(f)
	var out []ir.ArgKind
	for _, kind := range candidates {
		if present[kind] {
			continue
		}
		if !scopeCompatible(kind, scope) {
			continue
		}
		out = append(out, kind)
	}
	return out, primary
}

// macroCandidates sources and filters the attribute macros that can be
// added to an item with no ink! attribute yet.
func macroCandidates(f focus) []ir.MacroKind {
	if len(ir.Attributes(f.item)) > 0 {
		return nil
	}
	scope := scopeAt(f)
	var out []ir.MacroKind
	for _, kind := range macrosFor(f.item) {
		if !macroScopeCompatible(kind, scope) {
			continue
		}
		out = append(out, kind)
	}
	return out
}

// filterArgPrefix keeps candidates whose canonical name starts with
// the typed prefix.
func filterArgPrefix(candidates []ir.ArgKind, prefix string) []ir.ArgKind {
	if prefix == "" {
		return candidates
	}
	var out []ir.ArgKind
	for _, kind := range candidates {
		if strings.HasPrefix(kind.Name(), prefix) {
			out = append(out, kind)
		}
	}
	return out
}

func filterMacroPrefix(candidates []ir.MacroKind, namespace, prefix string) []ir.MacroKind {
	var out []ir.MacroKind
	for _, kind := range candidates {
		path := strings.SplitN(kind.Path(), "::", 2)
		if len(path) != 2 {
			continue
		}
		if namespace != "" && path[0] != namespace {
			continue
		}
		if !strings.HasPrefix(path[1], prefix) {
			continue
		}
		out = append(out, kind)
	}
	return out
}
