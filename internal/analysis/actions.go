package analysis

import (
	"strings"

	"inkspect/internal/ir"
	"inkspect/internal/syntax"
)

// Actions computes the code actions applicable to a position or
// selection: attribute additions and flattening for a declaration
// header, child-entity stubs for a body, and the file-level entity
// adds at the root. A position inside an attribute yields no item
// actions; in-attribute work goes through Completions.
func Actions(file *syntax.File, r syntax.TextRange) []Action {
	f := resolveFocus(file, r)

	if f.attr != nil {
		return nil
	}
	if f.item == nil {
		return rootEntityActions(file, f.rng.End)
	}

	var actions []Action
	if f.inHeader {
		actions = append(actions, attributeActions(f)...)
		if fl := flatten(file, f.item); fl != nil {
			actions = append(actions, *fl)
		}
	}
	if f.inHeader || f.inBody {
		actions = append(actions, entityActions(f)...)
	}
	return actions
}

// attributeActions suggests new attributes (macros, then arguments)
// for the focused declaration.
func attributeActions(f focus) []Action {
	var actions []Action

	for _, kind := range macroCandidates(f) {
		text := macroText(kind)
		actions = append(actions, Action{
			Label: "Add " + macroLabel(kind) + " attribute macro",
			Kind:  Refactor,
			Range: f.item.Range,
			Edits: []TextEdit{insertBefore(f.file, f.item, text, text)},
		})
	}

	candidates, primary := argCandidates(f)
	for _, kind := range candidates {
		actions = append(actions, Action{
			Label: "Add ink! " + kind.Name() + " attribute argument",
			Kind:  Refactor,
			Range: f.item.Range,
			Edits: []TextEdit{extendOrNew(f.file, f.item, primary, kind)},
		})
	}
	return actions
}

func macroLabel(kind ir.MacroKind) string {
	parts := strings.SplitN(kind.Path(), "::", 2)
	if len(parts) != 2 {
		return "ink!"
	}
	return "ink! " + parts[1]
}
