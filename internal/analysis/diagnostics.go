package analysis

import (
	"fmt"

	"inkspect/internal/ir"
	"inkspect/internal/syntax"
)

// Diagnostics checks every classified ink! entity in the file against
// the generic attribute rules and the per-entity rules. All reported
// violations are errors; quick-fixes ride along where a safe automatic
// repair exists.
func Diagnostics(file *syntax.File) []Diagnostic {
	var diags []Diagnostic
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		for _, item := range n.Items() {
			attrs := ir.Attributes(item)
			if len(attrs) > 0 {
				diags = append(diags, genericDiagnostics(file, item, attrs)...)
				diags = append(diags, entityDiagnostics(file, item, attrs)...)
			}
			walk(item)
		}
	}
	walk(file.Root)
	return diags
}

func genericDiagnostics(file *syntax.File, item *syntax.Node, attrs []*ir.Attribute) []Diagnostic {
	var diags []Diagnostic

	macroSeen := false
	for _, attr := range attrs {
		if unknownKind(attr.Kind) {
			diags = append(diags, Diagnostic{
				Message:    "Unknown ink! attribute.",
				Range:      attr.Node.Range,
				Severity:   Error,
				Quickfixes: []Action{removeAttrFix(file, attr)},
			})
		} else {
			for _, arg := range attr.Args {
				if arg.Kind == ir.ArgUnknown {
					diags = append(diags, Diagnostic{
						Message:    "Unknown ink! attribute argument.",
						Range:      arg.Range,
						Severity:   Error,
						Quickfixes: []Action{removeArgFix(attr, arg)},
					})
				}
			}
		}

		if attr.Kind.IsMacro {
			if macroSeen {
				diags = append(diags, Diagnostic{
					Message:    "An item can only have one ink! attribute macro.",
					Range:      attr.Node.Range,
					Severity:   Error,
					Quickfixes: []Action{removeAttrFix(file, attr)},
				})
			}
			macroSeen = true
		}

		diags = append(diags, valueDiagnostics(attr)...)
	}
	return diags
}

func unknownKind(kind ir.AttributeKind) bool {
	if kind.IsMacro {
		return kind.Macro == ir.MacroUnknown
	}
	return kind.Arg == ir.ArgUnknown
}

// valueDiagnostics checks each argument's value against the shape its
// kind requires. Mismatches flag the value range with no auto-fix.
func valueDiagnostics(attr *ir.Attribute) []Diagnostic {
	var diags []Diagnostic
	for _, arg := range attr.Args {
		if arg.Kind == ir.ArgUnknown {
			continue
		}
		spec := arg.Kind.ExpectedValue()
		if arg.Value.Matches(spec) {
			continue
		}
		r := arg.Range
		if arg.Value != nil {
			r = arg.Value.Range
		}
		diags = append(diags, Diagnostic{
			Message:  fmt.Sprintf("ink! %s expects %s.", arg.Kind.Name(), valueDescription(spec)),
			Range:    r,
			Severity: Error,
		})
	}
	return diags
}

func valueDescription(spec ir.ValueSpec) string {
	switch spec.Kind {
	case ir.ValueNone:
		return "no value"
	case ir.ValueU32:
		return "a u32 value"
	case ir.ValueU32OrWildcard:
		return "a u32 value or _"
	case ir.ValueBool:
		return "a bool value"
	case ir.ValuePath:
		return "a path value"
	case ir.ValueString:
		switch spec.String {
		case ir.StringIdentifier:
			return "an identifier string value"
		case ir.StringCommaList:
			return "a comma separated string value"
		case ir.StringSpaceList:
			return "a space separated string value"
		}
		return "a string value"
	}
	return "a value"
}

func entityDiagnostics(file *syntax.File, item *syntax.Node, attrs []*ir.Attribute) []Diagnostic {
	var diags []Diagnostic
	for _, attr := range attrs {
		if attr.Kind.IsMacro {
			diags = append(diags, macroEntityDiagnostics(file, item, attr)...)
		} else {
			diags = append(diags, argEntityDiagnostics(file, item, attr)...)
		}
	}
	return diags
}

func macroEntityDiagnostics(file *syntax.File, item *syntax.Node, attr *ir.Attribute) []Diagnostic {
	var diags []Diagnostic
	switch attr.Kind.Macro {
	case ir.Contract:
		diags = append(diags, requireItemKind(file, item, attr, "mod", syntax.MODULE)...)
	case ir.ChainExtension, ir.TraitDefinition:
		diags = append(diags, requireItemKind(file, item, attr, "trait", syntax.TRAIT)...)
	case ir.StorageItem:
		diags = append(diags, requireItemKind(file, item, attr,
			"struct, enum or union", syntax.STRUCT, syntax.ENUM, syntax.UNION)...)
		diags = append(diags, descendantDiagnostics(file, item, "storage_item")...)
	case ir.Test:
		diags = append(diags, requireItemKind(file, item, attr, "fn", syntax.FN)...)
		diags = append(diags, descendantDiagnostics(file, item, "test")...)
	case ir.E2ETest:
		diags = append(diags, requireItemKind(file, item, attr, "fn", syntax.FN)...)
		diags = append(diags, descendantDiagnostics(file, item, "e2e test")...)
	}
	return diags
}

func argEntityDiagnostics(file *syntax.File, item *syntax.Node, attr *ir.Attribute) []Diagnostic {
	var diags []Diagnostic
	switch attr.Kind.Arg {
	case ir.Storage, ir.Event, ir.Anonymous:
		diags = append(diags, requireItemKind(file, item, attr, "struct", syntax.STRUCT)...)
	case ir.Topic:
		diags = append(diags, requireItemKind(file, item, attr, "struct field", syntax.RECORD_FIELD)...)
	case ir.Impl:
		diags = append(diags, requireItemKind(file, item, attr, "impl", syntax.IMPL)...)
	case ir.Constructor:
		diags = append(diags, requireItemKind(file, item, attr, "fn", syntax.FN)...)
		if item.Kind == syntax.FN && item.Sig != nil {
			diags = append(diags, constructorDiagnostics(file, item)...)
			diags = append(diags, callableDiagnostics(file, item, "constructor")...)
			diags = append(diags, descendantDiagnostics(file, item, "constructor")...)
		}
	case ir.Message:
		diags = append(diags, requireItemKind(file, item, attr, "fn", syntax.FN)...)
		if item.Kind == syntax.FN && item.Sig != nil {
			diags = append(diags, messageDiagnostics(file, item)...)
			diags = append(diags, callableDiagnostics(file, item, "message")...)
			diags = append(diags, descendantDiagnostics(file, item, "message")...)
		}
	case ir.Extension:
		diags = append(diags, requireItemKind(file, item, attr, "fn", syntax.FN)...)
	}
	return diags
}

// requireItemKind flags an attribute applied to the wrong item kind,
// offering removal of the attribute as the fix.
func requireItemKind(file *syntax.File, item *syntax.Node, attr *ir.Attribute, want string, kinds ...syntax.NodeKind) []Diagnostic {
	for _, kind := range kinds {
		if item.Kind == kind {
			return nil
		}
	}
	return []Diagnostic{{
		Message:    fmt.Sprintf("`%s` can only be applied to a `%s` item.", file.Text(attr.Node.Range), want),
		Range:      attr.Node.Range,
		Severity:   Error,
		Quickfixes: []Action{removeAttrFix(file, attr)},
	}}
}

// messageDiagnostics enforces the message-specific signature rules:
// a reference receiver and no `Self` return type.
func messageDiagnostics(file *syntax.File, fn *syntax.Node) []Diagnostic {
	var diags []Diagnostic
	sig := fn.Sig

	if !sig.HasSelfRef {
		r := fn.DeclarationRange()
		if sig.ParamsOpen != nil && sig.ParamsClose != nil {
			r = syntax.NewRange(sig.ParamsOpen.Range.Start, sig.ParamsClose.Range.End)
		}
		var fixes []Action
		if sig.ParamsOpen != nil {
			for _, recv := range []string{"&self", "&mut self"} {
				text := recv
				if sig.HasParams || sig.HasSelfValue {
					text += ", "
				}
				fixes = append(fixes, Action{
					Label: fmt.Sprintf("Add `%s` receiver", recv),
					Kind:  QuickFix,
					Range: r,
					Edits: []TextEdit{Insert(sig.ParamsOpen.Range.End, text, "")},
				})
			}
		}
		diags = append(diags, Diagnostic{
			Message:    "ink! messages must have a `&self` or `&mut self` receiver.",
			Range:      r,
			Severity:   Error,
			Quickfixes: fixes,
		})
	}

	if sig.RetTypeText == "Self" {
		del := syntax.NewRange(sig.RetArrow.Range.Start, sig.RetTypeRange.End)
		del = withLeadingTrivia(file, del)
		diags = append(diags, Diagnostic{
			Message:  "ink! messages must not return `Self`.",
			Range:    sig.RetTypeRange,
			Severity: Error,
			Quickfixes: []Action{{
				Label: "Remove return type",
				Kind:  QuickFix,
				Range: sig.RetTypeRange,
				Edits: []TextEdit{Delete(del)},
			}},
		})
	}
	return diags
}

// constructorDiagnostics enforces constructor callability: no self
// receiver and an explicit return type.
func constructorDiagnostics(file *syntax.File, fn *syntax.Node) []Diagnostic {
	var diags []Diagnostic
	sig := fn.Sig

	if sig.HasSelfRef || sig.HasSelfValue {
		r := fn.DeclarationRange()
		if sig.ParamsOpen != nil && sig.ParamsClose != nil {
			r = syntax.NewRange(sig.ParamsOpen.Range.Start, sig.ParamsClose.Range.End)
		}
		diags = append(diags, Diagnostic{
			Message:  "ink! constructors must not have a self receiver.",
			Range:    r,
			Severity: Error,
		})
	}

	if sig.RetArrow == nil && sig.ParamsClose != nil {
		diags = append(diags, Diagnostic{
			Message:  "ink! constructors must have a return type.",
			Range:    fn.DeclarationRange(),
			Severity: Error,
			Quickfixes: []Action{{
				Label: "Add `Self` return type",
				Kind:  QuickFix,
				Range: fn.DeclarationRange(),
				Edits: []TextEdit{Insert(sig.ParamsClose.Range.End, " -> Self", "")},
			}},
		})
	}
	return diags
}

// callableDiagnostics enforces the shared fn restrictions for
// contract-callable entities: no generics, no const/async/unsafe, no
// explicit ABI, not variadic, only bare `pub` or inherited visibility.
func callableDiagnostics(file *syntax.File, fn *syntax.Node, entity string) []Diagnostic {
	var diags []Diagnostic
	sig := fn.Sig

	if sig.HasGenerics() {
		diags = append(diags, Diagnostic{
			Message:  fmt.Sprintf("ink! %ss must not be generic.", entity),
			Range:    sig.Generics,
			Severity: Error,
			Quickfixes: []Action{{
				Label: "Remove generic parameters",
				Kind:  QuickFix,
				Range: sig.Generics,
				Edits: []TextEdit{Delete(sig.Generics)},
			}},
		})
	}

	for _, qual := range sig.Qualifiers {
		switch qual.Text {
		case "const", "async", "unsafe":
			diags = append(diags, Diagnostic{
				Message:  fmt.Sprintf("ink! %ss must not be `%s`.", entity, qual.Text),
				Range:    qual.Range,
				Severity: Error,
				Quickfixes: []Action{{
					Label: fmt.Sprintf("Remove `%s`", qual.Text),
					Kind:  QuickFix,
					Range: qual.Range,
					Edits: []TextEdit{Delete(withTrailingTrivia(file, qual.Range))},
				}},
			})
		case "extern":
			del := qual.Range
			if sig.Abi != nil {
				del.End = sig.Abi.Range.End
			}
			diags = append(diags, Diagnostic{
				Message:  fmt.Sprintf("ink! %ss must not have an explicit ABI.", entity),
				Range:    del,
				Severity: Error,
				Quickfixes: []Action{{
					Label: "Remove ABI",
					Kind:  QuickFix,
					Range: del,
					Edits: []TextEdit{Delete(withTrailingTrivia(file, del))},
				}},
			})
		}
	}

	if sig.Variadic {
		diags = append(diags, Diagnostic{
			Message:  fmt.Sprintf("ink! %ss must not be variadic.", entity),
			Range:    sig.VariadicSpan,
			Severity: Error,
			Quickfixes: []Action{{
				Label: "Remove variadic parameter",
				Kind:  QuickFix,
				Range: sig.VariadicSpan,
				Edits: []TextEdit{Delete(sig.VariadicSpan)},
			}},
		})
	}

	if len(sig.Vis) > 1 {
		visRange := syntax.NewRange(sig.Vis[0].Range.Start, sig.Vis[len(sig.Vis)-1].Range.End)
		diags = append(diags, Diagnostic{
			Message:  fmt.Sprintf("ink! %ss must have `pub` or inherited visibility.", entity),
			Range:    visRange,
			Severity: Error,
			Quickfixes: []Action{{
				Label: "Change visibility to `pub`",
				Kind:  QuickFix,
				Range: visRange,
				Edits: []TextEdit{Replace(visRange, "pub", "")},
			}},
		})
	}
	return diags
}

// descendantDiagnostics flags ink! attributes nested under an entity
// that must not contain any, one diagnostic per offending attribute,
// each with independent attribute-removal and item-removal fixes.
func descendantDiagnostics(file *syntax.File, item *syntax.Node, entity string) []Diagnostic {
	var diags []Diagnostic
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		for _, child := range n.Items() {
			for _, attr := range ir.Attributes(child) {
				diags = append(diags, Diagnostic{
					Message:  fmt.Sprintf("ink! attributes are not allowed inside an ink! %s.", entity),
					Range:    attr.Node.Range,
					Severity: Error,
					Quickfixes: []Action{
						removeAttrFix(file, attr),
						{
							Label: "Remove item",
							Kind:  QuickFix,
							Range: child.Range,
							Edits: []TextEdit{Delete(withTrailingTrivia(file, child.Range))},
						},
					},
				})
			}
			walk(child)
		}
	}
	walk(item)
	return diags
}

func removeAttrFix(file *syntax.File, attr *ir.Attribute) Action {
	return Action{
		Label: "Remove ink! attribute",
		Kind:  QuickFix,
		Range: attr.Node.Range,
		Edits: []TextEdit{Delete(withTrailingTrivia(file, attr.Node.Range))},
	}
}

// removeArgFix deletes one argument together with its adjacent comma
// separator.
func removeArgFix(attr *ir.Attribute, arg ir.Arg) Action {
	del := arg.Range
	toks := significantTokens(attr.Node.Tokens)
	for i, t := range toks {
		if t.Kind != syntax.COMMA {
			continue
		}
		if t.Range.End <= del.Start && i+1 < len(toks) && toks[i+1].Range.Start >= del.Start {
			del.Start = t.Range.Start
		}
	}
	if del.Start == arg.Range.Start {
		for _, t := range toks {
			if t.Kind == syntax.COMMA && t.Range.Start >= del.End {
				del.End = t.Range.End
				break
			}
		}
	}
	return Action{
		Label: "Remove ink! attribute argument",
		Kind:  QuickFix,
		Range: arg.Range,
		Edits: []TextEdit{Delete(del)},
	}
}
