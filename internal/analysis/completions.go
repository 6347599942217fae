package analysis

import (
	"strings"

	"inkspect/internal/ir"
	"inkspect/internal/syntax"
)

// Completions computes in-attribute completion items for a cursor
// offset: namespace and macro names inside the attribute path,
// argument names inside the parenthesized token tree. Positions
// outside any attribute yield nothing; attribute additions on items
// are served by Actions instead.
func Completions(file *syntax.File, offset int) []Completion {
	r := clamp(syntax.EmptyRange(offset), len(file.Source))
	offset = r.Start

	attrNode := file.CoveringAttribute(r)
	if attrNode == nil {
		return nil
	}
	item := attrNode.Parent
	if item != nil && !item.IsItem() {
		item = nil
	}

	toks := significantTokens(attrNode.Tokens)
	if len(toks) < 2 {
		return nil
	}

	if open := firstParen(toks); open != nil && open.Range.Start < offset {
		return argCompletions(file, attrNode, item, offset)
	}
	return pathCompletions(file, item, offset, toks)
}

func significantTokens(toks []syntax.Token) []syntax.Token {
	var out []syntax.Token
	for _, t := range toks {
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}

func firstParen(toks []syntax.Token) *syntax.Token {
	for i := range toks {
		if toks[i].Kind == syntax.L_PAREN {
			return &toks[i]
		}
	}
	return nil
}

// pathCompletions completes the attribute path: the reserved namespace
// names in the first segment, macro names in the second.
func pathCompletions(file *syntax.File, item *syntax.Node, offset int, toks []syntax.Token) []Completion {
	// Path tokens start after `#[`.
	var segments []syntax.Token
	var seps []syntax.Token
	for _, t := range toks[2:] {
		if t.Kind == syntax.IDENT {
			segments = append(segments, t)
		} else if t.Kind == syntax.PATH_SEP {
			seps = append(seps, t)
		} else {
			break
		}
	}
	if len(segments) == 0 {
		// Bare `#[` with the cursor right after it.
		if len(seps) == 0 && toks[1].Range.End <= offset {
			return namespaceCompletions(item, "", syntax.EmptyRange(offset))
		}
		return nil
	}

	first := segments[0]
	if first.Range.Contains(offset) {
		prefix := file.Text(syntax.NewRange(first.Range.Start, offset))
		return namespaceCompletions(item, prefix, first.Range)
	}
	if len(seps) == 0 {
		return nil
	}

	// Second segment position: after the separator.
	namespace := first.Text
	prefix := ""
	replace := syntax.EmptyRange(offset)
	if len(segments) > 1 && segments[1].Range.Contains(offset) {
		prefix = file.Text(syntax.NewRange(segments[1].Range.Start, offset))
		replace = segments[1].Range
	} else if offset < seps[0].Range.End {
		return nil
	}

	var out []Completion
	for _, kind := range filterMacroPrefix(macrosForItem(item), namespace, prefix) {
		name := macroName(kind)
		out = append(out, Completion{
			Label:  name,
			Range:  replace,
			Edit:   Replace(replace, name, ""),
			Detail: "ink! attribute macro",
		})
	}
	return out
}

func namespaceCompletions(item *syntax.Node, prefix string, replace syntax.TextRange) []Completion {
	names := []string{"ink"}
	for _, kind := range macrosForItem(item) {
		if kind == ir.E2ETest {
			names = append(names, "ink_e2e")
			break
		}
	}

	var out []Completion
	for _, name := range names {
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		out = append(out, Completion{
			Label:  name,
			Range:  replace,
			Edit:   Replace(replace, name, ""),
			Detail: "ink! attribute namespace",
		})
	}
	return out
}

// argCompletions completes argument names inside the token tree.
func argCompletions(file *syntax.File, attrNode *syntax.Node, item *syntax.Node, offset int) []Completion {
	attr := ir.Cast(attrNode)
	if attr == nil {
		return nil
	}
	if !attr.TreeRange.Contains(offset) {
		return nil
	}

	prefix := ""
	replace := syntax.EmptyRange(offset)
	for _, t := range significantTokens(attrNode.Tokens) {
		if t.Kind == syntax.IDENT && t.Range.Contains(offset) && t.Range.Start >= attr.TreeRange.Start {
			prefix = file.Text(syntax.NewRange(t.Range.Start, offset))
			replace = t.Range
			break
		}
	}

	var candidates []ir.ArgKind
	switch {
	case attr.Kind.IsMacro:
		candidates = siblingsFor(attr.Kind)
	case attr.Kind.Arg != ir.ArgUnknown:
		candidates = siblingsFor(attr.Kind)
	default:
		candidates = argsForItem(item)
	}

	present := make(map[ir.ArgKind]bool)
	for _, arg := range attr.Args {
		if arg.NameRange.Contains(offset) {
			// The argument being typed does not count as a duplicate
			// of itself.
			continue
		}
		present[arg.Kind] = true
	}

	scope := ir.ScopeFree
	if item != nil {
		scope = ir.ResolveScope(item)
	}

	var out []Completion
	for _, kind := range filterArgPrefix(candidates, prefix) {
		if present[kind] || !scopeCompatible(kind, scope) {
			continue
		}
		plain, snippet := argText(kind)
		out = append(out, Completion{
			Label:  plain,
			Range:  replace,
			Edit:   Replace(replace, plain, snippet),
			Detail: "ink! attribute argument",
		})
	}
	return out
}

func macrosForItem(item *syntax.Node) []ir.MacroKind {
	if item == nil {
		return nil
	}
	return macrosFor(item)
}

func argsForItem(item *syntax.Node) []ir.ArgKind {
	if item == nil {
		return nil
	}
	return argsFor(item)
}

func macroName(kind ir.MacroKind) string {
	path := kind.Path()
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == ':' {
			return path[i+1:]
		}
	}
	return path
}
