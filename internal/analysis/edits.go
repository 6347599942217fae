package analysis

import (
	"fmt"
	"sort"
	"strings"

	"inkspect/internal/ir"
	"inkspect/internal/syntax"
)

// argDefaults supplies the canonical example value for argument kinds
// that require one. Plain and snippet forms differ only in the
// placeholder decoration around this value.
var argDefaults = map[ir.ArgKind]string{
	ir.AdditionalContracts: `"adder/Cargo.toml"`,
	ir.Env:                 "ink::env::DefaultEnvironment",
	ir.Environment:         "ink::env::DefaultEnvironment",
	ir.Extension:           "1",
	ir.HandleStatus:        "true",
	ir.Derive:              "true",
	ir.KeepAttr:            `"foo,bar"`,
	ir.Namespace:           `"my_namespace"`,
	ir.Selector:            "1",
}

// argText renders a new argument of the given kind in both plain and
// snippet form.
func argText(kind ir.ArgKind) (plain, snippet string) {
	name := kind.Name()
	def, ok := argDefaults[kind]
	if !ok {
		return name, name
	}
	return fmt.Sprintf("%s = %s", name, def),
		fmt.Sprintf("%s = ${1:%s}", name, def)
}

// renderArg reproduces an existing parsed argument in canonical
// `name = value` form.
func renderArg(arg ir.Arg) string {
	if arg.Name == "" {
		return ""
	}
	if arg.Value == nil {
		return arg.Name
	}
	return fmt.Sprintf("%s = %s", arg.Name, arg.Value.Text)
}

// attrText renders a full new argument attribute, `#[ink(<arg>)]`.
func attrText(kind ir.ArgKind) (plain, snippet string) {
	p, s := argText(kind)
	return "#[ink(" + p + ")]", "#[ink(" + s + ")]"
}

// macroText renders a bare attribute macro, `#[ink::contract]`.
func macroText(kind ir.MacroKind) string {
	return "#[" + kind.Path() + "]"
}

// extendOrNew builds the edit adding an argument of the given kind to
// an item: extending the host attribute's argument list when the kind
// is a valid sibling there, otherwise inserting a brand-new attribute
// immediately before the item's first token.
func extendOrNew(file *syntax.File, item *syntax.Node, host *ir.Attribute, kind ir.ArgKind) TextEdit {
	if host != nil && canHost(host, kind) {
		plain, snippet := argText(kind)
		if host.HasTokenTree {
			// Just before the closing paren; a separator only when
			// arguments already precede the insertion point.
			offset := host.TreeRange.End - 1
			if len(host.Args) > 0 {
				plain = ", " + plain
				snippet = ", " + snippet
			}
			return Insert(offset, plain, snippet)
		}
		return Insert(host.PathRange.End, "("+plain+")", "("+snippet+")")
	}
	plain, snippet := attrText(kind)
	return insertBefore(file, item, plain, snippet)
}

// canHost reports whether the attribute can carry the argument kind as
// a sibling of its primary.
func canHost(attr *ir.Attribute, kind ir.ArgKind) bool {
	for _, sib := range siblingsFor(attr.Kind) {
		if sib == kind {
			return true
		}
	}
	return false
}

// insertBefore inserts attribute text immediately before the item's
// first post-attribute token, reproducing the item's indentation.
func insertBefore(file *syntax.File, item *syntax.Node, plain, snippet string) TextEdit {
	offset := item.InsertOffset()
	indent := lineIndent(file.Source, offset)
	return Insert(offset, plain+"\n"+indent, snippet+"\n"+indent)
}

// lineIndent returns the whitespace prefix of the line containing
// offset, up to offset itself.
func lineIndent(source string, offset int) string {
	start := offset
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	end := start
	for end < offset && (source[end] == ' ' || source[end] == '\t') {
		end++
	}
	return source[start:end]
}

// flatten merges an item's ink! attributes into its primary one: the
// primary is rewritten to carry the union of all argument-kind
// arguments sorted by rank (stable, preserving first-seen order) and
// the other attributes are deleted. Returns nil when there is nothing
// to flatten.
func flatten(file *syntax.File, item *syntax.Node) *Action {
	attrs := ir.Attributes(item)
	if len(attrs) < 2 {
		return nil
	}
	primary := ir.Primary(item)

	args := make([]ir.Arg, 0, len(primary.Args))
	args = append(args, primary.Args...)
	for _, attr := range attrs {
		// Attributes and Primary classify independently, so attributes
		// are matched by their shared syntax node, not by pointer.
		if attr.Node == primary.Node || attr.Kind.IsMacro {
			continue
		}
		args = append(args, attr.Args...)
	}
	sort.SliceStable(args, func(i, j int) bool {
		return args[i].Kind.Rank() < args[j].Kind.Rank()
	})

	var rendered []string
	for _, arg := range args {
		if text := renderArg(arg); text != "" {
			rendered = append(rendered, text)
		}
	}

	path := primary.PathText()
	text := "#[" + path + "]"
	if len(rendered) > 0 {
		text = "#[" + path + "(" + strings.Join(rendered, ", ") + ")]"
	}

	edits := []TextEdit{Replace(primary.Node.Range, text, "")}
	for _, attr := range attrs {
		if attr.Node == primary.Node {
			continue
		}
		edits = append(edits, Delete(withTrailingTrivia(file, attr.Node.Range)))
	}

	return &Action{
		Label: "Flatten ink! attributes",
		Kind:  Refactor,
		Range: item.Range,
		Edits: edits,
	}
}

// withTrailingTrivia extends a deletion range through the trivia that
// follows it, so removing an attribute does not leave a blank gap.
func withTrailingTrivia(file *syntax.File, r syntax.TextRange) syntax.TextRange {
	toks := file.Tokens()
	i := sort.Search(len(toks), func(i int) bool {
		return toks[i].Range.Start >= r.End
	})
	if i < len(toks) && toks[i].Range.Start == r.End && toks[i].IsTrivia() {
		r.End = toks[i].Range.End
	}
	return r
}

// withLeadingTrivia extends a deletion range back through preceding
// trivia, used when removing trailing clauses such as return types.
func withLeadingTrivia(file *syntax.File, r syntax.TextRange) syntax.TextRange {
	toks := file.Tokens()
	i := sort.Search(len(toks), func(i int) bool {
		return toks[i].Range.End > r.Start
	})
	if i > 0 && toks[i-1].Range.End == r.Start && toks[i-1].IsTrivia() {
		r.Start = toks[i-1].Range.Start
	}
	return r
}

// indentBlock prefixes every line of text with the given indentation.
func indentBlock(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
