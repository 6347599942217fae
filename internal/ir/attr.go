package ir

import (
	"strings"

	"inkspect/internal/syntax"
)

// Arg is one parsed meta argument of an ink! attribute.
type Arg struct {
	Kind      ArgKind
	Name      string
	NameRange syntax.TextRange
	Value     *MetaValue
	// Range spans the whole `name = value` run, trivia-trimmed.
	Range syntax.TextRange
}

// Attribute is a classified ink! attribute over its syntax node.
type Attribute struct {
	Node      *syntax.Node
	Kind      AttributeKind
	Path      []string
	PathRange syntax.TextRange
	Args      []Arg

	// HasTokenTree distinguishes `#[ink()]` from `#[ink]`.
	HasTokenTree bool
	// TreeRange spans the parenthesized token tree including parens.
	TreeRange syntax.TextRange
}

// PathText renders the attribute path with `::` separators.
func (a *Attribute) PathText() string {
	return strings.Join(a.Path, "::")
}

// ArgByKind returns the first argument of the given kind, if any.
func (a *Attribute) ArgByKind(kind ArgKind) *Arg {
	for i := range a.Args {
		if a.Args[i].Kind == kind {
			return &a.Args[i]
		}
	}
	return nil
}

// Cast classifies an attribute node as an ink! attribute. It returns
// nil for attributes outside the ink! namespace (cfg, derive, doc and
// the rest). Classification never fails on malformed ink! attributes;
// they come back as unknown macro or unknown argument kinds.
func Cast(node *syntax.Node) *Attribute {
	if node == nil || node.Kind != syntax.ATTR {
		return nil
	}
	toks := significant(node.Tokens)
	// Strip `#`, `[` ... `]`.
	if len(toks) < 3 || toks[0].Kind != syntax.POUND || toks[1].Kind != syntax.L_BRACK {
		return nil
	}
	toks = toks[2:]
	if toks[len(toks)-1].Kind == syntax.R_BRACK {
		toks = toks[:len(toks)-1]
	}
	if len(toks) == 0 || toks[0].Kind != syntax.IDENT {
		return nil
	}

	attr := &Attribute{Node: node}
	i := 0
	attr.PathRange = toks[0].Range
	for i < len(toks) && toks[i].Kind == syntax.IDENT {
		attr.Path = append(attr.Path, toks[i].Text)
		attr.PathRange.End = toks[i].Range.End
		i++
		if i < len(toks) && toks[i].Kind == syntax.PATH_SEP {
			i++
		} else {
			break
		}
	}
	if attr.Path[0] != "ink" && attr.Path[0] != "ink_e2e" {
		return nil
	}

	if i < len(toks) && toks[i].Kind == syntax.L_PAREN {
		attr.HasTokenTree = true
		inner, end := balancedGroup(toks[i:])
		attr.TreeRange = syntax.NewRange(toks[i].Range.Start, end)
		attr.Args = parseArgs(inner)
	}

	attr.Kind = classify(attr)
	return attr
}

func classify(attr *Attribute) AttributeKind {
	switch {
	case len(attr.Path) >= 3:
		return MacroAttr(MacroUnknown)
	case len(attr.Path) == 2:
		kind, ok := macroNames[[2]string{attr.Path[0], attr.Path[1]}]
		if !ok {
			kind = MacroUnknown
		}
		return MacroAttr(kind)
	case len(attr.Args) > 0:
		return ArgAttr(primaryKind(attr.Args))
	case attr.HasTokenTree:
		return ArgAttr(ArgUnknown)
	default:
		return MacroAttr(MacroUnknown)
	}
}

// primaryKind picks the argument that names the attribute: the lowest
// rank wins and equal ranks keep first-seen order, so argument order
// inside the attribute never changes the outcome between equals.
func primaryKind(args []Arg) ArgKind {
	best := args[0].Kind
	for _, arg := range args[1:] {
		if arg.Kind.Rank() < best.Rank() {
			best = arg.Kind
		}
	}
	return best
}

// balancedGroup returns the tokens strictly inside the delimiter group
// starting at toks[0] and the group's end offset.
func balancedGroup(toks []syntax.Token) ([]syntax.Token, int) {
	depth := 0
	for i, t := range toks {
		switch t.Kind {
		case syntax.L_PAREN:
			depth++
		case syntax.R_PAREN:
			depth--
			if depth == 0 {
				return toks[1:i], t.Range.End
			}
		}
	}
	return toks[1:], toks[len(toks)-1].Range.End
}

func parseArgs(toks []syntax.Token) []Arg {
	var args []Arg
	for _, chunk := range splitTopLevel(toks) {
		if len(chunk) == 0 {
			continue
		}
		args = append(args, parseArg(chunk))
	}
	return args
}

// splitTopLevel splits a token run on commas outside nested groups.
func splitTopLevel(toks []syntax.Token) [][]syntax.Token {
	var chunks [][]syntax.Token
	var cur []syntax.Token
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case syntax.L_PAREN, syntax.L_BRACK, syntax.L_BRACE:
			depth++
		case syntax.R_PAREN, syntax.R_BRACK, syntax.R_BRACE:
			depth--
		case syntax.COMMA:
			if depth == 0 {
				chunks = append(chunks, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

func parseArg(chunk []syntax.Token) Arg {
	arg := Arg{
		Kind:  ArgUnknown,
		Range: syntax.NewRange(chunk[0].Range.Start, chunk[len(chunk)-1].Range.End),
	}
	if chunk[0].Kind != syntax.IDENT {
		return arg
	}
	arg.Name = chunk[0].Text
	arg.NameRange = chunk[0].Range
	arg.Kind = ArgKindFromName(arg.Name)

	rest := chunk[1:]
	if len(rest) == 0 {
		return arg
	}
	if rest[0].Kind != syntax.EQ {
		// Something other than `name = value`; the whole chunk is
		// opaque and the name alone does not classify it.
		arg.Kind = ArgUnknown
		return arg
	}
	arg.Value = parseValue(rest[1:])
	return arg
}

func parseValue(toks []syntax.Token) *MetaValue {
	if len(toks) == 0 {
		return &MetaValue{Kind: MetaOther}
	}
	r := syntax.NewRange(toks[0].Range.Start, toks[len(toks)-1].Range.End)
	if len(toks) == 1 {
		t := toks[0]
		switch {
		case t.Kind == syntax.INT_NUMBER:
			return &MetaValue{Kind: MetaInt, Text: t.Text, Range: r}
		case t.Kind == syntax.STRING:
			return &MetaValue{Kind: MetaString, Text: t.Text, Range: r}
		case t.Kind == syntax.UNDERSCORE:
			return &MetaValue{Kind: MetaWildcard, Text: t.Text, Range: r}
		case t.Kind == syntax.IDENT && (t.Text == "true" || t.Text == "false"):
			return &MetaValue{Kind: MetaBool, Text: t.Text, Range: r}
		case t.Kind == syntax.IDENT:
			return &MetaValue{Kind: MetaPath, Text: t.Text, Range: r}
		}
		return &MetaValue{Kind: MetaOther, Text: t.Text, Range: r}
	}
	if text, ok := pathText(toks); ok {
		return &MetaValue{Kind: MetaPath, Text: text, Range: r}
	}
	var parts []string
	for _, t := range toks {
		parts = append(parts, t.Text)
	}
	return &MetaValue{Kind: MetaOther, Text: strings.Join(parts, ""), Range: r}
}

// pathText matches `[::] ident (:: ident)*` token runs.
func pathText(toks []syntax.Token) (string, bool) {
	var sb strings.Builder
	i := 0
	if toks[0].Kind == syntax.PATH_SEP {
		sb.WriteString("::")
		i++
	}
	expectIdent := true
	for ; i < len(toks); i++ {
		t := toks[i]
		if expectIdent {
			if t.Kind != syntax.IDENT {
				return "", false
			}
			sb.WriteString(t.Text)
		} else {
			if t.Kind != syntax.PATH_SEP {
				return "", false
			}
			sb.WriteString("::")
		}
		expectIdent = !expectIdent
	}
	if expectIdent {
		// Trailing separator.
		return "", false
	}
	return sb.String(), true
}

func significant(toks []syntax.Token) []syntax.Token {
	var out []syntax.Token
	for _, t := range toks {
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}

// Attributes classifies every ink! attribute on an item, in source
// order. Non-ink attributes are skipped.
func Attributes(item *syntax.Node) []*Attribute {
	var out []*Attribute
	for _, attrNode := range item.Attributes() {
		if attr := Cast(attrNode); attr != nil {
			out = append(out, attr)
		}
	}
	return out
}

// Primary returns the ink! attribute that names the entity the item
// declares: macro attributes win over argument attributes, then
// entity-defining arguments over complementary ones, ties keeping
// source order.
func Primary(item *syntax.Node) *Attribute {
	attrs := Attributes(item)
	if len(attrs) == 0 {
		return nil
	}
	best := attrs[0]
	for _, attr := range attrs[1:] {
		if kindRank(attr.Kind) < kindRank(best.Kind) {
			best = attr
		}
	}
	return best
}

func kindRank(kind AttributeKind) int {
	if kind.IsMacro {
		if kind.Macro == MacroUnknown {
			return 10
		}
		return -1
	}
	return kind.Arg.Rank()
}
