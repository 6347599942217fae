package lsp

import (
	"sort"

	"inkspect/internal/ir"
	"inkspect/internal/syntax"
)

// The semantic token types advertised to the client (as required by
// the LSP spec).
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"string",
	"operator",
	"macro",
}

// The semantic token modifiers advertised to the client.
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
}

// SemanticToken represents a single LSP semantic token entry.
// Line and StartChar are 0-based positions. TokenType is an index into
// SemanticTokenTypes and TokenModifiers a bitmask over
// SemanticTokenModifiers.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

// collectSemanticTokens highlights the ink! surface of a file: the
// attribute namespaces, macro paths, argument names and values, plus
// the declared names of annotated items. Tokens come back sorted in
// document order, ready for delta encoding.
func collectSemanticTokens(file *syntax.File, index *syntax.LineIndex) []SemanticToken {
	var tokens []SemanticToken

	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		for _, item := range n.Items() {
			attrs := ir.Attributes(item)
			for _, attr := range attrs {
				tokens = append(tokens, attributeTokens(index, attr)...)
			}
			if len(attrs) > 0 {
				tokens = append(tokens, nameToken(index, item)...)
			}
			walk(item)
		}
	}
	walk(file.Root)

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})
	return tokens
}

func attributeTokens(index *syntax.LineIndex, attr *ir.Attribute) []SemanticToken {
	var tokens []SemanticToken

	segment := 0
	for _, tok := range attr.Node.Tokens {
		if tok.Kind != syntax.IDENT || !attr.PathRange.ContainsRange(tok.Range) {
			continue
		}
		tokenType := "macro"
		if segment == 0 {
			tokenType = "namespace"
		}
		tokens = append(tokens, makeToken(index, tok.Range, tokenType, 0)...)
		segment++
	}

	for _, arg := range attr.Args {
		tokens = append(tokens, makeToken(index, arg.NameRange, "parameter", 0)...)
		if arg.Value != nil {
			tokens = append(tokens, makeToken(index, arg.Value.Range, valueTokenType(arg.Value.Kind), 0)...)
		}
	}
	return tokens
}

func valueTokenType(kind ir.MetaKind) string {
	switch kind {
	case ir.MetaInt:
		return "number"
	case ir.MetaString:
		return "string"
	case ir.MetaBool:
		return "keyword"
	case ir.MetaPath:
		return "type"
	case ir.MetaWildcard:
		return "operator"
	}
	return "variable"
}

// nameToken highlights the declared name of an annotated item.
func nameToken(index *syntax.LineIndex, item *syntax.Node) []SemanticToken {
	if item.Name == nil {
		return nil
	}
	var tokenType string
	switch item.Kind {
	case syntax.MODULE:
		tokenType = "namespace"
	case syntax.FN:
		tokenType = "function"
	case syntax.STRUCT, syntax.ENUM, syntax.UNION, syntax.TRAIT, syntax.TYPE_ALIAS:
		tokenType = "type"
	case syntax.RECORD_FIELD:
		tokenType = "property"
	default:
		return nil
	}
	return makeToken(index, item.Name.Range, tokenType, 1)
}

// makeToken creates a semantic token for a source range.
func makeToken(index *syntax.LineIndex, r syntax.TextRange, tokenType string, declModifier int) []SemanticToken {
	if r.IsEmpty() {
		return nil
	}
	line, col := index.Position(r.Start)
	return []SemanticToken{{
		Line:           uint32(line),
		StartChar:      uint32(col),
		Length:         uint32(r.Len()),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: declModifier << indexOf("declaration", SemanticTokenModifiers),
	}}
}

// indexOf returns the index of a string in a slice, or 0 if not found.
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
