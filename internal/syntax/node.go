package syntax

type NodeKind int

const (
	SOURCE_FILE NodeKind = iota
	ATTR
	MODULE
	FN
	STRUCT
	ENUM
	UNION
	TRAIT
	IMPL
	TYPE_ALIAS
	RECORD_FIELD
	// Items the analyzer has no annotation rules for (use, const, static, ...).
	// They resolve neither a header nor a body.
	OTHER_ITEM
)

// Node is a structural view into one immutable parse: item nodes own
// their attribute nodes and lexically nested items as children. Nodes
// hold non-owning parent references and are never mutated after Parse
// returns.
type Node struct {
	Kind     NodeKind
	Range    TextRange
	Parent   *Node
	Children []*Node

	// Name is the declared name token for named items (mod, fn, struct,
	// enum, union, trait, type alias, record field).
	Name *Token

	// Tokens carries the node's own token run for leaf-structured nodes
	// (attributes and record fields); item nodes leave it nil.
	Tokens []Token

	// TraitImpl marks `impl Trait for Type` blocks.
	TraitImpl bool

	// Sig is populated for FN nodes.
	Sig *FnSig

	declRange TextRange
	bodyOpen  *Token
	terminal  *Token
}

// FnSig captures the signature facts diagnostics need about an fn item.
type FnSig struct {
	Vis          []Token
	Qualifiers   []Token
	Abi          *Token
	Generics     TextRange
	ParamsOpen   *Token
	ParamsClose  *Token
	HasSelfRef   bool
	HasSelfValue bool
	HasParams    bool
	Variadic     bool
	VariadicSpan TextRange
	RetArrow     *Token
	RetTypeRange TextRange
	RetTypeText  string
}

// HasGenerics reports whether the fn declares a generic parameter list.
func (s *FnSig) HasGenerics() bool {
	return !s.Generics.IsEmpty()
}

// IsItem reports whether the node is a declaration that can bear
// annotations (attributes attach to it rather than float free).
func (n *Node) IsItem() bool {
	switch n.Kind {
	case MODULE, FN, STRUCT, ENUM, UNION, TRAIT, IMPL, TYPE_ALIAS, RECORD_FIELD, OTHER_ITEM:
		return true
	}
	return false
}

// Attributes returns the node's attribute children in source order.
func (n *Node) Attributes() []*Node {
	var attrs []*Node
	for _, child := range n.Children {
		if child.Kind == ATTR {
			attrs = append(attrs, child)
		}
	}
	return attrs
}

// Items returns the node's item children in source order.
func (n *Node) Items() []*Node {
	var items []*Node
	for _, child := range n.Children {
		if child.IsItem() {
			items = append(items, child)
		}
	}
	return items
}

// DeclarationRange is the span from the item's first post-attribute
// token through its opening delimiter (or terminating semicolon).
// The zero range means the split is unresolvable for this item kind.
func (n *Node) DeclarationRange() TextRange {
	return n.declRange
}

// TerminalToken is the item's closing delimiter or semicolon, if any.
func (n *Node) TerminalToken() *Token {
	return n.terminal
}

// BodyRange is the span strictly between the declaration's end and the
// closing delimiter's start. The second result is false when the item
// has no body (header-only or unsupported items).
func (n *Node) BodyRange() (TextRange, bool) {
	if n.declRange.IsEmpty() {
		return TextRange{}, false
	}
	if n.bodyOpen == nil || n.terminal == nil || n.terminal.Kind != R_BRACE {
		return TextRange{}, false
	}
	if n.declRange.End > n.terminal.Range.Start {
		return TextRange{}, false
	}
	return NewRange(n.declRange.End, n.terminal.Range.Start), true
}

// InsertOffset is where a new attribute for this item goes: immediately
// before the first non-attribute, non-trivia token.
func (n *Node) InsertOffset() int {
	return n.declRange.Start
}

// AncestorItems walks item ancestors from nearest to file root.
func (n *Node) AncestorItems() []*Node {
	var ancestors []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsItem() {
			ancestors = append(ancestors, p)
		}
	}
	return ancestors
}

// covering returns the innermost descendant (or n itself) whose range
// contains r, preferring earlier children on shared boundaries.
func (n *Node) covering(r TextRange) *Node {
	for _, child := range n.Children {
		if child.Range.ContainsRange(r) {
			return child.covering(r)
		}
	}
	return n
}

// File is one parsed, immutable snapshot of a source text.
type File struct {
	Source string
	Root   *Node
	tokens []Token
}

// Tokens returns the file's full token stream, including trivia.
func (f *File) Tokens() []Token {
	return f.tokens
}

// TokenAt resolves the focused token for a cursor offset: the covering
// token for mid-token offsets; on a boundary the non-trivia neighbor is
// preferred (left neighbor winning ties) so a cursor right before a
// keyword focuses the keyword rather than the preceding whitespace.
func (f *File) TokenAt(offset int) (Token, bool) {
	var left, right *Token
	for i := range f.tokens {
		t := &f.tokens[i]
		if t.Kind == EOF {
			break
		}
		if t.Range.Start < offset && offset < t.Range.End {
			return *t, true
		}
		if t.Range.End == offset {
			left = t
		}
		if t.Range.Start == offset {
			right = t
			break
		}
	}
	switch {
	case left != nil && !left.IsTrivia():
		return *left, true
	case right != nil && !right.IsTrivia():
		return *right, true
	case left != nil:
		return *left, true
	case right != nil:
		return *right, true
	}
	return Token{}, false
}

// CoveringAttribute returns the innermost attribute node containing r.
func (f *File) CoveringAttribute(r TextRange) *Node {
	node := f.Root.covering(r)
	for ; node != nil; node = node.Parent {
		if node.Kind == ATTR {
			return node
		}
	}
	return nil
}

// CoveringItem returns the innermost item node containing r, or nil
// when r sits at the file root.
func (f *File) CoveringItem(r TextRange) *Node {
	node := f.Root.covering(r)
	for ; node != nil; node = node.Parent {
		if node.IsItem() {
			return node
		}
	}
	return nil
}

// Text returns the source slice for a range.
func (f *File) Text(r TextRange) string {
	if r.Start < 0 || r.End > len(f.Source) || r.Start > r.End {
		return ""
	}
	return f.Source[r.Start:r.End]
}
