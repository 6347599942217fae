package syntax

// TextRange is a half-open-ish byte range into the original source.
// Containment checks are inclusive at both ends, which lets an empty
// range sitting exactly on a token boundary belong to both neighbors
// (cursor positions are empty ranges).
type TextRange struct {
	Start int
	End   int
}

func NewRange(start, end int) TextRange {
	return TextRange{Start: start, End: end}
}

func EmptyRange(offset int) TextRange {
	return TextRange{Start: offset, End: offset}
}

func (r TextRange) Len() int {
	return r.End - r.Start
}

func (r TextRange) IsEmpty() bool {
	return r.Start == r.End
}

func (r TextRange) Contains(offset int) bool {
	return r.Start <= offset && offset <= r.End
}

func (r TextRange) ContainsRange(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

type TokenKind int

const (
	EOF TokenKind = iota
	WHITESPACE
	COMMENT

	IDENT
	INT_NUMBER
	STRING
	UNDERSCORE

	POUND
	L_BRACK
	R_BRACK
	L_PAREN
	R_PAREN
	L_BRACE
	R_BRACE
	L_ANGLE
	R_ANGLE

	COMMA
	SEMICOLON
	COLON
	PATH_SEP
	EQ
	AMP
	ARROW

	OTHER
)

type Token struct {
	Kind  TokenKind
	Text  string
	Range TextRange
}

// IsTrivia reports whether the token carries no syntactic weight.
func (t Token) IsTrivia() bool {
	return t.Kind == WHITESPACE || t.Kind == COMMENT
}
