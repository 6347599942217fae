package syntax

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// rustTokens tokenizes the Rust subset the item parser understands.
// Multi-character operators must precede the single-character fallback.
var rustTokens = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "BlockComment", Pattern: `/\*[\s\S]*?\*/`},
		{Name: "Comment", Pattern: `//[^\n]*`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Int", Pattern: `0x[0-9A-Fa-f_]+|[0-9][0-9_]*`},
		{Name: "PathSep", Pattern: `::`},
		{Name: "Arrow", Pattern: `->`},
		{Name: "FatArrow", Pattern: `=>`},
		{Name: "Punct", Pattern: "[-#\\[\\](){}<>,;:=&*!'./%+|^@?~$`\\\\]"},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
})

var punctKinds = map[string]TokenKind{
	"#": POUND,
	"[": L_BRACK,
	"]": R_BRACK,
	"(": L_PAREN,
	")": R_PAREN,
	"{": L_BRACE,
	"}": R_BRACE,
	"<": L_ANGLE,
	">": R_ANGLE,
	",": COMMA,
	";": SEMICOLON,
	":": COLON,
	"=": EQ,
	"&": AMP,
}

// Scan tokenizes source into the flat token stream the item parser and
// the focus resolver operate on. Scanning never fails: text the lexer
// cannot make sense of is carried as a single OTHER token so the token
// stream always covers the whole input.
func Scan(source string) []Token {
	var tokens []Token

	lex, err := rustTokens.Lex("", strings.NewReader(source))
	if err == nil {
		symbols := rustTokens.Symbols()
		kinds := map[lexer.TokenType]TokenKind{
			symbols["BlockComment"]: COMMENT,
			symbols["Comment"]:      COMMENT,
			symbols["String"]:       STRING,
			symbols["Ident"]:        IDENT,
			symbols["Int"]:          INT_NUMBER,
			symbols["PathSep"]:      PATH_SEP,
			symbols["Arrow"]:        ARROW,
			symbols["FatArrow"]:     OTHER,
			symbols["Whitespace"]:   WHITESPACE,
		}
		punct := symbols["Punct"]

		pos := 0
		for {
			tok, err := lex.Next()
			if err != nil {
				// Lexical garbage from this point on: keep the remainder
				// as one opaque token so ranges still cover the input.
				start := pos
				if start < len(source) {
					tokens = append(tokens, Token{
						Kind:  OTHER,
						Text:  source[start:],
						Range: NewRange(start, len(source)),
					})
				}
				break
			}
			if tok.EOF() {
				break
			}

			kind, ok := kinds[tok.Type]
			if !ok {
				if tok.Type == punct {
					kind, ok = punctKinds[tok.Value]
					if !ok {
						kind = OTHER
					}
				} else {
					kind = OTHER
				}
			}
			if kind == IDENT && tok.Value == "_" {
				kind = UNDERSCORE
			}
			start := tok.Pos.Offset
			tokens = append(tokens, Token{
				Kind:  kind,
				Text:  tok.Value,
				Range: NewRange(start, start+len(tok.Value)),
			})
			pos = start + len(tok.Value)
		}
	}

	tokens = append(tokens, Token{Kind: EOF, Range: EmptyRange(len(source))})
	return tokens
}
