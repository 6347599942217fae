package syntax

// Parse builds an immutable item tree over source. The parser is
// deliberately shallow: items, attributes, record fields and fn
// signatures get structure, everything else (expressions, statements,
// enum variants) is scanned through while still descending into brace
// groups so nested items and attributes are always discovered.
//
// Parsing is total: malformed input degrades to OTHER_ITEM nodes and
// loose tokens, never an error. Re-parsing identical text yields
// byte-identical ranges.
func Parse(source string) *File {
	tokens := Scan(source)
	p := &parser{src: source, tokens: tokens}
	root := &Node{Kind: SOURCE_FILE, Range: NewRange(0, len(source))}
	p.parseItems(root)
	return &File{Source: source, Root: root, tokens: tokens}
}

type parser struct {
	src     string
	tokens  []Token
	pos     int
	lastEnd int
}

func (p *parser) eof() bool {
	return p.tokens[p.pos].Kind == EOF
}

func (p *parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *parser) at(kind TokenKind) bool {
	return p.tokens[p.pos].Kind == kind
}

func (p *parser) atIdent(text string) bool {
	t := p.tokens[p.pos]
	return t.Kind == IDENT && t.Text == text
}

func (p *parser) bump() Token {
	t := p.tokens[p.pos]
	if t.Kind != EOF {
		p.pos++
		p.lastEnd = t.Range.End
	}
	return t
}

func (p *parser) skipTrivia() {
	for p.cur().IsTrivia() {
		p.bump()
	}
}

// peekPast returns the next non-trivia token after the current one.
func (p *parser) peekPast() Token {
	for i := p.pos + 1; i < len(p.tokens); i++ {
		if !p.tokens[i].IsTrivia() {
			return p.tokens[i]
		}
	}
	return p.tokens[len(p.tokens)-1]
}

func attach(parent, child *Node) {
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

func (p *parser) parseItems(parent *Node) {
	for !p.eof() && !p.at(R_BRACE) {
		p.parseItemOrToken(parent)
	}
}

func (p *parser) parseItemOrToken(parent *Node) {
	p.skipTrivia()
	if p.eof() || p.at(R_BRACE) {
		return
	}

	// Leading attributes; they attach to the item that follows, or to
	// the parent as free attributes when no item does.
	var attrs []*Node
	for p.at(POUND) && p.peekPast().Kind == L_BRACK {
		attrs = append(attrs, p.parseAttr())
		p.skipTrivia()
	}

	declStart := p.cur().Range.Start
	var vis, quals []Token
	var abi *Token

	// Visibility and fn qualifiers.
modifiers:
	for p.at(IDENT) {
		switch p.cur().Text {
		case "pub":
			vis = append(vis, p.bump())
			p.skipTrivia()
			if p.at(L_PAREN) {
				vis = append(vis, p.consumeGroup(L_PAREN, R_PAREN)...)
				p.skipTrivia()
			}
		case "const":
			next := p.peekPast().Text
			if next != "fn" && next != "async" && next != "unsafe" && next != "extern" {
				// A const item, not a qualifier.
				p.finishOtherItem(parent, attrs, declStart)
				return
			}
			quals = append(quals, p.bump())
			p.skipTrivia()
		case "async", "unsafe", "default":
			quals = append(quals, p.bump())
			p.skipTrivia()
		case "extern":
			quals = append(quals, p.bump())
			p.skipTrivia()
			if p.at(STRING) {
				t := p.bump()
				abi = &t
				p.skipTrivia()
			}
		default:
			break modifiers
		}
	}

	switch {
	case p.atIdent("mod"):
		p.parseModule(parent, attrs, declStart)
	case p.atIdent("fn"):
		p.parseFn(parent, attrs, declStart, vis, quals, abi)
	case p.atIdent("struct"):
		p.parseStruct(parent, attrs, declStart)
	case p.atIdent("enum"):
		p.parseAdt(parent, attrs, declStart, ENUM)
	case p.atIdent("union"):
		p.parseAdt(parent, attrs, declStart, UNION)
	case p.atIdent("trait"):
		p.parseTrait(parent, attrs, declStart)
	case p.atIdent("impl"):
		p.parseImpl(parent, attrs, declStart)
	case p.atIdent("type"):
		p.parseTypeAlias(parent, attrs, declStart)
	case p.atIdent("use"), p.atIdent("static"), p.atIdent("macro_rules"):
		p.finishOtherItem(parent, attrs, declStart)
	default:
		// Not an item: keep any attributes as free-floating children
		// and scan a single token, descending into brace groups so
		// nested items are still found.
		for _, attr := range attrs {
			attach(parent, attr)
		}
		if len(vis)+len(quals) > 0 {
			return
		}
		if p.at(L_BRACE) {
			p.bump()
			p.parseItems(parent)
			if p.at(R_BRACE) {
				p.bump()
			}
			return
		}
		if !p.eof() {
			p.bump()
		}
	}
}

// parseAttr consumes `#[...]`, bracket-depth aware and EOF-tolerant.
func (p *parser) parseAttr() *Node {
	start := p.cur().Range.Start
	var toks []Token
	toks = append(toks, p.bump()) // '#'
	depth := 0
	for !p.eof() {
		t := p.bump()
		toks = append(toks, t)
		if t.Kind == L_BRACK {
			depth++
		} else if t.Kind == R_BRACK {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	return &Node{
		Kind:   ATTR,
		Range:  NewRange(start, p.lastEnd),
		Tokens: toks,
	}
}

func (p *parser) newItem(kind NodeKind, parent *Node, attrs []*Node, declStart int) *Node {
	node := &Node{Kind: kind}
	start := declStart
	if len(attrs) > 0 {
		start = attrs[0].Range.Start
	}
	node.Range = NewRange(start, start)
	attach(parent, node)
	for _, attr := range attrs {
		attach(node, attr)
	}
	return node
}

func (p *parser) finish(node *Node) {
	node.Range.End = p.lastEnd
	if node.terminal != nil {
		node.Range.End = node.terminal.Range.End
	}
}

func (p *parser) parseModule(parent *Node, attrs []*Node, declStart int) {
	node := p.newItem(MODULE, parent, attrs, declStart)
	p.bump() // mod
	p.skipTrivia()
	if p.at(IDENT) {
		t := p.bump()
		node.Name = &t
	}
	p.skipTrivia()
	p.parseBracedOrSemi(node, declStart, true)
	p.finish(node)
}

// parseBracedOrSemi handles the common `{ ... }` or `;` tail of items.
// When items is true the body is parsed for nested items, otherwise it
// is scanned through.
func (p *parser) parseBracedOrSemi(node *Node, declStart int, items bool) {
	switch {
	case p.at(SEMICOLON):
		t := p.bump()
		node.terminal = &t
		node.declRange = NewRange(declStart, t.Range.End)
	case p.at(L_BRACE):
		open := p.bump()
		node.bodyOpen = &open
		node.declRange = NewRange(declStart, open.Range.End)
		if items {
			p.parseItems(node)
		} else {
			p.scanThrough(node)
		}
		if p.at(R_BRACE) {
			t := p.bump()
			node.terminal = &t
		}
	default:
		node.declRange = NewRange(declStart, p.lastEnd)
	}
}

// scanThrough consumes a brace body without structuring it, still
// descending so nested attributes and items are attached to node.
func (p *parser) scanThrough(node *Node) {
	p.parseItems(node)
}

func (p *parser) parseStruct(parent *Node, attrs []*Node, declStart int) {
	node := p.newItem(STRUCT, parent, attrs, declStart)
	p.bump() // struct
	p.skipTrivia()
	if p.at(IDENT) {
		t := p.bump()
		node.Name = &t
	}
	p.skipTrivia()
	if p.at(L_ANGLE) {
		p.consumeAngles()
		p.skipTrivia()
	}
	// where clause for structs sits before the body.
	p.skipUntilBodyOrSemi()
	switch {
	case p.at(L_PAREN):
		// Tuple struct: fields are positional, no record fields.
		p.consumeGroup(L_PAREN, R_PAREN)
		p.skipTrivia()
		if p.at(SEMICOLON) {
			t := p.bump()
			node.terminal = &t
		}
		node.declRange = NewRange(declStart, p.lastEnd)
	case p.at(SEMICOLON):
		t := p.bump()
		node.terminal = &t
		node.declRange = NewRange(declStart, t.Range.End)
	case p.at(L_BRACE):
		open := p.bump()
		node.bodyOpen = &open
		node.declRange = NewRange(declStart, open.Range.End)
		p.parseRecordFields(node)
		if p.at(R_BRACE) {
			t := p.bump()
			node.terminal = &t
		}
	default:
		node.declRange = NewRange(declStart, p.lastEnd)
	}
	p.finish(node)
}

func (p *parser) parseRecordFields(structNode *Node) {
	for !p.eof() && !p.at(R_BRACE) {
		p.skipTrivia()
		if p.eof() || p.at(R_BRACE) {
			return
		}

		var attrs []*Node
		for p.at(POUND) && p.peekPast().Kind == L_BRACK {
			attrs = append(attrs, p.parseAttr())
			p.skipTrivia()
		}
		fieldStart := p.cur().Range.Start
		if p.atIdent("pub") {
			p.bump()
			p.skipTrivia()
			if p.at(L_PAREN) {
				p.consumeGroup(L_PAREN, R_PAREN)
				p.skipTrivia()
			}
		}
		if p.at(IDENT) && p.peekPast().Kind == COLON {
			field := p.newItem(RECORD_FIELD, structNode, attrs, fieldStart)
			name := p.bump()
			field.Name = &name
			p.skipTrivia()
			p.bump() // ':'
			var toks []Token
			depth := 0
			for !p.eof() {
				t := p.cur()
				if depth == 0 && (t.Kind == COMMA || t.Kind == R_BRACE) {
					break
				}
				switch t.Kind {
				case L_PAREN, L_BRACK, L_BRACE, L_ANGLE:
					depth++
				case R_PAREN, R_BRACK, R_BRACE, R_ANGLE:
					depth--
				}
				toks = append(toks, p.bump())
			}
			field.Tokens = toks
			field.declRange = NewRange(fieldStart, p.lastEnd)
			p.finish(field)
			if p.at(COMMA) {
				p.bump()
			}
		} else {
			for _, attr := range attrs {
				attach(structNode, attr)
			}
			if !p.eof() && !p.at(R_BRACE) {
				p.bump()
			}
		}
	}
}

func (p *parser) parseAdt(parent *Node, attrs []*Node, declStart int, kind NodeKind) {
	node := p.newItem(kind, parent, attrs, declStart)
	p.bump() // enum / union
	p.skipTrivia()
	if p.at(IDENT) {
		t := p.bump()
		node.Name = &t
	}
	p.skipTrivia()
	if p.at(L_ANGLE) {
		p.consumeAngles()
		p.skipTrivia()
	}
	p.skipUntilBodyOrSemi()
	p.parseBracedOrSemi(node, declStart, true)
	p.finish(node)
}

func (p *parser) parseTrait(parent *Node, attrs []*Node, declStart int) {
	node := p.newItem(TRAIT, parent, attrs, declStart)
	p.bump() // trait
	p.skipTrivia()
	if p.at(IDENT) {
		t := p.bump()
		node.Name = &t
	}
	p.skipTrivia()
	if p.at(L_ANGLE) {
		p.consumeAngles()
		p.skipTrivia()
	}
	// Supertrait bounds and where clauses.
	p.skipUntilBodyOrSemi()
	p.parseBracedOrSemi(node, declStart, true)
	p.finish(node)
}

func (p *parser) parseImpl(parent *Node, attrs []*Node, declStart int) {
	node := p.newItem(IMPL, parent, attrs, declStart)
	p.bump() // impl
	angleDepth := 0
	for !p.eof() {
		t := p.cur()
		if angleDepth == 0 && (t.Kind == L_BRACE || t.Kind == SEMICOLON) {
			break
		}
		switch t.Kind {
		case L_ANGLE:
			angleDepth++
		case R_ANGLE:
			angleDepth--
		case IDENT:
			if angleDepth == 0 && t.Text == "for" {
				node.TraitImpl = true
			}
		}
		p.bump()
	}
	p.parseBracedOrSemi(node, declStart, true)
	p.finish(node)
}

func (p *parser) parseTypeAlias(parent *Node, attrs []*Node, declStart int) {
	node := p.newItem(TYPE_ALIAS, parent, attrs, declStart)
	p.bump() // type
	p.skipTrivia()
	if p.at(IDENT) {
		t := p.bump()
		node.Name = &t
	}
	for !p.eof() && !p.at(SEMICOLON) && !p.at(R_BRACE) {
		p.bump()
	}
	if p.at(SEMICOLON) {
		t := p.bump()
		node.terminal = &t
		node.declRange = NewRange(declStart, t.Range.End)
	} else {
		node.declRange = NewRange(declStart, p.lastEnd)
	}
	p.finish(node)
}

func (p *parser) parseFn(parent *Node, attrs []*Node, declStart int, vis, quals []Token, abi *Token) {
	node := p.newItem(FN, parent, attrs, declStart)
	sig := &FnSig{Vis: vis, Qualifiers: quals, Abi: abi}
	node.Sig = sig
	p.bump() // fn
	p.skipTrivia()
	if p.at(IDENT) {
		t := p.bump()
		node.Name = &t
	}
	p.skipTrivia()
	if p.at(L_ANGLE) {
		start := p.cur().Range.Start
		p.consumeAngles()
		sig.Generics = NewRange(start, p.lastEnd)
		p.skipTrivia()
	}
	if p.at(L_PAREN) {
		open := p.bump()
		sig.ParamsOpen = &open
		var params []Token
		depth := 1
		for !p.eof() {
			t := p.cur()
			if t.Kind == L_PAREN {
				depth++
			} else if t.Kind == R_PAREN {
				depth--
				if depth == 0 {
					close := p.bump()
					sig.ParamsClose = &close
					break
				}
			}
			params = append(params, p.bump())
		}
		analyzeParams(sig, params)
		p.skipTrivia()
	}
	if p.at(ARROW) {
		arrow := p.bump()
		sig.RetArrow = &arrow
		p.skipTrivia()
		start := p.cur().Range.Start
		depth := 0
		for !p.eof() {
			t := p.cur()
			if depth == 0 && (t.Kind == L_BRACE || t.Kind == SEMICOLON || (t.Kind == IDENT && t.Text == "where")) {
				break
			}
			switch t.Kind {
			case L_PAREN, L_BRACK, L_ANGLE:
				depth++
			case R_PAREN, R_BRACK, R_ANGLE:
				depth--
			}
			p.bump()
		}
		sig.RetTypeRange = NewRange(start, p.lastEnd)
		sig.RetTypeText = trimText(p.src, sig.RetTypeRange)
		sig.RetTypeRange = trimRange(p.src, sig.RetTypeRange)
		p.skipTrivia()
	}
	if p.atIdent("where") {
		for !p.eof() && !p.at(L_BRACE) && !p.at(SEMICOLON) {
			p.bump()
		}
	}
	p.parseBracedOrSemi(node, declStart, true)
	p.finish(node)
}

// analyzeParams derives receiver and parameter facts from the raw
// token run between an fn's parentheses.
func analyzeParams(sig *FnSig, params []Token) {
	var significant []Token
	for _, t := range params {
		if !t.IsTrivia() {
			significant = append(significant, t)
		}
	}

	// Variadic tail: `...` lexes as three dot tokens.
	dots := 0
	for i, t := range significant {
		if t.Kind == OTHER && t.Text == "." {
			dots++
			if dots == 3 {
				sig.Variadic = true
				sig.VariadicSpan = NewRange(significant[i-2].Range.Start, t.Range.End)
			}
		} else {
			dots = 0
		}
	}

	i := 0
	sawAmp := false
	if i < len(significant) && significant[i].Kind == AMP {
		sawAmp = true
		i++
		// Optional lifetime: `'` followed by an identifier.
		if i+1 < len(significant) && significant[i].Kind == OTHER && significant[i].Text == "'" && significant[i+1].Kind == IDENT {
			i += 2
		}
	}
	if i < len(significant) && significant[i].Kind == IDENT && significant[i].Text == "mut" {
		i++
	}
	if i < len(significant) && significant[i].Kind == IDENT && significant[i].Text == "self" {
		if sawAmp {
			sig.HasSelfRef = true
		} else {
			sig.HasSelfValue = true
		}
		i++
		if i < len(significant) && significant[i].Kind == COMMA {
			i++
		}
	} else {
		i = 0
	}
	sig.HasParams = i < len(significant)
}

// consumeGroup consumes a balanced delimiter pair starting at the
// current (opening) token and returns all consumed tokens.
func (p *parser) consumeGroup(open, close TokenKind) []Token {
	var toks []Token
	depth := 0
	for !p.eof() {
		t := p.cur()
		if t.Kind == open {
			depth++
		} else if t.Kind == close {
			depth--
			toks = append(toks, p.bump())
			if depth == 0 {
				break
			}
			continue
		}
		toks = append(toks, p.bump())
	}
	return toks
}

func (p *parser) consumeAngles() {
	depth := 0
	for !p.eof() {
		t := p.cur()
		if t.Kind == L_ANGLE {
			depth++
		} else if t.Kind == R_ANGLE {
			depth--
			p.bump()
			if depth == 0 {
				return
			}
			continue
		} else if t.Kind == L_BRACE || t.Kind == SEMICOLON {
			// Unterminated generics; bail without eating the body.
			return
		}
		p.bump()
	}
}

// skipUntilBodyOrSemi consumes tokens (e.g. where clauses, supertrait
// bounds) up to an item body or terminator, angle-depth aware.
func (p *parser) skipUntilBodyOrSemi() {
	depth := 0
	for !p.eof() {
		t := p.cur()
		if depth == 0 && (t.Kind == L_BRACE || t.Kind == SEMICOLON || t.Kind == L_PAREN) {
			return
		}
		switch t.Kind {
		case L_ANGLE:
			depth++
		case R_ANGLE:
			depth--
		}
		p.bump()
	}
}

func (p *parser) finishOtherItem(parent *Node, attrs []*Node, declStart int) {
	node := p.newItem(OTHER_ITEM, parent, attrs, declStart)
	for !p.eof() {
		t := p.cur()
		if t.Kind == SEMICOLON {
			term := p.bump()
			node.terminal = &term
			break
		}
		if t.Kind == L_BRACE {
			p.consumeGroup(L_BRACE, R_BRACE)
			break
		}
		if t.Kind == R_BRACE {
			break
		}
		p.bump()
	}
	// OTHER_ITEM nodes deliberately leave declRange unresolved: they
	// report neither header nor body focus.
	p.finish(node)
}

func trimText(src string, r TextRange) string {
	if r.Start < 0 || r.End > len(src) || r.Start > r.End {
		return ""
	}
	text := src[r.Start:r.End]
	return trimSpace(text)
}

func trimRange(src string, r TextRange) TextRange {
	for r.Start < r.End && isSpace(src[r.Start]) {
		r.Start++
	}
	for r.End > r.Start && isSpace(src[r.End-1]) {
		r.End--
	}
	return r
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
