package analysis

import (
	"inkspect/internal/ir"
	"inkspect/internal/syntax"
)

// focus is the resolved context of one cursor offset or selection.
type focus struct {
	file   *syntax.File
	rng    syntax.TextRange
	token  syntax.Token
	hasTok bool

	// attr is the covering attribute node, when the position sits
	// inside one. Item suggestions are suppressed in that case.
	attr *syntax.Node

	// item is the nearest annotatable declaration, nil at file root.
	item *syntax.Node

	inHeader bool
	inBody   bool
}

// resolveFocus clamps the range into the text and finds the focused
// token, covering attribute, nearest item and the header/body split.
// It never fails; out-of-range positions degrade to root focus.
func resolveFocus(file *syntax.File, r syntax.TextRange) focus {
	r = clamp(r, len(file.Source))
	f := focus{file: file, rng: r}

	if r.IsEmpty() {
		f.token, f.hasTok = file.TokenAt(r.Start)
	}

	f.attr = file.CoveringAttribute(r)

	// For a plain cursor the focused token decides the target item, so
	// a cursor touching a keyword from the outside still lands on the
	// keyword's item.
	probe := r
	if r.IsEmpty() && f.hasTok && !f.token.IsTrivia() {
		probe = f.token.Range
	}
	f.item = file.CoveringItem(probe)
	if f.item == nil {
		return f
	}

	decl := f.item.DeclarationRange()
	if !decl.IsEmpty() && decl.ContainsRange(r) {
		f.inHeader = true
	}
	if term := f.item.TerminalToken(); term != nil && term.Range.ContainsRange(r) {
		f.inHeader = true
	}
	if body, ok := f.item.BodyRange(); ok && body.ContainsRange(r) {
		f.inBody = true
	}
	return f
}

func clamp(r syntax.TextRange, size int) syntax.TextRange {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > size {
		r.End = size
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// bodyInsertOffset picks where body-level content goes: just before
// the item's closing delimiter, except that a selection ending inside
// straddling whitespace uses the selection's own end.
func bodyInsertOffset(f focus) int {
	body, ok := f.item.BodyRange()
	if !ok {
		return f.item.DeclarationRange().End
	}
	if tok, found := f.file.TokenAt(f.rng.End); found &&
		tok.Kind == syntax.WHITESPACE && tok.Range.Contains(f.rng.End) && body.Contains(f.rng.End) {
		return f.rng.End
	}
	return body.End
}

// scopeAt resolves the enclosing ink! scope for suggestions targeting
// the focused item.
func scopeAt(f focus) ir.Scope {
	if f.item == nil {
		return ir.ScopeFree
	}
	return ir.ResolveScope(f.item)
}
