package analysis

import "inkspect/internal/syntax"

// Analysis bundles one immutable parse of an ink! source text with the
// three query entry points. A value is cheap to construct, holds no
// state beyond the parse and is safe for concurrent reads; edits it
// suggests are applied by the caller, who then constructs a fresh
// Analysis over the new text.
type Analysis struct {
	file *syntax.File
}

func New(source string) *Analysis {
	return &Analysis{file: syntax.Parse(source)}
}

// File exposes the underlying parse for callers that need offset or
// range translation.
func (a *Analysis) File() *syntax.File {
	return a.file
}

// Diagnostics reports all semantic invariant violations in the file.
func (a *Analysis) Diagnostics() []Diagnostic {
	return Diagnostics(a.file)
}

// Completions reports in-attribute completions at an offset.
func (a *Analysis) Completions(offset int) []Completion {
	return Completions(a.file, offset)
}

// Actions reports code actions for a position or selection.
func (a *Analysis) Actions(r syntax.TextRange) []Action {
	return Actions(a.file, r)
}
