// Package analysis answers the three editor questions about one ink!
// source snapshot: what is wrong (diagnostics), what can be typed here
// (completions) and what can be done here (actions). Every entry point
// is a pure function of an immutable parse; results are freshly
// allocated value types the caller applies and discards.
package analysis

import "inkspect/internal/syntax"

// TextEdit is one descriptive change in original-document coordinates.
// Snippet, when non-empty, is the same text with numbered placeholder
// markers for editors that support them; the two forms differ only in
// placeholder decoration.
type TextEdit struct {
	Text    string
	Range   syntax.TextRange
	Snippet string
}

// Insert creates an edit adding text at an offset.
func Insert(offset int, text, snippet string) TextEdit {
	return TextEdit{Text: text, Range: syntax.EmptyRange(offset), Snippet: snippet}
}

// Replace creates an edit substituting text for a range.
func Replace(r syntax.TextRange, text, snippet string) TextEdit {
	return TextEdit{Text: text, Range: r, Snippet: snippet}
}

// Delete creates an edit removing a range.
func Delete(r syntax.TextRange) TextEdit {
	return TextEdit{Range: r}
}

type ActionKind int

const (
	Refactor ActionKind = iota
	QuickFix
)

// Action is one applicable code action. Edits are expressed against
// the original document and must be applied atomically in one pass.
type Action struct {
	Label string
	Kind  ActionKind
	Range syntax.TextRange
	Edits []TextEdit
}

type Severity int

const (
	Error Severity = iota
	Warning
)

// Diagnostic is one semantic invariant violation with optional
// independent quick-fix actions.
type Diagnostic struct {
	Message    string
	Range      syntax.TextRange
	Severity   Severity
	Quickfixes []Action
}

// Completion is one in-attribute completion item.
type Completion struct {
	Label  string
	Range  syntax.TextRange
	Edit   TextEdit
	Detail string
}
