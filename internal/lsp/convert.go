package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"inkspect/internal/analysis"
	"inkspect/internal/syntax"
)

// toProtocolRange converts a byte-offset range into an LSP line/column
// range using the document's line index.
func toProtocolRange(index *syntax.LineIndex, r syntax.TextRange) protocol.Range {
	startLine, startCol := index.Position(r.Start)
	endLine, endCol := index.Position(r.End)
	return protocol.Range{
		Start: protocol.Position{Line: uint32(startLine), Character: uint32(startCol)},
		End:   protocol.Position{Line: uint32(endLine), Character: uint32(endCol)},
	}
}

// fromProtocolRange converts an LSP line/column range back into byte
// offsets, clamping positions outside the document.
func fromProtocolRange(index *syntax.LineIndex, r protocol.Range) syntax.TextRange {
	start := index.Offset(int(r.Start.Line), int(r.Start.Character))
	end := index.Offset(int(r.End.Line), int(r.End.Character))
	return syntax.NewRange(start, end)
}

// ConvertDiagnostics transforms analysis diagnostics into LSP diagnostics
// for IDE display. Quick-fixes are not carried here; the code action
// handler re-derives them for the requested range.
func ConvertDiagnostics(index *syntax.LineIndex, diags []analysis.Diagnostic) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, diag := range diags {
		severity := protocol.DiagnosticSeverityError
		if diag.Severity == analysis.Warning {
			severity = protocol.DiagnosticSeverityWarning
		}
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(index, diag.Range),
			Severity: ptrSeverity(severity),
			Source:   ptrString("inkspect"),
			Message:  diag.Message,
		})
	}
	return out
}

// ConvertCompletions transforms analysis completions into LSP completion
// items. Items carrying a snippet template advertise snippet insert
// format so editors place the tab stops.
func ConvertCompletions(index *syntax.LineIndex, completions []analysis.Completion) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, completion := range completions {
		kind := protocol.CompletionItemKindField
		format := protocol.InsertTextFormatPlainText
		text := completion.Edit.Text
		if completion.Edit.Snippet != "" {
			format = protocol.InsertTextFormatSnippet
			text = completion.Edit.Snippet
		}
		items = append(items, protocol.CompletionItem{
			Label:            completion.Label,
			Kind:             &kind,
			Detail:           ptrString(completion.Detail),
			InsertTextFormat: &format,
			TextEdit: &protocol.TextEdit{
				Range:   toProtocolRange(index, completion.Edit.Range),
				NewText: text,
			},
		})
	}
	return items
}

// ConvertActions transforms analysis actions into LSP code actions with
// single-document workspace edits.
func ConvertActions(index *syntax.LineIndex, uri string, actions []analysis.Action) []protocol.CodeAction {
	var out []protocol.CodeAction
	for _, action := range actions {
		kind := protocol.CodeActionKindRefactorRewrite
		if action.Kind == analysis.QuickFix {
			kind = protocol.CodeActionKindQuickFix
		}
		var edits []protocol.TextEdit
		for _, edit := range action.Edits {
			edits = append(edits, protocol.TextEdit{
				Range:   toProtocolRange(index, edit.Range),
				NewText: edit.Text,
			})
		}
		out = append(out, protocol.CodeAction{
			Title: action.Label,
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[string][]protocol.TextEdit{uri: edits},
			},
		})
	}
	return out
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
