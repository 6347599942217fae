package lsp_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"inkspect/internal/lsp"
)

const testURI = "file:///tmp/lib.rs"

// capture records the publish notifications a handler sends.
type capture struct {
	published []*protocol.PublishDiagnosticsParams
}

func (c *capture) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				return
			}
			if p, ok := params.(*protocol.PublishDiagnosticsParams); ok {
				c.published = append(c.published, p)
			}
		},
	}
}

func openDocument(t *testing.T, handler *lsp.Handler, ctx *glsp.Context, text string) {
	t.Helper()
	err := handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  testURI,
			Text: text,
		},
	})
	require.NoError(t, err)
}

func TestInitializeAdvertisesCapabilities(t *testing.T) {
	handler := lsp.NewHandler()

	result, err := handler.Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	initResult, ok := result.(*protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, initResult.Capabilities.CompletionProvider)
	assert.Contains(t, initResult.Capabilities.CompletionProvider.TriggerCharacters, "(")
	assert.Equal(t, true, initResult.Capabilities.CodeActionProvider)
	require.NotNil(t, initResult.Capabilities.SemanticTokensProvider)
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	handler := lsp.NewHandler()
	cap := &capture{}

	openDocument(t, handler, cap.context(), "#[ink::xyz]\nfn f() {}")

	require.Len(t, cap.published, 1)
	diags := cap.published[0].Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, "Unknown ink! attribute.", diags[0].Message)
	assert.Equal(t, uint32(0), diags[0].Range.Start.Line)
	assert.Equal(t, uint32(0), diags[0].Range.Start.Character)
	assert.Equal(t, uint32(11), diags[0].Range.End.Character)
	require.NotNil(t, diags[0].Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
}

func TestDidChangeClearsStaleDiagnostics(t *testing.T) {
	handler := lsp.NewHandler()
	cap := &capture{}
	ctx := cap.context()

	openDocument(t, handler, ctx, "#[ink::xyz]\nfn f() {}")

	err := handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "fn f() {}"},
		},
	})
	require.NoError(t, err)

	require.Len(t, cap.published, 2)
	assert.NotEmpty(t, cap.published[0].Diagnostics)
	assert.Empty(t, cap.published[1].Diagnostics)
}

func TestCompletionReturnsAttributeMacros(t *testing.T) {
	handler := lsp.NewHandler()
	cap := &capture{}
	ctx := cap.context()

	openDocument(t, handler, ctx, "#[ink::c]\nmod my_contract {}")

	result, err := handler.TextDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 0, Character: 8},
		},
	})
	require.NoError(t, err)

	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "contract", list.Items[0].Label)

	edit, ok := list.Items[0].TextEdit.(*protocol.TextEdit)
	require.True(t, ok)
	assert.Equal(t, "contract", edit.NewText)
	assert.Equal(t, uint32(7), edit.Range.Start.Character)
	assert.Equal(t, uint32(8), edit.Range.End.Character)
}

func TestCodeActionCarriesDiagnosticQuickfixes(t *testing.T) {
	handler := lsp.NewHandler()
	cap := &capture{}
	ctx := cap.context()

	openDocument(t, handler, ctx, "#[ink::xyz]\nfn f() {}")

	result, err := handler.TextDocumentCodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 11},
		},
	})
	require.NoError(t, err)

	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Len(t, actions, 1)
	assert.Equal(t, "Remove ink! attribute", actions[0].Title)
	require.NotNil(t, actions[0].Kind)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *actions[0].Kind)
	require.NotNil(t, actions[0].Edit)
	assert.Len(t, actions[0].Edit.Changes[testURI], 1)
}

func TestSemanticTokensHighlightAttributes(t *testing.T) {
	handler := lsp.NewHandler()
	cap := &capture{}
	ctx := cap.context()

	source := `#[ink::contract]
mod flipper {
    #[ink(storage)]
    pub struct Flipper {}
}`
	openDocument(t, handler, ctx, source)

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 6)

	assertToken(t, &decoded[0], 0, 2, 3, "namespace", nil)
	assertToken(t, &decoded[1], 0, 7, 8, "macro", nil)
	assertToken(t, &decoded[2], 1, 4, 7, "namespace", []string{"declaration"})
	assertToken(t, &decoded[3], 2, 6, 3, "namespace", nil)
	assertToken(t, &decoded[4], 2, 10, 7, "parameter", nil)
	assertToken(t, &decoded[5], 3, 15, 7, "type", []string{"declaration"})
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line,
			Char:      char,
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	t.Helper()
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
