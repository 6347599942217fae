// Package lsp implements the language server handlers for ink!
// attribute analysis: publishing diagnostics, serving completions and
// code actions, and highlighting the ink! surface with semantic tokens.
package lsp

import (
	"fmt"
	"log"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"inkspect/internal/analysis"
	"inkspect/internal/syntax"
)

// document is one open text document with its analysis snapshot.
type document struct {
	analysis *analysis.Analysis
	index    *syntax.LineIndex
}

// Handler implements the LSP server handlers.
type Handler struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*document
}

// NewHandler creates and returns a new Handler instance.
func NewHandler() *Handler {
	return &Handler{
		docs: make(map[protocol.DocumentUri]*document),
	}
}

// Initialize responds to the LSP client's initialize request and
// advertises the server's capabilities.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider:   ptrBool(false),
				TriggerCharacters: []string{"[", "(", ":", ","},
			},
			CodeActionProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's
// capabilities and completes initialization.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("inkspect LSP initialized")
	return nil
}

// SetTrace handles trace-level changes requested by the client.
func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// Shutdown handles the LSP shutdown request.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("inkspect LSP shutdown")
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)

	h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

// TextDocumentDidChange handles file change notifications from the
// editor. Sync is full-document, so the last change event carries the
// whole new text.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)

	for _, change := range params.ContentChanges {
		switch event := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			h.update(ctx, params.TextDocument.URI, event.Text)
		case protocol.TextDocumentContentChangeEventWhole:
			h.update(ctx, params.TextDocument.URI, event.Text)
		}
	}
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.docs, params.TextDocument.URI)
	return nil
}

// TextDocumentCompletion serves ink! attribute path and argument
// completions at the cursor position.
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc, ok := h.lookup(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	offset := doc.index.Offset(int(params.Position.Line), int(params.Position.Character))
	items := ConvertCompletions(doc.index, doc.analysis.Completions(offset))

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// TextDocumentCodeAction serves the refactorings and quick-fixes
// available for the requested range: attribute and entity additions,
// attribute flattening, plus the fixes attached to any diagnostics
// overlapping the range.
func (h *Handler) TextDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc, ok := h.lookup(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	uri := string(params.TextDocument.URI)
	r := fromProtocolRange(doc.index, params.Range)

	actions := doc.analysis.Actions(r)
	for _, diag := range doc.analysis.Diagnostics() {
		if !rangesOverlap(diag.Range, r) {
			continue
		}
		actions = append(actions, diag.Quickfixes...)
	}

	return ConvertActions(doc.index, uri, actions), nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for
// the entire document.
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, ok := h.lookup(params.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("unknown document %s", params.TextDocument.URI)
	}

	tokens := collectSemanticTokens(doc.analysis.File(), doc.index)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into the LSP wire format (delta-line, delta-start
	// compression).
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

// update re-analyzes a document and publishes its diagnostics.
func (h *Handler) update(ctx *glsp.Context, uri protocol.DocumentUri, content string) {
	doc := &document{
		analysis: analysis.New(content),
		index:    syntax.NewLineIndex(content),
	}

	h.mu.Lock()
	h.docs[uri] = doc
	h.mu.Unlock()

	diagnostics := ConvertDiagnostics(doc.index, doc.analysis.Diagnostics())
	if diagnostics == nil {
		// An explicit empty publish clears stale squiggles client-side.
		diagnostics = []protocol.Diagnostic{}
	}
	sendDiagnosticNotification(ctx, uri, diagnostics)
}

func (h *Handler) lookup(uri protocol.DocumentUri) (*document, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	doc, ok := h.docs[uri]
	return doc, ok
}

func rangesOverlap(a, b syntax.TextRange) bool {
	return a.Start <= b.End && b.Start <= a.End
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}

	log.Printf("Publishing %d diagnostics for %s\n", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
