// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"inkspect/internal/lsp"
)

const lsName = "inkspect" // Name identifier for the language server

var (
	version = "0.1.0"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	inkHandler := lsp.NewHandler()

	// Wire up the handler with the supported LSP method implementations
	handler = protocol.Handler{
		Initialize:                     inkHandler.Initialize,
		Initialized:                    inkHandler.Initialized,
		Shutdown:                       inkHandler.Shutdown,
		SetTrace:                       inkHandler.SetTrace,
		TextDocumentDidOpen:            inkHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           inkHandler.TextDocumentDidClose,
		TextDocumentDidChange:          inkHandler.TextDocumentDidChange,
		TextDocumentCompletion:         inkHandler.TextDocumentCompletion,
		TextDocumentCodeAction:         inkHandler.TextDocumentCodeAction,
		TextDocumentSemanticTokensFull: inkHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting inkspect LSP server...")

	err := s.RunStdio()
	if err != nil {
		log.Println("Error starting inkspect LSP server:", err)
		os.Exit(1)
	}
}
