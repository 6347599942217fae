// SPDX-License-Identifier: Apache-2.0
package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"inkspect/internal/lsp"
)

const (
	lsName  = "inkspect"
	version = "0.1.0"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the ink! language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	commonlog.Configure(1, nil)

	inkHandler := lsp.NewHandler()
	handler := protocol.Handler{
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
	return s.RunStdio()
}
