// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inkspect",
	Short: "Semantic analyzer for ink! smart contract attributes",
	Long: `inkspect analyzes the ink! attributes in Rust smart contract sources:
it reports invalid attributes with quick-fix hints, scaffolds new
contract projects and serves editors over the language server protocol.`,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(lspCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
