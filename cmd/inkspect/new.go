// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"inkspect/internal/codegen"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new ink! contract project",
	Long: `Create a new ink! contract project directory containing a lib.rs
contract stub and a Cargo.toml manifest. The name must be a valid Rust
package name starting with an alphabetic character.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]

	project, err := codegen.NewProject(name)
	if err != nil {
		return fmt.Errorf("cannot create project %q: %w", name, err)
	}

	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("directory %q already exists", name)
	}
	if err := os.MkdirAll(name, 0o755); err != nil {
		return err
	}

	libPath := filepath.Join(name, "lib.rs")
	if err := os.WriteFile(libPath, []byte(project.Lib.Plain), 0o644); err != nil {
		return err
	}
	cargoPath := filepath.Join(name, "Cargo.toml")
	if err := os.WriteFile(cargoPath, []byte(project.Cargo.Plain), 0o644); err != nil {
		return err
	}

	fmt.Println("Created", libPath)
	fmt.Println("Created", cargoPath)
	color.Green("New ink! project %q is ready", name)
	return nil
}
