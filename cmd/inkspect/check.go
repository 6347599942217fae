// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"inkspect/internal/analysis"
	"inkspect/internal/errors"
)

var checkCmd = &cobra.Command{
	Use:          "check <file.rs>",
	Short:        "Analyze the ink! attributes in a contract file",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	diags := analysis.New(string(source)).Diagnostics()
	duration := formatDuration(time.Since(startTime))

	if len(diags) == 0 {
		color.Green("No ink! attribute problems found in %s (%s)", path, duration)
		return nil
	}

	reporter := errors.NewReporter(path, string(source))
	fmt.Print(reporter.FormatAll(diags))

	color.Red("Found %d problems in %s (%s)", len(diags), path, duration)
	os.Exit(1)
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
