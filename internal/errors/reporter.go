// Package errors renders analysis diagnostics for terminal output in
// a Rust-style format with source context and quick-fix hints.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"inkspect/internal/analysis"
	"inkspect/internal/syntax"
)

// Reporter formats diagnostics against one source file.
type Reporter struct {
	filename string
	source   string
	lines    []string
	index    *syntax.LineIndex
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
		index:    syntax.NewLineIndex(source),
	}
}

// Format renders one diagnostic with its source line, an underline
// marker and the labels of any quick-fixes.
func (r *Reporter) Format(diag analysis.Diagnostic) string {
	var result strings.Builder

	levelColor := r.levelColor(diag.Severity)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	result.WriteString(fmt.Sprintf("%s: %s\n",
		levelColor(levelName(diag.Severity)), diag.Message))

	line, col := r.index.Position(diag.Range.Start)
	lineNumberWidth := r.lineNumberWidth(line + 1)
	indent := strings.Repeat(" ", lineNumberWidth)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		indent, dim("-->"), r.filename, line+1, col+1))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if line < len(r.lines) {
		lineContent := r.lines[line]
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, line+1)),
			dim("│"),
			lineContent))

		marker := r.marker(col, r.markerLength(diag.Range, line, col), diag.Severity)
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker))
	}

	if len(diag.Quickfixes) > 0 {
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
		helpColor := color.New(color.FgCyan).SprintFunc()
		for i, fix := range diag.Quickfixes {
			if i == 0 {
				result.WriteString(fmt.Sprintf("%s %s: %s\n",
					indent, helpColor("help"), fix.Label))
			} else {
				result.WriteString(fmt.Sprintf("%s      %s\n", indent, fix.Label))
			}
		}
	}

	result.WriteString("\n")
	return result.String()
}

// FormatAll renders every diagnostic in order.
func (r *Reporter) FormatAll(diags []analysis.Diagnostic) string {
	var result strings.Builder
	for _, diag := range diags {
		result.WriteString(r.Format(diag))
	}
	return result.String()
}

// markerLength clips the underline to the diagnostic's first line.
func (r *Reporter) markerLength(rng syntax.TextRange, line, col int) int {
	length := rng.Len()
	if line < len(r.lines) {
		remaining := len(r.lines[line]) - col
		if length > remaining {
			length = remaining
		}
	}
	if length <= 0 {
		length = 1
	}
	return length
}

func (r *Reporter) levelColor(severity analysis.Severity) func(...interface{}) string {
	if severity == analysis.Warning {
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	}
	return color.New(color.FgRed, color.Bold).SprintFunc()
}

func levelName(severity analysis.Severity) string {
	if severity == analysis.Warning {
		return "warning"
	}
	return "error"
}

func (r *Reporter) marker(col, length int, severity analysis.Severity) string {
	spaces := strings.Repeat(" ", max(0, col))
	markerColor := r.levelColor(severity)
	return spaces + markerColor(strings.Repeat("^", length))
}

func (r *Reporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}
