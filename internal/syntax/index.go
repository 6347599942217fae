package syntax

import "sort"

// LineIndex converts between byte offsets and zero-based line/column
// positions over one source text. Columns count bytes, which matches
// UTF-8 offsets for the ASCII-dominant sources the tooling handles.
type LineIndex struct {
	lineStarts []int
	size       int
}

func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts, size: len(source)}
}

// Position returns the zero-based line and column for a byte offset.
// Offsets beyond the text clamp to its end.
func (ix *LineIndex) Position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > ix.size {
		offset = ix.size
	}
	line = sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	}) - 1
	return line, offset - ix.lineStarts[line]
}

// Offset returns the byte offset for a zero-based line and column,
// clamping out-of-range positions into the text.
func (ix *LineIndex) Offset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(ix.lineStarts) {
		return ix.size
	}
	offset := ix.lineStarts[line] + col
	lineEnd := ix.size
	if line+1 < len(ix.lineStarts) {
		lineEnd = ix.lineStarts[line+1]
	}
	if offset > lineEnd {
		offset = lineEnd
	}
	if offset < ix.lineStarts[line] {
		offset = ix.lineStarts[line]
	}
	return offset
}
