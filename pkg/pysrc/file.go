// Package pysrc provides the source text model for pyflint: raw content,
// the line index, and offset/position conversion used by every other
// component for reporting and suppression lookup.
package pysrc

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfRange indicates an offset beyond the source length was passed to
// a position lookup. Callers must never do this; it signals an internal
// inconsistency between the parser and the engine, not a user error.
var ErrOutOfRange = errors.New("offset out of range")

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// File is an immutable view of a source file: raw content plus the line
// index built by a single linear scan.
type File struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo
}

// NewFile creates a File from content and builds its line index.
func NewFile(path string, content []byte) *File {
	return &File{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// BuildLines constructs line metadata from file content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char == '\n' {
			newlineStart := idx
			if idx > 0 && content[idx-1] == '\r' {
				newlineStart = idx - 1
			}

			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// Last line may not have a trailing newline.
	if lineStart <= len(content) {
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(content),
			EndOffset:    len(content),
		})
	}

	return lines
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Returns ErrOutOfRange for offsets
// outside [0, len(Content)].
func (f *File) LineAt(offset int) (int, int, error) {
	if offset < 0 || offset > len(f.Content) {
		return 0, 0, fmt.Errorf("%w: offset %d, content length %d",
			ErrOutOfRange, offset, len(f.Content))
	}
	if len(f.Lines) == 0 {
		return 1, 1, nil
	}

	// Offset at end of content maps to the end of the last line.
	if offset == len(f.Content) {
		lastLine := f.Lines[len(f.Lines)-1]
		return len(f.Lines), offset - lastLine.StartOffset + 1, nil
	}

	// Binary search for the line containing the offset.
	lineIdx := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(f.Lines) {
		lineIdx = len(f.Lines) - 1
	}

	lineInfo := f.Lines[lineIdx]
	return lineIdx + 1, offset - lineInfo.StartOffset + 1, nil
}

// PositionAt converts a byte offset to a Position, returning an invalid
// Position when the offset is out of range. Use LineAt when the caller
// must distinguish the contract violation.
func (f *File) PositionAt(offset int) Position {
	line, col, err := f.LineAt(offset)
	if err != nil {
		return Position{}
	}
	return Position{Line: line, Column: col}
}

// RangePosition converts a byte range to line/column coordinates.
func (f *File) RangePosition(r SourceRange) SourcePosition {
	start := f.PositionAt(r.StartOffset)
	end := f.PositionAt(r.EndOffset)
	return SourcePosition{
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
	}
}

// Offset converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (f *File) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(f.Lines) {
		return 0, false
	}

	lineInfo := f.Lines[line-1]
	if col < 1 {
		return 0, false
	}

	offset := lineInfo.StartOffset + col - 1

	// Allow column to point just past the line end (cursor positioning).
	if offset > lineInfo.EndOffset {
		return 0, false
	}

	return offset, true
}

// LineStart returns the byte offset of a 1-based line's first byte.
func (f *File) LineStart(line int) (int, bool) {
	if line < 1 || line > len(f.Lines) {
		return 0, false
	}
	return f.Lines[line-1].StartOffset, true
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns nil if the line number is out of range.
func (f *File) LineContent(line int) []byte {
	if line < 1 || line > len(f.Lines) {
		return nil
	}

	lineInfo := f.Lines[line-1]
	return f.Content[lineInfo.StartOffset:lineInfo.NewlineStart]
}

// Slice returns the content bytes covered by the given range, or nil if
// the range does not fit the content.
func (f *File) Slice(r SourceRange) []byte {
	if r.StartOffset < 0 || r.EndOffset > len(f.Content) || r.StartOffset > r.EndOffset {
		return nil
	}
	return f.Content[r.StartOffset:r.EndOffset]
}
