// Package fix provides the text edit model and application logic for
// auto-fixing: edits, fixes with safety classification, conflict
// resolution, and unified diff generation.
package fix

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Span returns the number of source bytes this edit replaces.
func (e TextEdit) Span() int {
	return e.EndOffset - e.StartOffset
}

// Overlaps returns true if two edits touch at least one common byte.
// Pure insertions (zero-length edits) conflict with any edit covering or
// inserting at the same offset.
func (e TextEdit) Overlaps(other TextEdit) bool {
	if e.StartOffset == other.StartOffset {
		return true
	}
	return e.StartOffset < other.EndOffset && other.StartOffset < e.EndOffset
}

// EditBuilder accumulates text edits for a single fix.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}
