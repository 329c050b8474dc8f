package fix

import (
	"errors"
	"fmt"
)

// Applicability classifies how safely a fix can be applied.
type Applicability int

const (
	// DisplayOnly means no applicable fix exists; the diagnostic is
	// informational. This is a first-class, permanent outcome, not a
	// placeholder for a future fix.
	DisplayOnly Applicability = iota

	// Safe fixes are guaranteed semantics-preserving (or an explicitly
	// endorsed stylistic change) and eligible for unattended application.
	Safe

	// Unsafe fixes are plausible but not guaranteed preserving; they are
	// applied only when the caller opts in.
	Unsafe
)

// String returns the lowercase name of the applicability.
func (a Applicability) String() string {
	switch a {
	case Safe:
		return "safe"
	case Unsafe:
		return "unsafe"
	case DisplayOnly:
		return "display-only"
	default:
		return "unknown"
	}
}

// ErrEmptyFix indicates a Fix with no edits. A fix must change something.
var ErrEmptyFix = errors.New("fix has no edits")

// Fix is a set of non-overlapping text edits resolving one diagnostic,
// labeled with a safety classification.
type Fix struct {
	// Edits are the text edits, sorted by start offset, pairwise
	// non-overlapping.
	Edits []TextEdit

	// Applicability classifies how safely the fix can be applied.
	Applicability Applicability
}

// NewSafeFix creates a Safe fix from the builder's accumulated edits.
func NewSafeFix(b *EditBuilder) *Fix {
	return newFix(b, Safe)
}

// NewUnsafeFix creates an Unsafe fix from the builder's accumulated edits.
func NewUnsafeFix(b *EditBuilder) *Fix {
	return newFix(b, Unsafe)
}

func newFix(b *EditBuilder, applicability Applicability) *Fix {
	if b == nil || len(b.Edits) == 0 {
		return nil
	}
	edits := make([]TextEdit, len(b.Edits))
	copy(edits, b.Edits)
	SortEdits(edits)
	return &Fix{Edits: edits, Applicability: applicability}
}

// Validate checks the fix invariants: at least one edit, edits sorted and
// pairwise non-overlapping.
func (f *Fix) Validate() error {
	if f == nil || len(f.Edits) == 0 {
		return ErrEmptyFix
	}
	for i := 1; i < len(f.Edits); i++ {
		prev, curr := f.Edits[i-1], f.Edits[i]
		if curr.StartOffset < prev.StartOffset {
			return fmt.Errorf("edits not sorted: [%d:%d] after [%d:%d]",
				curr.StartOffset, curr.EndOffset, prev.StartOffset, prev.EndOffset)
		}
		if prev.Overlaps(curr) {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// Start returns the start offset of the first edit.
func (f *Fix) Start() int {
	if f == nil || len(f.Edits) == 0 {
		return 0
	}
	return f.Edits[0].StartOffset
}

// Span returns the total number of source bytes the fix replaces.
func (f *Fix) Span() int {
	if f == nil {
		return 0
	}
	total := 0
	for _, e := range f.Edits {
		total += e.Span()
	}
	return total
}

// OverlapsEdit returns true if any edit of the fix overlaps the given edit.
func (f *Fix) OverlapsEdit(edit TextEdit) bool {
	if f == nil {
		return false
	}
	for _, e := range f.Edits {
		if e.Overlaps(edit) {
			return true
		}
	}
	return false
}
