// Package lint provides the rule engine, diagnostics, and registry for
// pyflint.
package lint

import (
	"cmp"
	"slices"

	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/fix"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

// CodeInternalError is the reserved code for diagnostics produced by the
// engine itself when a rule fails. It is never suppressible and has no
// fix.
const CodeInternalError = "PF000"

// Diagnostic represents a single lint issue found in a file.
type Diagnostic struct {
	// Code is the identifier of the rule that produced this diagnostic
	// (e.g., "PF101"), or CodeInternalError for engine failures.
	Code string

	// RuleName is the human-readable name of the rule
	// (e.g., "incorrect-dict-iterator-values").
	RuleName string

	// Message is the human-readable description of the issue.
	Message string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// FilePath is the path to the file containing the issue.
	FilePath string

	// StartOffset is the byte offset where the issue starts (inclusive).
	StartOffset int

	// EndOffset is the byte offset where the issue ends (exclusive).
	EndOffset int

	// StartLine is the 1-based line number where the issue starts.
	StartLine int

	// StartColumn is the 1-based column number where the issue starts.
	StartColumn int

	// EndLine is the 1-based line number where the issue ends.
	EndLine int

	// EndColumn is the 1-based column number where the issue ends.
	EndColumn int

	// Suggestion is an optional human-readable fix suggestion.
	Suggestion string

	// Fix is the proposed fix, or nil when the rule offers none.
	Fix *fix.Fix
}

// HasFix returns true if this diagnostic carries a fix.
func (d *Diagnostic) HasFix() bool {
	return d.Fix != nil && len(d.Fix.Edits) > 0
}

// Range returns the diagnostic span as a SourceRange.
func (d *Diagnostic) Range() pysrc.SourceRange {
	return pysrc.NewRange(d.StartOffset, d.EndOffset)
}

// SourcePosition returns the diagnostic position as a SourcePosition.
func (d *Diagnostic) SourcePosition() pysrc.SourcePosition {
	return pysrc.SourcePosition{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
}

// IsInternal returns true for engine-produced failure diagnostics.
func (d *Diagnostic) IsInternal() bool {
	return d.Code == CodeInternalError
}

// SortDiagnostics orders diagnostics by start offset, then end offset,
// then code. Two rules flagging the same span therefore report in
// stable code order regardless of registration or execution order.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortFunc(diags, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.StartOffset, b.StartOffset); c != 0 {
			return c
		}
		if c := cmp.Compare(a.EndOffset, b.EndOffset); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
}
