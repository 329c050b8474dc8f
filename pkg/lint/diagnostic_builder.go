package lint

import (
	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/fix"
	"github.com/flintlabs/pyflint/pkg/pyast"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic for the given rule code at
// the given node. Offsets and line/column positions are taken from the
// node.
func NewDiagnostic(code string, node *pyast.Node, message string) *DiagnosticBuilder {
	var filePath string
	var pos pysrc.SourcePosition
	var start, end int

	if node != nil {
		pos = node.SourcePosition()
		start = node.Range.StartOffset
		end = node.Range.EndOffset
		if node.File != nil {
			filePath = node.File.Path
		}
	}

	return &DiagnosticBuilder{
		diag: Diagnostic{
			Code:        code,
			Message:     message,
			FilePath:    filePath,
			StartOffset: start,
			EndOffset:   end,
			StartLine:   pos.StartLine,
			StartColumn: pos.StartColumn,
			EndLine:     pos.EndLine,
			EndColumn:   pos.EndColumn,
		},
	}
}

// NewDiagnosticAt starts building a diagnostic at an explicit byte range
// within the given file.
func NewDiagnosticAt(code string, file *pysrc.File, r pysrc.SourceRange, message string) *DiagnosticBuilder {
	var filePath string
	var pos pysrc.SourcePosition

	if file != nil {
		filePath = file.Path
		pos = file.RangePosition(r)
	}

	return &DiagnosticBuilder{
		diag: Diagnostic{
			Code:        code,
			Message:     message,
			FilePath:    filePath,
			StartOffset: r.StartOffset,
			EndOffset:   r.EndOffset,
			StartLine:   pos.StartLine,
			StartColumn: pos.StartColumn,
			EndLine:     pos.EndLine,
			EndColumn:   pos.EndColumn,
		},
	}
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable fix suggestion.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithFix attaches a fix. A nil fix is ignored.
func (b *DiagnosticBuilder) WithFix(f *fix.Fix) *DiagnosticBuilder {
	if f != nil {
		b.diag.Fix = f
	}
	return b
}

// WithSafeFix attaches the builder's edits as a safe fix.
func (b *DiagnosticBuilder) WithSafeFix(eb *fix.EditBuilder) *DiagnosticBuilder {
	return b.WithFix(fix.NewSafeFix(eb))
}

// WithUnsafeFix attaches the builder's edits as an unsafe fix.
func (b *DiagnosticBuilder) WithUnsafeFix(eb *fix.EditBuilder) *DiagnosticBuilder {
	return b.WithFix(fix.NewUnsafeFix(eb))
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
