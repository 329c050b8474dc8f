package lint

import (
	"cmp"
	"slices"

	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/fix"
)

// ApplyOutcome describes one round of fix application.
type ApplyOutcome struct {
	// Content is the rewritten content. Equal to the input when nothing
	// was applied.
	Content []byte

	// Applied holds the diagnostics whose fixes were applied, in
	// application order.
	Applied []Diagnostic

	// Unapplied holds diagnostics left standing after this round: no fix,
	// no fix eligible under the mode, or an eligible fix skipped because
	// it overlapped an already-selected fix. Only the overlap losers
	// remain actionable in a later round.
	Unapplied []Diagnostic

	// Changed is true if Content differs from the input.
	Changed bool
}

// ApplyFixes applies as many eligible fixes as possible in one round.
//
// Eligible fixes are selected greedily: candidates are ordered by
// (start offset, replaced span, code) and a candidate is accepted only
// if none of its edits overlap an edit already accepted. All accepted
// edits are then applied in a single pass. Fixes from diagnostics that
// lost the overlap race are reported as unapplied, not dropped; the
// caller re-lints and retries.
func ApplyFixes(content []byte, diags []Diagnostic, mode config.FixMode) *ApplyOutcome {
	outcome := &ApplyOutcome{Content: content}

	var candidates []Diagnostic
	for _, d := range diags {
		if !mode.Applies() || !d.HasFix() || !eligible(d.Fix.Applicability, mode) ||
			d.Fix.Validate() != nil {
			outcome.Unapplied = append(outcome.Unapplied, d)
			continue
		}
		candidates = append(candidates, d)
	}
	if len(candidates) == 0 {
		return outcome
	}

	// Deterministic application order: earliest first, smaller
	// replacement first, then code as the final tie-break.
	slices.SortFunc(candidates, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Fix.Start(), b.Fix.Start()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Fix.Span(), b.Fix.Span()); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})

	var selected []fix.TextEdit
	for _, d := range candidates {
		if conflicts(selected, d.Fix) {
			outcome.Unapplied = append(outcome.Unapplied, d)
			continue
		}
		selected = append(selected, d.Fix.Edits...)
		outcome.Applied = append(outcome.Applied, d)
	}

	prepared, err := fix.PrepareEdits(selected, len(content))
	if err != nil {
		// A rule produced edits inconsistent with the content. Apply
		// nothing rather than corrupt the file.
		outcome.Applied = nil
		outcome.Unapplied = append(outcome.Unapplied, candidates...)
		return outcome
	}

	outcome.Content = fix.ApplyEdits(content, prepared)
	outcome.Changed = len(prepared) > 0
	return outcome
}

// eligible reports whether a fix of the given applicability may be
// applied under the given mode.
func eligible(a fix.Applicability, mode config.FixMode) bool {
	switch a {
	case fix.Safe:
		return mode == config.FixModeSafe || mode == config.FixModeUnsafe
	case fix.Unsafe:
		return mode == config.FixModeUnsafe
	default:
		return false
	}
}

// conflicts reports whether any edit of f overlaps an already-selected
// edit.
func conflicts(selected []fix.TextEdit, f *fix.Fix) bool {
	for _, e := range selected {
		if f.OverlapsEdit(e) {
			return true
		}
	}
	return false
}
