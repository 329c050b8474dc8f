package lint

import (
	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/pyast"
)

// Rule defines the interface that all lint rules must implement.
//
// Rules are dispatched by node kind: the engine walks the tree once in
// pre-order and invokes Check only for nodes whose kind appears in
// Kinds(). A rule interested in whole-file context can subscribe to
// KindModule.
type Rule interface {
	// Code returns the unique identifier for this rule (e.g., "PF101").
	Code() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule (e.g., ["bugbear"]).
	Tags() []string

	// CanFix returns whether this rule can propose fixes.
	CanFix() bool

	// Kinds returns the node kinds this rule subscribes to.
	Kinds() []pyast.NodeKind

	// Check inspects a single node and returns any diagnostics.
	//
	// Rules must:
	//   - Return diagnostics only for the given node, not its siblings.
	//   - Attach fixes via the DiagnosticBuilder (if CanFix() is true).
	//   - Return error only for internal failures, not violations.
	//
	// A Check error or panic never aborts the run: the engine converts
	// it to an internal-error diagnostic and continues with other rules.
	Check(rc *RuleContext, node *pyast.Node) ([]Diagnostic, error)
}
