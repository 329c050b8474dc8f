package lint

import (
	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/pyast"
)

// BaseRule provides a default implementation of the Rule interface.
// Embed this in rule implementations and override methods as needed.
//
// Fields are unexported to avoid stutter and name collisions with
// interface methods.
type BaseRule struct {
	code    string
	name    string
	desc    string
	tags    []string
	fixable bool
	kinds   []pyast.NodeKind
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(code, name, desc string, tags []string, fixable bool, kinds ...pyast.NodeKind) BaseRule {
	return BaseRule{
		code:    code,
		name:    name,
		desc:    desc,
		tags:    tags,
		fixable: fixable,
		kinds:   kinds,
	}
}

// Code returns the unique identifier for this rule.
func (r *BaseRule) Code() string {
	return r.code
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// DefaultEnabled returns whether the rule is enabled by default.
// Override this method to change the default.
func (r *BaseRule) DefaultEnabled() bool {
	return true
}

// DefaultSeverity returns the default severity for this rule.
// Override this method to change the default.
func (r *BaseRule) DefaultSeverity() config.Severity {
	return config.SeverityWarning
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// CanFix returns whether this rule can propose fixes.
func (r *BaseRule) CanFix() bool {
	return r.fixable
}

// Kinds returns the node kinds this rule subscribes to.
func (r *BaseRule) Kinds() []pyast.NodeKind {
	return r.kinds
}

// Check must be overridden by concrete rule implementations.
// The default implementation returns no diagnostics.
func (r *BaseRule) Check(_ *RuleContext, _ *pyast.Node) ([]Diagnostic, error) {
	return nil, nil
}
