package rules

import (
	"github.com/flintlabs/pyflint/pkg/fix"
	"github.com/flintlabs/pyflint/pkg/lint"
	"github.com/flintlabs/pyflint/pkg/pyast"
)

// RedundantStrCallRule flags str() wrapping a string literal. The call
// is a no-op: str("x") is "x" and str() is "".
type RedundantStrCallRule struct {
	lint.BaseRule
}

// NewRedundantStrCallRule creates a new PF103 rule.
func NewRedundantStrCallRule() *RedundantStrCallRule {
	return &RedundantStrCallRule{
		BaseRule: lint.NewBaseRule(
			"PF103",
			"redundant-str-call",
			"str() applied to a string literal (or nothing) is redundant; use the literal directly",
			[]string{"pyupgrade"},
			true,
			pyast.KindCall,
		),
	}
}

// Check inspects one call expression.
func (r *RedundantStrCallRule) Check(_ *lint.RuleContext, node *pyast.Node) ([]lint.Diagnostic, error) {
	if node.Call == nil {
		return nil, nil
	}
	callee := node.Call.Callee
	if callee == nil || callee.Kind != pyast.KindName || callee.Ident != "str" {
		return nil, nil
	}

	replacement, ok := strCallReplacement(node)
	if !ok {
		return nil, nil
	}

	b := fix.NewEditBuilder()
	b.ReplaceRange(node.Range.StartOffset, node.Range.EndOffset, replacement)

	diag := lint.NewDiagnostic(r.Code(), node, "Redundant str() call around a string literal").
		WithSuggestion("Use "+replacement+" directly").
		WithSafeFix(b).
		Build()
	return []lint.Diagnostic{diag}, nil
}

// strCallReplacement returns the literal text replacing a redundant
// str() call, or false when the call is not redundant.
func strCallReplacement(node *pyast.Node) (string, bool) {
	args := node.Call.Args
	switch len(args) {
	case 0:
		return `""`, true
	case 1:
		arg := args[0]
		if arg.Kind != pyast.KindStringLit || arg.Str == nil {
			return "", false
		}
		return string(arg.Text()), true
	default:
		return "", false
	}
}
