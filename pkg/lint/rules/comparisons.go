package rules

import (
	"github.com/flintlabs/pyflint/pkg/lint"
	"github.com/flintlabs/pyflint/pkg/pyast"
)

// TypeComparisonRule flags equality comparisons against type() results.
// type(a) == type(b) ignores inheritance; isinstance() is almost always
// what was meant.
//
// No fix is offered: rewriting to isinstance() needs the intended class,
// which the comparison does not name.
type TypeComparisonRule struct {
	lint.BaseRule
}

// NewTypeComparisonRule creates a new PF106 rule.
func NewTypeComparisonRule() *TypeComparisonRule {
	return &TypeComparisonRule{
		BaseRule: lint.NewBaseRule(
			"PF106",
			"type-comparison",
			"Compare object types with isinstance() rather than type() equality",
			[]string{"pycodestyle"},
			false,
			pyast.KindCompare,
		),
	}
}

// Check inspects one comparison expression.
func (r *TypeComparisonRule) Check(_ *lint.RuleContext, node *pyast.Node) ([]lint.Diagnostic, error) {
	if node.Compare == nil {
		return nil, nil
	}
	if node.Compare.Op != "==" && node.Compare.Op != "!=" {
		return nil, nil
	}
	if !isTypeCall(node.Compare.Left) && !isTypeCall(node.Compare.Right) {
		return nil, nil
	}

	diag := lint.NewDiagnostic(r.Code(), node, "Type comparison with == does not account for subclasses").
		WithSuggestion("Use isinstance() for type checks").
		Build()
	return []lint.Diagnostic{diag}, nil
}

// isTypeCall recognizes a one-argument call to the type builtin.
func isTypeCall(n *pyast.Node) bool {
	if n == nil || n.Kind != pyast.KindCall || n.Call == nil {
		return false
	}
	callee := n.Call.Callee
	return callee != nil && callee.Kind == pyast.KindName &&
		callee.Ident == "type" && len(n.Call.Args) == 1
}
