package rules

import (
	"fmt"

	"github.com/flintlabs/pyflint/pkg/lint"
	"github.com/flintlabs/pyflint/pkg/pyast"
)

// MutableDefaultArgumentRule flags function parameters whose default is
// a mutable literal or constructor. Defaults are evaluated once at
// definition time, so every call shares the same object.
//
// No fix is offered: the conventional rewrite (default to None, assign
// inside the body) changes the function's observable signature.
type MutableDefaultArgumentRule struct {
	lint.BaseRule
}

// NewMutableDefaultArgumentRule creates a new PF104 rule.
func NewMutableDefaultArgumentRule() *MutableDefaultArgumentRule {
	return &MutableDefaultArgumentRule{
		BaseRule: lint.NewBaseRule(
			"PF104",
			"mutable-default-argument",
			"Mutable default argument values are shared across all calls of the function",
			[]string{"bugbear"},
			false,
			pyast.KindFunctionDef,
		),
	}
}

// Check inspects one function definition.
func (r *MutableDefaultArgumentRule) Check(rc *lint.RuleContext, node *pyast.Node) ([]lint.Diagnostic, error) {
	if node.Func == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, param := range node.Func.Params {
		if param.Default == nil || !isMutableDefault(param.Default) {
			continue
		}

		diag := lint.NewDiagnosticAt(r.Code(), rc.File, param.Range,
			fmt.Sprintf("Parameter %s has a mutable default value", param.Name)).
			WithSuggestion("Default to None and create the value inside the function").
			Build()
		diags = append(diags, diag)
	}
	return diags, nil
}

// isMutableDefault recognizes list, dict, and set literals plus calls
// to their constructors.
func isMutableDefault(n *pyast.Node) bool {
	switch n.Kind {
	case pyast.KindListLit, pyast.KindDictLit, pyast.KindSetLit:
		return true
	case pyast.KindCall:
		if n.Call == nil || n.Call.Callee == nil {
			return false
		}
		callee := n.Call.Callee
		if callee.Kind != pyast.KindName {
			return false
		}
		switch callee.Ident {
		case "list", "dict", "set":
			return true
		}
	}
	return false
}
