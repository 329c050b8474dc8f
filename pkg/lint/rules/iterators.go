package rules

import (
	"fmt"
	"strings"

	"github.com/flintlabs/pyflint/pkg/fix"
	"github.com/flintlabs/pyflint/pkg/lint"
	"github.com/flintlabs/pyflint/pkg/pyast"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

// dictItemsLoop describes a `for a, b in <recv>.items():` statement.
type dictItemsLoop struct {
	target *pyast.Node // the tuple target
	key    *pyast.Node // first tuple element (Name)
	value  *pyast.Node // second tuple element (Name)
	callee *pyast.Node // the <recv>.items attribute
}

// matchDictItemsLoop recognizes a for statement whose target is a
// two-name tuple and whose iterable is a zero-argument .items() call.
func matchDictItemsLoop(node *pyast.Node) (dictItemsLoop, bool) {
	var m dictItemsLoop

	if node.Kind != pyast.KindFor || node.ForLoop == nil {
		return m, false
	}

	target := node.ForLoop.Target
	if target == nil || target.Kind != pyast.KindTuple || target.ChildCount() != 2 {
		return m, false
	}
	key, value := target.FirstChild, target.LastChild
	if key.Kind != pyast.KindName || value.Kind != pyast.KindName {
		return m, false
	}

	iter := node.ForLoop.Iter
	if iter == nil || iter.Kind != pyast.KindCall || iter.Call == nil || len(iter.Call.Args) != 0 {
		return m, false
	}
	callee := iter.Call.Callee
	if callee == nil || callee.Kind != pyast.KindAttribute || callee.Ident != "items" {
		return m, false
	}

	m.target = target
	m.key = key
	m.value = value
	m.callee = callee
	return m, true
}

// rewriteItemsLoop builds the safe fix replacing the tuple target with
// the kept name and the .items() attribute with the given method.
func rewriteItemsLoop(m dictItemsLoop, kept *pyast.Node, method string) *fix.EditBuilder {
	attrRange := pysrc.NewRange(
		m.callee.Range.EndOffset-len("items"),
		m.callee.Range.EndOffset,
	)

	b := fix.NewEditBuilder()
	b.ReplaceRange(m.target.Range.StartOffset, m.target.Range.EndOffset, string(kept.Text()))
	b.ReplaceRange(attrRange.StartOffset, attrRange.EndOffset, method)
	return b
}

// DictIteratorValuesRule flags `for _, value in d.items():` where the
// key is discarded.
type DictIteratorValuesRule struct {
	lint.BaseRule
}

// NewDictIteratorValuesRule creates a new PF101 rule.
func NewDictIteratorValuesRule() *DictIteratorValuesRule {
	return &DictIteratorValuesRule{
		BaseRule: lint.NewBaseRule(
			"PF101",
			"incorrect-dict-iterator-values",
			"When only the values of a dict are used, iterate with .values() instead of discarding keys from .items()",
			[]string{"perf", "iteration"},
			true,
			pyast.KindFor,
		),
	}
}

// Check inspects one for statement.
func (r *DictIteratorValuesRule) Check(_ *lint.RuleContext, node *pyast.Node) ([]lint.Diagnostic, error) {
	m, ok := matchDictItemsLoop(node)
	if !ok || m.key.Ident != "_" || m.value.Ident == "_" {
		return nil, nil
	}

	diag := lint.NewDiagnostic(r.Code(), m.callee, "Key is discarded; iterate with .values()").
		WithSuggestion(fmt.Sprintf("Replace .items() with .values() and the target with %s", m.value.Ident)).
		WithSafeFix(rewriteItemsLoop(m, m.value, "values")).
		Build()
	return []lint.Diagnostic{diag}, nil
}

// DictIteratorKeysRule flags `for key, _ in d.items():` where the
// value is discarded.
type DictIteratorKeysRule struct {
	lint.BaseRule
}

// NewDictIteratorKeysRule creates a new PF102 rule.
func NewDictIteratorKeysRule() *DictIteratorKeysRule {
	return &DictIteratorKeysRule{
		BaseRule: lint.NewBaseRule(
			"PF102",
			"incorrect-dict-iterator-keys",
			"When only the keys of a dict are used, iterate with .keys() instead of discarding values from .items()",
			[]string{"perf", "iteration"},
			true,
			pyast.KindFor,
		),
	}
}

// Check inspects one for statement.
func (r *DictIteratorKeysRule) Check(_ *lint.RuleContext, node *pyast.Node) ([]lint.Diagnostic, error) {
	m, ok := matchDictItemsLoop(node)
	if !ok || m.value.Ident != "_" || m.key.Ident == "_" {
		return nil, nil
	}

	diag := lint.NewDiagnostic(r.Code(), m.callee, "Value is discarded; iterate with .keys()").
		WithSuggestion(fmt.Sprintf("Replace .items() with .keys() and the target with %s", m.key.Ident)).
		WithSafeFix(rewriteItemsLoop(m, m.key, "keys")).
		Build()
	return []lint.Diagnostic{diag}, nil
}

// UnusedLoopVariableRule flags loop variables never read in the loop
// body. The rename to _ is unsafe: the name may be read after the loop,
// where it keeps its final value.
type UnusedLoopVariableRule struct {
	lint.BaseRule
}

// NewUnusedLoopVariableRule creates a new PF105 rule.
func NewUnusedLoopVariableRule() *UnusedLoopVariableRule {
	return &UnusedLoopVariableRule{
		BaseRule: lint.NewBaseRule(
			"PF105",
			"unused-loop-variable",
			"Loop control variables not used in the loop body should be named _",
			[]string{"bugbear"},
			true,
			pyast.KindFor,
		),
	}
}

// Check inspects one for statement.
func (r *UnusedLoopVariableRule) Check(rc *lint.RuleContext, node *pyast.Node) ([]lint.Diagnostic, error) {
	if node.ForLoop == nil {
		return nil, nil
	}

	target := node.ForLoop.Target
	if target == nil || target.Kind != pyast.KindName || strings.HasPrefix(target.Ident, "_") {
		return nil, nil
	}

	body := loopBodyRange(node)
	if body.IsEmpty() || rc.Symbols.ReadsIn(body, target.Ident) {
		return nil, nil
	}

	b := fix.NewEditBuilder()
	b.ReplaceRange(target.Range.StartOffset, target.Range.EndOffset, "_")

	diag := lint.NewDiagnostic(r.Code(),
		target,
		fmt.Sprintf("Loop variable %s is not used within the loop body", target.Ident)).
		WithSuggestion("Rename it to _ if the value is intentionally unused").
		WithUnsafeFix(b).
		Build()
	return []lint.Diagnostic{diag}, nil
}

// loopBodyRange returns the byte span of a for statement's body, i.e.
// everything after the target and iterable children.
func loopBodyRange(node *pyast.Node) pysrc.SourceRange {
	children := node.Children()
	if len(children) < 3 {
		return pysrc.SourceRange{}
	}
	return pysrc.NewRange(children[2].Range.StartOffset, node.Range.EndOffset)
}
