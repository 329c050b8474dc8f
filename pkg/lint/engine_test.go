package lint

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/fix"
	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
	"github.com/flintlabs/pyflint/pkg/pyast"
)

// stubRule is a configurable rule for engine tests.
type stubRule struct {
	BaseRule
	check func(rc *RuleContext, node *pyast.Node) ([]Diagnostic, error)
}

func newStubRule(code string, kinds []pyast.NodeKind, check func(rc *RuleContext, node *pyast.Node) ([]Diagnostic, error)) *stubRule {
	return &stubRule{
		BaseRule: NewBaseRule(code, "stub-"+strings.ToLower(code), "stub rule", nil, true, kinds...),
		check:    check,
	}
}

func (r *stubRule) Check(rc *RuleContext, node *pyast.Node) ([]Diagnostic, error) {
	return r.check(rc, node)
}

func newTestEngine(rules ...Rule) *Engine {
	registry := NewRegistry()
	for _, r := range rules {
		registry.Register(r)
	}
	return NewEngine(pyparse.NewParser(), registry)
}

func TestCheckFile_KindDispatch(t *testing.T) {
	var nameCount, callCount int

	nameRule := newStubRule("T001", []pyast.NodeKind{pyast.KindName},
		func(_ *RuleContext, _ *pyast.Node) ([]Diagnostic, error) {
			nameCount++
			return nil, nil
		})
	callRule := newStubRule("T002", []pyast.NodeKind{pyast.KindCall},
		func(_ *RuleContext, _ *pyast.Node) ([]Diagnostic, error) {
			callCount++
			return nil, nil
		})

	engine := newTestEngine(nameRule, callRule)
	_, err := engine.CheckFile(context.Background(), "test.py", []byte("x = f(y)\n"), config.NewConfig())
	require.NoError(t, err)

	// Names: x, f, y. Calls: f(y).
	assert.Equal(t, 3, nameCount)
	assert.Equal(t, 1, callCount)
}

func TestCheckFile_PanicIsolation(t *testing.T) {
	var calls int
	panicky := newStubRule("T001", []pyast.NodeKind{pyast.KindName},
		func(_ *RuleContext, _ *pyast.Node) ([]Diagnostic, error) {
			calls++
			panic("boom")
		})
	healthy := newStubRule("T002", []pyast.NodeKind{pyast.KindName},
		func(_ *RuleContext, node *pyast.Node) ([]Diagnostic, error) {
			return []Diagnostic{NewDiagnostic("T002", node, "name seen").Build()}, nil
		})

	engine := newTestEngine(panicky, healthy)
	result, err := engine.CheckFile(context.Background(), "test.py", []byte("a = b\n"), config.NewConfig())
	require.NoError(t, err)

	// The panicking rule ran once, was disabled, and left one internal
	// diagnostic. The healthy rule still saw both names.
	assert.Equal(t, 1, calls)
	require.Contains(t, result.RuleErrors, "T001")

	var internal, healthyCount int
	for _, d := range result.Diagnostics {
		switch d.Code {
		case CodeInternalError:
			internal++
			assert.Equal(t, config.SeverityError, d.Severity)
			assert.Contains(t, d.Message, "T001")
		case "T002":
			healthyCount++
		}
	}
	assert.Equal(t, 1, internal)
	assert.Equal(t, 2, healthyCount)
}

func TestCheckFile_RuleError(t *testing.T) {
	failing := newStubRule("T001", []pyast.NodeKind{pyast.KindModule},
		func(_ *RuleContext, _ *pyast.Node) ([]Diagnostic, error) {
			return nil, errors.New("lookup failed")
		})

	engine := newTestEngine(failing)
	result, err := engine.CheckFile(context.Background(), "test.py", []byte("x = 1\n"), config.NewConfig())
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, CodeInternalError, result.Diagnostics[0].Code)
	assert.ErrorContains(t, result.RuleErrors["T001"], "lookup failed")
}

func TestCheckFile_SuppressionDrop(t *testing.T) {
	rule := newStubRule("T001", []pyast.NodeKind{pyast.KindAssign},
		func(_ *RuleContext, node *pyast.Node) ([]Diagnostic, error) {
			return []Diagnostic{NewDiagnostic("T001", node, "flagged").Build()}, nil
		})

	engine := newTestEngine(rule)
	source := "a = 1  # noqa: T001\nb = 2\n"
	result, err := engine.CheckFile(context.Background(), "test.py", []byte(source), config.NewConfig())
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, 2, result.Diagnostics[0].StartLine)
	assert.Equal(t, 1, result.SuppressedCount)
}

func TestCheckFile_InternalErrorNotSuppressible(t *testing.T) {
	panicky := newStubRule("T001", []pyast.NodeKind{pyast.KindAssign},
		func(_ *RuleContext, _ *pyast.Node) ([]Diagnostic, error) {
			panic("boom")
		})

	engine := newTestEngine(panicky)
	result, err := engine.CheckFile(context.Background(), "test.py", []byte("a = 1  # noqa\n"), config.NewConfig())
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, CodeInternalError, result.Diagnostics[0].Code)
}

func TestCheckFile_SeverityOverride(t *testing.T) {
	rule := newStubRule("T001", []pyast.NodeKind{pyast.KindAssign},
		func(_ *RuleContext, node *pyast.Node) ([]Diagnostic, error) {
			return []Diagnostic{NewDiagnostic("T001", node, "flagged").Build()}, nil
		})

	cfg := config.NewConfig()
	sev := string(config.SeverityError)
	cfg.Rules["T001"] = config.RuleConfig{Severity: &sev}

	engine := newTestEngine(rule)
	result, err := engine.CheckFile(context.Background(), "test.py", []byte("a = 1\n"), cfg)
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, config.SeverityError, result.Diagnostics[0].Severity)
}

func TestCheckFile_DisableRule(t *testing.T) {
	rule := newStubRule("T001", []pyast.NodeKind{pyast.KindAssign},
		func(_ *RuleContext, node *pyast.Node) ([]Diagnostic, error) {
			return []Diagnostic{NewDiagnostic("T001", node, "flagged").Build()}, nil
		})

	cfg := config.NewConfig()
	cfg.DisableRules = []string{"T001"}

	engine := newTestEngine(rule)
	result, err := engine.CheckFile(context.Background(), "test.py", []byte("a = 1\n"), cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
}

func TestCheckFile_DeterministicOrder(t *testing.T) {
	mkRule := func(code string) Rule {
		return newStubRule(code, []pyast.NodeKind{pyast.KindAssign},
			func(_ *RuleContext, node *pyast.Node) ([]Diagnostic, error) {
				return []Diagnostic{NewDiagnostic(code, node, "flagged").Build()}, nil
			})
	}

	// Register in reverse code order; output must still be sorted by
	// (offset, code).
	engine := newTestEngine(mkRule("T009"), mkRule("T001"), mkRule("T005"))
	result, err := engine.CheckFile(context.Background(), "test.py", []byte("a = 1\nb = 2\n"), config.NewConfig())
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 6)
	assert.Equal(t, []string{"T001", "T005", "T009"}, codesOf(result.Diagnostics[:3]))
	assert.Equal(t, []string{"T001", "T005", "T009"}, codesOf(result.Diagnostics[3:]))
	assert.Less(t, result.Diagnostics[0].StartOffset, result.Diagnostics[3].StartOffset)
}

func codesOf(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestCheckFile_FixStrippedWhenModeOff(t *testing.T) {
	rule := newStubRule("T001", []pyast.NodeKind{pyast.KindAssign},
		func(_ *RuleContext, node *pyast.Node) ([]Diagnostic, error) {
			b := fix.NewEditBuilder()
			b.ReplaceRange(node.Range.StartOffset, node.Range.EndOffset, "a = 2")
			return []Diagnostic{NewDiagnostic("T001", node, "flagged").WithSafeFix(b).Build()}, nil
		})

	engine := newTestEngine(rule)

	cfg := config.NewConfig() // FixMode off
	result, err := engine.CheckFile(context.Background(), "test.py", []byte("a = 1\n"), cfg)
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.False(t, result.Diagnostics[0].HasFix())

	cfg.FixMode = config.FixModeSafe
	result, err = engine.CheckFile(context.Background(), "test.py", []byte("a = 1\n"), cfg)
	require.NoError(t, err)
	assert.True(t, result.Diagnostics[0].HasFix())
	assert.Equal(t, 1, result.FixableCount())
}

func TestCheckFile_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine()
	_, err := engine.CheckFile(ctx, "test.py", []byte("a = 1\n"), config.NewConfig())
	assert.Error(t, err)
}
