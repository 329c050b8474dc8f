package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/pyast"
)

func noopRule(code, name string) Rule {
	return &stubRule{
		BaseRule: NewBaseRule(code, name, "test rule", nil, false, pyast.KindModule),
		check: func(_ *RuleContext, _ *pyast.Node) ([]Diagnostic, error) {
			return nil, nil
		},
	}
}

func TestRegistry_GetByCodeAndName(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))
	registry.Register(noopRule("T002", "second-rule"))

	rule, ok := registry.Get("T001")
	require.True(t, ok)
	assert.Equal(t, "first-rule", rule.Name())

	rule, ok = registry.Get("second-rule")
	require.True(t, ok)
	assert.Equal(t, "T002", rule.Code())

	_, ok = registry.Get("T999")
	assert.False(t, ok)

	_, ok = registry.GetByCode("first-rule")
	assert.False(t, ok)

	_, ok = registry.GetByName("T001")
	assert.False(t, ok)
}

func TestRegistry_ReplaceOnReRegister(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "old-name"))
	registry.Register(noopRule("T001", "new-name"))

	rule, ok := registry.GetByCode("T001")
	require.True(t, ok)
	assert.Equal(t, "new-name", rule.Name())
}

func TestRegistry_ResolveAlias(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))
	registry.RegisterAlias("X100", "T001")

	code, rule, ok := registry.Resolve("X100")
	require.True(t, ok)
	assert.Equal(t, "T001", code)
	assert.Equal(t, "first-rule", rule.Name())

	// Aliases pointing at unregistered codes do not resolve.
	registry.RegisterAlias("X200", "T999")
	_, _, ok = registry.Resolve("X200")
	assert.False(t, ok)
}

func TestRegistry_RulesSortedByCode(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T003", "third"))
	registry.Register(noopRule("T001", "first"))
	registry.Register(noopRule("T002", "second"))

	rules := registry.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "T001", rules[0].Code())
	assert.Equal(t, "T002", rules[1].Code())
	assert.Equal(t, "T003", rules[2].Code())

	assert.Equal(t, []string{"T001", "T002", "T003"}, registry.Codes())
}
