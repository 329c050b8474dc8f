package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/pyast"
)

func resolveOne(t *testing.T, registry *Registry, code string, cfg *config.Config) (ResolvedRule, bool) {
	t.Helper()
	for _, rr := range ResolveRules(registry, cfg) {
		if rr.Rule.Code() == code {
			return rr, true
		}
	}
	return ResolvedRule{}, false
}

func TestResolveRules_Defaults(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))

	rr, ok := resolveOne(t, registry, "T001", config.NewConfig())
	require.True(t, ok)
	assert.True(t, rr.Enabled)
	assert.Equal(t, config.SeverityWarning, rr.Severity)
	assert.False(t, rr.AutoFix)
	assert.Nil(t, rr.Config)
}

func TestResolveRules_ConfigDisables(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))

	disabled := false
	cfg := config.NewConfig()
	cfg.Rules["T001"] = config.RuleConfig{Enabled: &disabled}

	_, ok := resolveOne(t, registry, "T001", cfg)
	assert.False(t, ok)
}

func TestResolveRules_ConfigByName(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))

	sev := string(config.SeverityError)
	cfg := config.NewConfig()
	cfg.Rules["first-rule"] = config.RuleConfig{Severity: &sev}

	rr, ok := resolveOne(t, registry, "T001", cfg)
	require.True(t, ok)
	assert.Equal(t, config.SeverityError, rr.Severity)
	require.NotNil(t, rr.Config)
}

func TestResolveRules_ConfigByAlias(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))
	registry.RegisterAlias("X100", "T001")

	disabled := false
	cfg := config.NewConfig()
	cfg.Rules["X100"] = config.RuleConfig{Enabled: &disabled}

	_, ok := resolveOne(t, registry, "T001", cfg)
	assert.False(t, ok)
}

func TestResolveRules_CLIWinsOverConfig(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))

	disabled := false
	cfg := config.NewConfig()
	cfg.Rules["T001"] = config.RuleConfig{Enabled: &disabled}
	cfg.EnableRules = []string{"T001"}

	rr, ok := resolveOne(t, registry, "T001", cfg)
	require.True(t, ok)
	assert.True(t, rr.Enabled)
}

func TestResolveRules_DisableByName(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))

	cfg := config.NewConfig()
	cfg.DisableRules = []string{"first-rule"}

	_, ok := resolveOne(t, registry, "T001", cfg)
	assert.False(t, ok)
}

func TestResolveRules_AutoFixRequiresFixMode(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubRule{
		BaseRule: NewBaseRule("T001", "fixable-rule", "test rule", nil, true),
		check: func(_ *RuleContext, _ *pyast.Node) ([]Diagnostic, error) {
			return nil, nil
		},
	})

	cfg := config.NewConfig()
	rr, ok := resolveOne(t, registry, "T001", cfg)
	require.True(t, ok)
	assert.False(t, rr.AutoFix)

	cfg.FixMode = config.FixModeSafe
	rr, ok = resolveOne(t, registry, "T001", cfg)
	require.True(t, ok)
	assert.True(t, rr.AutoFix)
}

func TestResolveRules_AutoFixNeverExceedsCanFix(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule")) // CanFix false

	enabled := true
	cfg := config.NewConfig()
	cfg.FixMode = config.FixModeUnsafe
	cfg.Rules["T001"] = config.RuleConfig{AutoFix: &enabled}

	rr, ok := resolveOne(t, registry, "T001", cfg)
	require.True(t, ok)
	assert.False(t, rr.AutoFix)
}

func TestResolveRules_SeverityDefaultAppliesToConfiguredRules(t *testing.T) {
	registry := NewRegistry()
	registry.Register(noopRule("T001", "first-rule"))
	registry.Register(noopRule("T002", "second-rule"))

	cfg := config.NewConfig()
	cfg.SeverityDefault = string(config.SeverityInfo)
	cfg.Rules["T001"] = config.RuleConfig{}

	// A config entry without a severity falls back to the default
	// severity; rules with no entry keep their own default.
	rr, _ := resolveOne(t, registry, "T001", cfg)
	assert.Equal(t, config.SeverityInfo, rr.Severity)

	rr, _ = resolveOne(t, registry, "T002", cfg)
	assert.Equal(t, config.SeverityWarning, rr.Severity)
}
