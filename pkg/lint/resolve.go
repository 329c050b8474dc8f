package lint

import "github.com/flintlabs/pyflint/pkg/config"

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// AutoFix indicates whether this rule's fixes may be applied.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules determines which rules to run based on registry and
// config. Returns only enabled rules with their resolved configuration,
// in code order.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		rr := resolveRule(registry, rule, cfg)
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

// resolveRule resolves the configuration for a single rule.
// Precedence, lowest to highest: rule defaults, per-rule config file
// entry, explicit CLI enable/disable.
func resolveRule(registry *Registry, rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
		Config:   nil,
	}

	if cfg == nil {
		return rr
	}

	// Apply rule-specific config. Keys may be codes, names, or aliases.
	if ruleCfg, ok := lookupRuleConfig(registry, rule, cfg); ok {
		rr.Config = ruleCfg

		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
		} else if cfg.SeverityDefault != "" {
			rr.Severity = config.Severity(cfg.SeverityDefault)
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}
	}

	// Explicit enable/disable from the CLI wins over the config file.
	for _, key := range cfg.EnableRules {
		if matchesRule(registry, rule, key) {
			rr.Enabled = true
			break
		}
	}
	for _, key := range cfg.DisableRules {
		if matchesRule(registry, rule, key) {
			rr.Enabled = false
			break
		}
	}

	// Fixes are only collected when a fix mode is active.
	if !cfg.FixMode.Applies() {
		rr.AutoFix = false
	}

	return rr
}

// lookupRuleConfig finds the config entry for a rule, resolving keys
// through the registry so users can configure by code, name, or alias.
func lookupRuleConfig(registry *Registry, rule Rule, cfg *config.Config) (*config.RuleConfig, bool) {
	if ruleCfg, ok := cfg.Rules[rule.Code()]; ok {
		return &ruleCfg, true
	}
	for key, ruleCfg := range cfg.Rules {
		if matchesRule(registry, rule, key) {
			rc := ruleCfg
			return &rc, true
		}
	}
	return nil, false
}

// matchesRule reports whether key identifies the given rule.
func matchesRule(registry *Registry, rule Rule, key string) bool {
	if key == rule.Code() || key == rule.Name() {
		return true
	}
	if registry == nil {
		return false
	}
	code, _, ok := registry.Resolve(key)
	return ok && code == rule.Code()
}
