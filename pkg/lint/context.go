package lint

import (
	"context"

	"github.com/flintlabs/pyflint/pkg/config"
	"github.com/flintlabs/pyflint/pkg/noqa"
	"github.com/flintlabs/pyflint/pkg/parser/pyparse"
	"github.com/flintlabs/pyflint/pkg/pyast"
	"github.com/flintlabs/pyflint/pkg/pysem"
	"github.com/flintlabs/pyflint/pkg/pysrc"
)

// RuleContext provides all context needed by a rule to perform linting.
//
// Design note: RuleContext stores context.Context as a field (Ctx)
// rather than passing it as a method parameter. This is acceptable
// because RuleContext is a short-lived parameter object created per
// rule invocation, not a long-lived struct. This design keeps the Rule
// interface small while still providing cancellation support via the
// Cancelled() helper.
type RuleContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// File is the source file being checked.
	File *pysrc.File

	// Root is the syntax tree root (convenience alias for Parse.Root).
	Root *pyast.Node

	// Parse is the full parse result, including the token stream.
	Parse *pyparse.Result

	// Symbols is the shared name usage table built once per file.
	Symbols *pysem.Table

	// Suppressions is the suppression index for the file.
	Suppressions *noqa.Index

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry
}

// NewRuleContext creates a RuleContext for the given parse result and
// configuration.
func NewRuleContext(
	ctx context.Context,
	parse *pyparse.Result,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	rc := &RuleContext{
		Ctx:        ctx,
		Parse:      parse,
		Config:     cfg,
		RuleConfig: ruleCfg,
	}
	if parse != nil {
		rc.File = parse.File
		rc.Root = parse.Root
	}
	return rc
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Option returns a rule-specific option value, or the default if not set.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns a rule-specific integer option, or the default.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	v := rc.Option(key, defaultValue)
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionString returns a rule-specific string option, or the default.
func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	v := rc.Option(key, defaultValue)
	if s, ok := v.(string); ok {
		return s
	}
	return defaultValue
}

// OptionBool returns a rule-specific boolean option, or the default.
func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	v := rc.Option(key, defaultValue)
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultValue
}

// OptionStringSlice returns a rule-specific string slice option, or the
// default.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	v := rc.Option(key, defaultValue)
	if slice, ok := v.([]string); ok {
		return slice
	}
	// Handle []interface{} from YAML parsing.
	if iface, ok := v.([]interface{}); ok {
		result := make([]string, 0, len(iface))
		for _, item := range iface {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
