package rules

import "github.com/flintlabs/pyflint/pkg/lint"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Iteration rules
	registry.Register(NewDictIteratorValuesRule()) // PF101
	registry.Register(NewDictIteratorKeysRule())   // PF102
	registry.Register(NewUnusedLoopVariableRule()) // PF105

	// Literal and call rules
	registry.Register(NewRedundantStrCallRule()) // PF103

	// Function definition rules
	registry.Register(NewMutableDefaultArgumentRule()) // PF104

	// Comparison rules
	registry.Register(NewTypeComparisonRule()) // PF106

	// Upstream codes the rules were modeled on.
	registry.RegisterAlias("PERF102", "PF101")
	registry.RegisterAlias("UP018", "PF103")
	registry.RegisterAlias("B006", "PF104")
	registry.RegisterAlias("B007", "PF105")
	registry.RegisterAlias("E721", "PF106")
}

// init registers all built-in rules with the default registry.
func init() {
	RegisterAll(lint.DefaultRegistry)
}
