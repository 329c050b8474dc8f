// Package rules provides the built-in lint rules for pyflint.
//
// # Rule Domains
//
//   - Iteration:
//
//   - PF101: incorrect-dict-iterator-values - Use .values() when the key is discarded
//
//   - PF102: incorrect-dict-iterator-keys - Use .keys() when the value is discarded
//
//   - PF105: unused-loop-variable - Loop variable is never read in the loop body
//
//   - Literals and calls:
//
//   - PF103: redundant-str-call - str() wrapping a string literal is a no-op
//
//   - Function definitions:
//
//   - PF104: mutable-default-argument - Mutable default values are shared across calls
//
//   - Comparisons:
//
//   - PF106: type-comparison - Compare types with isinstance(), not type() equality
//
// Rules register themselves with lint.DefaultRegistry during init().
// Codes from the upstream tools each rule was modeled on are available
// as aliases (e.g., "B006" resolves to PF104).
package rules
