// Package config defines core configuration types for pyflint.
// These types are pure data structures with no dependency on any
// config loader.
package config

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// FixMode controls which fixes the applicator may apply.
type FixMode string

const (
	// FixModeOff disables fix application entirely.
	FixModeOff FixMode = "off"

	// FixModeSafe applies only fixes guaranteed to preserve semantics.
	FixModeSafe FixMode = "safe"

	// FixModeUnsafe additionally applies fixes that are plausible but not
	// guaranteed semantics-preserving.
	FixModeUnsafe FixMode = "unsafe"
)

// IsValid returns true if the fix mode is one of the known values.
func (m FixMode) IsValid() bool {
	switch m {
	case FixModeOff, FixModeSafe, FixModeUnsafe:
		return true
	default:
		return false
	}
}

// Applies returns true if the mode permits applying fixes at all.
func (m FixMode) Applies() bool {
	return m == FixModeSafe || m == FixModeUnsafe
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
	FormatDiff  OutputFormat = "diff"
)

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled"`
	Severity *string        `yaml:"severity"`
	AutoFix  *bool          `yaml:"auto_fix"`
	Options  map[string]any `yaml:"options"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultMaxFixIterations bounds the fix/re-lint loop when the config does
// not set one. Some fixes re-expose patterns that trigger other rules, so
// the loop needs a hard stop.
const DefaultMaxFixIterations = 10

// Config is the root configuration structure for pyflint.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `yaml:"severity_default"`

	// Rules contains per-rule configuration keyed by rule code.
	Rules map[string]RuleConfig `yaml:"rules"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// MaxFixIterations bounds the fix/re-lint loop. Must be >= 1.
	MaxFixIterations int `yaml:"max_fix_iterations"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// FixMode controls which fixes are applied.
	FixMode FixMode `yaml:"-"`

	// DryRun shows what would be fixed without writing files.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers (0 = auto).
	Jobs int `yaml:"-"`

	// EnableRules contains rule codes to explicitly enable.
	EnableRules []string `yaml:"-"`

	// DisableRules contains rule codes to explicitly disable.
	DisableRules []string `yaml:"-"`

	// Strict treats warnings as run failures.
	Strict bool `yaml:"-"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault:  string(SeverityWarning),
		Rules:            make(map[string]RuleConfig),
		MaxFixIterations: DefaultMaxFixIterations,
		FixMode:          FixModeOff,
		Format:           FormatText,
	}
}

// EffectiveMaxFixIterations returns MaxFixIterations clamped to >= 1.
func (c *Config) EffectiveMaxFixIterations() int {
	if c == nil || c.MaxFixIterations < 1 {
		return DefaultMaxFixIterations
	}
	return c.MaxFixIterations
}
