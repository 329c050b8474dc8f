package lint

import (
	"cmp"
	"slices"
	"sync"
)

// Registry holds all registered lint rules.
type Registry struct {
	mu      sync.RWMutex
	byCode  map[string]Rule
	byName  map[string]Rule
	aliases map[string]string // alias -> canonical code
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byCode:  make(map[string]Rule),
		byName:  make(map[string]Rule),
		aliases: make(map[string]string),
	}
}

// Register adds a rule to the registry.
// If a rule with the same code already exists, it is replaced.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCode[rule.Code()] = rule
	r.byName[rule.Name()] = rule
}

// RegisterAlias maps an alias to a canonical rule code. Used for codes
// inherited from the upstream tools the rules were modeled on (e.g.,
// "B006" -> "PF104").
func (r *Registry) RegisterAlias(alias, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = code
}

// Get retrieves a rule by code or name.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byCode[key]; ok {
		return rule, true
	}
	if rule, ok := r.byName[key]; ok {
		return rule, true
	}
	return nil, false
}

// GetByCode retrieves a rule by its code only.
func (r *Registry) GetByCode(code string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byCode[code]
	return rule, ok
}

// GetByName retrieves a rule by its name only.
func (r *Registry) GetByName(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byName[name]
	return rule, ok
}

// Resolve returns the canonical code and rule for a given key.
// The key can be a rule code, name, or alias.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byCode[key]; ok {
		return rule.Code(), rule, true
	}
	if rule, ok := r.byName[key]; ok {
		return rule.Code(), rule, true
	}
	if target, ok := r.aliases[key]; ok {
		if rule, ok := r.byCode[target]; ok {
			return rule.Code(), rule, true
		}
	}
	return "", nil, false
}

// Rules returns all registered rules sorted by code.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byCode))
	for _, rule := range r.byCode {
		result = append(result, rule)
	}

	// Sort by rule code for consistent, deterministic output.
	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.Code(), b.Code())
	})

	return result
}

// Codes returns all registered rule codes in sorted order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		result = append(result, code)
	}

	slices.Sort(result)
	return result
}

// DefaultRegistry is the global registry for built-in rules.
// Rules register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()
