package components

import (
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Registry is the thread-safe in-memory implementation of interfaces.ComponentRegistry.
// It also owns the element render rules handed to the content renderer.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.ComponentDefinition
	aliases     map[string]string
	rules       interfaces.RenderRules
	validator   DefinitionValidator
}

// DefinitionValidator abstracts definition validation so callers can customise behaviour in tests.
type DefinitionValidator interface {
	ValidateDefinition(def interfaces.ComponentDefinition) error
}

// RegistryOption customises a registry at construction time.
type RegistryOption func(*Registry)

// WithRules replaces the default element render rules.
func WithRules(rules interfaces.RenderRules) RegistryOption {
	return func(r *Registry) {
		r.rules = maps.Clone(rules)
	}
}

// NewRegistry constructs a registry using the supplied validator. The
// registry starts with DefaultRules unless WithRules overrides them.
func NewRegistry(validator DefinitionValidator, opts ...RegistryOption) *Registry {
	r := &Registry{
		definitions: make(map[string]interfaces.ComponentDefinition),
		aliases:     make(map[string]string),
		rules:       DefaultRules(),
		validator:   validator,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.rules == nil {
		r.rules = interfaces.RenderRules{}
	}
	return r
}

// Register stores a definition if it passes validation and neither its name
// nor any alias is taken.
func (r *Registry) Register(def interfaces.ComponentDefinition) error {
	name := normalizeName(def.Name)
	if name == "" {
		return ErrInvalidDefinition
	}

	if r.validator != nil {
		if err := r.validator.ValidateDefinition(def); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.takenLocked(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, name)
	}
	aliases := make([]string, 0, len(def.Aliases))
	for _, alias := range def.Aliases {
		key := normalizeName(alias)
		if key == "" || key == name {
			continue
		}
		if r.takenLocked(key) {
			return fmt.Errorf("%w: alias %s", ErrDuplicateDefinition, key)
		}
		aliases = append(aliases, key)
	}

	def.Name = name
	def.Aliases = aliases
	r.definitions[name] = def
	for _, alias := range aliases {
		r.aliases[alias] = name
	}
	return nil
}

// Get returns the stored definition, resolving aliases.
func (r *Registry) Get(name string) (interfaces.ComponentDefinition, bool) {
	key := normalizeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[key]; ok {
		key = target
	}
	def, ok := r.definitions[key]
	return def, ok
}

// Has reports whether name (or an alias) is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all registered definitions in name order.
func (r *Registry) List() []interfaces.ComponentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.ComponentDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Remove deletes the definition and its aliases if it exists.
func (r *Registry) Remove(name string) {
	key := normalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if target, ok := r.aliases[key]; ok {
		key = target
	}
	def, ok := r.definitions[key]
	if !ok {
		return
	}
	for _, alias := range def.Aliases {
		delete(r.aliases, alias)
	}
	delete(r.definitions, key)
}

// Rules returns a copy of the element render rules.
func (r *Registry) Rules() interfaces.RenderRules {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.rules)
}

// SetRule installs or replaces the rule for kind. A nil rule removes it.
func (r *Registry) SetRule(kind interfaces.ElementKind, rule interfaces.RenderRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rule == nil {
		delete(r.rules, kind)
		return
	}
	r.rules[kind] = rule
}

func (r *Registry) takenLocked(key string) bool {
	if _, exists := r.definitions[key]; exists {
		return true
	}
	_, exists := r.aliases[key]
	return exists
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var _ interfaces.ComponentRegistry = (*Registry)(nil)
