package components

import (
	"fmt"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// RegisterBuiltIns registers the built-in component definitions on the
// provided registry. When names is empty, every built-in is registered.
func RegisterBuiltIns(registry interfaces.ComponentRegistry, names []string, codeStyle string) error {
	if registry == nil {
		return fmt.Errorf("components: registry is required")
	}

	builtIns := BuiltInDefinitions(codeStyle)
	available := make(map[string]interfaces.ComponentDefinition, len(builtIns))
	for _, def := range builtIns {
		available[normalizeName(def.Name)] = def
	}

	if len(names) == 0 {
		for _, def := range builtIns {
			if err := registry.Register(def); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range names {
		key := normalizeName(name)
		if key == "" {
			continue
		}
		def, ok := available[key]
		if !ok {
			return fmt.Errorf("components: built-in %q not found", name)
		}
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// NewDefaultRegistry returns a registry populated with the requested built-ins.
func NewDefaultRegistry(names []string, codeStyle string) (*Registry, error) {
	registry := NewRegistry(NewValidator())
	if err := RegisterBuiltIns(registry, names, codeStyle); err != nil {
		return nil, err
	}
	return registry, nil
}
