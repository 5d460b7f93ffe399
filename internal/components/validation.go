package components

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-folio/internal/components/parser"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

var (
	// ErrUnknownParameter indicates the invocation supplied an unexpected parameter.
	ErrUnknownParameter = errors.New("components: unknown parameter")
	// ErrMissingParameter indicates a required parameter was not provided.
	ErrMissingParameter = errors.New("components: missing required parameter")
	// ErrParameterType indicates a parameter could not be coerced to the requested type.
	ErrParameterType = errors.New("components: parameter type mismatch")
)

var paramKinds = []any{
	interfaces.ComponentParamString,
	interfaces.ComponentParamInt,
	interfaces.ComponentParamBool,
	interfaces.ComponentParamArray,
	interfaces.ComponentParamURL,
}

// Validator checks component definitions and turns tag attributes into
// typed template parameters.
type Validator struct{}

// NewValidator returns a Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition ensures the definition has a name, something to render
// with and a parameter schema whose names are unique and whose kinds are
// known.
func (v *Validator) ValidateDefinition(def interfaces.ComponentDefinition) error {
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if def.Handler == nil && strings.TrimSpace(def.Template) == "" {
		return fmt.Errorf("%w: %s needs a handler or template", ErrInvalidDefinition, def.Name)
	}

	seen := make(map[string]bool, len(def.Schema.Params))
	for _, param := range def.Schema.Params {
		name := strings.TrimSpace(param.Name)
		err := validation.Errors{
			"name": validation.Validate(name, validation.Required),
			"type": validation.Validate(param.Type, validation.Required, validation.In(paramKinds...)),
		}.Filter()
		if err != nil {
			return fmt.Errorf("%w: %s parameter %q: %v", ErrInvalidDefinition, def.Name, name, err)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%w: %s declares %q twice", ErrInvalidDefinition, def.Name, name)
		}
		seen[key] = true
	}
	return nil
}

// CoerceParams maps attributes onto the definition schema. Attribute names
// match case insensitively so JSX camelCase and lower-cased bracket
// attributes resolve to the same parameter. Defaults fill the gaps, and a
// required parameter that is still missing is an error.
func (v *Validator) CoerceParams(def interfaces.ComponentDefinition, supplied map[string]any) (map[string]any, error) {
	if err := v.ValidateDefinition(def); err != nil {
		return nil, err
	}

	byKey := make(map[string]interfaces.ComponentParam, len(def.Schema.Params))
	out := make(map[string]any, len(def.Schema.Params))
	for _, param := range def.Schema.Params {
		byKey[strings.ToLower(param.Name)] = param
		if value, ok := def.Schema.Defaults[param.Name]; ok {
			out[param.Name] = value
		} else if param.Default != nil {
			out[param.Name] = param.Default
		}
	}

	for key, raw := range supplied {
		param, ok := byKey[strings.ToLower(key)]
		if !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrUnknownParameter, key, def.Name)
		}
		value, err := parser.Coerce(param.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s on %s: %w", ErrParameterType, key, def.Name, err)
		}
		if param.Validate != nil {
			if err := param.Validate(value); err != nil {
				return nil, err
			}
		}
		out[param.Name] = value
	}

	for _, param := range def.Schema.Params {
		if _, ok := out[param.Name]; param.Required && !ok {
			return nil, fmt.Errorf("%w: %s on %s", ErrMissingParameter, param.Name, def.Name)
		}
	}
	return out, nil
}
