package interfaces

import (
	"context"
	"html/template"
)

// ComponentRegistry describes the lifecycle contract for registering and
// resolving embedded component definitions. Implementations must be safe for
// concurrent use.
type ComponentRegistry interface {
	// Register stores a definition and returns an error when a component
	// with the same name already exists or the definition fails validation.
	Register(definition ComponentDefinition) error

	// Get returns the definition for the supplied component name.
	Get(name string) (ComponentDefinition, bool)

	// List exposes the current catalogue sorted by name.
	List() []ComponentDefinition

	// Remove deletes the component from the registry. Removing an unknown
	// component must be a no-op.
	Remove(name string)

	// Rules returns the element render rules supplied to the content renderer.
	Rules() RenderRules
}

// ComponentRenderer executes a component definition and returns HTML output.
type ComponentRenderer interface {
	Render(ctx ComponentContext, component string, params map[string]any, inner string) (template.HTML, error)
}

// ComponentParser extracts component invocations from a markdown body.
type ComponentParser interface {
	Extract(content string) (placeholders string, components []ParsedComponent, err error)
}

// ComponentSanitizer encapsulates sanitisation helpers applied after rendering.
type ComponentSanitizer interface {
	Sanitize(html string) (string, error)
	ValidateURL(raw string) error
	ValidateAttributes(attrs map[string]any) error
}

// ComponentDefinition captures the metadata, validation schema, and template
// that the registry stores.
type ComponentDefinition struct {
	Name        string
	Aliases     []string
	Description string
	AllowInner  bool
	// RawInner passes the inner text through untouched instead of rendering
	// it as markdown first.
	RawInner    bool
	Schema      ComponentSchema
	Template    string
	Handler     ComponentHandler
}

// ComponentSchema defines the contract for parameters accepted by a component.
type ComponentSchema struct {
	Params   []ComponentParam
	Defaults map[string]any
}

// ComponentParam describes a single parameter, including optional custom validation.
type ComponentParam struct {
	Name     string
	Type     ComponentParamType
	Required bool
	Default  any
	Validate ComponentValidator
}

// ComponentParamType enumerates the supported parameter coercions.
type ComponentParamType string

const (
	ComponentParamString ComponentParamType = "string"
	ComponentParamInt    ComponentParamType = "int"
	ComponentParamBool   ComponentParamType = "bool"
	ComponentParamArray  ComponentParamType = "array"
	ComponentParamURL    ComponentParamType = "url"
)

// ComponentValidator allows definitions to perform custom validation.
type ComponentValidator func(value any) error

// ComponentHandler executes the component with resolved parameters.
type ComponentHandler func(ctx ComponentContext, params map[string]any, inner string) (template.HTML, error)

// ComponentContext provides runtime metadata surfaced during rendering.
// Scope carries the values passed to Compile, typically the post being rendered.
type ComponentContext struct {
	Context   context.Context
	Scope     map[string]any
	Sanitizer ComponentSanitizer
}

// ParsedComponent represents an invocation discovered by the parser layer.
type ParsedComponent struct {
	Name   string
	Params map[string]any
	// Inner is the raw markdown between the opening and closing tags. It may
	// contain placeholders for nested components.
	Inner string
}
