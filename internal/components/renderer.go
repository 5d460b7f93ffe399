package components

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"maps"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Renderer executes component definitions and produces sanitised HTML output.
type Renderer struct {
	registry  interfaces.ComponentRegistry
	validator *Validator
	sanitizer interfaces.ComponentSanitizer
	logger    interfaces.Logger
}

// RendererOption configures the renderer instance.
type RendererOption func(*Renderer)

// WithRendererSanitizer overrides the default sanitizer.
func WithRendererSanitizer(s interfaces.ComponentSanitizer) RendererOption {
	return func(r *Renderer) {
		r.sanitizer = s
	}
}

// WithRendererLogger attaches a logger for render diagnostics.
func WithRendererLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer constructs a renderer using the provided registry and validator.
func NewRenderer(registry interfaces.ComponentRegistry, validator *Validator, opts ...RendererOption) *Renderer {
	if validator == nil {
		validator = NewValidator()
	}
	r := &Renderer{
		registry:  registry,
		validator: validator,
		sanitizer: NewSanitizer(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes the component and returns sanitised HTML. inner is the
// already compiled body for components that render their inner markdown and
// the raw text for RawInner components.
func (r *Renderer) Render(ctx interfaces.ComponentContext, component string, params map[string]any, inner string) (template.HTML, error) {
	def, ok := r.registry.Get(component)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownComponent, component)
	}
	if ctx.Context == nil {
		ctx.Context = context.Background()
	}

	sanitizer := r.resolveSanitizer(ctx)
	if sanitizer != nil {
		if err := sanitizer.ValidateAttributes(params); err != nil {
			return "", err
		}
	}

	coerced, err := r.validator.CoerceParams(def, params)
	if err != nil {
		return "", err
	}

	if sanitizer != nil {
		for _, param := range def.Schema.Params {
			if param.Type != interfaces.ComponentParamURL {
				continue
			}
			if raw, ok := coerced[param.Name].(string); ok {
				if err := sanitizer.ValidateURL(raw); err != nil {
					return "", err
				}
			}
		}
	}

	var output string
	switch {
	case def.Handler != nil:
		result, err := def.Handler(ctx, coerced, inner)
		if err != nil {
			return "", err
		}
		output = string(result)
	case def.Template != "":
		rendered, err := r.renderTemplate(def, ctx.Scope, coerced, inner)
		if err != nil {
			return "", err
		}
		output = rendered
	default:
		return "", fmt.Errorf("%w: %s has no handler or template", ErrInvalidDefinition, def.Name)
	}

	if sanitizer != nil {
		sanitised, err := sanitizer.Sanitize(output)
		if err != nil {
			return "", err
		}
		output = sanitised
	}

	logging.WithFields(r.logger.WithContext(ctx.Context), map[string]any{
		"component": def.Name,
	}).Debug("components.render.succeeded")

	return template.HTML(output), nil
}

func (r *Renderer) renderTemplate(def interfaces.ComponentDefinition, scope, params map[string]any, inner string) (string, error) {
	data := make(map[string]any, len(params)+2)
	maps.Copy(data, params)
	if def.RawInner {
		data["Inner"] = inner
	} else {
		data["Inner"] = template.HTML(inner)
	}
	data["Scope"] = scope

	tmpl, err := template.New(def.Name).Parse(def.Template)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) resolveSanitizer(ctx interfaces.ComponentContext) interfaces.ComponentSanitizer {
	if ctx.Sanitizer != nil {
		return ctx.Sanitizer
	}
	return r.sanitizer
}

var _ interfaces.ComponentRenderer = (*Renderer)(nil)
