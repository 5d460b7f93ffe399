package markdown

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-folio/internal/components/parser"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Renderer compiles markdown bodies with embedded components into HTML.
// It is safe for concurrent use.
type Renderer struct {
	options    interfaces.ParseOptions
	engine     *engine
	registry   interfaces.ComponentRegistry
	components interfaces.ComponentRenderer
	sanitizer  interfaces.ComponentSanitizer
	policy     *bluemonday.Policy
	logger     interfaces.Logger
}

// RendererOption customises a Renderer.
type RendererOption func(*Renderer)

// WithComponents enables embedded components. The registry resolves
// component names and supplies the element render rules; renderer executes
// the components.
func WithComponents(registry interfaces.ComponentRegistry, renderer interfaces.ComponentRenderer) RendererOption {
	return func(r *Renderer) {
		r.registry = registry
		r.components = renderer
	}
}

// WithComponentSanitizer sets the sanitizer passed to components at render time.
func WithComponentSanitizer(sanitizer interfaces.ComponentSanitizer) RendererOption {
	return func(r *Renderer) {
		r.sanitizer = sanitizer
	}
}

// WithRendererLogger attaches the logger used for compile diagnostics.
func WithRendererLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer constructs a Renderer for the given parse options.
func NewRenderer(opts interfaces.ParseOptions, options ...RendererOption) *Renderer {
	r := &Renderer{
		options: opts,
		logger:  logging.NoOp(),
	}
	for _, option := range options {
		if option != nil {
			option(r)
		}
	}

	var rules func() interfaces.RenderRules
	if r.registry != nil {
		rules = r.registry.Rules
	}
	r.engine = newEngine(opts, rules)
	if opts.Sanitize {
		r.policy = newSanitizePolicy()
	}
	return r
}

// Options returns the parse options the renderer was built with.
func (r *Renderer) Options() interfaces.ParseOptions {
	return r.options
}

// Compile turns body into displayable HTML. It never fails: malformed
// component syntax, component errors and panics during conversion produce
// FallbackHTML output with Fallback set and the cause in Err. scope is made
// available to component templates, typically the post being rendered.
func (r *Renderer) Compile(ctx context.Context, body string, scope map[string]any) (result interfaces.CompiledContent) {
	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			result = r.fallback(ctx, body, fmt.Errorf("panic: %v", recovered))
		}
	}()

	html, toc, err := r.compile(ctx, body, scope)
	if err != nil {
		return r.fallback(ctx, body, err)
	}
	return interfaces.CompiledContent{
		HTML:     html,
		TOC:      toc,
		Compiled: true,
	}
}

func (r *Renderer) compile(ctx context.Context, body string, scope map[string]any) (string, []interfaces.Heading, error) {
	vault := &codeVault{}
	source := vault.protect(body)

	var extracted []interfaces.ParsedComponent
	extractor := parser.NewBracketParser(parser.WithPlaceholderNonce(placeholderNonce()))
	if r.componentsEnabled() {
		preprocessed, err := parser.NewJSXPreprocessor(r.isComponent).Process(source)
		if err != nil {
			return "", nil, err
		}
		source, extracted, err = extractor.Extract(preprocessed)
		if err != nil {
			return "", nil, err
		}
	}

	converted, err := r.engine.convert(vault.restore(source))
	if err != nil {
		return "", nil, err
	}

	html := converted.HTML
	if len(extracted) > 0 {
		html, err = r.renderComponents(ctx, html, extracted, extractor.Placeholder, vault, scope)
		if err != nil {
			return "", nil, err
		}
	}

	if r.policy != nil {
		html = r.policy.Sanitize(html)
	}
	return html, converted.TOC, nil
}

// renderComponents renders components in completion order, so nested
// components are ready before the parent that contains them, then swaps
// every top level placeholder for its output.
func (r *Renderer) renderComponents(ctx context.Context, html string, extracted []interfaces.ParsedComponent, placeholder func(int) string, vault *codeVault, scope map[string]any) (string, error) {
	componentCtx := interfaces.ComponentContext{
		Context:   ctx,
		Scope:     scope,
		Sanitizer: r.sanitizer,
	}

	rendered := make([]string, len(extracted))
	for i, component := range extracted {
		def, ok := r.registry.Get(component.Name)
		if !ok {
			return "", fmt.Errorf("unknown component %q", component.Name)
		}

		inner := vault.restore(component.Inner)
		if !def.RawInner {
			if def.AllowInner && strings.TrimSpace(inner) != "" {
				converted, err := r.engine.convert(inner)
				if err != nil {
					return "", fmt.Errorf("component %s inner: %w", component.Name, err)
				}
				inner = converted.HTML
			}
			inner = substitutePlaceholders(inner, rendered[:i], placeholder)
		}

		output, err := r.components.Render(componentCtx, component.Name, component.Params, inner)
		if err != nil {
			return "", fmt.Errorf("component %s: %w", component.Name, err)
		}
		rendered[i] = string(output)
	}

	return substitutePlaceholders(html, rendered, placeholder), nil
}

func (r *Renderer) fallback(ctx context.Context, body string, cause error) interfaces.CompiledContent {
	err := cause
	if !errors.Is(err, ErrCompile) {
		err = fmt.Errorf("%w: %w", ErrCompile, cause)
	}

	logging.WithFields(r.logger.WithContext(ctx), map[string]any{
		"error": err,
	}).Error("render.compile_failed")

	return interfaces.CompiledContent{
		HTML:     FallbackHTML(body),
		Fallback: true,
		Compiled: true,
		Err:      err,
	}
}

func (r *Renderer) componentsEnabled() bool {
	return r.registry != nil && r.components != nil
}

func (r *Renderer) isComponent(name string) bool {
	_, ok := r.registry.Get(name)
	return ok
}

// placeholderNonce returns a fresh value for each compile, so placeholders
// cannot collide with text written by the author.
func placeholderNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// substitutePlaceholders replaces component placeholders with their output.
// A placeholder that stood alone in a paragraph replaces the whole
// paragraph so block components are not nested inside <p>.
func substitutePlaceholders(html string, rendered []string, placeholderFor func(int) string) string {
	for i, output := range rendered {
		placeholder := placeholderFor(i)
		if !strings.Contains(html, placeholder) {
			continue
		}
		html = strings.ReplaceAll(html, "<p>"+placeholder+"</p>", output)
		html = strings.ReplaceAll(html, placeholder, output)
	}
	return html
}

var _ interfaces.ContentCompiler = (*Renderer)(nil)
