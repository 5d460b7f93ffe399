// Package folio loads markdown posts with embedded components from a
// content directory, compiles them to HTML and serves them as JSON and
// feeds.
package folio

import (
	"context"
	"html/template"
	"net/http"

	"github.com/goliatone/go-folio/internal/components"
	"github.com/goliatone/go-folio/internal/di"
	"github.com/goliatone/go-folio/internal/feeds"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

type (
	// Post is a normalised content file.
	Post = interfaces.Post
	// RenderedPost pairs a post with its compiled body.
	RenderedPost = interfaces.RenderedPost
	// CompiledContent is renderer output ready for display.
	CompiledContent = interfaces.CompiledContent
	// LoadReport describes a directory listing, including skipped files.
	LoadReport = posts.LoadReport

	// PostService exports the posts service.
	PostService = *posts.Service
	// Renderer exports the markdown renderer.
	Renderer = *markdown.Renderer
	// ComponentRegistry exports the embedded component registry.
	ComponentRegistry = *components.Registry
	// FeedGenerator exports the RSS, Atom and sitemap generator.
	FeedGenerator = *feeds.Generator
)

// Module is the top level runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Posts returns the posts service.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Renderer returns the markdown renderer.
func (m *Module) Renderer() Renderer {
	return m.container.Renderer()
}

// Components returns the registry of embedded components.
func (m *Module) Components() ComponentRegistry {
	return m.container.ComponentRegistry()
}

// Feeds returns the feed generator.
func (m *Module) Feeds() FeedGenerator {
	return m.container.Feeds()
}

// Handler returns an http.Handler serving the JSON API and feeds.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.API().Handler()
}

// Render loads and compiles slug from the configured content directory. It
// returns nil when the post does not exist.
func (m *Module) Render(ctx context.Context, slug string) (*RenderedPost, error) {
	return m.Posts().Render(ctx, m.Config().ContentDir(), slug)
}

// Display guards a compiled value before it reaches a template.
func (m *Module) Display(ctx context.Context, v any) template.HTML {
	return m.Renderer().Display(ctx, v)
}
