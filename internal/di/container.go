package di

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/components"
	"github.com/goliatone/go-folio/internal/feeds"
	foliohttp "github.com/goliatone/go-folio/internal/http"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/logging/console"
	"github.com/goliatone/go-folio/internal/logging/gologger"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Container wires the content pipeline from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	contentFS      fs.FS
	clock          func() time.Time

	loader            *markdown.Loader
	registry          *components.Registry
	componentRenderer *components.Renderer
	renderer          *markdown.Renderer
	cache             *posts.Cache
	postSvc           *posts.Service
	feeds             *feeds.Generator
	api               *foliohttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentFS serves content from fsys instead of the configured root
// directory.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithCache shares a post cache across containers.
func WithCache(cache *posts.Cache) Option {
	return func(c *Container) {
		c.cache = cache
	}
}

// WithClock sets the clock used for feed timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.clock = now
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureComponents(); err != nil {
		return nil, err
	}
	c.configureContent()
	if err := c.configureFeeds(); err != nil {
		return nil, err
	}
	c.configureHTTP()

	logging.ModuleLogger(c.loggerProvider, "folio").Debug("container.configured",
		"content_root", cfg.Content.Root,
		"content_dir", cfg.ContentDir(),
		"logging_provider", cfg.Logging.Provider,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr, Focus: c.Config.Logging.Focus}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureComponents() error {
	registry, err := components.NewDefaultRegistry(c.Config.Components.BuiltIns, c.Config.Render.HighlightStyle)
	if err != nil {
		return fmt.Errorf("di: configure components: %w", err)
	}
	componentsLogger := logging.ComponentsLogger(c.loggerProvider)
	sanitizer := components.NewSanitizer()

	c.registry = registry
	c.componentRenderer = components.NewRenderer(registry, components.NewValidator(),
		components.WithRendererSanitizer(sanitizer),
		components.WithRendererLogger(componentsLogger),
	)
	c.renderer = markdown.NewRenderer(c.parseOptions(),
		markdown.WithComponents(registry, c.componentRenderer),
		markdown.WithComponentSanitizer(sanitizer),
		markdown.WithRendererLogger(logging.RenderLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) parseOptions() interfaces.ParseOptions {
	render := c.Config.Render
	return interfaces.ParseOptions{
		Extensions:     append([]string(nil), render.Extensions...),
		Sanitize:       render.Sanitize,
		HardWraps:      render.HardWraps,
		SafeMode:       render.SafeMode,
		HighlightStyle: render.HighlightStyle,
	}
}

func (c *Container) configureContent() {
	if c.contentFS == nil {
		c.contentFS = os.DirFS(c.Config.Content.Root)
	}
	if c.cache == nil {
		c.cache = posts.NewCache()
	}

	c.loader = markdown.NewLoader(c.contentFS,
		markdown.LoaderConfig{Extension: c.Config.Content.Extension},
		markdown.WithLoaderLogger(logging.ContentLogger(c.loggerProvider)),
	)
	c.postSvc = posts.NewService(c.loader,
		posts.Config{
			ReadConcurrency: c.Config.Content.ReadConcurrency,
			IncludeDrafts:   c.Config.Content.IncludeDrafts,
		},
		posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
		posts.WithCache(c.cache),
		posts.WithCompiler(c.renderer),
	)
}

func (c *Container) configureFeeds() error {
	site := c.Config.Site
	opts := []feeds.Option{feeds.WithLogger(logging.FeedsLogger(c.loggerProvider))}
	if c.clock != nil {
		opts = append(opts, feeds.WithClock(c.clock))
	}
	gen, err := feeds.NewGenerator(c.postSvc, feeds.Config{
		Title:          site.Title,
		Description:    site.Description,
		BaseURL:        site.BaseURL,
		Language:       site.Language,
		Author:         site.Author,
		PostPathPrefix: site.PostPathPrefix,
		Routes: feeds.Routes{
			Index: site.Routes.Index,
			Post:  site.Routes.Post,
			Tag:   site.Routes.Tag,
		},
		Limit: site.FeedLimit,
	}, opts...)
	if err != nil {
		return fmt.Errorf("di: configure feeds: %w", err)
	}
	c.feeds = gen
	return nil
}

func (c *Container) configureHTTP() {
	c.api = foliohttp.NewAPI(
		foliohttp.WithBasePath(c.Config.HTTP.BasePath),
		foliohttp.WithContentDir(c.Config.ContentDir()),
		foliohttp.WithPostService(c.postSvc),
		foliohttp.WithFeeds(c.feeds),
		foliohttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
}

// LoggerProvider returns the provider shared by every module logger.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Loader returns the content loader.
func (c *Container) Loader() *markdown.Loader {
	return c.loader
}

// ComponentRegistry returns the component registry.
func (c *Container) ComponentRegistry() *components.Registry {
	return c.registry
}

// Renderer returns the markdown renderer.
func (c *Container) Renderer() *markdown.Renderer {
	return c.renderer
}

// Cache returns the post cache.
func (c *Container) Cache() *posts.Cache {
	return c.cache
}

// PostService returns the posts service.
func (c *Container) PostService() *posts.Service {
	return c.postSvc
}

// Feeds returns the feed generator.
func (c *Container) Feeds() *feeds.Generator {
	return c.feeds
}

// API returns the HTTP adapter.
func (c *Container) API() *foliohttp.API {
	return c.api
}
