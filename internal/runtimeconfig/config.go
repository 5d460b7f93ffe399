package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrContentRootRequired      = errors.New("folio config: content root is required")
	ErrContentDirInvalid        = errors.New("folio config: content directory must be a relative slash separated path")
	ErrContentExtensionInvalid  = errors.New("folio config: content extension must start with a dot")
	ErrReadConcurrencyInvalid   = errors.New("folio config: read concurrency must be zero or positive")
	ErrSiteBaseURLInvalid       = errors.New("folio config: site base url must be absolute")
	ErrSiteRouteInvalid         = errors.New("folio config: site route is missing its parameter")
	ErrFeedLimitInvalid         = errors.New("folio config: feed limit must be zero or positive")
	ErrHighlightStyleRequired   = errors.New("folio config: highlight style is required")
	ErrHTTPAddrRequired         = errors.New("folio config: http address is required")
	ErrLoggingProviderRequired  = errors.New("folio config: logging provider is required")
	ErrLoggingProviderUnknown   = errors.New("folio config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("folio config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("folio config: logging format is invalid")
	ErrRenderExtensionUnknown   = errors.New("folio config: render extension is unknown")
	ErrComponentBuiltInsUnknown = errors.New("folio config: component built-in is unknown")
)

// Config aggregates the settings for the content pipeline and its adapters.
// Fields carry mapstructure tags so the CLI can decode them through viper.
type Config struct {
	Content    ContentConfig    `mapstructure:"content"`
	Render     RenderConfig     `mapstructure:"render"`
	Components ComponentsConfig `mapstructure:"components"`
	Site       SiteConfig       `mapstructure:"site"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ContentConfig locates content files.
type ContentConfig struct {
	// Root is the filesystem directory mounted as the content root.
	Root string `mapstructure:"root"`
	// Dir is the default directory, relative to Root, that holds posts.
	Dir string `mapstructure:"dir"`
	// Extension is the single recognised content file extension.
	Extension string `mapstructure:"extension"`
	// ReadConcurrency bounds parallel file reads during listings. Zero means
	// unbounded.
	ReadConcurrency int  `mapstructure:"read_concurrency"`
	IncludeDrafts   bool `mapstructure:"include_drafts"`
}

// RenderConfig controls the markdown compiler.
type RenderConfig struct {
	Extensions     []string `mapstructure:"extensions"`
	Sanitize       bool     `mapstructure:"sanitize"`
	SafeMode       bool     `mapstructure:"safe_mode"`
	HardWraps      bool     `mapstructure:"hard_wraps"`
	HighlightStyle string   `mapstructure:"highlight_style"`
}

// ComponentsConfig selects the built-in embedded components.
type ComponentsConfig struct {
	// BuiltIns lists the built-ins to register. Empty registers all of them.
	BuiltIns []string `mapstructure:"builtins"`
}

// SiteConfig feeds the RSS, Atom and sitemap generators.
type SiteConfig struct {
	Title          string `mapstructure:"title"`
	Description    string `mapstructure:"description"`
	BaseURL        string `mapstructure:"base_url"`
	Language       string `mapstructure:"language"`
	Author         string `mapstructure:"author"`
	PostPathPrefix string       `mapstructure:"post_path_prefix"`
	Routes         RoutesConfig `mapstructure:"routes"`
	FeedLimit      int          `mapstructure:"feed_limit"`
}

// RoutesConfig holds the go-urlkit templates for site pages, relative to
// PostPathPrefix. Post must carry a :slug parameter and Tag a :tag one.
type RoutesConfig struct {
	Index string `mapstructure:"index"`
	Post  string `mapstructure:"post"`
	Tag   string `mapstructure:"tag"`
}

// HTTPConfig configures the JSON and feed adapter.
type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	BasePath string `mapstructure:"base_path"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// KnownExtensions lists the goldmark extension names accepted in
// RenderConfig.Extensions.
var KnownExtensions = []string{
	"gfm", "table", "tables", "strikethrough", "linkify", "autolink",
	"tasklist", "definition", "footnote", "typographer",
}

// KnownBuiltIns lists the embedded components shipped with folio.
var KnownBuiltIns = []string{"callout", "figure", "youtube", "gallery", "code"}

// DefaultConfig returns the defaults used by the CLI and by tests.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Root:            ".",
			Dir:             "posts",
			Extension:       ".mdx",
			ReadConcurrency: 8,
		},
		Render: RenderConfig{
			HighlightStyle: "github",
		},
		Site: SiteConfig{
			Title:          "Folio",
			Description:    "Latest posts",
			BaseURL:        "http://localhost:8080",
			Language:       "en",
			PostPathPrefix: "/blog",
			Routes: RoutesConfig{
				Index: "/",
				Post:  "/:slug",
				Tag:   "/tags/:tag",
			},
			FeedLimit: 20,
		},
		HTTP: HTTPConfig{
			Addr:     ":8080",
			BasePath: "/api",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Root) == "" {
		return ErrContentRootRequired
	}
	if dir := strings.TrimRight(strings.TrimSpace(cfg.Content.Dir), "/"); dir != "" && dir != "." {
		if strings.HasPrefix(strings.TrimSpace(cfg.Content.Dir), "/") || path.Clean(dir) != dir || strings.HasPrefix(dir, "..") {
			return fmt.Errorf("%w: %s", ErrContentDirInvalid, dir)
		}
	}
	if ext := strings.TrimSpace(cfg.Content.Extension); ext == "" || !strings.HasPrefix(ext, ".") || strings.Contains(ext, "/") {
		return fmt.Errorf("%w: %q", ErrContentExtensionInvalid, cfg.Content.Extension)
	}
	if cfg.Content.ReadConcurrency < 0 {
		return ErrReadConcurrencyInvalid
	}
	if strings.TrimSpace(cfg.Render.HighlightStyle) == "" {
		return ErrHighlightStyleRequired
	}
	for _, name := range cfg.Render.Extensions {
		if !contains(KnownExtensions, strings.ToLower(strings.TrimSpace(name))) {
			return fmt.Errorf("%w: %s", ErrRenderExtensionUnknown, name)
		}
	}
	for _, name := range cfg.Components.BuiltIns {
		if !contains(KnownBuiltIns, strings.ToLower(strings.TrimSpace(name))) {
			return fmt.Errorf("%w: %s", ErrComponentBuiltInsUnknown, name)
		}
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return fmt.Errorf("%w: %s", ErrSiteBaseURLInvalid, base)
		}
	}
	if route := strings.TrimSpace(cfg.Site.Routes.Post); route != "" && !strings.Contains(route, ":slug") {
		return fmt.Errorf("%w: post %s", ErrSiteRouteInvalid, route)
	}
	if route := strings.TrimSpace(cfg.Site.Routes.Tag); route != "" && !strings.Contains(route, ":tag") {
		return fmt.Errorf("%w: tag %s", ErrSiteRouteInvalid, route)
	}
	if cfg.Site.FeedLimit < 0 {
		return ErrFeedLimitInvalid
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// ContentDir returns the cleaned default content directory.
func (cfg Config) ContentDir() string {
	dir := strings.TrimSpace(cfg.Content.Dir)
	if dir == "" {
		return "."
	}
	return path.Clean(dir)
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func contains(list []string, value string) bool {
	for _, candidate := range list {
		if candidate == value {
			return true
		}
	}
	return false
}
