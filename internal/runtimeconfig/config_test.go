package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-folio/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"content root required", func(c *runtimeconfig.Config) { c.Content.Root = " " }, runtimeconfig.ErrContentRootRequired},
		{"absolute content dir", func(c *runtimeconfig.Config) { c.Content.Dir = "/etc" }, runtimeconfig.ErrContentDirInvalid},
		{"escaping content dir", func(c *runtimeconfig.Config) { c.Content.Dir = "../posts" }, runtimeconfig.ErrContentDirInvalid},
		{"extension without dot", func(c *runtimeconfig.Config) { c.Content.Extension = "mdx" }, runtimeconfig.ErrContentExtensionInvalid},
		{"negative concurrency", func(c *runtimeconfig.Config) { c.Content.ReadConcurrency = -1 }, runtimeconfig.ErrReadConcurrencyInvalid},
		{"missing highlight style", func(c *runtimeconfig.Config) { c.Render.HighlightStyle = "" }, runtimeconfig.ErrHighlightStyleRequired},
		{"unknown extension", func(c *runtimeconfig.Config) { c.Render.Extensions = []string{"mermaid"} }, runtimeconfig.ErrRenderExtensionUnknown},
		{"unknown built-in", func(c *runtimeconfig.Config) { c.Components.BuiltIns = []string{"carousel"} }, runtimeconfig.ErrComponentBuiltInsUnknown},
		{"relative base url", func(c *runtimeconfig.Config) { c.Site.BaseURL = "example.com" }, runtimeconfig.ErrSiteBaseURLInvalid},
		{"negative feed limit", func(c *runtimeconfig.Config) { c.Site.FeedLimit = -5 }, runtimeconfig.ErrFeedLimitInvalid},
		{"post route without slug", func(c *runtimeconfig.Config) { c.Site.Routes.Post = "/posts" }, runtimeconfig.ErrSiteRouteInvalid},
		{"tag route without tag", func(c *runtimeconfig.Config) { c.Site.Routes.Tag = "/tags/:name" }, runtimeconfig.ErrSiteRouteInvalid},
		{"http addr required", func(c *runtimeconfig.Config) { c.HTTP.Addr = "" }, runtimeconfig.ErrHTTPAddrRequired},
		{"logging provider required", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown logging provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"invalid logging level", func(c *runtimeconfig.Config) { c.Logging.Level = "verbose" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"invalid gologger format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_ConsoleIgnoresFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected console provider to ignore format, got %v", err)
	}
}

func TestContentDirDefaultsToRoot(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Content.Dir = ""
	if got := cfg.ContentDir(); got != "." {
		t.Fatalf("expected \".\", got %q", got)
	}
	cfg.Content.Dir = "posts/"
	if got := cfg.ContentDir(); got != "posts" {
		t.Fatalf("unexpected content dir %q", got)
	}
}
