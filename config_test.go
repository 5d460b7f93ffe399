package folio_test

import (
	"errors"
	"testing"

	folio "github.com/goliatone/go-folio"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := folio.DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestConfigValidateContentDir(t *testing.T) {
	for _, dir := range []string{"/abs", "../up", "a/../b"} {
		cfg := folio.DefaultConfig()
		cfg.Content.Dir = dir
		if err := cfg.Validate(); !errors.Is(err, folio.ErrContentDirInvalid) {
			t.Fatalf("dir %q: expected ErrContentDirInvalid, got %v", dir, err)
		}
	}
}

func TestConfigValidateExtension(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Content.Extension = "md"
	if err := cfg.Validate(); !errors.Is(err, folio.ErrContentExtensionInvalid) {
		t.Fatalf("expected ErrContentExtensionInvalid, got %v", err)
	}
}

func TestConfigValidateRenderExtension(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Render.Extensions = []string{"gfm", "mermaid"}
	if err := cfg.Validate(); !errors.Is(err, folio.ErrRenderExtensionUnknown) {
		t.Fatalf("expected ErrRenderExtensionUnknown, got %v", err)
	}
}

func TestConfigValidateBuiltIns(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Components.BuiltIns = []string{"callout", "carousel"}
	if err := cfg.Validate(); !errors.Is(err, folio.ErrComponentBuiltInsUnknown) {
		t.Fatalf("expected ErrComponentBuiltInsUnknown, got %v", err)
	}
}

func TestConfigValidateSiteBaseURL(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Site.BaseURL = "example.com"
	if err := cfg.Validate(); !errors.Is(err, folio.ErrSiteBaseURLInvalid) {
		t.Fatalf("expected ErrSiteBaseURLInvalid, got %v", err)
	}
}

func TestConfigValidateLogging(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, folio.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}

	cfg = folio.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, folio.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}
