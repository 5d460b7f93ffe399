package folio

import "github.com/goliatone/go-folio/internal/runtimeconfig"

var (
	ErrContentRootRequired      = runtimeconfig.ErrContentRootRequired
	ErrContentDirInvalid        = runtimeconfig.ErrContentDirInvalid
	ErrContentExtensionInvalid  = runtimeconfig.ErrContentExtensionInvalid
	ErrReadConcurrencyInvalid   = runtimeconfig.ErrReadConcurrencyInvalid
	ErrSiteBaseURLInvalid       = runtimeconfig.ErrSiteBaseURLInvalid
	ErrSiteRouteInvalid         = runtimeconfig.ErrSiteRouteInvalid
	ErrFeedLimitInvalid         = runtimeconfig.ErrFeedLimitInvalid
	ErrHighlightStyleRequired   = runtimeconfig.ErrHighlightStyleRequired
	ErrHTTPAddrRequired         = runtimeconfig.ErrHTTPAddrRequired
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrRenderExtensionUnknown   = runtimeconfig.ErrRenderExtensionUnknown
	ErrComponentBuiltInsUnknown = runtimeconfig.ErrComponentBuiltInsUnknown
)

type (
	Config           = runtimeconfig.Config
	ContentConfig    = runtimeconfig.ContentConfig
	RenderConfig     = runtimeconfig.RenderConfig
	ComponentsConfig = runtimeconfig.ComponentsConfig
	SiteConfig       = runtimeconfig.SiteConfig
	RoutesConfig     = runtimeconfig.RoutesConfig
	HTTPConfig       = runtimeconfig.HTTPConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
