// Package cli implements the folio command line: serve, preview, list and
// feeds.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	folio "github.com/goliatone/go-folio"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

const envPrefix = "FOLIO"

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	v       *viper.Viper
	cfgFile string
	cfg     folio.Config
	module  *folio.Module
	logger  interfaces.Logger
}

// NewRootCommand builds the folio command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, v: viper.New()}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Markdown blog content pipeline",
		Long:          "folio reads markdown posts with embedded components, compiles them to HTML and serves them as JSON and feeds.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./folio.yaml)")
	flags.String("root", "", "content root directory")
	flags.String("dir", "", "posts directory relative to the content root")
	flags.Bool("drafts", false, "include draft posts in listings")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	_ = a.v.BindPFlag("content.root", flags.Lookup("root"))
	_ = a.v.BindPFlag("content.dir", flags.Lookup("dir"))
	_ = a.v.BindPFlag("content.include_drafts", flags.Lookup("drafts"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(
		newServeCommand(a),
		newPreviewCommand(a),
		newListCommand(a),
		newFeedsCommand(a),
	)
	return root
}

func (a *app) initialize() error {
	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	module, err := folio.New(cfg)
	if err != nil {
		return fmt.Errorf("initialise folio: %w", err)
	}

	a.cfg = cfg
	a.module = module
	a.logger = logging.CLILogger(module.Container().LoggerProvider())
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("cli.config_loaded", "file", used)
	}
	return nil
}

// loadConfig layers defaults, the optional config file and FOLIO_ prefixed
// environment variables. Flags bound to v take precedence over all of them.
func loadConfig(v *viper.Viper, cfgFile string) (folio.Config, error) {
	setDefaults(v, folio.DefaultConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return folio.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := folio.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return folio.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg folio.Config) {
	v.SetDefault("content.root", cfg.Content.Root)
	v.SetDefault("content.dir", cfg.Content.Dir)
	v.SetDefault("content.extension", cfg.Content.Extension)
	v.SetDefault("content.read_concurrency", cfg.Content.ReadConcurrency)
	v.SetDefault("content.include_drafts", cfg.Content.IncludeDrafts)

	v.SetDefault("render.extensions", cfg.Render.Extensions)
	v.SetDefault("render.sanitize", cfg.Render.Sanitize)
	v.SetDefault("render.safe_mode", cfg.Render.SafeMode)
	v.SetDefault("render.hard_wraps", cfg.Render.HardWraps)
	v.SetDefault("render.highlight_style", cfg.Render.HighlightStyle)

	v.SetDefault("components.builtins", cfg.Components.BuiltIns)

	v.SetDefault("site.title", cfg.Site.Title)
	v.SetDefault("site.description", cfg.Site.Description)
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("site.language", cfg.Site.Language)
	v.SetDefault("site.author", cfg.Site.Author)
	v.SetDefault("site.post_path_prefix", cfg.Site.PostPathPrefix)
	v.SetDefault("site.routes.index", cfg.Site.Routes.Index)
	v.SetDefault("site.routes.post", cfg.Site.Routes.Post)
	v.SetDefault("site.routes.tag", cfg.Site.Routes.Tag)
	v.SetDefault("site.feed_limit", cfg.Site.FeedLimit)

	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
