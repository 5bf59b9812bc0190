package main

import (
	"github.com/advdv/httpctx"
	"github.com/advdv/httpctx/serve"
	"github.com/advdv/httpctx/static"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// siteConfig configures the served directory. Flags take precedence over the environment.
type siteConfig struct {
	Root  string `env:"HTTPSTATIC_ROOT" envDefault:"."`
	Index string `env:"HTTPSTATIC_INDEX" envDefault:"index.html"`
}

var flags struct {
	root  string
	index string
	port  int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		site, err := parseSiteConfig(cmd)
		if err != nil {
			return err
		}

		app := serve.NewApp(newSiteHandler,
			serve.WithFx(
				fx.Supply(site),
				fx.Decorate(func(e serve.Environment) serve.Environment {
					if cmd.Flags().Changed("port") {
						e.Port = flags.port
					}
					return e
				}),
			),
		)
		if err := app.Err(); err != nil {
			return err
		}

		app.Run()
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flags.root, "root", "", "Directory to serve (env HTTPSTATIC_ROOT)")
	serveCmd.Flags().StringVar(&flags.index, "index", "", "Index file for directories (env HTTPSTATIC_INDEX)")
	serveCmd.Flags().IntVar(&flags.port, "port", 0, "Port to listen on (env HTTPCTX_PORT)")

	rootCmd.AddCommand(serveCmd)
}

func parseSiteConfig(cmd *cobra.Command) (cfg siteConfig, err error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to parse environment")
	}

	if cmd.Flags().Changed("root") {
		cfg.Root = flags.root
	}
	if cmd.Flags().Changed("index") {
		cfg.Index = flags.index
	}

	return cfg, nil
}

func newSiteHandler(cfg siteConfig) httpctx.Handler {
	return static.New(cfg.Root, static.WithIndex(cfg.Index))
}
