package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/dev"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr    string
		devMode bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Long: `Serve the site described by the configuration.

With --dev (or dev.enabled in the config) the config file and the
dev.watch paths are watched; on change the route table is rebuilt and
connected browsers reload.

Examples:
  vroute serve
  vroute serve --addr=:8080 --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("dev") {
				cfg.Dev.Enabled = devMode
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sc := serverConfig(cfg)
			var (
				app   router.Element
				extra []server.Option
			)
			if cfg.Dev.Enabled {
				session, err := dev.NewSession(cfg, buildSite, logger)
				if err != nil {
					return err
				}
				defer session.Close()

				app = session
				sc.Scripts = append(sc.Scripts, dev.ScriptTag())
				if sc.Static.Dir != "" && cfg.Static.Cache == "" {
					sc.Static.CacheControl = server.CacheControlNoStore
				}
				extra = append(extra, server.WithReloadHandler(session.Hub()))

				go func() {
					if err := session.Watch(ctx); err != nil {
						logger.Error("watcher stopped", "error", err)
					}
				}()
			} else {
				app, err = buildSite(cfg)
				if err != nil {
					return err
				}
			}

			st, err := newStack(ctx, cfg, app, logger, sc, extra...)
			if err != nil {
				return err
			}
			defer st.shutdown(context.WithoutCancel(ctx))

			logger.Info("serving site",
				"addr", cfg.Server.Addr,
				"routes", len(cfg.Site.Routes),
				"dev", cfg.Dev.Enabled,
				"metrics", sc.MetricsPath,
			)
			return st.server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Watch the config and reload browsers on change")

	return cmd
}
