package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/drugnet/pkg/api"
	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
	"github.com/dd0wney/drugnet/pkg/server"
)

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the similarity API and SVG renders over HTTP",
		Long: "Serves /api/drugs, /api/similar/{id}, /api/network, /api/stats and\n" +
			"/api/render.svg, plus /health and /metrics. SIGHUP re-reads the config\n" +
			"and reopens the data source.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logger, closer, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()
			logging.SetDefaultLogger(logger)

			src, err := openSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			registry := metrics.NewRegistry()

			srv := api.NewServer(datasource.Instrument(src, logger, registry), api.Options{
				Config:  cfg,
				Logger:  logger,
				Metrics: registry,
				Version: version,
			})
			defer srv.Close()

			gs := server.NewGracefulServer(srv.Handler(), server.Options{
				Addr:            cfg.Server.Addr(),
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				Logger:          logger,
			})
			gs.SetReloadFunc(func() error {
				next, err := a.loadConfig()
				if err != nil {
					return err
				}
				nextSrc, err := openSource(cmd.Context(), next)
				if err != nil {
					return err
				}
				logger.SetLevel(logging.ParseLevel(next.Log.Level))
				prev := srv.Source().Name()
				srv.Reload(datasource.Instrument(nextSrc, logger, registry), next)
				logging.Info("config reloaded",
					logging.Operation("reload"),
					logging.Source(nextSrc.Name()),
					logging.Bool("source_changed", prev != nextSrc.Name()),
					logging.Threshold(next.Data.Threshold),
				)
				return nil
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("serving",
				logging.Source(src.Name()),
				logging.String("addr", cfg.Server.Addr()),
				logging.String("version", version),
			)
			return gs.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides config and PORT)")
	return cmd
}
