package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/tui"
)

func tuiCmd(a *app) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore the network interactively in the terminal",
		Long: "Opens the interactive dashboard. Click a drug to focus it, drag to pan,\n" +
			"scroll or press +/- to zoom and [ ] to move the similarity threshold.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if logFile != "" {
				cfg.Log.File = logFile
			}

			// The terminal belongs to the UI, so logs only go to a file.
			var logger logging.Logger = logging.NewNopLogger()
			if cfg.Log.File != "" {
				fileLogger, closer, err := logging.NewFileLogger(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
				if err != nil {
					return err
				}
				defer closer.Close()
				logger = fileLogger
			}

			src, err := openSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting dashboard", logging.Source(src.Name()), logging.Threshold(cfg.Data.Threshold))
			return tui.Run(ctx, tui.Options{
				Source: datasource.Instrument(src, logger, nil),
				Config: cfg,
				Logger: logger,
			})
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "append JSON logs to this file")
	return cmd
}
