package main

import (
	"context"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dd0wney/drugnet/pkg/config"
	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/logging"
)

var version = "0.3.0"

// app carries the persistent flags shared by every subcommand.
type app struct {
	configPath string
	source     string
	url        string
	embeddings string
	threshold  float64
	logLevel   string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "drugnet",
		Short: "Explore drug similarity networks",
		Long: brand.Sprint("drugnet") + " lays out drugs by transcriptional similarity\n" +
			subtle.Sprint("Overview circle, focus-centred radial view, SVG and terminal renderers"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("drugnet {{ .Version }}\n")

	f := root.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	f.StringVar(&a.source, "source", "", "data source: mock, http or embeddings")
	f.StringVar(&a.url, "url", "", "similarity API base URL for the http source")
	f.StringVar(&a.embeddings, "embeddings", "", "embedding file for the embeddings source")
	f.Float64VarP(&a.threshold, "threshold", "t", -1, "similarity threshold in [0,1] (default from config)")
	f.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		tuiCmd(a),
		serveCmd(a),
		renderCmd(a),
		statsCmd(a),
		similarCmd(a),
		drugsCmd(a),
		configCmd(a),
	)
	return root
}

// loadConfig reads the config file and applies flag overrides on top of the
// file and the environment.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.source != "" {
		cfg.Data.Source = a.source
	}
	if a.url != "" {
		cfg.Data.URL = a.url
	}
	if a.embeddings != "" {
		cfg.Data.Embeddings = a.embeddings
	}
	if a.threshold >= 0 {
		cfg.Data.Threshold = a.threshold
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSource builds the configured data source. ctx bounds any work done
// up front, such as the embeddings similarity matrix.
func openSource(ctx context.Context, cfg *config.Config) (datasource.Source, error) {
	return datasource.Open(ctx, datasource.OpenOptions{
		Kind:   cfg.Data.Source,
		URL:    cfg.Data.URL,
		Path:   cfg.Data.Embeddings,
		Client: &http.Client{Timeout: cfg.Data.Timeout},
	})
}

// newLogger writes JSON lines to the configured file, or to w when none is
// set. The returned closer is never nil.
func newLogger(cfg *config.Config, w io.Writer) (logging.Logger, io.Closer, error) {
	level := logging.ParseLevel(cfg.Log.Level)
	if cfg.Log.File == "" {
		return logging.NewJSONLogger(w, level), nopCloser{}, nil
	}
	logger, closer, err := logging.NewFileLogger(cfg.Log.File, level)
	if err != nil {
		return nil, nil, err
	}
	return logger, closer, nil
}

// withTimeout bounds one-shot data fetches by the configured timeout.
func withTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.Data.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Data.Timeout)
	}
	return context.WithCancel(ctx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
