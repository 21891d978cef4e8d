// Package config loads drugnet settings from YAML or TOML files with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/drugnet/pkg/viewport"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// File formats understood by Load and Encode.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Config is the full application configuration.
type Config struct {
	Canvas   CanvasConfig          `yaml:"canvas" toml:"canvas"`
	Viewport viewport.Options      `yaml:"viewport" toml:"viewport"`
	Palette  visualization.Palette `yaml:"palette" toml:"palette"`
	Data     DataConfig            `yaml:"data" toml:"data"`
	Server   ServerConfig          `yaml:"server" toml:"server"`
	Log      LogConfig             `yaml:"log" toml:"log"`
}

// CanvasConfig is the model-space geometry shared by every layout.
type CanvasConfig struct {
	Width     float64 `yaml:"width" toml:"width"`
	Height    float64 `yaml:"height" toml:"height"`
	Radius    float64 `yaml:"radius" toml:"radius"`
	MinRadius float64 `yaml:"min_radius" toml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius" toml:"max_radius"`
}

// Layout converts the canvas settings for the layout engine.
func (c CanvasConfig) Layout() visualization.LayoutConfig {
	return visualization.LayoutConfig{
		Width:     c.Width,
		Height:    c.Height,
		Radius:    c.Radius,
		MinRadius: c.MinRadius,
		MaxRadius: c.MaxRadius,
	}
}

// DataConfig selects where snapshots come from.
type DataConfig struct {
	Source     string        `yaml:"source" toml:"source"` // mock, http or embeddings
	URL        string        `yaml:"url" toml:"url"`
	Embeddings string        `yaml:"embeddings" toml:"embeddings"`
	Threshold  float64       `yaml:"threshold" toml:"threshold"`
	Timeout    time.Duration `yaml:"timeout" toml:"timeout"`
}

// ServerConfig configures `drugnet serve`.
type ServerConfig struct {
	Host            string        `yaml:"host" toml:"host"`
	Port            int           `yaml:"port" toml:"port"`
	CORSOrigins     []string      `yaml:"cors_origins" toml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig configures the structured logger. An empty File means stderr
// (or no logging at all in the terminal UI).
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:     visualization.DefaultWidth,
			Height:    visualization.DefaultHeight,
			Radius:    visualization.DefaultRadius,
			MinRadius: visualization.DefaultMinRadius,
			MaxRadius: visualization.DefaultMaxRadius,
		},
		Viewport: viewport.Options{
			MinScale: viewport.DefaultMinScale,
			MaxScale: viewport.DefaultMaxScale,
			ZoomIn:   viewport.DefaultZoomIn,
			ZoomOut:  viewport.DefaultZoomOut,
		},
		Palette: visualization.DefaultPalette(),
		Data: DataConfig{
			Source:    "mock",
			Threshold: 0.5,
			Timeout:   10 * time.Second,
		},
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{"*"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// FormatOf maps a file extension to a format name.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatTOML:
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case FormatYAML:
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return nil
}

// Environment variables consulted by ApplyEnv.
const (
	EnvLogLevel    = "LOG_LEVEL"
	EnvPort        = "PORT"
	EnvAPIURL      = "DRUGNET_API_URL"
	EnvSource      = "DRUGNET_SOURCE"
	EnvCORSOrigins = "CORS_ORIGINS"
)

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv in
// production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.Data.URL = v
	}
	if v, ok := lookup(EnvSource); ok && v != "" {
		c.Data.Source = v
	}
	if v, ok := lookup(EnvCORSOrigins); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	return nil
}

// Encode writes c in the given format.
func (c *Config) Encode(w io.Writer, format string) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
