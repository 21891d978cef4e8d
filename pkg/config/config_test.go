package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

// clearEnv keeps the caller's environment out of Load.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLogLevel, EnvPort, EnvAPIURL, EnvSource, EnvCORSOrigins} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 800.0, cfg.Canvas.Width)
	assert.Equal(t, 0.3, cfg.Viewport.MinScale)
	assert.Equal(t, "mock", cfg.Data.Source)
	assert.Empty(t, cfg.Data.URL, "http source has no implicit endpoint")
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, ":8080", cfg.Server.Addr())

	layout := cfg.Canvas.Layout()
	assert.Equal(t, 80.0, layout.MinRadius)
	assert.Equal(t, 280.0, layout.MaxRadius)
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"drugnet.yaml", FormatYAML, false},
		{"drugnet.YML", FormatYAML, false},
		{"/etc/drugnet.toml", FormatTOML, false},
		{"drugnet.json", "", true},
		{"drugnet", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "drugnet.yaml", `
canvas:
  min_radius: 60
viewport:
  max_scale: 4
data:
  source: http
  url: http://api.internal:8000
  threshold: 0.7
  timeout: 3s
server:
  port: 9090
  cors_origins: [http://localhost:5173]
palette:
  selected: "#ff0000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60.0, cfg.Canvas.MinRadius)
	assert.Equal(t, 280.0, cfg.Canvas.MaxRadius, "unset fields keep defaults")
	assert.Equal(t, 4.0, cfg.Viewport.MaxScale)
	assert.Equal(t, "http", cfg.Data.Source)
	assert.Equal(t, 0.7, cfg.Data.Threshold)
	assert.Equal(t, 3*time.Second, cfg.Data.Timeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "#ff0000", cfg.Palette.Selected)
	assert.Equal(t, "#38bdf8", cfg.Palette.Node)
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "drugnet.toml", `
[data]
source = "embeddings"
embeddings = "testdata/embeddings.json"
threshold = 0.55

[server]
shutdown_timeout = "5s"

[log]
level = "debug"
file = "drugnet.log"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "embeddings", cfg.Data.Source)
	assert.Equal(t, "testdata/embeddings.json", cfg.Data.Embeddings)
	assert.Equal(t, 0.55, cfg.Data.Threshold)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "drugnet.log", cfg.Log.File)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "drugnet.ini", "x=1"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "bad.yaml", "canvas: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")

	_, err = Load(writeFile(t, "bad.toml", "[data\nsource="))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		EnvLogLevel:    " DEBUG ",
		EnvPort:        "9000",
		EnvAPIURL:      "https://drugs.example.org",
		EnvSource:      "http",
		EnvCORSOrigins: "http://a.test, http://b.test,,",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://drugs.example.org", cfg.Data.URL)
	assert.Equal(t, "http", cfg.Data.Source)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.NoError(t, cfg.Validate())

	err = Default().ApplyEnv(env(map[string]string{EnvPort: "eighty"}))
	assert.Error(t, err)

	unchanged := Default()
	require.NoError(t, unchanged.ApplyEnv(env(nil)))
	assert.Equal(t, Default(), unchanged)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"radius order", func(c *Config) { c.Canvas.MinRadius = 300 }, "Canvas.MinRadius"},
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }, "Canvas.Width"},
		{"scale order", func(c *Config) { c.Viewport.MinScale = 5 }, "Viewport.MinScale"},
		{"zoom in", func(c *Config) { c.Viewport.ZoomIn = 0.5 }, "Viewport.ZoomIn"},
		{"zoom out", func(c *Config) { c.Viewport.ZoomOut = 1.2 }, "Viewport.ZoomOut"},
		{"threshold", func(c *Config) { c.Data.Threshold = 1.5 }, "Data.Threshold"},
		{"source", func(c *Config) { c.Data.Source = "postgres" }, "Data.Source"},
		{"http needs url", func(c *Config) { c.Data.Source = "http" }, "Data.URL"},
		{"embeddings needs path", func(c *Config) { c.Data.Source = "embeddings" }, "Data.Embeddings"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "Server.Port"},
		{"shutdown", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "Server.ShutdownTimeout"},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "Log.Level"},
		{"palette", func(c *Config) { c.Palette.Hover = "yellow" }, "Palette.Hover"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Config."+tt.field)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Data.Threshold = -1
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 errors")

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 3)
}

func TestEncode(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Data.Threshold = 0.65

	for _, format := range []string{FormatYAML, FormatTOML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, cfg.Encode(&buf, format))
			assert.True(t, strings.Contains(buf.String(), "0.65"), buf.String())

			path := writeFile(t, "out."+format, buf.String())
			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}

	assert.ErrorIs(t, cfg.Encode(&bytes.Buffer{}, "ini"), ErrUnsupportedFormat)
}
