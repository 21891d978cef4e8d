package config

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dd0wney/drugnet/pkg/validation"
)

var (
	sources   = []string{"mock", "http", "embeddings"}
	logLevels = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("Config")

	cv.PositiveFloat("Canvas.Width", c.Canvas.Width).
		PositiveFloat("Canvas.Height", c.Canvas.Height).
		PositiveFloat("Canvas.Radius", c.Canvas.Radius).
		PositiveFloat("Canvas.MinRadius", c.Canvas.MinRadius).
		LessFloat("Canvas.MinRadius", c.Canvas.MinRadius, "Canvas.MaxRadius", c.Canvas.MaxRadius)

	cv.PositiveFloat("Viewport.MinScale", c.Viewport.MinScale).
		LessFloat("Viewport.MinScale", c.Viewport.MinScale, "Viewport.MaxScale", c.Viewport.MaxScale).
		Custom("Viewport.ZoomIn", func() error {
			if !(c.Viewport.ZoomIn > 1) {
				return fmt.Errorf("value %g must exceed 1", c.Viewport.ZoomIn)
			}
			return nil
		}).
		Custom("Viewport.ZoomOut", func() error {
			if !(c.Viewport.ZoomOut > 0 && c.Viewport.ZoomOut < 1) {
				return fmt.Errorf("value %g must be within (0, 1)", c.Viewport.ZoomOut)
			}
			return nil
		})

	colours := []struct{ field, hex string }{
		{"Palette.Background", c.Palette.Background},
		{"Palette.Node", c.Palette.Node},
		{"Palette.Selected", c.Palette.Selected},
		{"Palette.Hover", c.Palette.Hover},
		{"Palette.NeighborLow", c.Palette.NeighborLow},
		{"Palette.NeighborHigh", c.Palette.NeighborHigh},
		{"Palette.Edge", c.Palette.Edge},
		{"Palette.ActiveEdge", c.Palette.ActiveEdge},
		{"Palette.Label", c.Palette.Label},
	}
	for _, col := range colours {
		cv.When(col.hex != "", func(cv *validation.ConfigValidator) {
			cv.Custom(col.field, func() error {
				_, err := colorful.Hex(col.hex)
				return err
			})
		})
	}

	cv.OneOf("Data.Source", c.Data.Source, sources).
		RangeFloat("Data.Threshold", c.Data.Threshold, 0, 1).
		When(c.Data.Source == "http", func(cv *validation.ConfigValidator) {
			cv.Required("Data.URL", c.Data.URL)
		}).
		When(c.Data.Source == "embeddings", func(cv *validation.ConfigValidator) {
			cv.Required("Data.Embeddings", c.Data.Embeddings)
		})

	cv.RangeInt("Server.Port", c.Server.Port, 1, 65535).
		MinDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, time.Second)

	cv.OneOf("Log.Level", c.Log.Level, logLevels)

	return cv.Validate()
}
