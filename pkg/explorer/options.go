package explorer

import (
	"time"

	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/viewport"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

// Recorder receives pipeline measurements. *metrics.Registry satisfies it.
type Recorder interface {
	ObserveLayout(mode string, d time.Duration)
	SetScene(nodes, edges int)
	RecordFocusChange(to string)
	SetViewportScale(scale float64)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLayout(string, time.Duration) {}
func (nopRecorder) SetScene(int, int)                   {}
func (nopRecorder) RecordFocusChange(string)            {}
func (nopRecorder) SetViewportScale(float64)            {}

// Options configures an Explorer. The zero value is usable.
type Options struct {
	Layout   visualization.LayoutConfig
	Viewport viewport.Options
	Palette  visualization.Palette

	// HitSlack widens hit targets by this many screen units, for coarse
	// displays such as a character grid.
	HitSlack float64

	Logger   logging.Logger
	Recorder Recorder
}
