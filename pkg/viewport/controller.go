package viewport

import "math"

// Zoom defaults.
const (
	DefaultMinScale = 0.3
	DefaultMaxScale = 3.0
	DefaultZoomIn   = 1.1
	DefaultZoomOut  = 0.9
)

// Options configures a Controller. Zero fields take the defaults.
type Options struct {
	MinScale float64 `yaml:"min_scale" toml:"min_scale"`
	MaxScale float64 `yaml:"max_scale" toml:"max_scale"`
	ZoomIn   float64 `yaml:"zoom_in" toml:"zoom_in"`
	ZoomOut  float64 `yaml:"zoom_out" toml:"zoom_out"`
}

func (o Options) withDefaults() Options {
	if o.MinScale <= 0 {
		o.MinScale = DefaultMinScale
	}
	if o.MaxScale <= 0 {
		o.MaxScale = DefaultMaxScale
	}
	if o.MaxScale < o.MinScale {
		o.MinScale, o.MaxScale = o.MaxScale, o.MinScale
	}
	if o.ZoomIn <= 1 {
		o.ZoomIn = DefaultZoomIn
	}
	if o.ZoomOut <= 0 || o.ZoomOut >= 1 {
		o.ZoomOut = DefaultZoomOut
	}
	return o
}

// Controller is the pan/zoom state machine. It is not safe for concurrent
// use; all events are expected on one goroutine.
type Controller struct {
	opts      Options
	transform Transform

	dragging bool
	anchor   Point
}

// NewController returns a controller at the identity transform.
func NewController(opts Options) *Controller {
	return &Controller{
		opts:      opts.withDefaults(),
		transform: Identity(),
	}
}

// Options returns the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform {
	return c.transform
}

// Dragging reports whether a pan gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Wheel applies one wheel step. Positive deltaY zooms out, negative zooms in,
// zero does nothing. Zoom is anchored at the canvas origin.
func (c *Controller) Wheel(deltaY float64) bool {
	switch {
	case deltaY > 0:
		return c.ZoomBy(c.opts.ZoomOut)
	case deltaY < 0:
		return c.ZoomBy(c.opts.ZoomIn)
	default:
		return false
	}
}

// ZoomBy multiplies the scale by factor and clamps it. It reports whether the
// scale changed.
func (c *Controller) ZoomBy(factor float64) bool {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return false
	}
	next := c.clampScale(c.transform.Scale * factor)
	if next == c.transform.Scale {
		return false
	}
	c.transform.Scale = next
	return true
}

func (c *Controller) clampScale(s float64) float64 {
	return math.Max(c.opts.MinScale, math.Min(c.opts.MaxScale, s))
}

// BeginPan starts a drag at screen point p.
func (c *Controller) BeginPan(p Point) {
	c.dragging = true
	c.anchor = Point{X: p.X - c.transform.TranslateX, Y: p.Y - c.transform.TranslateY}
}

// MovePan moves the scene with the pointer. Moves outside a drag are ignored.
func (c *Controller) MovePan(p Point) bool {
	if !c.dragging {
		return false
	}
	c.transform.TranslateX = p.X - c.anchor.X
	c.transform.TranslateY = p.Y - c.anchor.Y
	return true
}

// EndPan finishes the drag. Further moves are ignored until the next BeginPan.
func (c *Controller) EndPan() {
	c.dragging = false
	c.anchor = Point{}
}

// PanBy shifts the translation by a screen-space delta.
func (c *Controller) PanBy(dx, dy float64) {
	c.transform.TranslateX += dx
	c.transform.TranslateY += dy
}

// Reset returns to the identity transform and cancels any drag.
func (c *Controller) Reset() {
	c.transform = Identity()
	c.EndPan()
}
