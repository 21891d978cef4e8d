package explorer

import (
	"github.com/dd0wney/drugnet/pkg/viewport"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

// NodeAt hit tests a screen point against the current scene. The point is
// mapped to model space first, so the answer holds at any pan or zoom.
func (e *Explorer) NodeAt(p viewport.Point) (string, bool) {
	tr := e.view.Transform()
	m := tr.ToModel(p)
	slack := 0.0
	if e.hitSlack > 0 && tr.Scale > 0 {
		slack = e.hitSlack / tr.Scale
	}
	return e.scene.HitTestRadius(visualization.Position{X: m.X, Y: m.Y}, slack)
}

// SetHitSlack changes the screen-space tolerance used by NodeAt, for example
// after a terminal resize changes the cell size.
func (e *Explorer) SetHitSlack(slack float64) {
	e.hitSlack = max(slack, 0)
}

// PointerDown starts a gesture. A press on a node arms a click; a press on
// empty canvas starts a pan.
func (e *Explorer) PointerDown(p viewport.Point) {
	if id, ok := e.NodeAt(p); ok {
		e.pressed = id
		return
	}
	e.pressed = ""
	e.view.BeginPan(p)
}

// PointerMove pans during a drag and tracks hover otherwise. It reports
// whether anything visible changed.
func (e *Explorer) PointerMove(p viewport.Point) bool {
	if e.view.Dragging() {
		return e.view.MovePan(p)
	}
	id, _ := e.NodeAt(p)
	return e.Hover(id)
}

// PointerUp ends a gesture. Releasing over the node that was pressed counts
// as a click on it.
func (e *Explorer) PointerUp(p viewport.Point) bool {
	if e.view.Dragging() {
		e.view.EndPan()
		return false
	}
	pressed := e.pressed
	e.pressed = ""
	if pressed == "" {
		return false
	}
	if id, ok := e.NodeAt(p); ok && id == pressed {
		return e.Click(id).Changed
	}
	return false
}

// PointerLeave cancels any gesture and clears the hover.
func (e *Explorer) PointerLeave() bool {
	e.view.EndPan()
	e.pressed = ""
	return e.Hover("")
}

// Wheel zooms by one wheel step.
func (e *Explorer) Wheel(deltaY float64) bool {
	return e.zoomed(e.view.Wheel(deltaY))
}

// Zoom multiplies the scale by factor, within the configured bounds.
func (e *Explorer) Zoom(factor float64) bool {
	return e.zoomed(e.view.ZoomBy(factor))
}

func (e *Explorer) zoomed(changed bool) bool {
	if changed {
		e.recorder.SetViewportScale(e.view.Transform().Scale)
	}
	return changed
}

// Pan shifts the view by a screen-space delta.
func (e *Explorer) Pan(dx, dy float64) {
	e.view.PanBy(dx, dy)
}

// ResetViewport returns to the identity transform.
func (e *Explorer) ResetViewport() {
	e.view.Reset()
	e.recorder.SetViewportScale(e.view.Transform().Scale)
}

// Dragging reports whether a pan is in progress.
func (e *Explorer) Dragging() bool {
	return e.view.Dragging()
}
