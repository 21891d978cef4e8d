// Package explorer is the interactive core: it owns the current snapshot,
// selection and viewport, and re-runs layout and encoding whenever one of
// them changes.
//
// Every mutator finishes the whole pipeline before it returns, so callers
// never observe new positions with a stale viewport or the reverse. An
// Explorer is driven from a single goroutine and does no locking.
package explorer

import (
	"time"

	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/render"
	"github.com/dd0wney/drugnet/pkg/selection"
	"github.com/dd0wney/drugnet/pkg/viewport"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

// FocusListener is told about every transition that changed the focus.
type FocusListener func(selection.Transition)

// Explorer is the stateful visualization engine.
type Explorer struct {
	engine   *visualization.LayoutEngine
	encoder  *visualization.Encoder
	view     *viewport.Controller
	sel      selection.State
	hitSlack float64

	snapshot *graph.Snapshot
	layout   *visualization.Layout
	scene    *render.Scene

	// node under the last PointerDown, if any
	pressed string

	listeners []FocusListener
	logger    logging.Logger
	recorder  Recorder
}

// New creates an Explorer showing an empty snapshot.
func New(opts Options) *Explorer {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	e := &Explorer{
		engine:   visualization.NewLayoutEngine(opts.Layout),
		encoder:  visualization.NewEncoder(opts.Palette),
		view:     viewport.NewController(opts.Viewport),
		hitSlack: opts.HitSlack,
		snapshot: graph.Empty(),
		logger:   opts.Logger.With(logging.Component("explorer")),
		recorder: opts.Recorder,
	}
	e.relayout()
	e.recorder.SetViewportScale(e.view.Transform().Scale)
	return e
}

// SetSnapshot replaces the graph. Layout and encoding are recomputed and the
// selection is left alone. A focus that is missing from the new snapshot
// stays selected but renders as overview until it reappears. The viewport
// resets only when the effective focus changes.
func (e *Explorer) SetSnapshot(s *graph.Snapshot) {
	if s == nil {
		s = graph.Empty()
	}
	prev := e.layout.Focus
	e.snapshot = s
	e.relayout()
	if e.layout.Focus != prev {
		e.view.Reset()
		e.recorder.SetViewportScale(e.view.Transform().Scale)
	}

	e.logger.Debug("snapshot replaced",
		logging.Count(s.Len()),
		logging.Int("edges", len(s.Edges())),
		logging.Threshold(s.Threshold()),
		logging.Mode(e.layout.Mode.String()),
	)
}

// Click handles a click on node id: focus it, or return to overview when it
// is already the focus.
func (e *Explorer) Click(id string) selection.Transition {
	return e.applyFocus(e.sel.Click(id))
}

// RequestFocus focuses id on behalf of a search box or a similar-drug list.
// It never toggles.
func (e *Explorer) RequestFocus(id string) selection.Transition {
	return e.applyFocus(e.sel.Request(id))
}

// ClearFocus returns to overview.
func (e *Explorer) ClearFocus() selection.Transition {
	return e.applyFocus(e.sel.Clear())
}

// Hover sets the hovered node; "" clears it. Only the scene is rebuilt.
func (e *Explorer) Hover(id string) bool {
	if !e.sel.SetHover(id) {
		return false
	}
	e.rebuildScene()
	return true
}

// applyFocus runs layout, encoding and viewport reset, in that order, for a
// transition that changed the focus.
func (e *Explorer) applyFocus(t selection.Transition) selection.Transition {
	if !t.Changed {
		return t
	}
	e.relayout()
	e.view.Reset()
	e.recorder.SetViewportScale(e.view.Transform().Scale)
	e.recorder.RecordFocusChange(e.sel.Mode().String())

	e.logger.Debug("focus changed",
		logging.String("from", t.From),
		logging.NodeID(t.To),
		logging.Mode(e.layout.Mode.String()),
		logging.Int("neighbors", len(e.layout.Neighbors)),
	)

	for _, fn := range e.listeners {
		fn(t)
	}
	return t
}

func (e *Explorer) relayout() {
	start := time.Now()
	e.layout = e.engine.Compute(e.snapshot, e.sel.Focus())
	e.recorder.ObserveLayout(e.layout.Mode.String(), time.Since(start))
	e.rebuildScene()
}

func (e *Explorer) rebuildScene() {
	e.scene = render.BuildScene(e.snapshot, e.layout, e.sel.Hover(), e.encoder)
	e.recorder.SetScene(len(e.scene.Nodes), len(e.scene.Edges))
}

// OnFocusChange registers fn to run after each focus change, once the new
// layout and the reset viewport are in place.
func (e *Explorer) OnFocusChange(fn FocusListener) {
	e.listeners = append(e.listeners, fn)
}

// Snapshot returns the current graph.
func (e *Explorer) Snapshot() *graph.Snapshot {
	return e.snapshot
}

// Scene returns the current drawable scene. Treat it as read-only.
func (e *Explorer) Scene() *render.Scene {
	return e.scene
}

// Layout returns the current layout. Treat it as read-only.
func (e *Explorer) Layout() *visualization.Layout {
	return e.layout
}

// Transform returns the current viewport transform.
func (e *Explorer) Transform() viewport.Transform {
	return e.view.Transform()
}

// Focus returns the effective focus: the selected node when it exists in the
// snapshot, otherwise "".
func (e *Explorer) Focus() string {
	return e.layout.Focus
}

// Selected returns the selected node id even when the current snapshot does
// not contain it.
func (e *Explorer) Selected() string {
	return e.sel.Focus()
}

// Hovered returns the hovered node id.
func (e *Explorer) Hovered() string {
	return e.sel.Hover()
}

// Mode reports whether a focus is in effect.
func (e *Explorer) Mode() visualization.Mode {
	return e.layout.Mode
}

// Neighbors lists the focus's neighbours, most similar first.
func (e *Explorer) Neighbors() []visualization.Neighbor {
	out := make([]visualization.Neighbor, len(e.layout.Neighbors))
	copy(out, e.layout.Neighbors)
	return out
}

// NeighborSimilarity returns the similarity of id to the focus, for
// "N% similar" badges.
func (e *Explorer) NeighborSimilarity(id string) (float64, bool) {
	return e.layout.Similarity(id)
}
