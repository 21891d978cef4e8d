// Package selection holds the focus/hover state machine.
//
// The focus drives layout; hover only drives emphasis. The two are
// independent: no hover change ever touches the focus.
package selection

// Mode is the selection state.
type Mode int

const (
	Overview Mode = iota
	Focused
)

func (m Mode) String() string {
	if m == Focused {
		return "focused"
	}
	return "overview"
}

// Transition describes one focus change. Changed is false when the event left
// the focus where it was.
type Transition struct {
	From    string
	To      string
	Changed bool
}

// State is the current focus and hover. The zero value is Overview with no
// hover.
type State struct {
	focus string
	hover string
}

// Mode returns Focused when a focus is set.
func (s *State) Mode() Mode {
	if s.focus != "" {
		return Focused
	}
	return Overview
}

// Focus returns the focused node id, or "" in Overview.
func (s *State) Focus() string {
	return s.focus
}

// Hover returns the hovered node id, or "".
func (s *State) Hover() string {
	return s.hover
}

// Click handles a click on node id. Clicking the focused node returns to
// Overview; clicking any other node focuses it directly.
func (s *State) Click(id string) Transition {
	if id == "" {
		return s.set(s.focus)
	}
	if id == s.focus {
		return s.set("")
	}
	return s.set(id)
}

// Request focuses id on behalf of an external caller such as a search box.
// Unlike Click it never toggles back to Overview.
func (s *State) Request(id string) Transition {
	if id == "" {
		return s.set(s.focus)
	}
	return s.set(id)
}

// Clear returns to Overview.
func (s *State) Clear() Transition {
	return s.set("")
}

// SetHover records the hovered node. It reports whether the hover changed.
func (s *State) SetHover(id string) bool {
	if s.hover == id {
		return false
	}
	s.hover = id
	return true
}

// ClearHover drops the hover.
func (s *State) ClearHover() bool {
	return s.SetHover("")
}

func (s *State) set(focus string) Transition {
	t := Transition{From: s.focus, To: focus, Changed: s.focus != focus}
	s.focus = focus
	return t
}
