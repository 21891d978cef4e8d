package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/drugnet/pkg/catalog"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case datasetMsg:
		m.loading = false
		if msg.err != nil {
			m.setError("load failed", msg.err)
			break
		}
		m.catalog = msg.dataset.Catalog
		m.explorer.SetSnapshot(msg.dataset.Snapshot)
		m.setMessage(fmt.Sprintf("loaded %d drugs from %s", m.catalog.Len(), m.source.Name()))

	case snapshotMsg:
		if msg.threshold != m.threshold {
			// superseded by a later key press
			break
		}
		m.loading = false
		if msg.err != nil {
			m.setError("network reload failed", msg.err)
			break
		}
		m.explorer.SetSnapshot(msg.snapshot)
		m.message = ""

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if m.searching {
			cmd = m.handleSearchKey(msg)
		} else {
			cmd = m.handleKey(msg)
		}
	}

	m.syncFocus()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	e := m.explorer
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.cursor = 0
		m.results = nil
		m.searchInput.SetValue("")
		return m.searchInput.Focus()

	case key.Matches(msg, m.keys.Clear):
		e.ClearFocus()

	case key.Matches(msg, m.keys.Next):
		if n := len(e.Neighbors()); n > 0 {
			m.cursor = (m.cursor + 1) % n
		}

	case key.Matches(msg, m.keys.Prev):
		if n := len(e.Neighbors()); n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}

	case key.Matches(msg, m.keys.Select):
		neighbors := e.Neighbors()
		if m.cursor < len(neighbors) {
			e.RequestFocus(neighbors[m.cursor].ID)
		}

	case key.Matches(msg, m.keys.ThresholdUp):
		return m.setThreshold(m.threshold + ThresholdStep)

	case key.Matches(msg, m.keys.ThresholdDown):
		return m.setThreshold(m.threshold - ThresholdStep)

	case key.Matches(msg, m.keys.ZoomIn):
		e.Zoom(m.cfg.Viewport.ZoomIn)

	case key.Matches(msg, m.keys.ZoomOut):
		e.Zoom(m.cfg.Viewport.ZoomOut)

	case key.Matches(msg, m.keys.Reset):
		e.ResetViewport()

	case key.Matches(msg, m.keys.Up):
		e.Pan(0, -PanStep)

	case key.Matches(msg, m.keys.Down):
		e.Pan(0, PanStep)

	case key.Matches(msg, m.keys.Left):
		e.Pan(-PanStep, 0)

	case key.Matches(msg, m.keys.Right):
		e.Pan(PanStep, 0)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit

	case tea.KeyEsc:
		m.endSearch()
		return nil

	case tea.KeyEnter:
		if d, ok := m.pickResult(); ok {
			m.explorer.RequestFocus(d.ID)
			m.setMessage("focused " + d.Name)
		} else if q := m.searchInput.Value(); q != "" {
			m.message = fmt.Sprintf("no drug matches %q", q)
			m.messageErr = true
		}
		m.endSearch()
		return nil

	case tea.KeyUp, tea.KeyShiftTab:
		if m.cursor > 0 {
			m.cursor--
		}
		return nil

	case tea.KeyDown, tea.KeyTab:
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
		return nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.results = m.search(m.searchInput.Value())
	m.cursor = 0
	return cmd
}

// search ranks names fuzzily and falls back to substring matches on the
// mechanism when no name matches.
func (m *Model) search(query string) []catalog.Drug {
	if query == "" {
		return nil
	}
	results := m.catalog.Fuzzy(query, maxSearchResults)
	if len(results) == 0 {
		results = m.catalog.Search(query)
	}
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}

func (m *Model) pickResult() (catalog.Drug, bool) {
	if m.cursor < len(m.results) {
		return m.results[m.cursor], true
	}
	return m.catalog.Lookup(m.searchInput.Value())
}

func (m *Model) endSearch() {
	m.searching = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.results = nil
	m.cursor = 0
}

// syncFocus resets the similar-list cursor whenever the focus moves.
func (m *Model) syncFocus() {
	if f := m.explorer.Focus(); f != m.focus {
		m.focus = f
		if !m.searching {
			m.cursor = 0
		}
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.term == nil {
		return
	}
	e := m.explorer

	col, row := msg.X, msg.Y-headerHeight
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		if m.inCanvas {
			e.PointerLeave()
			m.inCanvas = false
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.clickPanel(msg.X, msg.Y)
		}
		return
	}
	m.inCanvas = true
	p := m.term.CellToCanvas(col, row)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		e.Wheel(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		e.Wheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		e.PointerDown(p)
	case msg.Action == tea.MouseActionRelease:
		e.PointerUp(p)
	case msg.Action == tea.MouseActionMotion:
		e.PointerMove(p)
	}
}

// clickPanel focuses the similar drug drawn at screen cell (x, y), if any.
func (m *Model) clickPanel(x, y int) {
	if m.searching || x <= m.cols {
		return
	}
	lines, first := m.panelLines()
	i := y - headerHeight - 1 - first // 1 for the panel border
	neighbors := m.explorer.Neighbors()
	if first < 0 || i < 0 || i >= len(neighbors) || first+i >= len(lines) {
		return
	}
	m.explorer.RequestFocus(neighbors[i].ID)
}
