package tui

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/drugnet/pkg/config"
	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/viewport"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = update(t, m, msg)
	}
	return m
}

func newLoadedModel(t *testing.T, src datasource.Source) Model {
	t.Helper()
	m := New(Options{Source: src, Config: config.Default()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, m.Init()())
	require.False(t, m.loading)
	return m
}

// screenCell finds the terminal cell a node is drawn in.
func screenCell(t *testing.T, m Model, id string) (x, y int) {
	t.Helper()
	n, ok := m.explorer.Scene().Node(id)
	require.True(t, ok, "%s not in scene", id)
	col, row := m.term.CanvasToCell(m.explorer.Transform().ToScreen(viewport.Point{X: n.Position.X, Y: n.Position.Y}))
	return col, row + headerHeight
}

func TestModel_LoadsDataset(t *testing.T) {
	m := New(Options{Source: datasource.NewMock()})
	assert.Equal(t, "Initializing...", m.View())

	m = newLoadedModel(t, datasource.NewMock())
	assert.Equal(t, 15, m.catalog.Len())
	assert.Equal(t, 15, m.explorer.Snapshot().Len())
	assert.Equal(t, 18, m.explorer.Snapshot().Stats().Edges)

	view := m.View()
	assert.Contains(t, view, "drugnet")
	assert.Contains(t, view, "Connections")
	assert.Contains(t, view, "≥50%")
	assert.Contains(t, view, "Overview")
}

func TestModel_LoadError(t *testing.T) {
	m := New(Options{Source: datasource.NewMock()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, datasetMsg{err: errors.New("connection refused")})

	assert.True(t, m.messageErr)
	assert.Contains(t, m.View(), "connection refused")
	assert.Equal(t, 0, m.explorer.Snapshot().Len())
}

func TestModel_ThresholdKeys(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	require.NotNil(t, cmd)
	assert.Equal(t, 0.55, m.Threshold())
	assert.True(t, m.loading)

	m, _ = update(t, m, cmd())
	assert.False(t, m.loading)
	assert.Equal(t, 0.55, m.explorer.Snapshot().Threshold())

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	require.NotNil(t, cmd)
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	assert.Equal(t, 0.45, m.Threshold())
	m, _ = update(t, m, cmd())
	assert.Equal(t, 0.45, m.explorer.Snapshot().Threshold())
}

func TestModel_ThresholdClamps(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	m.threshold = 1

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	assert.Nil(t, cmd)
	assert.Equal(t, 1.0, m.Threshold())

	m.threshold = 0
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	assert.Nil(t, cmd)
	assert.Equal(t, 0.0, m.Threshold())
}

func TestModel_StaleSnapshotIgnored(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	stale, err := graph.NewSnapshot(0.9, nil, nil)
	require.NoError(t, err)

	m, _ = update(t, m, snapshotMsg{threshold: 0.9, snapshot: stale})
	assert.Equal(t, 15, m.explorer.Snapshot().Len())

	m, _ = update(t, m, snapshotMsg{threshold: m.threshold, err: errors.New("timeout")})
	assert.True(t, m.messageErr)
	assert.Equal(t, 15, m.explorer.Snapshot().Len())
}

func TestModel_SearchFocuses(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())

	m = press(t, m, "/")
	require.True(t, m.searching)
	m = press(t, m, "i", "m", "a", "t")
	require.NotEmpty(t, m.results)
	assert.Equal(t, "drug_001", m.results[0].ID)
	assert.Contains(t, m.View(), "Imatinib")

	m = press(t, m, "enter")
	assert.False(t, m.searching)
	assert.Equal(t, "drug_001", m.explorer.Focus())
	assert.Equal(t, visualization.ModeFocal, m.explorer.Mode())
	assert.Contains(t, m.View(), "Similar drugs (4)")
}

func TestModel_SearchByMechanism(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())

	// No name contains h-d-a-c in order, so the mechanism search answers.
	m = press(t, m, "/", "h", "d", "a", "c")
	require.Len(t, m.results, 2)
	assert.Equal(t, "Belinostat", m.results[0].Name)
	assert.Equal(t, "Vorinostat", m.results[1].Name)

	m = press(t, m, "down", "enter")
	assert.Equal(t, "drug_007", m.explorer.Focus())
}

func TestModel_SearchEscapeKeepsFocus(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	m.explorer.RequestFocus("drug_004")

	m = press(t, m, "/", "q", "esc")
	assert.False(t, m.searching)
	assert.Equal(t, "drug_004", m.explorer.Focus())

	m = press(t, m, "/", "z", "z", "z", "z", "enter")
	assert.True(t, m.messageErr)
	assert.Equal(t, "drug_004", m.explorer.Focus())
}

func TestModel_SimilarList(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	m.explorer.RequestFocus("drug_001")
	m, _ = update(t, m, nil)

	neighbors := m.explorer.Neighbors()
	require.Len(t, neighbors, 4)
	assert.Equal(t, "drug_011", neighbors[0].ID)

	m = press(t, m, "tab")
	assert.Equal(t, 1, m.cursor)
	m = press(t, m, "enter")
	assert.Equal(t, "drug_012", m.explorer.Focus())
	assert.Equal(t, 0, m.cursor)

	assert.Contains(t, m.View(), "91% similar")
}

func TestModel_PanelLinksPubChem(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	m.explorer.RequestFocus("drug_001")
	m, _ = update(t, m, nil)

	lines, first := m.panelLines()
	panel := strings.Join(lines, "\n")
	require.Contains(t, panel, "pubchem")
	for _, part := range chunk("https://pubchem.ncbi.nlm.nih.gov/compound/Imatinib", panelWidth-4) {
		assert.Contains(t, panel, part)
	}

	// The link sits above the similar list and does not shift click targets.
	y := headerHeight + 1 + first
	m, _ = update(t, m, tea.MouseMsg{X: m.cols + 5, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "drug_011", m.explorer.Focus())
}

func TestModel_ClickSimilarInPanel(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	m.explorer.RequestFocus("drug_001")
	m, _ = update(t, m, nil)

	_, first := m.panelLines()
	require.GreaterOrEqual(t, first, 0)

	y := headerHeight + 1 + first + 2 // third entry
	m, _ = update(t, m, tea.MouseMsg{X: m.cols + 5, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "drug_009", m.explorer.Focus())
}

func TestModel_MouseClickNode(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	x, y := screenCell(t, m, "drug_004")

	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.Equal(t, "drug_004", m.explorer.Hovered())

	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, "drug_004", m.explorer.Focus())
	assert.Contains(t, m.View(), "focus: Rapamycin")

	// Leaving the canvas clears the hover.
	m, _ = update(t, m, tea.MouseMsg{X: m.cols + 3, Y: y, Action: tea.MouseActionMotion})
	assert.Equal(t, "", m.explorer.Hovered())
}

func TestModel_MouseDragPans(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())

	// The top-left cell is empty canvas in the overview circle.
	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: headerHeight, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, m.explorer.Dragging())
	m, _ = update(t, m, tea.MouseMsg{X: 4, Y: headerHeight + 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 4, Y: headerHeight + 2, Action: tea.MouseActionRelease})

	tr := m.explorer.Transform()
	assert.Greater(t, tr.TranslateX, 0.0)
	assert.Greater(t, tr.TranslateY, 0.0)
	assert.False(t, m.explorer.Dragging())
	assert.Equal(t, "", m.explorer.Focus())
}

func TestModel_ZoomAndPanKeys(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())

	m = press(t, m, "+")
	assert.InDelta(t, 1.1, m.explorer.Transform().Scale, 1e-9)
	assert.Contains(t, m.View(), "zoom 110%")

	m = press(t, m, "-", "-")
	assert.InDelta(t, 1.1*0.9*0.9, m.explorer.Transform().Scale, 1e-9)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, PanStep, m.explorer.Transform().TranslateX)

	m = press(t, m, "r")
	assert.Equal(t, viewport.Identity(), m.explorer.Transform())
}

func TestModel_WheelZoom(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.InDelta(t, 1.1, m.explorer.Transform().Scale, 1e-9)
	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.InDelta(t, 0.99, m.explorer.Transform().Scale, 1e-9)
}

func TestModel_EscClearsFocus(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	m.explorer.RequestFocus("drug_002")

	m = press(t, m, "esc")
	assert.Equal(t, "", m.explorer.Focus())
	assert.Equal(t, visualization.ModeOverview, m.explorer.Mode())
}

func TestModel_FocusLostAfterThreshold(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())
	m.explorer.RequestFocus("drug_015")

	m.threshold = 0.95
	m, _ = update(t, m, m.loadNetwork(0.96)())
	assert.Equal(t, 0.5, m.explorer.Snapshot().Threshold(), "stale reload applied")

	m.threshold = 0.96
	m, _ = update(t, m, m.loadNetwork(0.96)())
	assert.Equal(t, "drug_015", m.explorer.Focus())
	assert.Empty(t, m.explorer.Neighbors())
	assert.Contains(t, m.View(), "none above threshold")
}

func TestModel_HelpToggleAndQuit(t *testing.T) {
	m := newLoadedModel(t, datasource.NewMock())

	m = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "reset view")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_LogsThresholdChanges(t *testing.T) {
	var buf bytes.Buffer
	m := New(Options{
		Source: datasource.NewMock(),
		Logger: logging.NewJSONLogger(&buf, logging.InfoLevel),
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	press(t, m, "]")

	assert.True(t, strings.Contains(buf.String(), `"threshold changed"`))
	assert.True(t, strings.Contains(buf.String(), `"component":"tui"`))
}

func TestModel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(Options{Source: datasource.NewMock(), Context: ctx})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, m.Init()())
	assert.True(t, m.messageErr)
}

func TestChunk(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want []string
	}{
		{"abcdef", 4, []string{"abcd", "ef"}},
		{"abcd", 4, []string{"abcd"}},
		{"ab", 0, nil},
		{"", 4, nil},
	}
	for _, tt := range tests {
		if got := chunk(tt.in, tt.n); !slices.Equal(got, tt.want) {
			t.Errorf("chunk(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Imatinib", 20, "Imatinib"},
		{"Imatinib", 5, "Imat…"},
		{"Imatinib", 1, "…"},
		{"Imatinib", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
