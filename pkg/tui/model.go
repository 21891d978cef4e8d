// Package tui is the interactive terminal dashboard. It drives an
// explorer.Explorer from bubbletea key and mouse events and draws the scene
// with the character-grid renderer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/config"
	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/explorer"
	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/render"
	"github.com/dd0wney/drugnet/pkg/validation"
)

// Screen geometry, in character cells.
const (
	headerHeight = 2
	footerHeight = 3
	panelWidth   = 36
	minCols      = 20
	minRows      = 8

	// ThresholdStep is the threshold change per key press.
	ThresholdStep = 0.05
	// PanStep is the keyboard pan distance in canvas units.
	PanStep = 25.0

	maxSearchResults = 8
)

// Options configures the dashboard.
type Options struct {
	Source  datasource.Source
	Config  *config.Config
	Logger  logging.Logger
	Context context.Context
}

type datasetMsg struct {
	dataset *datasource.Dataset
	err     error
}

type snapshotMsg struct {
	threshold float64
	snapshot  *graph.Snapshot
	err       error
}

// Model is the bubbletea model. The explorer it points to is only touched
// from Update.
type Model struct {
	ctx      context.Context
	source   datasource.Source
	cfg      *config.Config
	logger   logging.Logger
	explorer *explorer.Explorer
	catalog  *catalog.Catalog
	term     *render.Terminal

	threshold float64
	loading   bool

	searchInput textinput.Model
	searching   bool
	results     []catalog.Drug

	// cursor indexes the similar list, or the search results while
	// searching.
	cursor int
	focus  string

	// whether the pointer was over the canvas on the last mouse event
	inCanvas bool

	help help.Model
	keys keyMap

	width, height int
	cols, rows    int

	message    string
	messageErr bool
}

// New creates the dashboard model. Nothing is fetched until Init runs.
func New(opts Options) Model {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	logger := opts.Logger.With(logging.Component("tui"))

	ti := textinput.New()
	ti.Placeholder = "drug name or mechanism"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = panelWidth - 6

	cat, _ := catalog.New(nil)
	return Model{
		ctx:    opts.Context,
		source: opts.Source,
		cfg:    opts.Config,
		logger: logger,
		explorer: explorer.New(explorer.Options{
			Layout:   opts.Config.Canvas.Layout(),
			Viewport: opts.Config.Viewport,
			Palette:  opts.Config.Palette,
			Logger:   logger,
		}),
		catalog:     cat,
		threshold:   opts.Config.Data.Threshold,
		loading:     true,
		searchInput: ti,
		help:        help.New(),
		keys:        keys,
	}
}

// Run starts the dashboard on the alternate screen with mouse tracking and
// blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts.Context = ctx
	p := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadDataset()
}

// Explorer exposes the engine, mainly for tests.
func (m Model) Explorer() *explorer.Explorer {
	return m.explorer
}

// Threshold is the similarity threshold currently requested.
func (m Model) Threshold() float64 {
	return m.threshold
}

func (m Model) fetchContext() (context.Context, context.CancelFunc) {
	if m.cfg.Data.Timeout > 0 {
		return context.WithTimeout(m.ctx, m.cfg.Data.Timeout)
	}
	return context.WithCancel(m.ctx)
}

// loadDataset fetches the catalog and the network in one go.
func (m Model) loadDataset() tea.Cmd {
	src, threshold := m.source, m.threshold
	return func() tea.Msg {
		ctx, cancel := m.fetchContext()
		defer cancel()
		ds, err := datasource.Load(ctx, src, threshold)
		return datasetMsg{dataset: ds, err: err}
	}
}

// loadNetwork re-fetches the network after a threshold change.
func (m Model) loadNetwork(threshold float64) tea.Cmd {
	src := m.source
	return func() tea.Msg {
		ctx, cancel := m.fetchContext()
		defer cancel()
		snap, err := src.Network(ctx, threshold)
		return snapshotMsg{threshold: threshold, snapshot: snap, err: err}
	}
}

// setThreshold clamps and snaps t to the step grid and, if it moved, asks
// for a new network.
func (m *Model) setThreshold(t float64) tea.Cmd {
	t = math.Round(t/ThresholdStep) * ThresholdStep
	t = math.Round(validation.ClampFloat(t, 0, 1)*100) / 100
	if t == m.threshold {
		return nil
	}
	m.threshold = t
	m.loading = true
	m.logger.Info("threshold changed", logging.Threshold(t))
	return m.loadNetwork(t)
}

func (m *Model) setError(msg string, err error) {
	m.message = fmt.Sprintf("%s: %v", msg, err)
	m.messageErr = true
	m.logger.Error(msg, logging.Error(err))
}

func (m *Model) setMessage(msg string) {
	m.message = msg
	m.messageErr = false
}

// resize recomputes the canvas grid for a new window size.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.cols = max(width-panelWidth-1, minCols)
	m.rows = max(height-headerHeight-footerHeight, minRows)

	scene := m.explorer.Scene()
	m.term = render.NewTerminal(m.cols, m.rows, scene.Width, scene.Height)
	m.explorer.SetHitSlack(m.term.CellSlack(1))
}
