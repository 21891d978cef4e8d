package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dd0wney/drugnet/pkg/viewport"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

// Glyphs used on the character grid.
const (
	GlyphNode  = '●'
	GlyphFocus = '◉'
	GlyphHover = '◍'
)

type cell struct {
	r     rune
	color string
	layer int
}

const (
	layerEmpty = iota
	layerEdge
	layerLabel
	layerNode
)

// Terminal rasterises scenes onto a cols x rows character grid that stands
// for the width x height canvas. Each cell covers Width/Cols by Height/Rows
// canvas units.
type Terminal struct {
	Cols   int
	Rows   int
	Width  float64
	Height float64
}

// NewTerminal creates a grid renderer. Non-positive sizes are raised to 1.
func NewTerminal(cols, rows int, width, height float64) *Terminal {
	return &Terminal{
		Cols:   max(cols, 1),
		Rows:   max(rows, 1),
		Width:  width,
		Height: height,
	}
}

func (t *Terminal) cellW() float64 { return t.Width / float64(t.Cols) }
func (t *Terminal) cellH() float64 { return t.Height / float64(t.Rows) }

// CellToCanvas maps the centre of a character cell to screen-space canvas
// coordinates. Feed the result through Transform.ToModel to hit test.
func (t *Terminal) CellToCanvas(col, row int) viewport.Point {
	return viewport.Point{
		X: (float64(col) + 0.5) * t.cellW(),
		Y: (float64(row) + 0.5) * t.cellH(),
	}
}

// CanvasToCell maps a screen-space canvas point to its cell. The result may
// lie outside the grid.
func (t *Terminal) CanvasToCell(p viewport.Point) (col, row int) {
	return int(math.Floor(p.X / t.cellW())), int(math.Floor(p.Y / t.cellH()))
}

// CellSlack is the model-space radius one cell covers at scale s, used to
// make hit testing forgiving on a coarse grid.
func (t *Terminal) CellSlack(s float64) float64 {
	if s <= 0 {
		s = 1
	}
	return math.Max(t.cellW(), t.cellH()) / 2 / s
}

// Render draws scene through tr and returns the grid as styled text, one line
// per row.
func (t *Terminal) Render(scene *Scene, tr viewport.Transform) string {
	if tr.Scale == 0 {
		tr = viewport.Identity()
	}
	grid := make([][]cell, t.Rows)
	for i := range grid {
		grid[i] = make([]cell, t.Cols)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}
	bg := scene.Palette.Background

	for _, e := range scene.Edges {
		c0, r0 := t.CanvasToCell(tr.ToScreen(toPoint(e.From)))
		c1, r1 := t.CanvasToCell(tr.ToScreen(toPoint(e.To)))
		color := fade(e.Style.Stroke, bg, e.Style.Opacity)
		t.line(grid, c0, r0, c1, r1, edgeGlyph(c1-c0, r1-r0), color)
	}

	type label struct {
		col, row int
		text     string
		color    string
	}
	var labels []label
	for _, n := range scene.Nodes {
		col, row := t.CanvasToCell(tr.ToScreen(toPoint(n.Position)))
		glyph := GlyphNode
		switch {
		case n.ID == scene.Focus:
			glyph = GlyphFocus
		case n.ID == scene.Hover:
			glyph = GlyphHover
		}
		t.set(grid, col, row, cell{r: glyph, color: fade(n.Style.Fill, bg, n.Style.Opacity), layer: layerNode})

		text := n.Label
		if n.HasSimilarity {
			text += " " + visualization.FormatSimilarity(n.Similarity)
		}
		labels = append(labels, label{col: col + 2, row: row, text: text, color: scene.Palette.Label})
	}
	for _, l := range labels {
		col := l.col
		for _, r := range l.text {
			t.set(grid, col, l.row, cell{r: r, color: l.color, layer: layerLabel})
			col++
		}
	}

	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeRow(&b, row)
	}
	return b.String()
}

// set writes c unless a higher layer already owns the cell.
func (t *Terminal) set(grid [][]cell, col, row int, c cell) {
	if row < 0 || row >= t.Rows || col < 0 || col >= t.Cols {
		return
	}
	if grid[row][col].layer > c.layer {
		return
	}
	grid[row][col] = c
}

// line draws a Bresenham segment, clipped to the grid.
func (t *Terminal) line(grid [][]cell, x0, y0, x1, y1 int, glyph rune, color string) {
	// Trivially invisible: both ends beyond the same edge.
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) ||
		(x0 >= t.Cols && x1 >= t.Cols) || (y0 >= t.Rows && y1 >= t.Rows) {
		return
	}

	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	x, y := x0, y0
	if dx > dy {
		err := dx / 2
		for x != x1 {
			t.set(grid, x, y, cell{r: glyph, color: color, layer: layerEdge})
			err -= dy
			if err < 0 {
				y += sy
				err += dx
			}
			x += sx
		}
	} else {
		err := dy / 2
		for y != y1 {
			t.set(grid, x, y, cell{r: glyph, color: color, layer: layerEdge})
			err -= dx
			if err < 0 {
				x += sx
				err += dy
			}
			y += sy
		}
	}
	t.set(grid, x1, y1, cell{r: glyph, color: color, layer: layerEdge})
}

// edgeGlyph picks a line character from the segment's slope. Cells are about
// twice as tall as they are wide.
func edgeGlyph(dc, dr int) rune {
	adx, ady := math.Abs(float64(dc)), math.Abs(float64(dr))*2
	switch {
	case ady < adx/2:
		return '─'
	case adx < ady/2:
		return '│'
	case (dc > 0) == (dr > 0):
		return '╲'
	default:
		return '╱'
	}
}

// writeRow emits a row, grouping runs of equal colour into one styled span.
func writeRow(b *strings.Builder, row []cell) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].color == row[start].color {
			continue
		}
		var run strings.Builder
		for _, c := range row[start:i] {
			run.WriteRune(c.r)
		}
		if row[start].color == "" {
			b.WriteString(run.String())
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(row[start].color)).Render(run.String()))
		}
		start = i
	}
}

// fade blends fg toward bg to fake opacity on a terminal.
func fade(fg, bg string, opacity float64) string {
	f, err := colorful.Hex(fg)
	if err != nil {
		return fg
	}
	b, err := colorful.Hex(bg)
	if err != nil {
		return fg
	}
	opacity = math.Max(0, math.Min(1, opacity))
	return f.BlendRgb(b, 1-opacity).Clamped().Hex()
}

func toPoint(p visualization.Position) viewport.Point {
	return viewport.Point{X: p.X, Y: p.Y}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
