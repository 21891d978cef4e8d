package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/dd0wney/drugnet/pkg/viewport"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

// SVGOptions controls optional decorations.
type SVGOptions struct {
	Title  string
	Labels bool // draw node labels
	Badges bool // draw "N% similar" under neighbours
}

// SVG writes scene as a standalone SVG document. The whole scene sits in one
// transformed group, so pan and zoom never touch per-element coordinates.
func SVG(w io.Writer, scene *Scene, tr viewport.Transform, opts SVGOptions) error {
	ew := &errWriter{w: w}
	width, height := int(math.Round(scene.Width)), int(math.Round(scene.Height))
	p := scene.Palette

	canvas := svg.New(ew)
	canvas.Start(width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	canvas.Def()
	canvas.Filter("glow")
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic", Result: "blur"}, 4, 4)
	canvas.FeMerge([]string{"blur", "SourceGraphic"})
	canvas.Fend()
	canvas.DefEnd()

	canvas.Rect(0, 0, width, height, "fill:"+p.Background)

	if tr.Scale == 0 {
		tr = viewport.Identity()
	}
	canvas.Gtransform(fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", tr.TranslateX, tr.TranslateY, tr.Scale))

	for _, e := range scene.Edges {
		canvas.Line(px(e.From.X), px(e.From.Y), px(e.To.X), px(e.To.Y),
			fmt.Sprintf("stroke:%s;stroke-width:%.2f;stroke-opacity:%.2f", e.Style.Stroke, e.Style.Width, e.Style.Opacity))
	}

	for _, n := range scene.Nodes {
		drawNodeSVG(canvas, n, p, opts)
	}

	canvas.Gend()
	canvas.End()
	return ew.err
}

func drawNodeSVG(canvas *svg.SVG, n NodeView, p visualization.Palette, opts SVGOptions) {
	x, y, r := px(n.Position.X), px(n.Position.Y), px(n.Style.Radius)

	style := fmt.Sprintf("fill:%s;fill-opacity:%.2f", n.Style.Fill, n.Style.Opacity)
	if n.Style.Glow {
		style += ";stroke:#ffffff;stroke-width:2;filter:url(#glow)"
	}
	canvas.Circle(x, y, r, fmt.Sprintf(`id="node-%s" style="%s"`, svgEscape(n.ID), style))

	if opts.Labels {
		canvas.Text(x, y+r+14, n.Label,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:system-ui,sans-serif;text-anchor:middle", p.Label))
	}
	if opts.Badges && n.HasSimilarity {
		canvas.Text(x, y+r+28, visualization.FormatSimilarity(n.Similarity),
			fmt.Sprintf("fill:%s;font-size:10px;font-family:system-ui,sans-serif;text-anchor:middle", n.Style.Fill))
	}
}

func px(v float64) int {
	return int(math.Round(v))
}

func svgEscape(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '"', '<', '>', '&', '\'', ' ':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// errWriter keeps the first write error; svgo itself ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
