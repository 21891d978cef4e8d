package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/explorer"
	"github.com/dd0wney/drugnet/pkg/render"
)

type renderOptions struct {
	out      string
	focus    string
	hover    string
	zoom     float64
	noLabels bool
	noBadges bool
	ascii    bool
	cols     int
	rows     int
}

func renderCmd(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the network as SVG or as terminal text",
		Example: "  drugnet render -o network.svg\n" +
			"  drugnet render --focus imatinib --threshold 0.7 -o imatinib.svg\n" +
			"  drugnet render --ascii --cols 100 --rows 36",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.zoom <= 0 {
				return fmt.Errorf("--zoom must be positive, got %g", opts.zoom)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			src, err := openSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd.Context(), cfg)
			defer cancel()
			ds, err := datasource.Load(ctx, src, cfg.Data.Threshold)
			if err != nil {
				return err
			}

			e := explorer.New(explorer.Options{
				Layout:   cfg.Canvas.Layout(),
				Viewport: cfg.Viewport,
				Palette:  cfg.Palette,
			})
			e.SetSnapshot(ds.Snapshot)
			if opts.focus != "" {
				d, ok := ds.Catalog.Lookup(opts.focus)
				if !ok {
					return fmt.Errorf("unknown drug %q", opts.focus)
				}
				e.RequestFocus(d.ID)
			}
			if opts.hover != "" {
				if d, ok := ds.Catalog.Lookup(opts.hover); ok {
					e.Hover(d.ID)
				}
			}
			if opts.zoom != 1 {
				e.Zoom(opts.zoom)
			}

			w := cmd.OutOrStdout()
			if opts.out != "" && opts.out != "-" {
				f, err := os.Create(opts.out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if err := writeRender(w, e, opts); err != nil {
				return err
			}
			if opts.out != "" && opts.out != "-" {
				good.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s, %d drugs)\n", opts.out, e.Mode(), len(e.Scene().Nodes))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "-", "output file, - for stdout")
	f.StringVar(&opts.focus, "focus", "", "drug id or name to focus")
	f.StringVar(&opts.hover, "hover", "", "drug id or name to highlight")
	f.Float64Var(&opts.zoom, "zoom", 1, "zoom factor, clamped to the viewport limits")
	f.BoolVar(&opts.noLabels, "no-labels", false, "omit node labels (SVG only)")
	f.BoolVar(&opts.noBadges, "no-badges", false, "omit similarity badges (SVG only)")
	f.BoolVar(&opts.ascii, "ascii", false, "draw on a character grid instead of SVG")
	f.IntVar(&opts.cols, "cols", 100, "grid width for --ascii")
	f.IntVar(&opts.rows, "rows", 36, "grid height for --ascii")
	return cmd
}

func writeRender(w io.Writer, e *explorer.Explorer, opts renderOptions) error {
	scene := e.Scene()
	if opts.ascii {
		term := render.NewTerminal(opts.cols, opts.rows, scene.Width, scene.Height)
		_, err := fmt.Fprintln(w, term.Render(scene, e.Transform()))
		return err
	}
	return render.SVG(w, scene, e.Transform(), render.SVGOptions{
		Title:  "drugnet",
		Labels: !opts.noLabels,
		Badges: !opts.noBadges,
	})
}
