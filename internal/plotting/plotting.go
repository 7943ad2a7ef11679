// Package plotting renders λ sweeps as figures. Every figure is written
// twice, as <dir>/<stem>.pdf and <dir>/<stem>.png.
package plotting

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/nvandessel/obsim/internal/constants"
	"github.com/nvandessel/obsim/internal/pathutil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// Default figure sizes, matching matplotlib's default and the wide summary.
const (
	DefaultWidth  = 6.4 * vg.Inch
	DefaultHeight = 4.8 * vg.Inch
	SummaryWidth  = 10 * vg.Inch
	SummaryHeight = 6 * vg.Inch
)

// SummaryDPIScale multiplies the renderer DPI for the summary figure, so the
// default 300 DPI renders it at 600.
const SummaryDPIScale = 2

// legendHeadroom is the fraction of the y range added above the data when a
// figure carries a legend, keeping the top-right legend clear of the lines.
const legendHeadroom = 0.3

var (
	colorBlue   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	colorOrange = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	colorRed    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	colorGreen  = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}

	dashed  = []vg.Length{vg.Points(6), vg.Points(3)}
	dashDot = []vg.Length{vg.Points(6), vg.Points(2), vg.Points(1.5), vg.Points(2)}
)

// Series is one y sequence drawn against the figure's x values.
type Series struct {
	Label  string
	Y      []float64
	Color  color.Color
	Width  vg.Length
	Dashes []vg.Length
}

// Figure describes a line plot. Series share X.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Series []Series
	Width  vg.Length
	Height vg.Length
	Legend bool

	// DPI overrides the renderer's PNG resolution when positive.
	DPI int
}

// Renderer writes figures into Dir. PNGs are rasterized at DPI.
type Renderer struct {
	Dir string
	DPI int
}

// NewRenderer returns a renderer for dir. A non-positive dpi uses the default.
func NewRenderer(dir string, dpi int) *Renderer {
	if dpi <= 0 {
		dpi = constants.DefaultPNGDPI
	}
	return &Renderer{Dir: dir, DPI: dpi}
}

// Save renders fig to <Dir>/<stem>.pdf and <Dir>/<stem>.png, creating Dir
// if needed and overwriting existing files. It returns the written paths.
func (r *Renderer) Save(fig Figure, stem string) ([]string, error) {
	p, err := build(fig)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", stem, err)
	}

	if err := pathutil.EnsureDir(r.Dir); err != nil {
		return nil, err
	}

	w, h := fig.Width, fig.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}

	paths := pathutil.ArtifactPaths(r.Dir, stem, "pdf", "png")

	pdf := vgpdf.New(w, h)
	p.Draw(draw.New(pdf))
	if err := writeFile(paths[0], pdf); err != nil {
		return nil, err
	}

	dpi := r.DPI
	if fig.DPI > 0 {
		dpi = fig.DPI
	}
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	p.Draw(draw.New(img))
	if err := writeFile(paths[1], vgimg.PngCanvas{Canvas: img}); err != nil {
		return nil, err
	}

	return paths, nil
}

// SavePlot renders a single y series against x with a grid.
func (r *Renderer) SavePlot(x, y []float64, xlabel, ylabel, title, stem string) ([]string, error) {
	return r.Save(Figure{
		Title:  title,
		XLabel: xlabel,
		YLabel: ylabel,
		X:      x,
		Series: []Series{{Y: y, Color: colorBlue, Width: vg.Points(2)}},
	}, stem)
}

// build assembles a plot.Plot from fig.
func build(fig Figure) (*plot.Plot, error) {
	if len(fig.Series) == 0 {
		return nil, fmt.Errorf("figure has no series")
	}

	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	p.Add(plotter.NewGrid())

	for _, s := range fig.Series {
		if len(s.Y) != len(fig.X) {
			return nil, fmt.Errorf("series %q has %d values for %d x values", s.Label, len(s.Y), len(fig.X))
		}
		xys := make(plotter.XYs, len(fig.X))
		for i := range fig.X {
			xys[i].X = fig.X[i]
			xys[i].Y = s.Y[i]
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		if s.Color != nil {
			line.LineStyle.Color = s.Color
		}
		if s.Width > 0 {
			line.LineStyle.Width = s.Width
		}
		line.LineStyle.Dashes = s.Dashes

		p.Add(line)
		if fig.Legend && s.Label != "" {
			p.Legend.Add(s.Label, line)
		}
	}
	if fig.Legend {
		p.Legend.Top = true
		p.Y.Max += legendHeadroom * (p.Y.Max - p.Y.Min)
	}

	return p, nil
}

// writeFile truncates path and writes w's output into it.
func writeFile(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", pathutil.RedactPath(path), err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", pathutil.RedactPath(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", pathutil.RedactPath(path), err)
	}
	return nil
}
