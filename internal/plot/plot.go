// Package plot renders fitted regression models to image files with
// gonum/plot. The file type follows the path suffix (.png, .svg, .pdf).
package plot

import (
	"fmt"
	"image/color"

	"github.com/rpggio/trendify/internal/domain/regression"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const gridSteps = 40

// Renderer implements regression.Plotter.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

var _ regression.Plotter = (*Renderer)(nil)

// New creates a renderer producing images of the given size in inches.
func New(widthInches, heightInches float64) *Renderer {
	if widthInches <= 0 {
		widthInches = 6
	}
	if heightInches <= 0 {
		heightInches = 6
	}
	return &Renderer{Width: vg.Length(widthInches) * vg.Inch, Height: vg.Length(heightInches) * vg.Inch}
}

// Scatter2D draws observed points and the fitted line.
func (r *Renderer) Scatter2D(req regression.Scatter2D) (err error) {
	defer recoverPlot(&err)

	p := plot.New()
	p.Title.Text = req.Title + "\n" + req.Subtitle
	p.X.Label.Text = req.XLabel
	p.Y.Label.Text = req.YLabel

	pts := make(plotter.XYs, len(req.X))
	for i := range req.X {
		pts[i].X = req.X[i]
		pts[i].Y = req.Y[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("building scatter: %w", err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Color = color.RGBA{B: 200, A: 255}

	line := make(plotter.XYs, len(req.X))
	for i := range req.X {
		line[i].X = req.X[i]
		line[i].Y = req.Predicted[i]
	}
	sortByX(line)
	l, err := plotter.NewLine(line)
	if err != nil {
		return fmt.Errorf("building fitted line: %w", err)
	}
	l.LineStyle.Width = vg.Points(2)
	l.LineStyle.Color = color.RGBA{R: 200, A: 255}

	p.Add(s, l)
	p.Legend.Add("observed", s)
	p.Legend.Add("fitted", l)

	if err := p.Save(r.Width, r.Height, req.Path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

// Surface3D draws the fitted plane as a heat map over the observed feature
// range, with observed points on top.
func (r *Renderer) Surface3D(req regression.Surface3D) (err error) {
	defer recoverPlot(&err)

	p := plot.New()
	p.Title.Text = req.Title + "\n" + req.Subtitle
	p.X.Label.Text = req.X1Label
	p.Y.Label.Text = req.X2Label

	grid := newPlaneGrid(req.Equation, req.X1, req.X2)
	h := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	if h.Min == h.Max {
		h.Min -= 0.5
		h.Max += 0.5
	}

	pts := make(plotter.XYs, len(req.X1))
	for i := range req.X1 {
		pts[i].X = req.X1[i]
		pts[i].Y = req.X2[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("building scatter: %w", err)
	}
	s.GlyphStyle.Shape = draw.CrossGlyph{}
	s.GlyphStyle.Radius = vg.Points(4)
	s.GlyphStyle.Color = color.Black

	p.Add(h, s)
	p.Legend.Add(fmt.Sprintf("observed (%s)", req.YLabel), s)

	if err := p.Save(r.Width, r.Height, req.Path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}

func recoverPlot(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("rendering plot: %v", r)
	}
}

// planeGrid samples a two-feature equation on a regular grid.
type planeGrid struct {
	eq     regression.Equation
	x1, x2 []float64
}

func newPlaneGrid(eq regression.Equation, x1, x2 []float64) planeGrid {
	return planeGrid{eq: eq, x1: linspace(x1), x2: linspace(x2)}
}

func (g planeGrid) Dims() (c, r int) { return len(g.x1), len(g.x2) }
func (g planeGrid) X(c int) float64  { return g.x1[c] }
func (g planeGrid) Y(r int) float64  { return g.x2[r] }
func (g planeGrid) Z(c, r int) float64 {
	return g.eq.Evaluate([]float64{g.x1[c], g.x2[r]})
}

// linspace spans the range of values in gridSteps points. A degenerate
// range is widened by one unit.
func linspace(values []float64) []float64 {
	lo, hi := 0.0, 1.0
	if len(values) > 0 {
		lo, hi = values[0], values[0]
		for _, v := range values[1:] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if hi == lo {
		lo -= 0.5
		hi += 0.5
	}
	out := make([]float64, gridSteps)
	step := (hi - lo) / float64(gridSteps-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

func sortByX(pts plotter.XYs) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && pts[j].X < pts[j-1].X; j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}
