package regression

import (
	"fmt"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/dataset"
)

// Plotter renders fitted models. It is presentation only and never changes
// a model.
type Plotter interface {
	Scatter2D(req Scatter2D) error
	Surface3D(req Surface3D) error
}

// Scatter2D asks for observed points plus the fitted line of a one-feature
// model.
type Scatter2D struct {
	Path      string
	Title     string
	Subtitle  string
	XLabel    string
	YLabel    string
	X         []float64
	Y         []float64
	Predicted []float64
}

// Surface3D asks for observed points plus the fitted plane of a two-feature
// model.
type Surface3D struct {
	Path     string
	Title    string
	Subtitle string
	X1Label  string
	X2Label  string
	YLabel   string
	X1       []float64
	X2       []float64
	Y        []float64
	Equation Equation
}

// Plot hands the data m was fit on to p. Models with more than two
// features return VisualizationUnavailable and no error.
func Plot(p Plotter, t *dataset.Table, m *Model, path string) (Visualization, error) {
	const op = "plot model"

	vis := m.Visualization()
	if vis == VisualizationUnavailable {
		return vis, nil
	}

	eq := m.Equation()
	y, ok := t.Float64s(eq.Target)
	if !ok {
		return vis, domain.ColumnError(op, domain.KindNonNumericData, eq.Target)
	}
	xs := make([][]float64, len(eq.Features))
	for i, name := range eq.Features {
		values, ok := t.Float64s(name)
		if !ok {
			return vis, domain.ColumnError(op, domain.KindNonNumericData, name)
		}
		xs[i] = values
	}

	subtitle := fmt.Sprintf("%s   R² = %.4f, MSE = %.4f", m.Formula(), m.R2(), m.MSE())

	if vis == Visualization2D {
		predicted := make([]float64, len(y))
		for r := range y {
			predicted[r] = eq.Evaluate([]float64{xs[0][r]})
		}
		return vis, p.Scatter2D(Scatter2D{
			Path:      path,
			Title:     "Linear Regression Model (2D)",
			Subtitle:  subtitle,
			XLabel:    eq.Features[0],
			YLabel:    eq.Target,
			X:         xs[0],
			Y:         y,
			Predicted: predicted,
		})
	}

	return vis, p.Surface3D(Surface3D{
		Path:     path,
		Title:    "Linear Regression Model (3D)",
		Subtitle: subtitle,
		X1Label:  eq.Features[0],
		X2Label:  eq.Features[1],
		YLabel:   eq.Target,
		X1:       xs[0],
		X2:       xs[1],
		Y:        y,
		Equation: eq,
	})
}
