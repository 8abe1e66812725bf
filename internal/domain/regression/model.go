// Package regression fits linear models over table columns and derives the
// formula and fit-quality metrics shown to the user.
package regression

import "time"

// Coefficients is an unrounded least squares solution: one weight per
// feature, in feature order, plus the intercept.
type Coefficients struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Regressor is an ordinary least squares implementation. X is row-major.
type Regressor interface {
	Fit(x [][]float64, y []float64) (Coefficients, error)
	Predict(c Coefficients, x [][]float64) []float64
	Score(c Coefficients, x [][]float64, y []float64) float64
}

// Equation is the structured form of a fitted model. Predictions are always
// computed from it, never from the rendered formula.
type Equation struct {
	Target       string    `json:"target"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Evaluate returns sum(coef_i * values_i) + intercept. values must follow
// the feature order.
func (e Equation) Evaluate(values []float64) float64 {
	y := e.Intercept
	for i, c := range e.Coefficients {
		y += c * values[i]
	}
	return y
}

// Clone returns a copy that shares no slices with e.
func (e Equation) Clone() Equation {
	e.Features = append([]string(nil), e.Features...)
	e.Coefficients = append([]float64(nil), e.Coefficients...)
	return e
}

// Visualization says which plot, if any, a model supports.
type Visualization string

const (
	Visualization2D          Visualization = "2d"
	Visualization3D          Visualization = "3d"
	VisualizationUnavailable Visualization = "unavailable"
)

// VisualizationFor maps a feature count to the plot it supports.
func VisualizationFor(features int) Visualization {
	switch features {
	case 1:
		return Visualization2D
	case 2:
		return Visualization3D
	default:
		return VisualizationUnavailable
	}
}

// Model is an immutable fitted linear regression. Refitting produces a new
// Model.
type Model struct {
	equation Equation
	r2       float64
	mse      float64
	formula  string
	rows     int
	fittedAt time.Time
}

// Equation returns the unrounded structured equation.
func (m *Model) Equation() Equation { return m.equation.Clone() }

// Target returns the target column name.
func (m *Model) Target() string { return m.equation.Target }

// Features returns the feature column names in fit order.
func (m *Model) Features() []string { return append([]string(nil), m.equation.Features...) }

// R2 returns the in-sample coefficient of determination.
func (m *Model) R2() float64 { return m.r2 }

// MSE returns the in-sample mean squared error.
func (m *Model) MSE() float64 { return m.mse }

// Formula returns the display formula.
func (m *Model) Formula() string { return m.formula }

// Rows returns the number of observations the model was fit on.
func (m *Model) Rows() int { return m.rows }

// FittedAt returns when the model was fit.
func (m *Model) FittedAt() time.Time { return m.fittedAt }

// Visualization returns the plot this model supports.
func (m *Model) Visualization() Visualization {
	return VisualizationFor(len(m.equation.Features))
}

// Summary is a serializable view of a Model.
type Summary struct {
	Formula       string        `json:"formula"`
	Equation      Equation      `json:"equation"`
	R2            float64       `json:"r2"`
	MSE           float64       `json:"mse"`
	Rows          int           `json:"rows"`
	Visualization Visualization `json:"visualization"`
	FittedAt      time.Time     `json:"fitted_at"`
}

// Summary returns a serializable view of the model.
func (m *Model) Summary() Summary {
	return Summary{
		Formula:       m.formula,
		Equation:      m.Equation(),
		R2:            m.r2,
		MSE:           m.mse,
		Rows:          m.rows,
		Visualization: m.Visualization(),
		FittedAt:      m.fittedAt,
	}
}
