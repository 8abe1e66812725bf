// Package ols implements ordinary least squares linear regression with an
// intercept on top of gonum.
package ols

import (
	"errors"
	"fmt"
	"math"

	"github.com/rpggio/trendify/internal/domain/regression"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Regressor solves y = Xb + c in the least squares sense.
type Regressor struct{}

var _ regression.Regressor = Regressor{}

// New returns a least squares regressor.
func New() Regressor {
	return Regressor{}
}

// maxCondition bounds the condition number of the centered feature matrix.
const maxCondition = 1e12

// Fit solves for one weight per column of x plus an intercept. Features and
// target are centered first so the intercept does not inflate the condition
// number.
func (Regressor) Fit(x [][]float64, y []float64) (regression.Coefficients, error) {
	n := len(x)
	if n == 0 {
		return regression.Coefficients{}, errors.New("no observations")
	}
	if len(y) != n {
		return regression.Coefficients{}, fmt.Errorf("have %d observations but %d targets", n, len(y))
	}
	p := len(x[0])
	if p == 0 {
		return regression.Coefficients{}, errors.New("no features")
	}

	means := make([]float64, p)
	for i, row := range x {
		if len(row) != p {
			return regression.Coefficients{}, fmt.Errorf("row %d has %d values, expected %d", i, len(row), p)
		}
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}
	yMean := stat.Mean(y, nil)

	centered := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i, row := range x {
		for j, v := range row {
			centered.Set(i, j, v-means[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	if cond := mat.Cond(centered, 2); math.IsNaN(cond) || cond > maxCondition {
		return regression.Coefficients{}, fmt.Errorf("design matrix is singular (condition number %.3g); features may be constant or collinear", cond)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(centered, yc); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return regression.Coefficients{}, fmt.Errorf("design matrix is singular (condition number %.3g); features may be collinear", float64(cond))
		}
		return regression.Coefficients{}, fmt.Errorf("solving least squares: %w", err)
	}

	coef := regression.Coefficients{Weights: make([]float64, p), Intercept: yMean}
	for j := range coef.Weights {
		w := beta.AtVec(j)
		coef.Weights[j] = w
		coef.Intercept -= w * means[j]
	}
	for _, v := range append([]float64{coef.Intercept}, coef.Weights...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return regression.Coefficients{}, errors.New("least squares solution is not finite")
		}
	}
	return coef, nil
}

// Predict evaluates the fitted equation for every row of x.
func (Regressor) Predict(c regression.Coefficients, x [][]float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	design, err := designMatrix(x)
	if err != nil {
		return nil
	}
	beta := mat.NewVecDense(len(c.Weights)+1, append([]float64{c.Intercept}, c.Weights...))

	var out mat.VecDense
	out.MulVec(design, beta)
	return out.RawVector().Data
}

// Score returns the coefficient of determination of the predictions for x
// against y.
func (r Regressor) Score(c regression.Coefficients, x [][]float64, y []float64) float64 {
	return regression.R2(y, r.Predict(c, x))
}

// designMatrix prepends a column of ones to x.
func designMatrix(x [][]float64) (*mat.Dense, error) {
	n := len(x)
	if n == 0 {
		return nil, errors.New("no observations")
	}
	p := len(x[0])
	design := mat.NewDense(n, p+1, nil)
	for i, row := range x {
		if len(row) != p {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), p)
		}
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	return design, nil
}
