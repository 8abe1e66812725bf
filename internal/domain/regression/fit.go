package regression

import (
	"fmt"
	"time"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/dataset"
)

// Fitter validates a table selection and delegates the least squares
// solution to a Regressor.
type Fitter struct {
	regressor Regressor
	precision int
	now       func() time.Time
}

// NewFitter creates a fitter rendering formulas at the given precision.
func NewFitter(regressor Regressor, precision int) *Fitter {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Fitter{regressor: regressor, precision: precision, now: time.Now}
}

// Precision returns the formula precision.
func (f *Fitter) Precision() int { return f.precision }

// Fit regresses target on features over every row of t.
func (f *Fitter) Fit(t *dataset.Table, features []string, target string) (*Model, error) {
	const op = "fit model"

	if len(features) == 0 || target == "" {
		var missing []string
		if len(features) == 0 {
			missing = append(missing, "features")
		}
		if target == "" {
			missing = append(missing, "target")
		}
		return nil, &domain.OpError{Op: op, Kind: domain.KindMissingSelection, Fields: missing}
	}

	var unknown []string
	for _, name := range append(append([]string(nil), features...), target) {
		if !t.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, domain.ColumnError(op, domain.KindUnknownColumn, unknown...)
	}

	var nonNumeric []string
	columns := make([][]float64, len(features))
	for i, name := range features {
		values, ok := t.Float64s(name)
		if !ok {
			nonNumeric = append(nonNumeric, name)
		}
		columns[i] = values
	}
	y, ok := t.Float64s(target)
	if !ok && !contains(nonNumeric, target) {
		nonNumeric = append(nonNumeric, target)
	}
	if len(nonNumeric) > 0 {
		return nil, domain.ColumnError(op, domain.KindNonNumericData, nonNumeric...)
	}

	if t.NumRows() == 0 {
		return nil, domain.Failure(op, domain.KindEmptyTable, "the table has no rows")
	}

	x := make([][]float64, t.NumRows())
	for r := range x {
		row := make([]float64, len(features))
		for c := range features {
			row[c] = columns[c][r]
		}
		x[r] = row
	}

	coef, err := f.solve(x, y)
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindFitFailed, Reason: err.Error(), Err: err}
	}
	if len(coef.Weights) != len(features) {
		return nil, domain.Failure(op, domain.KindFitFailed,
			fmt.Sprintf("regressor returned %d coefficients for %d features", len(coef.Weights), len(features)))
	}

	predicted := f.regressor.Predict(coef, x)
	eq := Equation{
		Target:       target,
		Features:     append([]string(nil), features...),
		Coefficients: append([]float64(nil), coef.Weights...),
		Intercept:    coef.Intercept,
	}
	return &Model{
		equation: eq,
		r2:       f.regressor.Score(coef, x, y),
		mse:      MSE(y, predicted),
		formula:  eq.Formula(f.precision),
		rows:     len(y),
		fittedAt: f.now(),
	}, nil
}

// solve turns a regressor panic into an error so a bad fit never takes the
// session down.
func (f *Fitter) solve(x [][]float64, y []float64) (coef Coefficients, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("regressor panic: %v", r)
		}
	}()
	return f.regressor.Fit(x, y)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

