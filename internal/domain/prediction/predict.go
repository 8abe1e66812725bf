// Package prediction evaluates a fitted equation against user-entered
// feature values.
package prediction

import (
	"math"
	"strconv"
	"strings"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/regression"
)

// Predict parses one raw value per feature and evaluates eq. Every absent,
// empty or non-numeric field is reported together. Inputs for columns the
// equation does not use are ignored.
func Predict(eq regression.Equation, inputs map[string]string) (float64, error) {
	values := make([]float64, len(eq.Features))
	var bad, reasons []string
	for i, name := range eq.Features {
		raw, ok := inputs[name]
		if !ok || strings.TrimSpace(raw) == "" {
			bad = append(bad, name)
			reasons = append(reasons, name+" is missing")
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, name)
			reasons = append(reasons, strconv.Quote(raw)+" is not a number for "+name)
			continue
		}
		values[i] = v
	}
	if len(bad) > 0 {
		return 0, &domain.OpError{
			Op:     "predict",
			Kind:   domain.KindMissingOrInvalidInput,
			Fields: bad,
			Reason: strings.Join(reasons, "; "),
		}
	}
	return eq.Evaluate(values), nil
}

// PredictValues evaluates eq for already-parsed values.
func PredictValues(eq regression.Equation, inputs map[string]float64) (float64, error) {
	values := make([]float64, len(eq.Features))
	var missing []string
	for i, name := range eq.Features {
		v, ok := inputs[name]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			missing = append(missing, name)
			continue
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return 0, domain.FieldError("predict", domain.KindMissingOrInvalidInput, missing...)
	}
	return eq.Evaluate(values), nil
}
