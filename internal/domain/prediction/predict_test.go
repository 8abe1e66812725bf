package prediction_test

import (
	"testing"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/prediction"
	"github.com/rpggio/trendify/internal/domain/regression"
	"github.com/stretchr/testify/require"
)

var plane = regression.Equation{
	Target:       "price",
	Features:     []string{"sqft", "rooms"},
	Coefficients: []float64{2.000049, -3.5},
	Intercept:    10.00004,
}

func TestPredict_UsesUnroundedCoefficients(t *testing.T) {
	got, err := prediction.Predict(plane, map[string]string{"sqft": "1000", "rooms": " 2 ", "ignored": "x"})
	require.NoError(t, err)
	require.InDelta(t, 2.000049*1000-3.5*2+10.00004, got, 1e-9)
}

func TestPredict_ReportsEveryBadField(t *testing.T) {
	_, err := prediction.Predict(plane, map[string]string{"sqft": "abc"})
	require.ErrorIs(t, err, domain.ErrMissingOrInvalidInput)

	var opErr *domain.OpError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, []string{"sqft", "rooms"}, opErr.Fields)
	require.Contains(t, opErr.Error(), `"abc" is not a number for sqft`)
	require.Contains(t, opErr.Error(), "rooms is missing")
}

func TestPredict_RejectsEmptyInput(t *testing.T) {
	_, err := prediction.Predict(plane, map[string]string{"sqft": "", "rooms": "1"})
	require.ErrorIs(t, err, domain.ErrMissingOrInvalidInput)
}

func TestPredictValues(t *testing.T) {
	got, err := prediction.PredictValues(plane, map[string]float64{"sqft": 1, "rooms": 1})
	require.NoError(t, err)
	require.InDelta(t, 2.000049-3.5+10.00004, got, 1e-12)

	_, err = prediction.PredictValues(plane, map[string]float64{"sqft": 1})
	require.ErrorIs(t, err, domain.ErrMissingOrInvalidInput)
}
