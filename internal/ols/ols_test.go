package ols_test

import (
	"testing"

	"github.com/rpggio/trendify/internal/ols"
	"github.com/stretchr/testify/require"
)

func TestRegressor_PerfectLine(t *testing.T) {
	x := [][]float64{{100}, {150}, {200}, {250}, {300}}
	y := []float64{210, 310, 410, 510, 610}

	r := ols.New()
	coef, err := r.Fit(x, y)
	require.NoError(t, err)
	require.Len(t, coef.Weights, 1)
	require.InDelta(t, 2.0, coef.Weights[0], 1e-9)
	require.InDelta(t, 10.0, coef.Intercept, 1e-9)
	require.InDelta(t, 1.0, r.Score(coef, x, y), 1e-12)

	pred := r.Predict(coef, [][]float64{{400}})
	require.InDelta(t, 810.0, pred[0], 1e-9)
}

func TestRegressor_TwoFeatures(t *testing.T) {
	// y = 3*a - 2*b + 5
	x := [][]float64{{1, 0}, {0, 1}, {2, 3}, {4, 1}, {5, 5}, {3, 7}}
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = 3*row[0] - 2*row[1] + 5
	}

	coef, err := ols.New().Fit(x, y)
	require.NoError(t, err)
	require.InDelta(t, 3.0, coef.Weights[0], 1e-9)
	require.InDelta(t, -2.0, coef.Weights[1], 1e-9)
	require.InDelta(t, 5.0, coef.Intercept, 1e-9)
}

func TestRegressor_NoisyDataScoresBelowOne(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []float64{1.1, 1.9, 3.2, 3.8, 5.3, 5.9}

	r := ols.New()
	coef, err := r.Fit(x, y)
	require.NoError(t, err)
	score := r.Score(coef, x, y)
	require.Less(t, score, 1.0)
	require.Greater(t, score, 0.9)
}

func TestRegressor_CollinearFeaturesFail(t *testing.T) {
	x := [][]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}}
	y := []float64{1, 2, 3, 4}

	_, err := ols.New().Fit(x, y)
	require.Error(t, err)
}

func TestRegressor_RejectsBadShapes(t *testing.T) {
	_, err := ols.New().Fit(nil, nil)
	require.Error(t, err)

	_, err = ols.New().Fit([][]float64{{1}, {2, 3}}, []float64{1, 2})
	require.Error(t, err)

	_, err = ols.New().Fit([][]float64{{1}, {2}}, []float64{1})
	require.Error(t, err)
}

func TestRegressor_ConstantFeatureFails(t *testing.T) {
	x := [][]float64{{3}, {3}, {3}}
	y := []float64{1, 2, 3}

	_, err := ols.New().Fit(x, y)
	require.Error(t, err)
}

func TestRegressor_LargeOffsetsStayAccurate(t *testing.T) {
	x := [][]float64{{1.7e9}, {1.7e9 + 10}, {1.7e9 + 20}, {1.7e9 + 30}}
	y := []float64{5, 6, 7, 8}

	coef, err := ols.New().Fit(x, y)
	require.NoError(t, err)
	require.InDelta(t, 0.1, coef.Weights[0], 1e-9)
}
