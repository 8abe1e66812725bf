package artifact_test

import (
	"testing"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/artifact"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/regression"
	"github.com/rpggio/trendify/internal/ols"
	"github.com/stretchr/testify/require"
)

func fittedModel(t *testing.T) *regression.Model {
	t.Helper()
	table, err := dataset.New(
		dataset.NewColumn("x", []dataset.Cell{dataset.Number(1), dataset.Number(2), dataset.Number(3)}),
		dataset.NewColumn("y", []dataset.Cell{dataset.Number(3), dataset.Number(5), dataset.Number(7)}),
	)
	require.NoError(t, err)
	model, err := regression.NewFitter(ols.New(), 4).Fit(table, []string{"x"}, "y")
	require.NoError(t, err)
	return model
}

func TestFromModel(t *testing.T) {
	model := fittedModel(t)
	a := artifact.FromModel(model, "doubling plus one")

	require.NotEmpty(t, a.ID)
	require.Equal(t, artifact.FormatVersion, a.FormatVersion)
	require.Equal(t, model.Formula(), a.Formula)
	require.Equal(t, []string{"x"}, a.InputColumns)
	require.Equal(t, "y", a.OutputColumn)
	require.Equal(t, "doubling plus one", a.Description)
	require.NoError(t, a.Validate())

	eq, ok := a.Equation()
	require.True(t, ok)
	require.InDelta(t, model.Equation().Evaluate([]float64{10}), eq.Evaluate([]float64{10}), 1e-12)
}

func TestEquation_WithoutParams(t *testing.T) {
	a := &artifact.Artifact{Formula: "y = 1.0000 * x + 0.0000", InputColumns: []string{"x"}, OutputColumn: "y"}
	_, ok := a.Equation()
	require.False(t, ok)
	require.NoError(t, a.Validate())
}

func TestValidate_RejectsBrokenStructure(t *testing.T) {
	cases := map[string]*artifact.Artifact{
		"no output":  {Formula: "f", InputColumns: []string{"x"}},
		"no inputs":  {Formula: "f", OutputColumn: "y"},
		"no formula": {InputColumns: []string{"x"}, OutputColumn: "y"},
		"param count": {
			Formula: "f", InputColumns: []string{"x"}, OutputColumn: "y",
			Model: &artifact.Params{Coefficients: []float64{1, 2}},
		},
		"future version": {Formula: "f", InputColumns: []string{"x"}, OutputColumn: "y", FormatVersion: 99},
	}
	for name, a := range cases {
		require.ErrorIs(t, a.Validate(), domain.ErrCorruptArtifact, name)
	}
}

func TestFormatFor(t *testing.T) {
	f, err := artifact.FormatFor("save", "/tmp/model.GOB")
	require.NoError(t, err)
	require.Equal(t, artifact.FormatNative, f)

	f, err = artifact.FormatFor("save", "model.trend")
	require.NoError(t, err)
	require.Equal(t, artifact.FormatPortable, f)

	for _, path := range []string{"model.pkl", "model", "model.json"} {
		_, err := artifact.FormatFor("save", path)
		require.ErrorIs(t, err, domain.ErrUnsupportedFormat, path)
	}
}
