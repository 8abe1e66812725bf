package selection_test

import (
	"testing"

	"github.com/rpggio/trendify/internal/domain"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/rpggio/trendify/internal/domain/selection"
	"github.com/stretchr/testify/require"
)

func housing(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.New(
		dataset.NewColumn("sqft", []dataset.Cell{dataset.Number(1), dataset.Missing(), dataset.Number(3)}),
		dataset.NewColumn("rooms", []dataset.Cell{dataset.Number(1), dataset.Number(2), dataset.Number(3)}),
		dataset.NewColumn("price", []dataset.Cell{dataset.Number(12), dataset.Number(14), dataset.Number(16)}),
	)
	require.NoError(t, err)
	return table
}

func TestSelectFeatures(t *testing.T) {
	table := housing(t)

	sel, err := selection.SelectFeatures(table, []string{"rooms", "sqft", "rooms"})
	require.NoError(t, err)
	require.Equal(t, []string{"rooms", "sqft"}, sel.Features)
	require.False(t, sel.Ready())

	_, err = selection.SelectFeatures(table, nil)
	require.ErrorIs(t, err, domain.ErrEmptySelection)

	_, err = selection.SelectFeatures(table, []string{"sqft", "garage", "pool"})
	require.ErrorIs(t, err, domain.ErrUnknownColumn)
	var opErr *domain.OpError
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, []string{"garage", "pool"}, opErr.Columns)
}

func TestSelectTarget(t *testing.T) {
	table := housing(t)

	sel, err := selection.SelectFeatures(table, []string{"sqft"})
	require.NoError(t, err)
	sel, err = sel.WithTarget(table, "price")
	require.NoError(t, err)
	require.True(t, sel.Ready())
	require.Empty(t, sel.Overlap())

	_, err = sel.WithTarget(table, "value")
	require.ErrorIs(t, err, domain.ErrUnknownColumn)

	same, err := sel.WithTarget(table, "sqft")
	require.NoError(t, err)
	require.Equal(t, []string{"sqft"}, same.Overlap())
}

func TestSelection_FailedUpdateKeepsPrevious(t *testing.T) {
	table := housing(t)
	sel, err := selection.SelectFeatures(table, []string{"sqft"})
	require.NoError(t, err)

	kept, err := sel.WithFeatures(table, []string{"nope"})
	require.Error(t, err)
	require.Equal(t, sel, kept)
}

func TestMissingInFeatures(t *testing.T) {
	table := housing(t)
	sel, err := selection.SelectFeatures(table, []string{"sqft", "rooms"})
	require.NoError(t, err)

	census := sel.MissingInFeatures(table)
	require.Equal(t, map[string]int{"sqft": 1}, census.Map())
}
