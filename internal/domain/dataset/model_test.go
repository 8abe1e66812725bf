package dataset_test

import (
	"testing"

	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsDuplicateAndRaggedColumns(t *testing.T) {
	_, err := dataset.New(
		dataset.NewColumn("a", []dataset.Cell{num(1)}),
		dataset.NewColumn("a", []dataset.Cell{num(2)}),
	)
	require.Error(t, err)

	_, err = dataset.New(
		dataset.NewColumn("a", []dataset.Cell{num(1)}),
		dataset.NewColumn("b", []dataset.Cell{num(2), num(3)}),
	)
	require.Error(t, err)
}

func TestNewColumn_InfersType(t *testing.T) {
	require.Equal(t, dataset.CellNumber, dataset.NewColumn("n", []dataset.Cell{num(1), na}).Type)
	require.Equal(t, dataset.CellNumber, dataset.NewColumn("empty", []dataset.Cell{na, na}).Type)
	require.Equal(t, dataset.CellText, dataset.NewColumn("t", []dataset.Cell{num(1), txt("x")}).Type)
}

func TestTable_Float64s(t *testing.T) {
	table := mixedTable(t)

	_, ok := table.Float64s("a")
	require.False(t, ok, "missing cells are not numeric data")
	_, ok = table.Float64s("city")
	require.False(t, ok)
	_, ok = table.Float64s("nope")
	require.False(t, ok)

	filled, _, err := dataset.Apply(table, dataset.Remedy{Policy: dataset.PolicyFillMean})
	require.NoError(t, err)
	values, ok := filled.Float64s("a")
	require.True(t, ok)
	require.Equal(t, []float64{1, 3, 3, 3, 5}, values)
}

func TestCensus(t *testing.T) {
	census := dataset.Census(mixedTable(t))
	require.Equal(t, 5, census.Rows)
	require.Equal(t, []string{"a", "b", "city"}, census.Names())
	require.Equal(t, map[string]int{"a": 2, "b": 1, "city": 1}, census.Map())

	only := dataset.CensusOf(mixedTable(t), []string{"b", "nope"})
	require.Equal(t, []dataset.ColumnNulls{{Column: "b", Missing: 1}}, only.Columns)
}

func TestTable_ColumnReturnsCopy(t *testing.T) {
	table := mixedTable(t)
	col, _ := table.Column("a")
	col.Cells[0] = num(99)

	again, _ := table.Column("a")
	require.Equal(t, num(1), again.Cells[0])
}
