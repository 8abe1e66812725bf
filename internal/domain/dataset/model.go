package dataset

import (
	"fmt"
	"math"
	"strconv"
)

// CellType tags a cell, and a column, as numeric, textual or missing.
type CellType string

const (
	CellMissing CellType = "missing"
	CellNumber  CellType = "number"
	CellText    CellType = "text"
)

// Cell is a single value of a column.
type Cell struct {
	Type   CellType `json:"type"`
	Number float64  `json:"number,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Missing returns an empty cell.
func Missing() Cell { return Cell{Type: CellMissing} }

// Number returns a numeric cell.
func Number(v float64) Cell { return Cell{Type: CellNumber, Number: v} }

// Float returns a numeric cell, or a missing cell for NaN and ±Inf.
func Float(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing()
	}
	return Number(v)
}

// Text returns a textual cell.
func Text(s string) Cell { return Cell{Type: CellText, Text: s} }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Type == CellMissing || c.Type == "" }

// String renders the cell for display.
func (c Cell) String() string {
	switch c.Type {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Column is a named, typed sequence of cells. Type is CellNumber when every
// non-missing cell is numeric and CellText otherwise; it is fixed when the
// column is built.
type Column struct {
	Name  string   `json:"name"`
	Type  CellType `json:"type"`
	Cells []Cell   `json:"-"`
}

// NewColumn builds a column and infers its type from the cells.
func NewColumn(name string, cells []Cell) Column {
	return Column{Name: name, Type: inferType(cells), Cells: cells}
}

func inferType(cells []Cell) CellType {
	for _, c := range cells {
		if c.Type == CellText {
			return CellText
		}
	}
	return CellNumber
}

// Numeric reports whether the column has numeric dtype.
func (c Column) Numeric() bool { return c.Type == CellNumber }

// Table is an ordered set of uniquely named columns of equal length.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New validates columns and assembles a table. Columns without a type get
// one inferred from their cells.
func New(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Cells), t.rows)
		}
		if col.Type == "" || col.Type == CellMissing {
			col.Type = inferType(col.Cells)
		}
		t.index[col.Name] = i
		t.columns[i] = col
	}
	return t, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Has reports whether name is a column of the table.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.ColumnAt(i), true
}

// ColumnAt returns a copy of the column at position i.
func (t *Table) ColumnAt(i int) Column {
	col := t.columns[i]
	col.Cells = append([]Cell(nil), col.Cells...)
	return col
}

// Schema lists column names with their types.
func (t *Table) Schema() []Column {
	out := make([]Column, len(t.columns))
	for i, col := range t.columns {
		out[i] = Column{Name: col.Name, Type: col.Type}
	}
	return out
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.columns))
	for j, col := range t.columns {
		row[j] = col.Cells[i]
	}
	return row
}

// Float64s returns the values of a numeric column. ok is false when the
// column is absent, has text dtype or still contains missing cells.
func (t *Table) Float64s(name string) (values []float64, ok bool) {
	i, found := t.index[name]
	if !found {
		return nil, false
	}
	col := t.columns[i]
	if !col.Numeric() {
		return nil, false
	}
	values = make([]float64, len(col.Cells))
	for r, c := range col.Cells {
		if c.Type != CellNumber {
			return nil, false
		}
		values[r] = c.Number
	}
	return values, true
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.columns))
	for i := range t.columns {
		cols[i] = t.ColumnAt(i)
	}
	return &Table{columns: cols, index: copyIndex(t.index), rows: t.rows}
}

// filterRows keeps the rows for which keep returns true, preserving
// column types.
func (t *Table) filterRows(keep func(row int) bool) *Table {
	cols := make([]Column, len(t.columns))
	kept := 0
	for i, col := range t.columns {
		cells := make([]Cell, 0, len(col.Cells))
		for r, c := range col.Cells {
			if keep(r) {
				cells = append(cells, c)
			}
		}
		kept = len(cells)
		cols[i] = Column{Name: col.Name, Type: col.Type, Cells: cells}
	}
	return &Table{columns: cols, index: copyIndex(t.index), rows: kept}
}

func copyIndex(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
