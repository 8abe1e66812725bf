package dataset

// ColumnNulls is the missing-cell count of one column.
type ColumnNulls struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

// NullCensus lists, in table order, the columns that contain missing cells.
type NullCensus struct {
	Rows    int           `json:"rows"`
	Columns []ColumnNulls `json:"columns"`
}

// Census counts missing cells per column. Columns without missing cells are
// omitted.
func Census(t *Table) NullCensus {
	return CensusOf(t, t.Names())
}

// CensusOf counts missing cells in the named columns only. Unknown names are
// ignored.
func CensusOf(t *Table, names []string) NullCensus {
	census := NullCensus{Rows: t.rows, Columns: []ColumnNulls{}}
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			continue
		}
		missing := 0
		for _, c := range t.columns[i].Cells {
			if c.IsMissing() {
				missing++
			}
		}
		if missing > 0 {
			census.Columns = append(census.Columns, ColumnNulls{Column: name, Missing: missing})
		}
	}
	return census
}

// Empty reports whether no column has missing cells.
func (c NullCensus) Empty() bool { return len(c.Columns) == 0 }

// Missing returns the missing-cell count for a column.
func (c NullCensus) Missing(column string) int {
	for _, entry := range c.Columns {
		if entry.Column == column {
			return entry.Missing
		}
	}
	return 0
}

// Map returns the census keyed by column name.
func (c NullCensus) Map() map[string]int {
	out := make(map[string]int, len(c.Columns))
	for _, entry := range c.Columns {
		out[entry.Column] = entry.Missing
	}
	return out
}

// Names returns the columns with missing cells.
func (c NullCensus) Names() []string {
	out := make([]string, len(c.Columns))
	for i, entry := range c.Columns {
		out[i] = entry.Column
	}
	return out
}
