package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rpggio/trendify/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// FillPrecision is the number of decimals mean and median fills are rounded to.
const FillPrecision = 4

// Policy is a null remediation strategy.
type Policy string

const (
	PolicyDropRows     Policy = "drop_rows"
	PolicyFillMean     Policy = "fill_mean"
	PolicyFillMedian   Policy = "fill_median"
	PolicyFillConstant Policy = "fill_constant"
)

// ParsePolicy accepts the canonical policy names and their short forms.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop_rows", "drop", "dropna":
		return PolicyDropRows, nil
	case "fill_mean", "mean":
		return PolicyFillMean, nil
	case "fill_median", "median":
		return PolicyFillMedian, nil
	case "fill_constant", "constant":
		return PolicyFillConstant, nil
	default:
		return "", fmt.Errorf("unknown remediation policy %q", s)
	}
}

// Remedy selects a policy. Constant is the raw text of the fill value for
// PolicyFillConstant. Columns, when set, restricts fill policies to those
// columns; row dropping always considers every column.
type Remedy struct {
	Policy   Policy   `json:"policy"`
	Constant string   `json:"constant,omitempty"`
	Columns  []string `json:"columns,omitempty"`
}

// Fill describes the value substituted into one column.
type Fill struct {
	Column string  `json:"column"`
	Value  float64 `json:"value"`
	Cells  int     `json:"cells"`
}

// Report summarizes what a remediation changed.
type Report struct {
	Policy      Policy   `json:"policy"`
	RowsBefore  int      `json:"rows_before"`
	RowsAfter   int      `json:"rows_after"`
	Filled      []Fill   `json:"filled,omitempty"`
	Untouched   []string `json:"untouched,omitempty"`
	NothingToDo bool     `json:"nothing_to_do,omitempty"`
}

// Apply returns a remediated copy of t. The input table is never modified.
// When the table has no missing cells the same table is returned unchanged.
func Apply(t *Table, r Remedy) (*Table, Report, error) {
	const op = "remediate nulls"

	report := Report{Policy: r.Policy, RowsBefore: t.NumRows(), RowsAfter: t.NumRows()}

	var constant float64
	if r.Policy == PolicyFillConstant {
		v, err := ParseConstant(r.Constant)
		if err != nil {
			return t, report, err
		}
		constant = v
	}

	for _, name := range r.Columns {
		if !t.Has(name) {
			return t, report, domain.ColumnError(op, domain.KindUnknownColumn, name)
		}
	}

	census := Census(t)
	if census.Empty() {
		report.NothingToDo = true
		return t, report, nil
	}

	switch r.Policy {
	case PolicyDropRows:
		out := dropRows(t)
		report.RowsAfter = out.NumRows()
		return out, report, nil
	case PolicyFillMean, PolicyFillMedian, PolicyFillConstant:
		out, filled, untouched := fill(t, census, r, constant)
		report.Filled = filled
		report.Untouched = untouched
		return out, report, nil
	default:
		return t, report, fmt.Errorf("%s: unknown policy %q", op, r.Policy)
	}
}

// ParseConstant parses a user-entered fill value.
func ParseConstant(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &domain.OpError{
			Op:     "fill constant",
			Kind:   domain.KindInvalidConstant,
			Fields: []string{"constant"},
			Reason: fmt.Sprintf("%q is not a number", raw),
		}
	}
	return v, nil
}

func dropRows(t *Table) *Table {
	return t.filterRows(func(row int) bool {
		for _, col := range t.columns {
			if col.Cells[row].IsMissing() {
				return false
			}
		}
		return true
	})
}

func fill(t *Table, census NullCensus, r Remedy, constant float64) (*Table, []Fill, []string) {
	out := t.Clone()
	var filled []Fill
	var untouched []string

	targets := census.Names()
	if len(r.Columns) > 0 {
		targets = CensusOf(t, r.Columns).Names()
	}

	for _, name := range targets {
		col := &out.columns[out.index[name]]

		value := constant
		if r.Policy != PolicyFillConstant {
			if !col.Numeric() {
				untouched = append(untouched, name)
				continue
			}
			value = columnStatistic(col.Cells, r.Policy)
		}

		n := 0
		for i, c := range col.Cells {
			if c.IsMissing() {
				col.Cells[i] = Number(value)
				n++
			}
		}
		filled = append(filled, Fill{Column: name, Value: value, Cells: n})
	}
	return out, filled, untouched
}

// columnStatistic computes the mean or median of the present values,
// rounded to FillPrecision. A column with no values yields 0.
func columnStatistic(cells []Cell, policy Policy) float64 {
	values := make([]float64, 0, len(cells))
	for _, c := range cells {
		if c.Type == CellNumber && !math.IsNaN(c.Number) && !math.IsInf(c.Number, 0) {
			values = append(values, c.Number)
		}
	}
	if len(values) == 0 {
		return 0
	}

	var v float64
	if policy == PolicyFillMedian {
		v = median(values)
	} else {
		v = stat.Mean(values, nil)
	}
	return Round(v, FillPrecision)
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}
