package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/trendify/internal/domain/dataset"
)

// naValues are the cell spellings read as missing.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// ParseCell classifies one raw cell.
func ParseCell(raw string) dataset.Cell {
	v := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	if _, ok := naValues[v]; ok {
		return dataset.Missing()
	}
	if x, err := strconv.ParseFloat(v, 64); err == nil {
		return dataset.Float(x)
	}
	return dataset.Text(raw)
}

// headerNames cleans a header row. Blank names become "Unnamed: i" and
// repeats get a ".n" suffix.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for taken[name] {
			seen[base]++
			name = fmt.Sprintf("%s.%d", base, seen[base])
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// buildTable turns a header and string records into a table. Short records
// are padded with missing cells.
func buildTable(header []string, records [][]string) (*dataset.Table, error) {
	names := headerNames(header)
	cells := make([][]dataset.Cell, len(names))
	for j := range cells {
		cells[j] = make([]dataset.Cell, len(records))
	}
	for i, rec := range records {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), len(names))
		}
		for j := range names {
			if j < len(rec) {
				cells[j][i] = ParseCell(rec[j])
			} else {
				cells[j][i] = dataset.Missing()
			}
		}
	}

	cols := make([]dataset.Column, len(names))
	for j, name := range names {
		cols[j] = dataset.NewColumn(name, cells[j])
	}
	return dataset.New(cols...)
}

// trimTrailingBlank drops trailing rows whose cells are all blank.
func trimTrailingBlank(records [][]string) [][]string {
	for len(records) > 0 && blank(records[len(records)-1]) {
		records = records[:len(records)-1]
	}
	return records
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
