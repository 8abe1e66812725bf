package tabular

import (
	"fmt"

	"github.com/extrame/xls"
	"github.com/rpggio/trendify/internal/domain/dataset"
	"github.com/xuri/excelize/v2"
)

// readXLSX reads the first worksheet using raw, unformatted cell values.
func readXLSX(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errEmpty
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows)
}

// readXLS reads the first worksheet of a legacy BIFF workbook. The BIFF
// parser panics on some malformed files.
func readXLS(path string) (table *dataset.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, fmt.Errorf("parse workbook: %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errEmpty
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		rec := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			rec = append(rec, row.Col(j))
		}
		rows = append(rows, rec)
	}
	return fromRows(rows)
}

// fromRows treats the first row as the header. Spreadsheet readers omit
// trailing empty cells, so the header width is the widest row.
func fromRows(rows [][]string) (*dataset.Table, error) {
	rows = trimTrailingBlank(rows)
	if len(rows) == 0 {
		return nil, errEmpty
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	header := make([]string, width)
	copy(header, rows[0])
	return buildTable(header, rows[1:])
}
