// Package export serializes the filtered table for download.
package export

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/delivery-optimizer/internal/table"
)

// Download names and MIME types.
const (
	Filename        = "filtered_data.csv"
	ContentType     = "text/csv"
	XLSXFilename    = "filtered_data.xlsx"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName       = "filtered_data"
)

// CSV returns t as UTF-8 comma-separated bytes with a header row and no index
// column.
func CSV(t *table.Table) ([]byte, error) {
	b, err := t.CSVBytes()
	if err != nil {
		return nil, eris.Wrap(err, "export: csv")
	}
	return b, nil
}

// XLSX returns t as a single-sheet workbook. Every cell is written as text so
// values read back exactly as exported; absent cells are left empty.
func XLSX(t *table.Table) ([]byte, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range t.Columns() {
		header.AddCell().SetString(col)
	}
	for i := range t.Len() {
		row := sheet.AddRow()
		for _, c := range t.Row(i) {
			cell := row.AddCell()
			if c.Valid {
				cell.SetString(c.Raw)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "export: write workbook")
	}
	return buf.Bytes(), nil
}
