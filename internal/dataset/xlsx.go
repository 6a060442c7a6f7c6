package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/delivery-optimizer/internal/table"
)

// readXLSX parses the first sheet of a workbook. The first non-empty row is
// the header; fully blank rows are skipped.
func readXLSX(data []byte) (*table.Table, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	sheet := f.Sheets[0]

	var header []string
	var records [][]string
	for _, row := range sheet.Rows {
		cells := rowToStrings(row)
		if isBlank(cells) {
			continue
		}
		if header == nil {
			header = trimTrailingEmpty(cells)
			continue
		}
		if len(cells) > len(header) {
			extra := cells[len(header):]
			if !isBlank(extra) {
				return nil, eris.Errorf("xlsx: row %d has %d fields, header has %d", len(records)+2, len(cells), len(header))
			}
			cells = cells[:len(header)]
		}
		records = append(records, cells)
	}

	if header == nil {
		return nil, eris.New("xlsx: missing header row")
	}
	return table.FromStrings(header, records)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimTrailingEmpty(cells []string) []string {
	n := len(cells)
	for n > 0 && strings.TrimSpace(cells[n-1]) == "" {
		n--
	}
	return cells[:n]
}
