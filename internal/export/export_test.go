package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/delivery-optimizer/internal/table"
)

func sample(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromStrings(
		[]string{"Order_ID", "Priority", "Delay Reason", "Delay Days"},
		[][]string{
			{"1", "High", "Traffic, heavy", "2"},
			{"2", "Low", "", "-2"},
			{"3", "Medium", `said "late"`, ""},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestCSV_Format(t *testing.T) {
	b, err := CSV(sample(t))
	require.NoError(t, err)

	want := "Order_ID,Priority,Delay Reason,Delay Days\n" +
		"1,High,\"Traffic, heavy\",2\n" +
		"2,Low,,-2\n" +
		"3,Medium,\"said \"\"late\"\"\",\n"
	assert.Equal(t, want, string(b))
}

func TestCSV_RoundTrip(t *testing.T) {
	orig := sample(t)
	b, err := CSV(orig)
	require.NoError(t, err)

	back, err := table.ReadCSV(context.Background(), bytes.NewReader(b), table.CSVOptions{})
	require.NoError(t, err)
	assert.True(t, orig.Equal(back))
}

func TestCSV_EmptyTableKeepsHeader(t *testing.T) {
	tbl, err := table.FromStrings([]string{"Order_ID", "Priority"}, nil)
	require.NoError(t, err)

	b, err := CSV(tbl)
	require.NoError(t, err)
	assert.Equal(t, "Order_ID,Priority\n", string(b))
}

func TestXLSX(t *testing.T) {
	b, err := XLSX(sample(t))
	require.NoError(t, err)

	f, err := xlsx.OpenBinary(b)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	assert.Equal(t, SheetName, sheet.Name)
	require.Len(t, sheet.Rows, 4)

	assert.Equal(t, "Order_ID", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Traffic, heavy", sheet.Rows[1].Cells[2].String())
	assert.Equal(t, "-2", sheet.Rows[2].Cells[3].String())
	assert.Equal(t, "", sheet.Rows[2].Cells[2].String())
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "filtered_data.csv", Filename)
	assert.Equal(t, "text/csv", ContentType)
}
