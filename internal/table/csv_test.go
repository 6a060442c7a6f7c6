package table

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	input := "Order_ID,Priority\n1,High\n2,\n"
	tbl, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Order_ID", "Priority"}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "High", tbl.Cell(0, "Priority").Raw)
	assert.False(t, tbl.Cell(1, "Priority").Valid)
}

func TestReadCSV_StripsBOM(t *testing.T) {
	input := "\ufeffOrder_ID,Priority\n1,High\n"
	tbl, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.True(t, tbl.Has("Order_ID"))
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader("a,b\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header row")
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("a,b\n\"unterminated,1\n"), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: read row")
}

func TestReadCSV_TooManyFields(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("a\n1,2\n"), CSVOptions{})
	require.Error(t, err)
}

func TestReadCSV_PipeDelimited(t *testing.T) {
	tbl, err := ReadCSV(context.Background(), strings.NewReader("a|b\n1|2\n"), CSVOptions{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, "2", tbl.Cell(0, "b").Raw)
}

func TestStreamCSV_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamCSV(ctx, strings.NewReader("a\n1\n"), CSVOptions{})
	for range rowCh {
	}
	var gotErr error
	for err := range errCh {
		gotErr = err
	}
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "context cancelled")
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	tbl := mustTable(t, []string{"Order_ID", "Product Category", "Note"},
		[]string{"1", "Electronics", "has, comma"},
		[]string{"2", "", "quote \"x\""},
	)

	data, err := tbl.CSVBytes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Order_ID,Product Category,Note\n"))

	back, err := ReadCSV(context.Background(), strings.NewReader(string(data)), CSVOptions{})
	require.NoError(t, err)
	assert.True(t, tbl.Equal(back))
}
