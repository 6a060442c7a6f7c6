package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeftJoin_KeepsUnmatchedRows(t *testing.T) {
	orders := mustTable(t, []string{"Order_ID", "Priority"},
		[]string{"1", "High"}, []string{"2", "Low"}, []string{"3", "Medium"})
	delivery := mustTable(t, []string{"Order_ID", "Actual"},
		[]string{"2", "4"}, []string{"1", "5"})

	out, err := orders.LeftJoin(delivery, "Order_ID")
	require.NoError(t, err)

	assert.Equal(t, []string{"Order_ID", "Priority", "Actual"}, out.Columns())
	require.Equal(t, 3, out.Len())
	assert.Equal(t, "5", out.Cell(0, "Actual").Raw)
	assert.Equal(t, "4", out.Cell(1, "Actual").Raw)
	assert.False(t, out.Cell(2, "Actual").Valid)
	assert.Equal(t, "3", out.Cell(2, "Order_ID").Raw)
}

func TestLeftJoin_DuplicateRightKeysFanOut(t *testing.T) {
	orders := mustTable(t, []string{"Order_ID"}, []string{"1"}, []string{"2"})
	delivery := mustTable(t, []string{"Order_ID", "v"},
		[]string{"1", "a"}, []string{"1", "b"})

	out, err := orders.LeftJoin(delivery, "Order_ID")
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, "a", out.Cell(0, "v").Raw)
	assert.Equal(t, "b", out.Cell(1, "v").Raw)
	assert.False(t, out.Cell(2, "v").Valid)

	assert.Equal(t, []string{"1"}, delivery.DuplicateKeys("Order_ID"))
	assert.Empty(t, orders.DuplicateKeys("Order_ID"))
}

func TestLeftJoin_OverlappingColumnsSuffixed(t *testing.T) {
	left := mustTable(t, []string{"Order_ID", "Carrier"}, []string{"1", "A"})
	right := mustTable(t, []string{"Carrier", "Order_ID"}, []string{"B", "1"})

	out, err := left.LeftJoin(right, "Order_ID")
	require.NoError(t, err)
	assert.Equal(t, []string{"Order_ID", "Carrier_x", "Carrier_y"}, out.Columns())
	assert.Equal(t, "A", out.Cell(0, "Carrier_x").Raw)
	assert.Equal(t, "B", out.Cell(0, "Carrier_y").Raw)
}

func TestLeftJoin_AbsentKeysNeverMatch(t *testing.T) {
	left := mustTable(t, []string{"Order_ID", "x"}, []string{"", "1"})
	right := mustTable(t, []string{"Order_ID", "y"}, []string{"", "2"})

	out, err := left.LeftJoin(right, "Order_ID")
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.False(t, out.Cell(0, "y").Valid)
}

func TestLeftJoin_TrimsKeys(t *testing.T) {
	left := mustTable(t, []string{"Order_ID"}, []string{" 7"})
	right := mustTable(t, []string{"Order_ID", "y"}, []string{"7 ", "ok"})

	out, err := left.LeftJoin(right, "Order_ID")
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Cell(0, "y").Raw)
}

func TestLeftJoin_MissingKey(t *testing.T) {
	left := mustTable(t, []string{"id"})
	right := mustTable(t, []string{"Order_ID"})

	_, err := left.LeftJoin(right, "Order_ID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "left table missing join key")

	_, err = right.LeftJoin(left, "Order_ID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "right table missing join key")
}
