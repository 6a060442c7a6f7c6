package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_ThreeOrders(t *testing.T) {
	orders, delivery := threeOrders(t)
	m, err := Merge(orders, delivery, MergeOptions{})
	require.NoError(t, err)

	k := Summarize(m.Table, m.Shape)
	assert.Equal(t, 3, k.TotalOrders)
	assert.Equal(t, 1, k.DelayedDeliveries)
	assert.Equal(t, Metric{Value: 0, Available: true}, k.AvgDelayDays)
	assert.Equal(t, Metric{}, k.AvgRating)
}

func TestSummarize_Rounding(t *testing.T) {
	tbl := mustTable(t, []string{"Order_ID", "Delay Days", "Delay Flag", "Customer Rating"},
		[]string{"1", "1", "1", "4"},
		[]string{"2", "1", "1", "4"},
		[]string{"3", "0", "0", "5"},
		[]string{"4", "", "", "bad"},
	)
	k := Summarize(tbl, ShapeOf(tbl))

	assert.Equal(t, 4, k.TotalOrders)
	assert.Equal(t, 2, k.DelayedDeliveries)
	assert.Equal(t, Metric{Value: 0.67, Available: true}, k.AvgDelayDays)
	assert.Equal(t, Metric{Value: 4.33, Available: true}, k.AvgRating)
}

func TestSummarize_HalfAwayFromZero(t *testing.T) {
	tbl := mustTable(t, []string{"Order_ID", "Customer Rating"},
		[]string{"1", "4.125"},
		[]string{"2", "4.125"},
	)
	k := Summarize(tbl, ShapeOf(tbl))
	assert.Equal(t, 4.13, k.AvgRating.Value)
}

func TestSummarize_NaNAndInfSkipped(t *testing.T) {
	tbl := mustTable(t, []string{"Order_ID", "Delay Days", "Delay Flag", "Customer Rating"},
		[]string{"1", "NaN", "1", "NaN"},
		[]string{"2", "2", "Inf", "-Inf"},
		[]string{"3", "4", "1", "3"},
	)

	var k KPIs
	require.NotPanics(t, func() { k = Summarize(tbl, ShapeOf(tbl)) })
	assert.Equal(t, 2, k.DelayedDeliveries)
	assert.Equal(t, Metric{Value: 3, Available: true}, k.AvgDelayDays)
	assert.Equal(t, Metric{Value: 3, Available: true}, k.AvgRating)
}

func TestSummarize_MissingColumnsFallBackToZero(t *testing.T) {
	tbl := mustTable(t, []string{"Order_ID"}, []string{"1"}, []string{"2"})
	k := Summarize(tbl, ShapeOf(tbl))

	assert.Equal(t, KPIs{TotalOrders: 2}, k)
	assert.False(t, k.AvgRating.Available)
	assert.False(t, k.AvgDelayDays.Available)
}

func TestSummarize_EmptyTable(t *testing.T) {
	tbl := mustTable(t, []string{"Order_ID", "Delay Days", "Delay Flag", "Customer Rating"})
	k := Summarize(tbl, ShapeOf(tbl))
	assert.Equal(t, KPIs{}, k)
}
