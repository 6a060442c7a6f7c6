package pipeline

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/delivery-optimizer/internal/dataset"
	"github.com/sells-group/delivery-optimizer/internal/monitoring"
)

func engineFixture(t *testing.T, metrics *monitoring.Collector) *Engine {
	t.Helper()
	orders := mustTable(t, []string{"Order_ID", "Priority", "Product Category", "Order Date", "Distance (km)"},
		[]string{"1", "High", "Electronics", "2024-01-01", "100"},
		[]string{"2", "Low", "Books", "2024-01-02", "50"},
		[]string{"3", "Medium", "Books", "2024-01-02", "75"},
	)
	delivery := mustTable(t, []string{"Order_ID", "Promised_Delivery_Days", "Actual_Delivery_Days", "Customer Rating", "Delay Reason"},
		[]string{"1", "3", "5", "3", "Traffic"},
		[]string{"2", "4", "2", "5", ""},
	)
	sources := &dataset.Sources{
		Orders:   orders,
		Delivery: delivery,
		Vehicles: mustTable(t, []string{"Vehicle_ID"}),
		Costs:    mustTable(t, []string{"Order_ID"}),
	}
	e, err := NewEngine(sources, MergeOptions{}, metrics)
	require.NoError(t, err)
	return e
}

func TestEngine_DefaultView(t *testing.T) {
	e := engineFixture(t, nil)
	v := e.View(Selection{})

	assert.Equal(t, []string{"High", "Low", "Medium"}, v.Options.Priorities)
	assert.Equal(t, v.Options.Priorities, v.Selection.Priorities)
	assert.Equal(t, []string{"Electronics", "Books"}, v.Selection.Categories)

	assert.Equal(t, 3, v.KPIs.TotalOrders)
	assert.Equal(t, 1, v.KPIs.DelayedDeliveries)
	assert.Equal(t, Metric{Value: 0, Available: true}, v.KPIs.AvgDelayDays)
	assert.Equal(t, Metric{Value: 4, Available: true}, v.KPIs.AvgRating)

	assert.Equal(t, ChartNames, v.Charts.Available())
	assert.Empty(t, v.Warnings)
	assert.Equal(t, 3, v.Table.Len())
}

func TestEngine_FilteredView(t *testing.T) {
	e := engineFixture(t, nil)
	v := e.View(Selection{Categories: []string{"Books"}})

	assert.Equal(t, 2, v.KPIs.TotalOrders)
	assert.Equal(t, 0, v.KPIs.DelayedDeliveries)
	assert.Equal(t, Metric{Value: -2, Available: true}, v.KPIs.AvgDelayDays)
	assert.Equal(t, []string{"Books"}, v.Selection.Categories)
	assert.Equal(t, []string{"High", "Low", "Medium"}, v.Options.Priorities)
}

func TestEngine_ViewsAreIndependent(t *testing.T) {
	e := engineFixture(t, nil)
	narrow := e.View(Selection{Priorities: []string{"High"}})
	wide := e.View(Selection{})

	assert.Equal(t, 1, narrow.Table.Len())
	assert.Equal(t, 3, wide.Table.Len())
	assert.Equal(t, 3, e.Merged().Table.Len())

	narrow.Options.Priorities[0] = "mutated"
	assert.Equal(t, "High", e.Options().Priorities[0])
}

func TestEngine_RecordsMetrics(t *testing.T) {
	metrics := monitoring.NewCollector()
	e := engineFixture(t, metrics)
	e.View(Selection{})
	e.View(Selection{Priorities: []string{"Low"}})

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "delivery_views_total 2")
}

func TestEngine_StrictKeys(t *testing.T) {
	sources := &dataset.Sources{
		Orders:   mustTable(t, []string{"Order_ID"}, []string{"1"}),
		Delivery: mustTable(t, []string{"Order_ID"}, []string{"1"}, []string{"1"}),
	}
	_, err := NewEngine(sources, MergeOptions{StrictKeys: true}, nil)
	require.Error(t, err)
}
