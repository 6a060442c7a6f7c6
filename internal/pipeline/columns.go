// Package pipeline turns the loaded datasets into dashboard views: it merges
// orders with delivery performance, derives the delay metrics, applies the
// priority/category filter, and computes KPIs and chart inputs.
package pipeline

import (
	"github.com/sells-group/delivery-optimizer/internal/dataset"
	"github.com/sells-group/delivery-optimizer/internal/table"
)

// Input and derived column names.
const (
	ColOrderID   = dataset.KeyColumn
	ColPriority  = "Priority"
	ColCategory  = "Product Category"
	ColOrderDate = "Order Date"
	ColDistance  = "Distance (km)"
	ColActual    = "Actual_Delivery_Days"
	ColPromised  = "Promised_Delivery_Days"
	ColRating    = "Customer Rating"
	ColReason    = "Delay Reason"
	ColDelayDays = "Delay Days"
	ColDelayFlag = "Delay Flag"
)

// Shape records which optional columns the merged table carries. It is
// computed once per merged table; filtered views share it.
type Shape struct {
	HasPriority  bool `json:"has_priority"`
	HasCategory  bool `json:"has_category"`
	HasOrderDate bool `json:"has_order_date"`
	HasDistance  bool `json:"has_distance"`
	HasDelay     bool `json:"has_delay"`
	HasRating    bool `json:"has_rating"`
	HasReason    bool `json:"has_reason"`
}

// ShapeOf inspects t's columns.
func ShapeOf(t *table.Table) Shape {
	return Shape{
		HasPriority:  t.Has(ColPriority),
		HasCategory:  t.Has(ColCategory),
		HasOrderDate: t.Has(ColOrderDate),
		HasDistance:  t.Has(ColDistance),
		HasDelay:     t.Has(ColDelayDays, ColDelayFlag),
		HasRating:    t.Has(ColRating),
		HasReason:    t.Has(ColReason),
	}
}
