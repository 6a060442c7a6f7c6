package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/delivery-optimizer/internal/table"
)

// Metric is an aggregate that may have fallen back to its zero default.
// Available is false when the source column is missing or has no numeric
// values; Value is then 0.
type Metric struct {
	Value     float64 `json:"value" yaml:"value"`
	Available bool    `json:"available" yaml:"available"`
}

// KPIs are the four headline numbers for a filtered table.
type KPIs struct {
	TotalOrders       int    `json:"total_orders" yaml:"total_orders"`
	DelayedDeliveries int    `json:"delayed_deliveries" yaml:"delayed_deliveries"`
	AvgDelayDays      Metric `json:"avg_delay_days" yaml:"avg_delay_days"`
	AvgRating         Metric `json:"avg_rating" yaml:"avg_rating"`
}

// Summarize computes the KPIs of t. Missing columns yield zeros rather than
// errors.
func Summarize(t *table.Table, shape Shape) KPIs {
	k := KPIs{TotalOrders: t.Len()}

	if shape.HasDelay {
		var delayed float64
		for i := range t.Len() {
			if f, ok := t.Cell(i, ColDelayFlag).Float(); ok {
				delayed += f
			}
		}
		k.DelayedDeliveries = int(delayed)
		k.AvgDelayDays = roundedMean(t, ColDelayDays)
	}
	if shape.HasRating {
		k.AvgRating = roundedMean(t, ColRating)
	}
	return k
}

// roundedMean averages the numeric cells of col, rounded half away from zero
// to two decimal places.
func roundedMean(t *table.Table, col string) Metric {
	sum, n := 0.0, 0
	for i := range t.Len() {
		if f, ok := t.Cell(i, col).Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return Metric{}
	}
	// Rounds the shortest decimal form, so 2.675 gives 2.68 where a binary
	// float round would give 2.67.
	mean := decimal.NewFromFloat(sum / float64(n)).Round(2)
	return Metric{Value: mean.InexactFloat64(), Available: true}
}
