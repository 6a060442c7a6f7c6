package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/delivery-optimizer/internal/table"
)

// WarnNoDelayColumns is raised when the duration columns needed for the
// delay metrics are missing from the merged table.
const WarnNoDelayColumns = "Delivery day columns not found, skipping delay calculation."

// MergeOptions controls Merge.
type MergeOptions struct {
	// StrictKeys rejects delivery tables that repeat an order identifier
	// instead of letting the join repeat the matching order rows.
	StrictKeys bool
}

// DuplicateKeyError lists delivery order identifiers that occur more than once.
type DuplicateKeyError struct {
	Keys []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("pipeline: %d duplicate %s values in delivery data (%s)",
		len(e.Keys), ColOrderID, strings.Join(firstN(e.Keys, 5), ", "))
}

// Merged is the joined and derived table with the warnings raised building it.
type Merged struct {
	Table    *table.Table
	Shape    Shape
	Warnings []string
}

// Merge left-joins delivery onto orders by order identifier and derives
// Delay Days and Delay Flag when both duration columns are present. Neither
// input is modified.
func Merge(orders, delivery *table.Table, opts MergeOptions) (*Merged, error) {
	var warnings []string

	if dups := delivery.DuplicateKeys(ColOrderID); len(dups) > 0 {
		if opts.StrictKeys {
			return nil, &DuplicateKeyError{Keys: dups}
		}
		warnings = append(warnings, fmt.Sprintf(
			"%d order IDs appear more than once in delivery data; matching orders are repeated.", len(dups)))
		zap.L().Warn("duplicate delivery keys", zap.Int("count", len(dups)), zap.Strings("sample", firstN(dups, 5)))
	}

	merged, err := orders.LeftJoin(delivery, ColOrderID)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: merge orders with delivery")
	}

	if merged.Has(ColActual, ColPromised) {
		merged = deriveDelay(merged)
	} else {
		warnings = append(warnings, WarnNoDelayColumns)
		zap.L().Warn("delay metrics skipped",
			zap.Bool("has_actual", merged.Has(ColActual)),
			zap.Bool("has_promised", merged.Has(ColPromised)),
		)
	}

	zap.L().Info("datasets merged",
		zap.Int("orders", orders.Len()),
		zap.Int("delivery", delivery.Len()),
		zap.Int("merged", merged.Len()),
	)

	return &Merged{Table: merged, Shape: ShapeOf(merged), Warnings: warnings}, nil
}

// deriveDelay appends Delay Days (actual minus promised) and Delay Flag
// (1 when late). Rows missing either duration get neither value.
func deriveDelay(t *table.Table) *table.Table {
	withDays := t.WithColumn(ColDelayDays, func(i int) table.Cell {
		actual, ok := t.Cell(i, ColActual).Float()
		if !ok {
			return table.Null
		}
		promised, ok := t.Cell(i, ColPromised).Float()
		if !ok {
			return table.Null
		}
		return table.Value(formatNumber(actual - promised))
	})

	return withDays.WithColumn(ColDelayFlag, func(i int) table.Cell {
		days, ok := withDays.Cell(i, ColDelayDays).Float()
		if !ok {
			return table.Null
		}
		if days > 0 {
			return table.Value("1")
		}
		return table.Value("0")
	})
}

// formatNumber prints integral values without a fractional part.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
