package pipeline

import (
	"time"

	"github.com/sells-group/delivery-optimizer/internal/dataset"
	"github.com/sells-group/delivery-optimizer/internal/monitoring"
	"github.com/sells-group/delivery-optimizer/internal/table"
)

// View is everything one interaction shows: the resolved filter state, the
// filtered table and what is derived from it.
type View struct {
	Options   Options      `json:"options" yaml:"options"`
	Selection Selection    `json:"selection" yaml:"selection"`
	Shape     Shape        `json:"shape" yaml:"shape"`
	KPIs      KPIs         `json:"kpis" yaml:"kpis"`
	Charts    *Charts      `json:"charts" yaml:"charts"`
	Warnings  []string     `json:"warnings" yaml:"warnings"`
	Table     *table.Table `json:"-" yaml:"-"`
}

// Engine holds the loaded sources and the merged table. It is immutable and
// safe for concurrent use; each call to View computes a fresh result.
type Engine struct {
	sources *dataset.Sources
	merged  *Merged
	options Options
	metrics *monitoring.Collector
}

// NewEngine merges the sources once. The returned engine serves every later
// filter change from the same merged table.
func NewEngine(sources *dataset.Sources, opts MergeOptions, metrics *monitoring.Collector) (*Engine, error) {
	merged, err := Merge(sources.Orders, sources.Delivery, opts)
	if err != nil {
		return nil, err
	}
	metrics.ObserveWarnings(len(merged.Warnings))
	return &Engine{
		sources: sources,
		merged:  merged,
		options: OptionsOf(merged.Table),
		metrics: metrics,
	}, nil
}

// Sources returns the loaded datasets.
func (e *Engine) Sources() *dataset.Sources {
	return e.sources
}

// Merged returns the unfiltered merged table.
func (e *Engine) Merged() *Merged {
	return e.merged
}

// Options returns the filter options of the merged table.
func (e *Engine) Options() Options {
	return Options{
		Priorities: append([]string{}, e.options.Priorities...),
		Categories: append([]string{}, e.options.Categories...),
	}
}

// View filters the merged table by sel and summarizes the result.
func (e *Engine) View(sel Selection) *View {
	start := time.Now()
	resolved := sel.Resolve(e.options)
	filtered := Apply(e.merged.Table, e.merged.Shape, resolved)

	v := &View{
		Options:   e.Options(),
		Selection: resolved,
		Shape:     e.merged.Shape,
		KPIs:      Summarize(filtered, e.merged.Shape),
		Charts:    BuildCharts(filtered, e.merged.Shape),
		Warnings:  append([]string{}, e.merged.Warnings...),
		Table:     filtered,
	}
	e.metrics.ObserveView(filtered.Len(), time.Since(start))
	return v
}
