// Package monitoring exposes Prometheus metrics for dataset loads and
// dashboard interactions.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chart render outcomes.
const (
	OutcomeRendered = "rendered"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Collector records dashboard metrics. A nil *Collector is valid and records
// nothing.
type Collector struct {
	registry *prometheus.Registry

	loadDuration  *prometheus.HistogramVec
	datasetRows   *prometheus.GaugeVec
	viewsTotal    prometheus.Counter
	viewDuration  prometheus.Histogram
	viewRows      prometheus.Histogram
	exportsTotal  *prometheus.CounterVec
	exportBytes   *prometheus.CounterVec
	chartsTotal   *prometheus.CounterVec
	warningsTotal prometheus.Counter
}

// NewCollector creates a Collector with its own registry, including the
// standard Go and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collector{
		registry: reg,
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "delivery_dataset_load_duration_seconds",
			Help:    "Time spent reading each input dataset",
			Buckets: prometheus.DefBuckets,
		}, []string{"dataset"}),
		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "delivery_dataset_rows",
			Help: "Rows loaded per input dataset",
		}, []string{"dataset"}),
		viewsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "delivery_views_total",
			Help: "Dashboard views computed",
		}),
		viewDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "delivery_view_duration_seconds",
			Help:    "Time to filter, summarize and build chart inputs",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		viewRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "delivery_view_rows",
			Help:    "Rows in the filtered table per view",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		exportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delivery_exports_total",
			Help: "Filtered-data downloads by format",
		}, []string{"format"}),
		exportBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delivery_export_bytes_total",
			Help: "Bytes served as filtered-data downloads",
		}, []string{"format"}),
		chartsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "delivery_charts_total",
			Help: "Chart render attempts by chart and outcome",
		}, []string{"chart", "outcome"}),
		warningsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "delivery_merge_warnings_total",
			Help: "Non-fatal warnings raised while merging datasets",
		}),
	}

	reg.MustRegister(
		c.loadDuration, c.datasetRows, c.viewsTotal, c.viewDuration, c.viewRows,
		c.exportsTotal, c.exportBytes, c.chartsTotal, c.warningsTotal,
	)
	return c
}

// ObserveLoad records one dataset read.
func (c *Collector) ObserveLoad(dataset string, rows int, d time.Duration) {
	if c == nil {
		return
	}
	c.loadDuration.WithLabelValues(dataset).Observe(d.Seconds())
	c.datasetRows.WithLabelValues(dataset).Set(float64(rows))
}

// ObserveView records one computed view.
func (c *Collector) ObserveView(rows int, d time.Duration) {
	if c == nil {
		return
	}
	c.viewsTotal.Inc()
	c.viewDuration.Observe(d.Seconds())
	c.viewRows.Observe(float64(rows))
}

// ObserveExport records one download.
func (c *Collector) ObserveExport(format string, size int) {
	if c == nil {
		return
	}
	c.exportsTotal.WithLabelValues(format).Inc()
	c.exportBytes.WithLabelValues(format).Add(float64(size))
}

// ObserveChart records a chart render attempt.
func (c *Collector) ObserveChart(chart, outcome string) {
	if c == nil {
		return
	}
	c.chartsTotal.WithLabelValues(chart, outcome).Inc()
}

// ObserveWarnings adds merge warnings.
func (c *Collector) ObserveWarnings(n int) {
	if c == nil {
		return
	}
	c.warningsTotal.Add(float64(n))
}

// Handler serves the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
