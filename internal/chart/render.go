// Package chart draws the dashboard chart inputs as PNG or SVG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	gochart "github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"

	"github.com/sells-group/delivery-optimizer/internal/monitoring"
	"github.com/sells-group/delivery-optimizer/internal/pipeline"
)

// Format is an image encoding.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ErrSkipped is returned for a chart whose columns are missing from the data.
var ErrSkipped = errors.New("chart: skipped for this data")

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG:
		return f, nil
	}
	return "", eris.Errorf("chart: unknown format %q", s)
}

// ContentType is the MIME type of images in this format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == SVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// Size is the pixel size of rendered charts.
type Size struct {
	Width  int
	Height int
}

// Renderer draws chart inputs. A zero Size uses go-chart's defaults.
type Renderer struct {
	size    Size
	metrics *monitoring.Collector
}

// NewRenderer returns a Renderer drawing at size.
func NewRenderer(size Size, metrics *monitoring.Collector) *Renderer {
	return &Renderer{size: size, metrics: metrics}
}

// Render writes the named chart to w. Charts gated off for this data return
// ErrSkipped; degenerate data (for example a single trend day) is an error
// from the drawing library and is returned as is.
func (r *Renderer) Render(w io.Writer, charts *pipeline.Charts, name string, format Format) error {
	if !knownChart(name) {
		return eris.Errorf("chart: unknown chart %q", name)
	}
	if charts == nil || !charts.Has(name) {
		r.metrics.ObserveChart(name, monitoring.OutcomeSkipped)
		return ErrSkipped
	}

	var err error
	switch name {
	case pipeline.ChartDelayByPriority:
		err = r.bar(charts.DelayByPriority).Render(format.provider(), w)
	case pipeline.ChartDelayTrend:
		err = r.trend(charts.DelayTrend).Render(format.provider(), w)
	case pipeline.ChartDistanceVsDelay:
		err = r.scatter(charts.DistanceVsDelay).Render(format.provider(), w)
	case pipeline.ChartDelayReasons:
		err = r.pie(charts.DelayReasons).Render(format.provider(), w)
	}
	if err != nil {
		r.metrics.ObserveChart(name, monitoring.OutcomeFailed)
		zap.L().Warn("chart render failed", zap.String("chart", name), zap.Error(err))
		return eris.Wrapf(err, "chart: render %s", name)
	}
	r.metrics.ObserveChart(name, monitoring.OutcomeRendered)
	return nil
}

func knownChart(name string) bool {
	for _, n := range pipeline.ChartNames {
		if n == name {
			return true
		}
	}
	return false
}

func background() gochart.Style {
	return gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

// percentRange pins percentage axes so equal bars still have a drawable range.
func percentRange() *gochart.ContinuousRange {
	return &gochart.ContinuousRange{Min: 0, Max: 100}
}

func (r *Renderer) bar(d *pipeline.BarData) gochart.BarChart {
	bars := make([]gochart.Value, 0, len(d.Bars))
	for _, b := range d.Bars {
		bars = append(bars, gochart.Value{Label: b.Label, Value: b.Value})
	}
	return gochart.BarChart{
		Title:      d.Title,
		Width:      r.size.Width,
		Height:     r.size.Height,
		Background: background(),
		BarWidth:   48,
		YAxis: gochart.YAxis{
			Name:           d.YLabel,
			Range:          percentRange(),
			ValueFormatter: percentFormatter,
		},
		Bars: bars,
	}
}

func (r *Renderer) trend(d *pipeline.TrendData) gochart.Chart {
	xs := make([]time.Time, 0, len(d.Points))
	ys := make([]float64, 0, len(d.Points))
	for _, p := range d.Points {
		xs = append(xs, p.Date)
		ys = append(ys, p.Value)
	}
	return gochart.Chart{
		Title:      d.Title,
		Width:      r.size.Width,
		Height:     r.size.Height,
		Background: background(),
		XAxis: gochart.XAxis{
			Name:           pipeline.ColOrderDate,
			ValueFormatter: gochart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: gochart.YAxis{
			Name:           "Delay %",
			Range:          percentRange(),
			ValueFormatter: percentFormatter,
		},
		Series: []gochart.Series{
			gochart.TimeSeries{Name: "Delay %", XValues: xs, YValues: ys},
		},
	}
}

func (r *Renderer) scatter(d *pipeline.ScatterData) gochart.Chart {
	series := make([]gochart.Series, 0, len(d.Series))
	for i, s := range d.Series {
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
		series = append(series, gochart.ContinuousSeries{
			Name: s.Name,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    4,
				DotColor:    gochart.GetDefaultColor(i),
			},
			XValues: xs,
			YValues: ys,
		})
	}
	ch := gochart.Chart{
		Title:      d.Title,
		Width:      r.size.Width,
		Height:     r.size.Height,
		Background: background(),
		XAxis:      gochart.XAxis{Name: d.XLabel},
		YAxis:      gochart.YAxis{Name: d.YLabel},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	return ch
}

func (r *Renderer) pie(d *pipeline.PieData) gochart.PieChart {
	values := make([]gochart.Value, 0, len(d.Slices))
	for _, s := range d.Slices {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %s", s.Label, s.Text),
			Value: float64(s.Count),
		})
	}
	return gochart.PieChart{
		Title:      d.Title,
		Width:      r.size.Width,
		Height:     r.size.Height,
		Background: background(),
		Values:     values,
	}
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", f)
	}
	return ""
}
