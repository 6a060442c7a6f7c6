package pipeline

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/sells-group/delivery-optimizer/internal/table"
)

// Chart names, used in URLs and output file names.
const (
	ChartDelayByPriority = "delay_by_priority"
	ChartDelayTrend      = "delay_trend"
	ChartDistanceVsDelay = "distance_vs_delay"
	ChartDelayReasons    = "delay_reasons"
)

// ChartNames lists every chart in dashboard order.
var ChartNames = []string{ChartDelayByPriority, ChartDelayTrend, ChartDistanceVsDelay, ChartDelayReasons}

// Bar is one category of a bar chart.
type Bar struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// BarData is the Delay % by Priority chart.
type BarData struct {
	Title  string `json:"title" yaml:"title"`
	YLabel string `json:"y_label" yaml:"y_label"`
	Bars   []Bar  `json:"bars" yaml:"bars"`
}

// TrendPoint is one calendar day of the trend line.
type TrendPoint struct {
	Date  time.Time `json:"date" yaml:"date"`
	Value float64   `json:"value" yaml:"value"`
}

// TrendData is the Delay Trend Over Time chart.
type TrendData struct {
	Title  string       `json:"title" yaml:"title"`
	Points []TrendPoint `json:"points" yaml:"points"`
}

// Point is a scatter point.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// ScatterSeries is the set of points sharing one colour.
type ScatterSeries struct {
	Name   string  `json:"name" yaml:"name"`
	Points []Point `json:"points" yaml:"points"`
}

// ScatterData is the Distance vs Delay chart.
type ScatterData struct {
	Title  string          `json:"title" yaml:"title"`
	XLabel string          `json:"x_label" yaml:"x_label"`
	YLabel string          `json:"y_label" yaml:"y_label"`
	Series []ScatterSeries `json:"series" yaml:"series"`
}

// Slice is one delay reason with its share of all reasons.
type Slice struct {
	Label   string  `json:"label" yaml:"label"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
	Text    string  `json:"text" yaml:"text"`
}

// PieData is the Delay Reason chart.
type PieData struct {
	Title  string  `json:"title" yaml:"title"`
	Slices []Slice `json:"slices" yaml:"slices"`
}

// Charts holds the inputs of the four charts. A nil field means the chart is
// skipped because one of its columns is missing.
type Charts struct {
	DelayByPriority *BarData     `json:"delay_by_priority,omitempty" yaml:"delay_by_priority,omitempty"`
	DelayTrend      *TrendData   `json:"delay_trend,omitempty" yaml:"delay_trend,omitempty"`
	DistanceVsDelay *ScatterData `json:"distance_vs_delay,omitempty" yaml:"distance_vs_delay,omitempty"`
	DelayReasons    *PieData     `json:"delay_reasons,omitempty" yaml:"delay_reasons,omitempty"`
}

// Available returns the names of the charts that were not skipped.
func (c *Charts) Available() []string {
	var names []string
	for _, name := range ChartNames {
		if c.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

// Has reports whether the named chart was built.
func (c *Charts) Has(name string) bool {
	switch name {
	case ChartDelayByPriority:
		return c.DelayByPriority != nil
	case ChartDelayTrend:
		return c.DelayTrend != nil
	case ChartDistanceVsDelay:
		return c.DistanceVsDelay != nil
	case ChartDelayReasons:
		return c.DelayReasons != nil
	}
	return false
}

// BuildCharts computes the chart inputs of t, skipping every chart whose
// columns are not all present.
func BuildCharts(t *table.Table, shape Shape) *Charts {
	c := &Charts{}
	if shape.HasPriority && shape.HasDelay {
		c.DelayByPriority = delayByPriority(t)
	}
	if shape.HasOrderDate && shape.HasDelay {
		c.DelayTrend = delayTrend(t)
	}
	if shape.HasDistance && shape.HasDelay {
		c.DistanceVsDelay = distanceVsDelay(t, shape.HasPriority)
	}
	if shape.HasReason {
		c.DelayReasons = delayReasons(t)
	}
	return c
}

type meanAcc struct {
	sum float64
	n   int
}

func (a meanAcc) pct() float64 {
	return a.sum / float64(a.n) * 100
}

// delayByPriority is mean(Delay Flag) x 100 per priority, sorted by priority.
// Rows without a priority or a flag do not contribute.
func delayByPriority(t *table.Table) *BarData {
	groups := map[string]meanAcc{}
	for i := range t.Len() {
		p := t.Cell(i, ColPriority)
		flag, ok := t.Cell(i, ColDelayFlag).Float()
		if !p.Valid || !ok {
			continue
		}
		acc := groups[p.Raw]
		acc.sum += flag
		acc.n++
		groups[p.Raw] = acc
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bars := make([]Bar, 0, len(keys))
	for _, k := range keys {
		bars = append(bars, Bar{Label: k, Value: groups[k].pct()})
	}
	return &BarData{Title: "Delay Percentage by Priority", YLabel: "Delay %", Bars: bars}
}

// delayTrend is mean(Delay Flag) x 100 per order day, ascending. Unparseable
// dates are dropped.
func delayTrend(t *table.Table) *TrendData {
	groups := map[time.Time]meanAcc{}
	for i := range t.Len() {
		day, ok := parseDate(t.Cell(i, ColOrderDate).String())
		if !ok {
			continue
		}
		flag, ok := t.Cell(i, ColDelayFlag).Float()
		if !ok {
			continue
		}
		acc := groups[day]
		acc.sum += flag
		acc.n++
		groups[day] = acc
	}

	days := make([]time.Time, 0, len(groups))
	for d := range groups {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	points := make([]TrendPoint, 0, len(days))
	for _, d := range days {
		points = append(points, TrendPoint{Date: d, Value: groups[d].pct()})
	}
	return &TrendData{Title: "Delay Trend Over Time", Points: points}
}

// noPriority names the scatter series of rows whose priority is absent.
const noPriority = "(none)"

// distanceVsDelay plots one point per row with a numeric distance and delay,
// split into one series per priority in first-appearance order.
func distanceVsDelay(t *table.Table, byPriority bool) *ScatterData {
	var series []ScatterSeries
	pos := map[string]int{}
	for i := range t.Len() {
		x, ok := t.Cell(i, ColDistance).Float()
		if !ok {
			continue
		}
		y, ok := t.Cell(i, ColDelayDays).Float()
		if !ok {
			continue
		}

		name := ColDelayDays
		if byPriority {
			name = noPriority
			if p := t.Cell(i, ColPriority); p.Valid {
				name = p.Raw
			}
		}
		j, seen := pos[name]
		if !seen {
			j = len(series)
			pos[name] = j
			series = append(series, ScatterSeries{Name: name})
		}
		series[j].Points = append(series[j].Points, Point{X: x, Y: y})
	}
	return &ScatterData{
		Title:  "Distance vs Delay Days",
		XLabel: ColDistance,
		YLabel: ColDelayDays,
		Series: series,
	}
}

// delayReasons counts each present reason, most frequent first; ties keep
// first-appearance order.
func delayReasons(t *table.Table) *PieData {
	counts := map[string]int{}
	order := t.Distinct(ColReason)
	total := 0
	for i := range t.Len() {
		if c := t.Cell(i, ColReason); c.Valid {
			counts[c.Raw]++
			total++
		}
	}

	out := make([]Slice, 0, len(order))
	for _, label := range order {
		pct := float64(counts[label]) / float64(total) * 100
		out = append(out, Slice{
			Label:   label,
			Count:   counts[label],
			Percent: pct,
			Text:    fmt.Sprintf("%.1f%%", pct),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return &PieData{Title: "Delay Reasons Distribution", Slices: out}
}
