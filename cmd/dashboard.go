package main

import (
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/sells-group/delivery-optimizer/internal/export"
	"github.com/sells-group/delivery-optimizer/internal/pipeline"
)

var chartTitles = map[string]string{
	pipeline.ChartDelayByPriority: "Delay Percentage by Priority",
	pipeline.ChartDelayTrend:      "Delay Trend Over Time",
	pipeline.ChartDistanceVsDelay: "Distance vs Delay Days",
	pipeline.ChartDelayReasons:    "Delay Reasons Distribution",
}

type option struct {
	Value    string
	Selected bool
}

type chartLink struct {
	Title string
	Src   template.URL
}

type dashboardPage struct {
	Priorities     []option
	Categories     []option
	KPIs           pipeline.KPIs
	Rows           int
	Charts         []chartLink
	Warnings       []string
	CSVHref        template.URL
	XLSXHref       template.URL
	SummaryHref    template.URL
	SummaryEnabled bool
}

func dashboardHandler(env *dashboardEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := filterQuery(r.URL.Query())
		v := env.Engine.View(selectionFromQuery(q))

		page := dashboardPage{
			Priorities:     options(v.Options.Priorities, v.Selection.Priorities),
			Categories:     options(v.Options.Categories, v.Selection.Categories),
			KPIs:           v.KPIs,
			Rows:           v.Table.Len(),
			Warnings:       v.Warnings,
			CSVHref:        withQuery("/export/"+export.Filename, q),
			XLSXHref:       withQuery("/export/"+export.XLSXFilename, q),
			SummaryHref:    withQuery("/api/summary", q),
			SummaryEnabled: env.Summarizer.Enabled(),
		}
		for _, name := range v.Charts.Available() {
			page.Charts = append(page.Charts, chartLink{
				Title: chartTitles[name],
				Src:   withQuery("/charts/"+name+".png", q),
			})
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := dashboardTpl.Execute(w, page); err != nil {
			zap.L().Error("render dashboard", zap.Error(err))
		}
	}
}

// filterQuery keeps only the filter parameters of q.
func filterQuery(q url.Values) url.Values {
	out := url.Values{}
	for _, k := range []string{"priority", "category"} {
		if vs, ok := q[k]; ok {
			out[k] = vs
		}
	}
	return out
}

func withQuery(path string, q url.Values) template.URL {
	if len(q) == 0 {
		return template.URL(path) //nolint:gosec // path is a constant, q is re-encoded
	}
	return template.URL(path + "?" + q.Encode()) //nolint:gosec // q is re-encoded
}

func options(all, selected []string) []option {
	sel := make(map[string]bool, len(selected))
	for _, s := range selected {
		sel[s] = true
	}
	out := make([]option, 0, len(all))
	for _, v := range all {
		out = append(out, option{Value: v, Selected: sel[v]})
	}
	return out
}

var dashboardTpl = template.Must(template.New("dashboard").Parse(`<!doctype html><html><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Predictive Delivery Optimizer</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Arial;background:#0b1020;color:#e8ecff;margin:0;padding:20px}
.card{background:#111837;border:1px solid #203063;border-radius:14px;padding:16px;margin:12px 0}
h1{margin:0 0 10px 0} .muted{color:#9aa7cf}
.kpis{display:flex;gap:12px;flex-wrap:wrap}
.kpi{background:#1b2a59;padding:10px 14px;border-radius:10px;min-width:160px}
.kpi b{display:block;font-size:1.6em}
.charts{display:grid;grid-template-columns:repeat(auto-fit,minmax(420px,1fr));gap:12px}
.charts img{max-width:100%;background:#fff;border-radius:10px}
select{min-width:220px;min-height:90px}
.warn{color:#ffcf6b}
a,button{background:#7aa2ff;color:#04102a;border:none;padding:8px 12px;border-radius:10px;cursor:pointer;text-decoration:none}
</style>
</head><body>
<h1>Predictive Delivery Optimizer - NexGen Logistics</h1>
<p class="muted">Analyze delivery delays across orders, routes, and carriers</p>
{{range .Warnings}}<p class="warn">{{.}}</p>{{end}}
<div class="card">
  <form method="GET" action="/">
    <input type="hidden" name="priority" value="">
    <input type="hidden" name="category" value="">
    <label>Priority<br><select name="priority" multiple>
      {{range .Priorities}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
    </select></label>
    <label>Product Category<br><select name="category" multiple>
      {{range .Categories}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
    </select></label>
    <button type="submit">Apply</button>
  </form>
</div>
<div class="card kpis">
  <div class="kpi">Total Orders<b>{{.KPIs.TotalOrders}}</b></div>
  <div class="kpi">Delayed Deliveries<b>{{.KPIs.DelayedDeliveries}}</b></div>
  <div class="kpi">Avg Delay (days)<b>{{printf "%.2f" .KPIs.AvgDelayDays.Value}}</b></div>
  <div class="kpi">Avg Rating<b>{{printf "%.2f" .KPIs.AvgRating.Value}}</b></div>
</div>
<div class="charts">
  {{range .Charts}}<div class="card"><h3>{{.Title}}</h3><img src="{{.Src}}" alt="{{.Title}}"></div>{{end}}
</div>
<div class="card">
  <p class="muted">{{.Rows}} rows in the filtered view.</p>
  <a href="{{.CSVHref}}">Download CSV</a>
  <a href="{{.XLSXHref}}">Download as Excel</a>
  {{if .SummaryEnabled}}<a href="{{.SummaryHref}}">Executive summary (JSON)</a>{{end}}
</div>
</body></html>
`))
