package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/delivery-optimizer/internal/narrative"
	"github.com/sells-group/delivery-optimizer/internal/pipeline"
)

var (
	reportFilters filterFlags
	reportFormat  string
	reportSummary bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print delay KPIs for a priority and category selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if reportSummary {
			if err := cfg.Validate("summary"); err != nil {
				return err
			}
		}

		env, err := initDashboard(ctx, cfg, "report")
		if err != nil {
			return err
		}

		v := env.Engine.View(reportFilters.selection())
		out := newReport(v)
		if reportSummary {
			s, err := env.Summarizer.Summarize(ctx, v)
			if err != nil {
				return err
			}
			out.Summary = s
		}
		return writeReport(cmd.OutOrStdout(), out, reportFormat)
	},
}

func init() {
	reportFilters.register(reportCmd)
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "output format: table, json or yaml")
	reportCmd.Flags().BoolVar(&reportSummary, "summary", false, "append a generated narrative summary (needs anthropic.key)")
	rootCmd.AddCommand(reportCmd)
}

// report is the printable form of a view.
type report struct {
	Selection pipeline.Selection `json:"selection" yaml:"selection"`
	Options   pipeline.Options   `json:"options" yaml:"options"`
	KPIs      pipeline.KPIs      `json:"kpis" yaml:"kpis"`
	Charts    []string           `json:"charts" yaml:"charts"`
	Warnings  []string           `json:"warnings" yaml:"warnings"`
	Summary   *narrative.Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

func newReport(v *pipeline.View) report {
	charts := v.Charts.Available()
	if charts == nil {
		charts = []string{}
	}
	warnings := v.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return report{
		Selection: v.Selection,
		Options:   v.Options,
		KPIs:      v.KPIs,
		Charts:    charts,
		Warnings:  warnings,
	}
}

func writeReport(w io.Writer, r report, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(r), "report: encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "report: encode yaml")
		}
		return eris.Wrap(enc.Close(), "report: encode yaml")
	case "table", "":
		return writeReportTable(w, r)
	}
	return eris.Errorf("report: unknown format %q", format)
}

func writeReportTable(out io.Writer, r report) error {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = p.Fprintf(w, "Total Orders:\t%d\n", r.KPIs.TotalOrders)
	_, _ = p.Fprintf(w, "Delayed Deliveries:\t%d\n", r.KPIs.DelayedDeliveries)
	_, _ = fmt.Fprintf(w, "Avg Delay (days):\t%s\n", formatMetric(p, r.KPIs.AvgDelayDays))
	_, _ = fmt.Fprintf(w, "Avg Rating:\t%s\n", formatMetric(p, r.KPIs.AvgRating))
	_, _ = fmt.Fprintf(w, "Priorities:\t%s\n", formatSelected(r.Selection.Priorities, r.Options.Priorities))
	_, _ = fmt.Fprintf(w, "Categories:\t%s\n", formatSelected(r.Selection.Categories, r.Options.Categories))
	_, _ = fmt.Fprintf(w, "Charts:\t%s\n", orNone(r.Charts))
	if err := w.Flush(); err != nil {
		return eris.Wrap(err, "report: write table")
	}

	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintf(out, "warning: %s\n", warn)
	}
	if r.Summary != nil {
		_, _ = fmt.Fprintf(out, "\n%s\n", r.Summary.Text)
	}
	return nil
}

func formatMetric(p *message.Printer, m pipeline.Metric) string {
	s := p.Sprintf("%.2f", m.Value)
	if !m.Available {
		s += " (no data)"
	}
	return s
}

func formatSelected(selected, options []string) string {
	if len(selected) == 0 {
		return "none selected (showing all)"
	}
	return fmt.Sprintf("%s (%d of %d)", strings.Join(selected, ", "), len(selected), len(options))
}

func orNone(s []string) string {
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ", ")
}
