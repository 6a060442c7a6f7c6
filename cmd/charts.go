package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/delivery-optimizer/internal/chart"
	"github.com/sells-group/delivery-optimizer/internal/pipeline"
)

var (
	chartsFilters filterFlags
	chartsDir     string
	chartsSVG     bool
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render the dashboard charts to image files",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initDashboard(cmd.Context(), cfg, "report")
		if err != nil {
			return err
		}

		format := chart.PNG
		if chartsSVG {
			format = chart.SVG
		}
		written, err := writeCharts(env.Renderer, env.Engine.View(chartsFilters.selection()).Charts, chartsDir, format)
		if err != nil {
			return err
		}
		zap.L().Info("charts written", zap.String("dir", chartsDir), zap.Strings("files", written))
		return nil
	},
}

func init() {
	chartsFilters.register(chartsCmd)
	chartsCmd.Flags().StringVar(&chartsDir, "dir", "charts", "output directory")
	chartsCmd.Flags().BoolVar(&chartsSVG, "svg", false, "write SVG instead of PNG")
	rootCmd.AddCommand(chartsCmd)
}

// writeCharts renders every chart that is not skipped into dir and returns the
// written paths. A chart that fails to render aborts the run.
func writeCharts(r *chart.Renderer, charts *pipeline.Charts, dir string, format chart.Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "charts: create %s", dir)
	}

	var written []string
	for _, name := range pipeline.ChartNames {
		var buf bytes.Buffer
		err := r.Render(&buf, charts, name, format)
		if errors.Is(err, chart.ErrSkipped) {
			zap.L().Info("chart skipped, required columns missing", zap.String("chart", name))
			continue
		}
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, name+"."+string(format))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return written, eris.Wrapf(err, "charts: write %s", path)
		}
		written = append(written, path)
	}
	return written, nil
}
