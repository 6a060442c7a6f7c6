package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/delivery-optimizer/internal/export"
)

var (
	exportFilters filterFlags
	exportOut     string
	exportXLSX    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered table to filtered_data.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initDashboard(cmd.Context(), cfg, "report")
		if err != nil {
			return err
		}

		v := env.Engine.View(exportFilters.selection())

		format, name := "csv", export.Filename
		encode := export.CSV
		if exportXLSX {
			format, name = "xlsx", export.XLSXFilename
			encode = export.XLSX
		}
		data, err := encode(v.Table)
		if err != nil {
			return err
		}

		path := exportOut
		if path == "" {
			path = name
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return eris.Wrapf(err, "export: create %s", dir)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return eris.Wrapf(err, "export: write %s", path)
		}
		env.Metrics.ObserveExport(format, len(data))

		zap.L().Info("exported filtered data",
			zap.String("path", path),
			zap.Int("rows", v.Table.Len()),
			zap.Int("bytes", len(data)),
		)
		return nil
	},
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default filtered_data.csv or .xlsx)")
	exportCmd.Flags().BoolVar(&exportXLSX, "xlsx", false, "write an Excel workbook instead of CSV")
	rootCmd.AddCommand(exportCmd)
}
