package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/delivery-optimizer/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "delivery-optimizer",
	Short: "Delivery delay analytics dashboard",
	Long:  "Loads order, delivery, fleet and cost tables, joins orders with delivery performance, and reports delay KPIs and charts filtered by priority and product category.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
