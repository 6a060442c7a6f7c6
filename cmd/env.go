package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/delivery-optimizer/internal/chart"
	"github.com/sells-group/delivery-optimizer/internal/config"
	"github.com/sells-group/delivery-optimizer/internal/dataset"
	"github.com/sells-group/delivery-optimizer/internal/monitoring"
	"github.com/sells-group/delivery-optimizer/internal/narrative"
	"github.com/sells-group/delivery-optimizer/internal/pipeline"
)

// dashboardEnv holds everything a command needs to build views.
type dashboardEnv struct {
	Metrics    *monitoring.Collector
	Engine     *pipeline.Engine
	Renderer   *chart.Renderer
	Summarizer *narrative.Summarizer
}

// initDashboard validates cfg for mode, loads the datasets once and merges
// them. Load failures are fatal.
func initDashboard(ctx context.Context, c *config.Config, mode string) (*dashboardEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	metrics := monitoring.NewCollector()
	cache := dataset.NewCache(dataset.NewLoader(dataset.PathsFromConfig(c.Data), metrics))

	sources, err := cache.Get(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load datasets")
	}

	engine, err := pipeline.NewEngine(sources, pipeline.MergeOptions{StrictKeys: c.Data.StrictJoin}, metrics)
	if err != nil {
		return nil, eris.Wrap(err, "merge datasets")
	}
	for _, w := range engine.Merged().Warnings {
		zap.L().Warn("dataset warning", zap.String("warning", w))
	}

	return &dashboardEnv{
		Metrics:    metrics,
		Engine:     engine,
		Renderer:   chart.NewRenderer(chart.Size{Width: c.Chart.Width, Height: c.Chart.Height}, metrics),
		Summarizer: narrative.New(c.Anthropic, c.Retry),
	}, nil
}
