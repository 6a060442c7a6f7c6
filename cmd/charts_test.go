//go:build !integration

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/delivery-optimizer/internal/chart"
	"github.com/sells-group/delivery-optimizer/internal/pipeline"
)

func TestWriteCharts_SkipsGatedCharts(t *testing.T) {
	env := testEnv(t, nil)
	dir := filepath.Join(t.TempDir(), "out")

	written, err := writeCharts(env.Renderer, env.Engine.View(pipeline.Selection{}).Charts, dir, chart.SVG)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "delay_by_priority.svg"),
		filepath.Join(dir, "delay_trend.svg"),
		filepath.Join(dir, "distance_vs_delay.svg"),
	}, written)
	for _, p := range written {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<svg")
	}
	_, err = os.Stat(filepath.Join(dir, "delay_reasons.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteCharts_RenderFailureAborts(t *testing.T) {
	env := testEnv(t, nil)
	charts := &pipeline.Charts{DelayByPriority: &pipeline.BarData{Title: "empty"}}

	written, err := writeCharts(env.Renderer, charts, t.TempDir(), chart.PNG)
	require.Error(t, err)
	assert.Empty(t, written)
}
