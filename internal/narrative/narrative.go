// Package narrative asks Claude for a short executive summary of a
// dashboard view.
package narrative

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/delivery-optimizer/internal/config"
	"github.com/sells-group/delivery-optimizer/internal/pipeline"
	"github.com/sells-group/delivery-optimizer/internal/resilience"
	"github.com/sells-group/delivery-optimizer/pkg/anthropic"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("narrative: disabled, anthropic.key is not set")

const systemPrompt = `You are a logistics analyst. Given delivery KPIs and chart data for a
filtered set of orders, write a concise summary (at most five sentences) for
an operations manager. Call out the priorities and delay reasons that drive
late deliveries and mention any data warnings. Do not invent numbers.`

// maxReasons caps the delay reasons sent in the prompt.
const maxReasons = 5

// Summary is a generated narrative with its token cost.
type Summary struct {
	Text         string  `json:"text" yaml:"text"`
	Model        string  `json:"model" yaml:"model"`
	InputTokens  int64   `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int64   `json:"output_tokens" yaml:"output_tokens"`
	CostUSD      float64 `json:"estimated_cost_usd" yaml:"estimated_cost_usd"`
}

// Summarizer produces summaries. A Summarizer without a client is disabled.
type Summarizer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	policy    resilience.Policy
}

// New builds a Summarizer from config. Without an API key it is disabled.
func New(cfg config.AnthropicConfig, retry config.RetryConfig) *Summarizer {
	var client anthropic.Client
	if cfg.Key != "" {
		client = anthropic.NewClient(cfg.Key)
	}
	return NewWithClient(client, cfg.Model, cfg.MaxTokens, resilience.PolicyFromConfig(retry))
}

// NewWithClient builds a Summarizer around an existing client.
func NewWithClient(client anthropic.Client, model string, maxTokens int64, policy resilience.Policy) *Summarizer {
	policy.OnRetry = resilience.LogRetries("narrative.summarize")
	policy.Retryable = retryable
	return &Summarizer{client: client, model: model, maxTokens: maxTokens, policy: policy}
}

// Enabled reports whether summaries can be generated.
func (s *Summarizer) Enabled() bool {
	return s != nil && s.client != nil
}

// Summarize generates a summary of v.
func (s *Summarizer) Summarize(ctx context.Context, v *pipeline.View) (*Summary, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	prompt, err := Prompt(v)
	if err != nil {
		return nil, err
	}

	resp, err := resilience.Retry(ctx, s.policy, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     s.model,
			MaxTokens: s.maxTokens,
			System:    systemPrompt,
			Prompt:    prompt,
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "narrative: summarize")
	}

	resp.Usage.LogCost(s.model, "narrative")
	zap.L().Debug("narrative generated", zap.String("stop_reason", resp.StopReason))

	return &Summary{
		Text:         strings.TrimSpace(resp.Text),
		Model:        s.model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		CostUSD:      resp.Usage.EstimateCost(s.model),
	}, nil
}

func retryable(err error) bool {
	if code := anthropic.StatusCode(err); code != 0 {
		return resilience.IsTransientHTTPStatus(code)
	}
	return resilience.IsTransient(err)
}

type promptData struct {
	Selection       pipeline.Selection `yaml:"selection"`
	KPIs            pipeline.KPIs      `yaml:"kpis"`
	DelayByPriority []pipeline.Bar     `yaml:"delay_pct_by_priority,omitempty"`
	TrendDays       int                `yaml:"trend_days,omitempty"`
	TrendFirst      *float64           `yaml:"trend_first_day_delay_pct,omitempty"`
	TrendLast       *float64           `yaml:"trend_last_day_delay_pct,omitempty"`
	DelayReasons    []pipeline.Slice   `yaml:"top_delay_reasons,omitempty"`
	Warnings        []string           `yaml:"warnings,omitempty"`
}

// Prompt renders the facts of v as the YAML document sent to the model.
func Prompt(v *pipeline.View) (string, error) {
	d := promptData{
		Selection: v.Selection,
		KPIs:      v.KPIs,
		Warnings:  v.Warnings,
	}
	if c := v.Charts; c != nil {
		if c.DelayByPriority != nil {
			d.DelayByPriority = c.DelayByPriority.Bars
		}
		if c.DelayTrend != nil && len(c.DelayTrend.Points) > 0 {
			pts := c.DelayTrend.Points
			d.TrendDays = len(pts)
			d.TrendFirst = &pts[0].Value
			d.TrendLast = &pts[len(pts)-1].Value
		}
		if c.DelayReasons != nil {
			reasons := c.DelayReasons.Slices
			if len(reasons) > maxReasons {
				reasons = reasons[:maxReasons]
			}
			d.DelayReasons = reasons
		}
	}

	out, err := yaml.Marshal(d)
	if err != nil {
		return "", eris.Wrap(err, "narrative: encode prompt")
	}
	return "Summarize this delivery performance view:\n\n" + string(out), nil
}
