package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
	"github.com/hupe1980/finmesh/model"
)

// Defaults for model calls made by stages.
const (
	defaultTemperature = 0.1
	defaultMaxTokens   = 1000
)

// baseStage bundles the model collaborator and logger shared by the stages
// that generate text.
type baseStage struct {
	model  model.Model
	logger logging.Logger
}

func newBaseStage(m model.Model, logger logging.Logger) baseStage {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return baseStage{model: m, logger: logger}
}

// modelCallLogger is the optional richer logging surface for model calls.
type modelCallLogger interface {
	LogModelCall(model string, dur time.Duration, success bool, err error)
}

// complete invokes the model with stage defaults and logs the outcome.
func (b baseStage) complete(ctx context.Context, messages []model.Message) model.Response {
	start := time.Now()
	resp := b.model.Complete(ctx, model.Request{
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if ml, ok := b.logger.(modelCallLogger); ok {
		var err error
		if !resp.OK() {
			err = fmt.Errorf("%s: %s", resp.Failure.String(), resp.Detail)
		}
		ml.LogModelCall(b.model.Info().Name, time.Since(start), resp.OK(), err)
	} else if resp.OK() {
		b.logger.Info("model call succeeded",
			"model", b.model.Info().Name, "latency", time.Since(start))
	} else {
		b.logger.Error("model call failed",
			"model", b.model.Info().Name, "failure", resp.Failure.String(), "detail", resp.Detail, "latency", time.Since(start))
	}
	return resp
}

// modelFailureError renders a model failure for the state's error audit trail.
func modelFailureError(stage string, resp model.Response) string {
	return fmt.Sprintf("%s: model call failed (%s): %s", stage, resp.Failure.String(), resp.Detail)
}

// formatStockData renders quote data for prompt embedding.
func formatStockData(sd *core.StockData) string {
	if sd == nil {
		return "Stock data could not be retrieved."
	}
	out, err := json.MarshalIndent(sd, "", "  ")
	if err != nil {
		return "Stock data could not be rendered."
	}
	return string(out)
}

// formatNewsData renders news results for prompt embedding.
func formatNewsData(items []core.NewsItem) string {
	if len(items) == 0 {
		return "News data could not be retrieved."
	}
	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "News data could not be rendered."
	}
	return string(out)
}
