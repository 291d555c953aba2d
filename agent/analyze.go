package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
	"github.com/hupe1980/finmesh/model"
)

// AnalyzeStage turns the collected data into a written analysis. On model
// degradation it substitutes a deterministic rule-based analysis derived from
// the quote fields.
type AnalyzeStage struct {
	baseStage
}

// NewAnalyzeStage creates the analyze stage.
func NewAnalyzeStage(m model.Model, logger logging.Logger) *AnalyzeStage {
	return &AnalyzeStage{baseStage: newBaseStage(m, logger)}
}

// Name implements Stage.
func (s *AnalyzeStage) Name() string { return StageAnalyze }

// Run implements Stage. Writes Analysis; advances the status to recommending.
func (s *AnalyzeStage) Run(ctx context.Context, state *core.State) error {
	s.logger.Info("analysis started", "symbol", state.StockSymbol)

	resp := s.complete(ctx, []model.Message{
		{Role: "system", Content: "You are a professional stock analyst. Provide an objective, professional analysis of the given data."},
		{Role: "user", Content: analysisPrompt(state)},
	})

	if resp.OK() {
		state.Analysis = resp.Text
	} else {
		state.AddError(modelFailureError(StageAnalyze, resp))
		state.Analysis = fallbackAnalysis(state, resp.Failure)
	}

	preview := state.Analysis
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	state.AddMessage("assistant", "Analysis completed: "+preview)
	state.Status = core.StatusRecommending

	s.logger.Info("analysis completed", "symbol", state.StockSymbol, "model_used", resp.OK())
	return nil
}

func analysisPrompt(state *core.State) string {
	return fmt.Sprintf(`User question: %s

Stock data:
%s

News data:
%s

Based on the data above, analyze the following:
1. Current price situation and trend
2. Key indicators (P/E ratio, volume, 52-week high/low)
3. Impact of recent news
4. Technical and fundamental conclusions

Write the analysis objectively and professionally.`,
		state.UserQuery, formatStockData(state.StockData), formatNewsData(state.NewsData))
}
