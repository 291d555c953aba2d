package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
	"github.com/hupe1980/finmesh/model"
	"github.com/hupe1980/finmesh/tool"
)

// RecommendStage produces the investment recommendation list. It consults the
// calculator for a derived valuation ratio when price and P/E are available,
// and falls back to a deterministic rule-based list on model degradation.
type RecommendStage struct {
	baseStage
	calculator *tool.CalculatorTool
}

// NewRecommendStage creates the recommend stage.
func NewRecommendStage(m model.Model, calculator *tool.CalculatorTool, logger logging.Logger) *RecommendStage {
	return &RecommendStage{baseStage: newBaseStage(m, logger), calculator: calculator}
}

// Name implements Stage.
func (s *RecommendStage) Name() string { return StageRecommend }

// Run implements Stage. Writes Recommendations; advances the status to reviewing.
func (s *RecommendStage) Run(ctx context.Context, state *core.State) error {
	s.logger.Info("recommendation started", "symbol", state.StockSymbol)

	if sd := state.StockData; sd != nil && sd.CurrentPrice != core.NA && sd.PERatio != core.NA && sd.PERatio != "" {
		// Earnings per share implied by price and trailing P/E.
		expression := sd.CurrentPrice + " / " + sd.PERatio
		result := s.calculator.Run(expression)
		state.RecordTool(s.calculator.Name(), map[string]string{"expression": expression}, result)
	}

	resp := s.complete(ctx, []model.Message{
		{Role: "system", Content: "You are a careful and responsible investment advisor. Balance risk and reward in your recommendations, and always include a disclaimer."},
		{Role: "user", Content: recommendationPrompt(state)},
	})

	if resp.OK() {
		state.Recommendations = ParseRecommendations(resp.Text)
	} else {
		state.AddError(modelFailureError(StageRecommend, resp))
		state.Recommendations = fallbackRecommendations(state.StockData)
	}

	state.AddMessage("assistant", fmt.Sprintf("Generated %d recommendations.", len(state.Recommendations)))
	state.Status = core.StatusReviewing

	s.logger.Info("recommendation completed",
		"symbol", state.StockSymbol, "count", len(state.Recommendations), "model_used", resp.OK())
	return nil
}

func recommendationPrompt(state *core.State) string {
	return fmt.Sprintf(`Provide investment recommendations based on the following analysis:

Analysis:
%s

Stock data:
%s

Use this format:
1. [Buy/Sell/Hold] - short recommendation
2. Target value: $XX (rationale)
3. Risks: key risk factors
4. Reasoning: three core arguments
5. Caveats: what to watch out for

Disclaimer: these recommendations are for reference only; investment decisions are the reader's own responsibility.`,
		state.Analysis, formatStockData(state.StockData))
}

// listMarkers are the prefixes that qualify a line as a recommendation entry.
var listMarkers = []string{"1.", "2.", "3.", "4.", "5.", "-", "*", "•"}

// ParseRecommendations extracts list entries from free-form model output.
// Lines starting with a numbered or bullet marker are kept; if nothing
// matches, the whole text becomes a single-element list so content is never
// discarded.
func ParseRecommendations(text string) []string {
	var recommendations []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, marker := range listMarkers {
			if strings.HasPrefix(line, marker) {
				recommendations = append(recommendations, line)
				break
			}
		}
	}
	if len(recommendations) == 0 {
		return []string{text}
	}
	return recommendations
}
