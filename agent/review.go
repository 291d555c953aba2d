package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
	"github.com/hupe1980/finmesh/model"
)

// ReviewStage assembles the final narrative report. On model degradation it
// builds a deterministic six-section report purely from the collected fields.
type ReviewStage struct {
	baseStage
}

// NewReviewStage creates the review stage.
func NewReviewStage(m model.Model, logger logging.Logger) *ReviewStage {
	return &ReviewStage{baseStage: newBaseStage(m, logger)}
}

// Name implements Stage.
func (s *ReviewStage) Name() string { return StageReview }

// Run implements Stage. Writes FinalReport; advances the status to done.
func (s *ReviewStage) Run(ctx context.Context, state *core.State) error {
	s.logger.Info("review started", "symbol", state.StockSymbol)

	resp := s.complete(ctx, []model.Message{
		{Role: "system", Content: "You are a professional financial analyst. Synthesize all collected information into a clear and complete investment report."},
		{Role: "user", Content: reportPrompt(state)},
	})

	if resp.OK() {
		state.FinalReport = resp.Text
	} else {
		state.AddError(modelFailureError(StageReview, resp))
		state.FinalReport = fallbackReport(state, resp.Failure)
	}

	state.AddMessage("assistant", "The final report has been completed.")
	state.Status = core.StatusDone

	s.logger.Info("review completed", "symbol", state.StockSymbol, "model_used", resp.OK())
	return nil
}

func reportPrompt(state *core.State) string {
	var recommendations strings.Builder
	for _, rec := range state.Recommendations {
		fmt.Fprintf(&recommendations, "- %s\n", rec)
	}
	return fmt.Sprintf(`User question: %s

Write a professional investment report synthesizing all of the findings below.

Stock data:
%s

Analysis:
%s

Recommendations:
%s
Structure the report as:
1. Executive Summary
2. Stock Overview and Current Situation
3. Key Analysis
4. Investment Recommendations
5. Risks and Caveats
6. Conclusion

The report should be professional and easy to understand.`,
		state.UserQuery, formatStockData(state.StockData), state.Analysis, recommendations.String())
}
