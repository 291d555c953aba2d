package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
	"github.com/hupe1980/finmesh/tool"
)

// ResearchStage collects quote and news data. Tool failures are recorded in
// the state's error trail but never abort the stage: the pipeline always
// advances to analysis with whatever was collected.
type ResearchStage struct {
	quote  *tool.QuoteTool
	news   *tool.NewsTool
	logger logging.Logger
}

// NewResearchStage creates the research stage.
func NewResearchStage(quote *tool.QuoteTool, news *tool.NewsTool, logger logging.Logger) *ResearchStage {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ResearchStage{quote: quote, news: news, logger: logger}
}

// Name implements Stage.
func (s *ResearchStage) Name() string { return StageResearch }

// Run implements Stage. Writes StockData and NewsData; advances the status
// to analyzing.
func (s *ResearchStage) Run(ctx context.Context, state *core.State) error {
	s.logger.Info("research started", "symbol", state.StockSymbol, "iteration", state.Iteration)

	state.AddMessage("system", fmt.Sprintf("Starting data collection for %s.", state.StockSymbol))

	quoteData := s.quote.Run(ctx, state.StockSymbol)
	state.RecordTool(s.quote.Name(), map[string]string{"symbol": state.StockSymbol}, quoteData)
	state.StockData = quoteData
	if quoteData.Status == tool.StatusSuccess {
		state.AddMessage("assistant",
			fmt.Sprintf("Quote data collected: %s is trading at $%s.", state.StockSymbol, quoteData.CurrentPrice))
	} else {
		msg := "stock data collection failed: " + quoteData.Error
		state.AddError(msg)
		state.AddMessage("assistant", msg)
	}

	newsQuery := state.StockSymbol + " stock news"
	newsResult := s.news.Run(ctx, newsQuery)
	state.RecordTool(s.news.Name(), map[string]string{"query": newsQuery}, newsResult)
	if newsResult.Status == tool.StatusSuccess {
		state.NewsData = newsResult.Results
		state.AddMessage("assistant", fmt.Sprintf("Found %d related news articles.", len(newsResult.Results)))
	} else {
		msg := "news search failed: " + newsResult.Error
		state.AddError(msg)
		state.AddMessage("assistant", msg)
	}

	state.Status = core.StatusAnalyzing

	s.logger.Info("research completed",
		"symbol", state.StockSymbol,
		"quote_collected", quoteData.Status == tool.StatusSuccess,
		"news_collected", newsResult.Status == tool.StatusSuccess)
	return nil
}
