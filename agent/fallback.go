package agent

import (
	"fmt"
	"strings"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/model"
)

// Rule-based fallbacks used when the model collaborator is degraded. They are
// pure functions of already-collected quote data, so a run always completes
// with a non-empty analysis, recommendation list and report.

func failureNotice(kind model.FailureKind) string {
	switch kind {
	case model.FailureQuota:
		return "Automated analysis was unavailable (model quota exceeded); the following is a rule-based summary."
	case model.FailureRateLimited:
		return "Automated analysis was unavailable (model rate limited); the following is a rule-based summary."
	default:
		return "Automated analysis was unavailable; the following is a rule-based summary."
	}
}

// trendDescription classifies the price movement by the sign of the change.
func trendDescription(sd *core.StockData) string {
	if sd == nil {
		return "unknown"
	}
	change, ok := core.Float(sd.Change)
	if !ok {
		return "unknown"
	}
	switch {
	case change > 0:
		return "upward"
	case change < 0:
		return "downward"
	default:
		return "flat"
	}
}

// peAssessment buckets the trailing P/E ratio: below 15 reads as undervalued,
// above 25 as overvalued, in between as fairly valued.
func peAssessment(sd *core.StockData) string {
	if sd == nil {
		return "not assessable"
	}
	pe, ok := core.Float(sd.PERatio)
	if !ok {
		return "not assessable"
	}
	switch {
	case pe < 15:
		return "undervalued"
	case pe > 25:
		return "overvalued"
	default:
		return "fairly valued"
	}
}

// rangePosition locates the current price within the 52-week range. The
// second return is false when any input is missing.
func rangePosition(sd *core.StockData) (string, bool) {
	if sd == nil {
		return "", false
	}
	price, okP := core.Float(sd.CurrentPrice)
	high, okH := core.Float(sd.High52W)
	low, okL := core.Float(sd.Low52W)
	if !okP || !okH || !okL || high <= low {
		return "", false
	}
	position := (price - low) / (high - low) * 100
	switch {
	case position > 80:
		return fmt.Sprintf("near its 52-week high (%.1f%% of the range)", position), true
	case position < 20:
		return fmt.Sprintf("near its 52-week low (%.1f%% of the range)", position), true
	default:
		return fmt.Sprintf("mid-range (%.1f%% of the 52-week range)", position), true
	}
}

// fallbackAnalysis derives a deterministic analysis from quote fields and
// news sentiment.
func fallbackAnalysis(state *core.State, kind model.FailureKind) string {
	var b strings.Builder
	b.WriteString(failureNotice(kind))
	b.WriteString("\n\n")

	if sd := state.StockData; sd == nil || sd.Status != "success" {
		b.WriteString("No quote data was available for this symbol, so no data-driven analysis can be offered.")
	} else {
		fmt.Fprintf(&b, "%s is trading at $%s with a change of %s (%s%%); the trend is %s. ",
			sd.Symbol, sd.CurrentPrice, sd.Change, sd.ChangePercent, trendDescription(sd))
		fmt.Fprintf(&b, "At a trailing P/E of %s the stock looks %s. ", sd.PERatio, peAssessment(sd))
		if position, ok := rangePosition(sd); ok {
			fmt.Fprintf(&b, "The price currently sits %s.", position)
		}
	}

	if len(state.NewsData) > 0 {
		s := SummarizeNewsSentiment(state.NewsData)
		fmt.Fprintf(&b, "\n\nRecent news coverage reads %s: %d positive, %d negative and %d neutral of %d scored articles.",
			s.Overall, s.Positive, s.Negative, s.Neutral, s.Scored)
	}
	return b.String()
}

// fallbackRecommendations derives a deterministic recommendation list from
// the P/E bucket and the sign of the price change.
func fallbackRecommendations(sd *core.StockData) []string {
	action := "Hold"
	rationale := "insufficient data for a stronger signal"
	if sd != nil && sd.Status == "success" {
		trend := trendDescription(sd)
		switch peAssessment(sd) {
		case "undervalued":
			if trend == "upward" {
				action, rationale = "Buy", "undervalued with positive momentum"
			} else {
				action, rationale = "Buy", "undervalued on valuation grounds"
			}
		case "overvalued":
			if trend == "downward" {
				action, rationale = "Sell", "overvalued with negative momentum"
			} else {
				action, rationale = "Hold", "overvalued but momentum is not negative"
			}
		default:
			action, rationale = "Hold", "fairly valued at current levels"
		}
	}
	return []string{
		fmt.Sprintf("1. [%s] - %s.", action, rationale),
		"2. Risks: market volatility, sector rotation and macro conditions can invalidate this assessment quickly.",
		"3. Disclaimer: this is a rule-based recommendation for reference only; investment decisions are the reader's own responsibility.",
	}
}

// fallbackReport assembles the six-section report purely from collected
// fields. It has no network dependency.
func fallbackReport(state *core.State, kind model.FailureKind) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Investment Report: %s\n\n", state.StockSymbol)
	b.WriteString(failureNotice(kind))
	b.WriteString("\n\n")

	b.WriteString("1. Executive Summary\n")
	fmt.Fprintf(&b, "Requested analysis: %s\n\n", state.UserQuery)

	b.WriteString("2. Stock Overview and Current Situation\n")
	if sd := state.StockData; sd != nil && sd.Status == "success" {
		fmt.Fprintf(&b, "Price $%s, change %s (%s%%), volume %s, market cap %s, trailing P/E %s, 52-week range %s - %s.\n\n",
			sd.CurrentPrice, sd.Change, sd.ChangePercent, sd.Volume, sd.MarketCap, sd.PERatio, sd.Low52W, sd.High52W)
	} else {
		b.WriteString("Quote data was not available for this run.\n\n")
	}

	b.WriteString("3. Key Analysis\n")
	if state.Analysis != "" {
		b.WriteString(state.Analysis)
	} else {
		b.WriteString("No analysis was produced.")
	}
	b.WriteString("\n\n")

	b.WriteString("4. Investment Recommendations\n")
	if len(state.Recommendations) > 0 {
		for _, rec := range state.Recommendations {
			fmt.Fprintf(&b, "%s\n", rec)
		}
	} else {
		b.WriteString("No recommendations were produced.\n")
	}
	b.WriteString("\n")

	b.WriteString("5. Risks and Caveats\n")
	b.WriteString("All figures reflect a single point-in-time snapshot; verify against a primary source before acting.\n")
	if len(state.Errors) > 0 {
		fmt.Fprintf(&b, "This run recorded %d issue(s); see the audit trail for details.\n", len(state.Errors))
	}
	b.WriteString("\n")

	b.WriteString("6. Conclusion\n")
	fmt.Fprintf(&b, "Assessment for %s: %s trend, %s by trailing P/E.\n",
		state.StockSymbol, trendDescription(state.StockData), peAssessment(state.StockData))

	return b.String()
}
