package agent

import (
	"strings"

	"github.com/hupe1980/finmesh/core"
)

// Sentiment labels for news coverage.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Keyword lists driving the per-article classification. Matching is
// case-insensitive substring search over title and snippet.
var (
	positiveKeywords = []string{"strong", "rise", "gain", "growth", "surge", "beat"}
	negativeKeywords = []string{"weak", "fall", "drop", "decline", "concern", "loss"}
)

// maxSentimentArticles bounds how many articles are scored per run.
const maxSentimentArticles = 10

// SentimentSummary is the aggregate sentiment of a news result set.
type SentimentSummary struct {
	Overall  string `json:"overall"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
	Scored   int    `json:"scored"`
}

// ClassifyNewsItem scores one article by keyword majority: more positive than
// negative hits reads positive, the reverse reads negative, ties are neutral.
func ClassifyNewsItem(item core.NewsItem) string {
	text := strings.ToLower(item.Title + " " + item.Snippet)
	positive := countHits(text, positiveKeywords)
	negative := countHits(text, negativeKeywords)
	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SummarizeNewsSentiment classifies up to maxSentimentArticles articles and
// derives the overall label by the same majority rule.
func SummarizeNewsSentiment(items []core.NewsItem) SentimentSummary {
	summary := SentimentSummary{Overall: SentimentNeutral}
	for i, item := range items {
		if i == maxSentimentArticles {
			break
		}
		switch ClassifyNewsItem(item) {
		case SentimentPositive:
			summary.Positive++
		case SentimentNegative:
			summary.Negative++
		default:
			summary.Neutral++
		}
		summary.Scored++
	}
	switch {
	case summary.Positive > summary.Negative:
		summary.Overall = SentimentPositive
	case summary.Negative > summary.Positive:
		summary.Overall = SentimentNegative
	}
	return summary
}

func countHits(text string, keywords []string) int {
	hits := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			hits++
		}
	}
	return hits
}
