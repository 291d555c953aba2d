package agent

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/finmesh/core"
)

func TestClassifyNewsItem(t *testing.T) {
	tests := []struct {
		name     string
		item     core.NewsItem
		expected string
	}{
		{
			name:     "positive keywords win",
			item:     core.NewsItem{Title: "Shares rise on strong earnings", Snippet: "Revenue growth beat expectations"},
			expected: SentimentPositive,
		},
		{
			name:     "negative keywords win",
			item:     core.NewsItem{Title: "Stock falls sharply", Snippet: "Weak guidance raises concern over decline"},
			expected: SentimentNegative,
		},
		{
			name:     "tie is neutral",
			item:     core.NewsItem{Title: "Shares rise after earlier fall", Snippet: ""},
			expected: SentimentNeutral,
		},
		{
			name:     "no keywords is neutral",
			item:     core.NewsItem{Title: "Company announces new product", Snippet: "Launch expected next quarter"},
			expected: SentimentNeutral,
		},
		{
			name:     "matching is case insensitive",
			item:     core.NewsItem{Title: "STRONG QUARTER REPORTED", Snippet: ""},
			expected: SentimentPositive,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyNewsItem(tt.item))
		})
	}
}

func TestSummarizeNewsSentiment(t *testing.T) {
	items := []core.NewsItem{
		{Title: "strong gain"},
		{Title: "shares rise"},
		{Title: "stock drop"},
		{Title: "nothing notable"},
	}

	summary := SummarizeNewsSentiment(items)

	assert.Equal(t, SentimentPositive, summary.Overall)
	assert.Equal(t, 2, summary.Positive)
	assert.Equal(t, 1, summary.Negative)
	assert.Equal(t, 1, summary.Neutral)
	assert.Equal(t, 4, summary.Scored)
}

func TestSummarizeNewsSentimentEmpty(t *testing.T) {
	summary := SummarizeNewsSentiment(nil)

	assert.Equal(t, SentimentNeutral, summary.Overall)
	assert.Zero(t, summary.Scored)
}

func TestSummarizeNewsSentimentCapsArticles(t *testing.T) {
	var items []core.NewsItem
	for i := 0; i < 15; i++ {
		items = append(items, core.NewsItem{Title: fmt.Sprintf("strong result %d", i)})
	}

	summary := SummarizeNewsSentiment(items)

	assert.Equal(t, 10, summary.Scored)
	assert.Equal(t, 10, summary.Positive)
}
