package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
)

// NewsToolName identifies the news adapter in tool history entries.
const NewsToolName = "financial_news_tool"

// defaultSearchURL is the hosted search collaborator endpoint.
const defaultSearchURL = "https://api.tavily.com/search"

// newsDomains is the fixed allow-list of financial news sources the search is
// restricted to.
var newsDomains = []string{"reuters.com", "bloomberg.com", "cnbc.com", "marketwatch.com"}

// NewsResult is the uniform outcome of a news search.
type NewsResult struct {
	Status       string          `json:"status"`
	Query        string          `json:"query"`
	Results      []core.NewsItem `json:"results,omitempty"`
	TotalResults int             `json:"total_results"`
	Error        string          `json:"error,omitempty"`
	RetryHint    string          `json:"retry_hint,omitempty"`
}

// Doer is the minimal HTTP client surface, satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewsTool searches financial news through a hosted search collaborator.
// 5xx responses are transient and retried with exponential backoff; 4xx
// responses are permanent client errors returned immediately.
type NewsTool struct {
	apiKey     string
	httpClient Doer
	baseURL    string
	maxResults int
	maxRetries int
	logger     logging.Logger
	sleep      func(time.Duration)
}

// NewsToolOption customizes a NewsTool.
type NewsToolOption func(*NewsTool)

// WithNewsMaxResults overrides the result limit (default 5).
func WithNewsMaxResults(n int) NewsToolOption {
	return func(t *NewsTool) {
		if n >= 1 {
			t.maxResults = n
		}
	}
}

// WithNewsMaxRetries overrides the retry ceiling (default 3).
func WithNewsMaxRetries(n int) NewsToolOption {
	return func(t *NewsTool) {
		if n >= 1 {
			t.maxRetries = n
		}
	}
}

// WithNewsHTTPClient overrides the HTTP client.
func WithNewsHTTPClient(d Doer) NewsToolOption {
	return func(t *NewsTool) { t.httpClient = d }
}

// WithNewsBaseURL overrides the collaborator endpoint (tests use httptest).
func WithNewsBaseURL(u string) NewsToolOption {
	return func(t *NewsTool) { t.baseURL = u }
}

// WithNewsLogger sets the logger.
func WithNewsLogger(l logging.Logger) NewsToolOption {
	return func(t *NewsTool) { t.logger = l }
}

// WithNewsSleep overrides the backoff sleeper.
func WithNewsSleep(fn func(time.Duration)) NewsToolOption {
	return func(t *NewsTool) { t.sleep = fn }
}

// NewNewsTool creates a news search adapter. The API key may be empty, in
// which case every Run returns an immediate configuration error.
func NewNewsTool(apiKey string, opts ...NewsToolOption) *NewsTool {
	t := &NewsTool{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultSearchURL,
		maxResults: 5,
		maxRetries: 3,
		logger:     logging.NoOpLogger{},
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the tool identifier.
func (t *NewsTool) Name() string { return NewsToolName }

type searchRequest struct {
	Query          string   `json:"query"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains"`
	SearchDepth    string   `json:"search_depth"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Run searches for financial news matching the query.
func (t *NewsTool) Run(ctx context.Context, query string) NewsResult {
	started := time.Now()
	if t.apiKey == "" {
		result := NewsResult{
			Status:    StatusError,
			Query:     query,
			Error:     "news search API key is not configured",
			RetryHint: "set the search API key",
		}
		logToolCall(t.logger, NewsToolName, time.Since(started), errors.New(result.Error))
		return result
	}

	payload, err := json.Marshal(searchRequest{
		Query:          "financial news " + query,
		MaxResults:     t.maxResults,
		IncludeDomains: newsDomains,
		SearchDepth:    "advanced",
	})
	if err != nil {
		logToolCall(t.logger, NewsToolName, time.Since(started), err)
		return NewsResult{Status: StatusError, Query: query, Error: "encode search request: " + err.Error()}
	}

	for attempt := 0; attempt < t.maxRetries; attempt++ {
		result, retryable := t.search(ctx, query, payload, attempt)
		if result != nil {
			if result.Status == StatusSuccess {
				logToolCall(t.logger, NewsToolName, time.Since(started), nil)
			} else {
				logToolCall(t.logger, NewsToolName, time.Since(started), errors.New(result.Error))
			}
			return *result
		}
		if !retryable {
			break
		}
		if attempt < t.maxRetries-1 {
			t.sleep(backoffDelay(attempt))
		}
	}
	result := NewsResult{
		Status:    StatusError,
		Query:     query,
		Error:     "news search failed: retries exhausted",
		RetryHint: "check the network connection or adjust the query",
	}
	logToolCall(t.logger, NewsToolName, time.Since(started), errors.New(result.Error))
	return result
}

// search performs a single attempt. It returns a final result, or nil with
// retryable=true when the failure was transient.
func (t *NewsTool) search(ctx context.Context, query string, payload []byte, attempt int) (*NewsResult, bool) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(payload))
	if err != nil {
		return &NewsResult{Status: StatusError, Query: query, Error: "build search request: " + err.Error()}, false
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Error("news search failed",
			"tool", NewsToolName, "query", query, "attempt", attempt+1, "error", err.Error(), "latency", time.Since(start))
		return nil, true
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var parsed searchResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			t.logger.Error("news search failed",
				"tool", NewsToolName, "query", query, "attempt", attempt+1, "error", err.Error())
			return nil, true
		}
		items := make([]core.NewsItem, 0, len(parsed.Results))
		for _, r := range parsed.Results {
			items = append(items, core.NewsItem{
				Title:         orNA(r.Title),
				URL:           orNA(r.URL),
				Snippet:       orNA(r.Content),
				PublishedDate: core.NA, // not supplied by the search collaborator
			})
		}
		t.logger.Debug("news search attempt succeeded",
			"tool", NewsToolName, "query", query, "results", len(items), "attempt", attempt+1, "latency", time.Since(start))
		return &NewsResult{Status: StatusSuccess, Query: query, Results: items, TotalResults: len(items)}, false

	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		t.logger.Error("news search failed",
			"tool", NewsToolName, "query", query, "attempt", attempt+1,
			"error", fmt.Sprintf("server error: %d", resp.StatusCode), "latency", time.Since(start))
		return nil, true

	default:
		io.Copy(io.Discard, resp.Body)
		return &NewsResult{
			Status:    StatusError,
			Query:     query,
			Error:     fmt.Sprintf("client error: %d", resp.StatusCode),
			RetryHint: "adjust the search query",
		}, false
	}
}

func orNA(s string) string {
	if s == "" {
		return core.NA
	}
	return s
}
