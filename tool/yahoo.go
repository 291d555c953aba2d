package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hupe1980/finmesh/core"
)

// defaultQuoteURL is the public quote endpoint the default collaborator uses.
const defaultQuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"

// YahooQuoteClient is the default QuoteClient implementation backed by the
// Yahoo Finance quote endpoint.
type YahooQuoteClient struct {
	httpClient Doer
	baseURL    string
}

// YahooOption customizes a YahooQuoteClient.
type YahooOption func(*YahooQuoteClient)

// WithYahooHTTPClient overrides the HTTP client.
func WithYahooHTTPClient(d Doer) YahooOption {
	return func(c *YahooQuoteClient) { c.httpClient = d }
}

// WithYahooBaseURL overrides the quote endpoint (tests use httptest).
func WithYahooBaseURL(u string) YahooOption {
	return func(c *YahooQuoteClient) { c.baseURL = u }
}

// NewYahooQuoteClient creates the default quote collaborator.
func NewYahooQuoteClient(opts ...YahooOption) *YahooQuoteClient {
	c := &YahooQuoteClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultQuoteURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string   `json:"symbol"`
			RegularMarketPrice         *float64 `json:"regularMarketPrice"`
			RegularMarketChange        *float64 `json:"regularMarketChange"`
			RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
			RegularMarketVolume        *float64 `json:"regularMarketVolume"`
			MarketCap                  *float64 `json:"marketCap"`
			TrailingPE                 *float64 `json:"trailingPE"`
			FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
			FiftyTwoWeekLow            *float64 `json:"fiftyTwoWeekLow"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Quote implements QuoteClient.
func (c *YahooQuoteClient) Quote(ctx context.Context, symbol string) (*core.StockData, error) {
	endpoint := c.baseURL + "?symbols=" + url.QueryEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("User-Agent", "finmesh/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, NewToolError(QuoteToolName, fmt.Sprintf("quote endpoint returned %d", resp.StatusCode), "HTTP_ERROR")
	}

	var parsed quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	if len(parsed.QuoteResponse.Result) == 0 {
		return nil, NewToolError(QuoteToolName, "no quote data for symbol "+symbol, "NOT_FOUND")
	}

	r := parsed.QuoteResponse.Result[0]
	return &core.StockData{
		Symbol:        r.Symbol,
		CurrentPrice:  formatOptional(r.RegularMarketPrice),
		Change:        formatOptional(r.RegularMarketChange),
		ChangePercent: formatOptional(r.RegularMarketChangePercent),
		Volume:        formatOptional(r.RegularMarketVolume),
		MarketCap:     formatOptional(r.MarketCap),
		PERatio:       formatOptional(r.TrailingPE),
		High52W:       formatOptional(r.FiftyTwoWeekHigh),
		Low52W:        formatOptional(r.FiftyTwoWeekLow),
	}, nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return core.NA
	}
	return core.FormatQuoteField(*v, true)
}
