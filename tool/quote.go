package tool

import (
	"context"
	"time"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
)

// QuoteToolName identifies the quote adapter in tool history entries.
const QuoteToolName = "stock_quote_tool"

// QuoteClient is the opaque quote-data collaborator. Implementations fetch a
// snapshot for a ticker symbol; any error is treated as transient by the tool.
type QuoteClient interface {
	Quote(ctx context.Context, symbol string) (*core.StockData, error)
}

// QuoteTool wraps a QuoteClient with bounded exponential-backoff retry and
// the N/A sentinel convention for absent fields.
type QuoteTool struct {
	client     QuoteClient
	maxRetries int
	logger     logging.Logger
	sleep      func(time.Duration)
}

// QuoteToolOption customizes a QuoteTool.
type QuoteToolOption func(*QuoteTool)

// WithQuoteMaxRetries overrides the retry ceiling (default 3).
func WithQuoteMaxRetries(n int) QuoteToolOption {
	return func(t *QuoteTool) {
		if n >= 1 {
			t.maxRetries = n
		}
	}
}

// WithQuoteLogger sets the logger.
func WithQuoteLogger(l logging.Logger) QuoteToolOption {
	return func(t *QuoteTool) { t.logger = l }
}

// WithQuoteSleep overrides the backoff sleeper (tests use a recorder).
func WithQuoteSleep(fn func(time.Duration)) QuoteToolOption {
	return func(t *QuoteTool) { t.sleep = fn }
}

// NewQuoteTool creates a quote lookup adapter around the given collaborator.
func NewQuoteTool(client QuoteClient, opts ...QuoteToolOption) *QuoteTool {
	t := &QuoteTool{
		client:     client,
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
func (t *QuoteTool) Name() string { return QuoteToolName }

// Run fetches quote data for the symbol, retrying transient collaborator
// failures with exponential backoff. The returned record always has Status
// set; on final failure it carries the error and a retry hint instead of
// payload fields.
func (t *QuoteTool) Run(ctx context.Context, symbol string) *core.StockData {
	started := time.Now()
	var lastErr error
	for attempt := 0; attempt < t.maxRetries; attempt++ {
		data, err := t.client.Quote(ctx, symbol)
		if err == nil {
			normalizeQuote(data, symbol)
			logToolCall(t.logger, QuoteToolName, time.Since(started), nil)
			return data
		}
		lastErr = err
		t.logger.Error("quote lookup attempt failed",
			"tool", QuoteToolName, "symbol", symbol, "attempt", attempt+1, "error", err.Error())
		if attempt < t.maxRetries-1 {
			t.sleep(backoffDelay(attempt))
		}
	}
	logToolCall(t.logger, QuoteToolName, time.Since(started), lastErr)
	return &core.StockData{
		Symbol:    symbol,
		Status:    StatusError,
		Error:     "quote lookup failed: " + lastErr.Error(),
		RetryHint: "check the network connection or verify the symbol",
	}
}

// normalizeQuote fills the N/A sentinel into any field the collaborator left
// empty so downstream formatting stays uniform.
func normalizeQuote(data *core.StockData, symbol string) {
	if data.Symbol == "" {
		data.Symbol = symbol
	}
	data.Status = StatusSuccess
	for _, field := range []*string{
		&data.CurrentPrice, &data.Change, &data.ChangePercent, &data.Volume,
		&data.MarketCap, &data.PERatio, &data.High52W, &data.Low52W,
	} {
		if *field == "" {
			*field = core.NA
		}
	}
}
