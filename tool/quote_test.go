package tool

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
)

// fakeQuoteClient fails a configurable number of times before succeeding.
type fakeQuoteClient struct {
	failures int
	calls    int
	data     *core.StockData
}

func (c *fakeQuoteClient) Quote(_ context.Context, symbol string) (*core.StockData, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, errors.New("connection refused")
	}
	if c.data != nil {
		return c.data, nil
	}
	return &core.StockData{Symbol: symbol, CurrentPrice: "190.12"}, nil
}

func TestQuoteToolSucceedsFirstAttempt(t *testing.T) {
	client := &fakeQuoteClient{}
	qt := NewQuoteTool(client)

	data := qt.Run(context.Background(), "AAPL")

	require.NotNil(t, data)
	assert.Equal(t, StatusSuccess, data.Status)
	assert.Equal(t, "AAPL", data.Symbol)
	assert.Equal(t, "190.12", data.CurrentPrice)
	assert.Equal(t, 1, client.calls)
}

func TestQuoteToolRetriesWithBackoff(t *testing.T) {
	client := &fakeQuoteClient{failures: 2}
	var delays []time.Duration
	qt := NewQuoteTool(client,
		WithQuoteSleep(func(d time.Duration) { delays = append(delays, d) }))

	data := qt.Run(context.Background(), "AAPL")

	assert.Equal(t, StatusSuccess, data.Status)
	assert.Equal(t, 3, client.calls)
	// Exponential backoff: 500ms, then 1s.
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, delays)
}

func TestQuoteToolExhaustsRetries(t *testing.T) {
	client := &fakeQuoteClient{failures: 10}
	var delays []time.Duration
	qt := NewQuoteTool(client,
		WithQuoteSleep(func(d time.Duration) { delays = append(delays, d) }))

	data := qt.Run(context.Background(), "AAPL")

	require.NotNil(t, data)
	assert.Equal(t, StatusError, data.Status)
	assert.Equal(t, "AAPL", data.Symbol)
	assert.Contains(t, data.Error, "quote lookup failed")
	assert.NotEmpty(t, data.RetryHint)
	assert.Equal(t, 3, client.calls)
	// No sleep after the final attempt.
	assert.Len(t, delays, 2)
}

func TestQuoteToolNormalizesMissingFields(t *testing.T) {
	client := &fakeQuoteClient{data: &core.StockData{CurrentPrice: "42.00"}}
	qt := NewQuoteTool(client)

	data := qt.Run(context.Background(), "TSLA")

	assert.Equal(t, "TSLA", data.Symbol)
	assert.Equal(t, "42.00", data.CurrentPrice)
	for _, field := range []string{data.Change, data.ChangePercent, data.Volume, data.MarketCap, data.PERatio, data.High52W, data.Low52W} {
		assert.Equal(t, core.NA, field)
	}
}

func TestQuoteToolRecordsToolCall(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level: logging.LogLevelInfo, Format: "json", Output: &buf,
	})
	require.NoError(t, err)

	qt := NewQuoteTool(&fakeQuoteClient{}, WithQuoteLogger(logger))
	qt.Run(context.Background(), "AAPL")

	assert.Contains(t, buf.String(), "Tool execution completed")
	assert.Contains(t, buf.String(), `"tool":"stock_quote_tool"`)

	buf.Reset()
	qt = NewQuoteTool(&fakeQuoteClient{failures: 10},
		WithQuoteLogger(logger), WithQuoteSleep(func(time.Duration) {}))
	qt.Run(context.Background(), "AAPL")

	assert.Contains(t, buf.String(), "Tool execution failed")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestQuoteToolMaxRetriesOption(t *testing.T) {
	client := &fakeQuoteClient{failures: 10}
	qt := NewQuoteTool(client,
		WithQuoteMaxRetries(1),
		WithQuoteSleep(func(time.Duration) { t.Fatal("should not sleep with a single attempt") }))

	data := qt.Run(context.Background(), "AAPL")

	assert.Equal(t, StatusError, data.Status)
	assert.Equal(t, 1, client.calls)
}
