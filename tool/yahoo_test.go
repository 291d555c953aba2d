package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/finmesh/core"
)

func TestYahooQuoteClientParsesQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbols"))
		fmt.Fprint(w, `{"quoteResponse":{"result":[{
			"symbol":"AAPL",
			"regularMarketPrice":190.12,
			"regularMarketChange":1.5,
			"regularMarketChangePercent":0.79,
			"trailingPE":29.3,
			"fiftyTwoWeekHigh":199.6,
			"fiftyTwoWeekLow":124.2
		}]}}`)
	}))
	t.Cleanup(srv.Close)

	client := NewYahooQuoteClient(WithYahooBaseURL(srv.URL))
	data, err := client.Quote(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", data.Symbol)
	assert.Equal(t, "190.12", data.CurrentPrice)
	assert.Equal(t, "29.3", data.PERatio)
	// Fields absent from the payload become the sentinel.
	assert.Equal(t, core.NA, data.Volume)
	assert.Equal(t, core.NA, data.MarketCap)
}

func TestYahooQuoteClientUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[]}}`)
	}))
	t.Cleanup(srv.Close)

	client := NewYahooQuoteClient(WithYahooBaseURL(srv.URL))
	_, err := client.Quote(context.Background(), "NOPE")

	require.Error(t, err)
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "NOT_FOUND", te.Code)
}

func TestYahooQuoteClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := NewYahooQuoteClient(WithYahooBaseURL(srv.URL))
	_, err := client.Quote(context.Background(), "AAPL")

	require.Error(t, err)
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "HTTP_ERROR", te.Code)
}
