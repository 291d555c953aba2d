package core

import "strconv"

// NA is the explicit sentinel for quote fields the collaborator did not
// supply. Fields are kept as strings rather than nullable numbers so that
// downstream prompt and report formatting stays uniform.
const NA = "N/A"

// StockData is the quote snapshot written by the research stage. Status is
// "success" or "error"; on error only Error and RetryHint are meaningful.
type StockData struct {
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	CurrentPrice  string `json:"current_price"`
	Change        string `json:"change"`
	ChangePercent string `json:"change_percent"`
	Volume        string `json:"volume"`
	MarketCap     string `json:"market_cap"`
	PERatio       string `json:"pe_ratio"`
	High52W       string `json:"52w_high"`
	Low52W        string `json:"52w_low"`
	Error         string `json:"error,omitempty"`
	RetryHint     string `json:"retry_hint,omitempty"`
}

// Float parses a sentinel-bearing quote field. ok is false for NA, empty or
// unparseable values.
func Float(field string) (float64, bool) {
	if field == "" || field == NA {
		return 0, false
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatQuoteField renders a numeric quote value, preserving the NA sentinel
// convention for absent data.
func FormatQuoteField(v float64, present bool) string {
	if !present {
		return NA
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
