package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/finmesh/core"
)

func TestApprovalStageAutoApprove(t *testing.T) {
	stage := NewApprovalStage(true, StaticDecision(false), nil)

	state := core.NewState("AAPL", "q")
	state.Status = core.StatusReviewing
	require.NoError(t, stage.Run(context.Background(), state))

	// The provider is never consulted in auto-approve mode.
	assert.Equal(t, core.StatusReviewing, state.Status)
	assert.Empty(t, state.Errors)
	require.Len(t, state.Messages, 1)
	assert.Contains(t, state.Messages[0].Content, "Auto-approve")
}

func TestApprovalStageApproved(t *testing.T) {
	stage := NewApprovalStage(false, StaticDecision(true), nil)

	state := core.NewState("AAPL", "q")
	state.Status = core.StatusReviewing
	require.NoError(t, stage.Run(context.Background(), state))

	assert.Equal(t, core.StatusReviewing, state.Status)
	assert.Empty(t, state.FinalReport)
}

func TestApprovalStageRejected(t *testing.T) {
	stage := NewApprovalStage(false, StaticDecision(false), nil)

	state := core.NewState("AAPL", "q")
	state.Status = core.StatusReviewing
	require.NoError(t, stage.Run(context.Background(), state))

	assert.Equal(t, core.StatusCancelled, state.Status)
	assert.Equal(t, CancelledReport, state.FinalReport)
	require.Len(t, state.Errors, 1)
	assert.Contains(t, state.Errors[0], "did not approve")
}

type erroringDecision struct{}

func (erroringDecision) RequestDecision(ApprovalSummary) (bool, error) {
	return false, errors.New("terminal unavailable")
}

func TestApprovalStageImplicitApproveOnError(t *testing.T) {
	stage := NewApprovalStage(false, erroringDecision{}, nil)

	state := core.NewState("AAPL", "q")
	state.Status = core.StatusReviewing
	require.NoError(t, stage.Run(context.Background(), state))

	// No decision obtainable means the run proceeds.
	assert.Equal(t, core.StatusReviewing, state.Status)
	assert.Empty(t, state.FinalReport)
}

func TestConsoleDecisionProvider(t *testing.T) {
	summary := ApprovalSummary{
		StockSymbol:     "AAPL",
		AnalysisPreview: "preview",
		AnalysisLength:  7,
		Recommendations: []string{"1. Hold", "2. Risks", "3. Disclaimer", "4. extra"},
	}

	tests := []struct {
		input    string
		approved bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"anything else\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := &ConsoleDecisionProvider{In: strings.NewReader(tt.input), Out: &out}

			approved, err := p.RequestDecision(summary)
			require.NoError(t, err)
			assert.Equal(t, tt.approved, approved)
			assert.Contains(t, out.String(), "AAPL")
			assert.Contains(t, out.String(), "preview")
			// At most three recommendations are shown.
			assert.NotContains(t, out.String(), "4. extra")
		})
	}
}

func TestConsoleDecisionProviderEOF(t *testing.T) {
	var out bytes.Buffer
	p := &ConsoleDecisionProvider{In: strings.NewReader(""), Out: &out}

	_, err := p.RequestDecision(ApprovalSummary{StockSymbol: "AAPL"})
	require.Error(t, err)
}
