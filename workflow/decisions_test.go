package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/finmesh/core"
)

func TestCheckApproval(t *testing.T) {
	state := core.NewState("AAPL", "q")

	state.Status = core.StatusCancelled
	assert.Equal(t, OutcomeRejected, CheckApproval(state))

	// Everything else is treated as approval, including unexpected statuses.
	for _, status := range []core.Status{
		core.StatusResearching, core.StatusReviewing, core.StatusDone, core.StatusError, core.Status("garbage"),
	} {
		state.Status = status
		assert.Equal(t, OutcomeApproved, CheckApproval(state), status)
	}
}

func TestShouldContinue(t *testing.T) {
	success := &core.StockData{Status: "success"}

	tests := []struct {
		name     string
		state    core.State
		expected ContinueOutcome
	}{
		{
			name:     "iteration ceiling reached",
			state:    core.State{Iteration: 3, MaxIterations: 3, Status: core.StatusReviewing},
			expected: DecisionEnd,
		},
		{
			name: "two critical errors short-circuit",
			state: core.State{
				Iteration: 1, MaxIterations: 3, Status: core.StatusReviewing,
				Errors: []string{"API quota exceeded", "network unreachable"},
			},
			expected: DecisionEnd,
		},
		{
			name:     "done status ends",
			state:    core.State{Iteration: 0, MaxIterations: 3, Status: core.StatusDone},
			expected: DecisionEnd,
		},
		{
			name:     "missing quote data retries",
			state:    core.State{Iteration: 1, MaxIterations: 3, Status: core.StatusResearching},
			expected: DecisionContinue,
		},
		{
			name:     "missing quote data on last usable iteration ends",
			state:    core.State{Iteration: 2, MaxIterations: 3, Status: core.StatusResearching},
			expected: DecisionEnd,
		},
		{
			name: "quote data present ends",
			state: core.State{
				Iteration: 0, MaxIterations: 3, Status: core.StatusReviewing, StockData: success,
			},
			expected: DecisionEnd,
		},
		{
			name: "one critical error does not short-circuit",
			state: core.State{
				Iteration: 0, MaxIterations: 3, Status: core.StatusReviewing,
				Errors: []string{"network unreachable"},
			},
			expected: DecisionContinue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldContinue(&tt.state))
		})
	}
}

func TestShouldContinueIsPure(t *testing.T) {
	state := &core.State{Iteration: 1, MaxIterations: 3, Status: core.StatusResearching}
	first := ShouldContinue(state)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ShouldContinue(state))
	}
	assert.Equal(t, 1, state.Iteration)
}

func TestCriticalErrorCount(t *testing.T) {
	tests := []struct {
		name     string
		errors   []string
		expected int
	}{
		{"empty", nil, 0},
		{"no critical keywords", []string{"parse failure", "bad symbol"}, 0},
		{"case insensitive", []string{"API limit hit", "Network down"}, 2},
		{"keyword inside word counts once per entry", []string{"timeout while calling the API"}, 1},
		{"critical keyword", []string{"critical failure"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CriticalErrorCount(tt.errors))
		})
	}
}

func TestOutcomeStrings(t *testing.T) {
	assert.Equal(t, "approved", OutcomeApproved.String())
	assert.Equal(t, "rejected", OutcomeRejected.String())
	assert.Equal(t, "continue", DecisionContinue.String())
	assert.Equal(t, "end", DecisionEnd.String())
}
