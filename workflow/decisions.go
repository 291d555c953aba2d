package workflow

import (
	"strings"

	"github.com/hupe1980/finmesh/core"
)

// ApprovalOutcome is the enumerated result of the approval routing decision.
type ApprovalOutcome int

const (
	// OutcomeApproved routes the run onward to the review stage.
	OutcomeApproved ApprovalOutcome = iota
	// OutcomeRejected ends the run after a user rejection.
	OutcomeRejected
)

// String returns the string representation of the outcome.
func (o ApprovalOutcome) String() string {
	if o == OutcomeRejected {
		return "rejected"
	}
	return "approved"
}

// ContinueOutcome is the enumerated result of the post-review decision.
type ContinueOutcome int

const (
	// DecisionEnd terminates the run.
	DecisionEnd ContinueOutcome = iota
	// DecisionContinue loops the run back to the research stage.
	DecisionContinue
)

// String returns the string representation of the outcome.
func (o ContinueOutcome) String() string {
	if o == DecisionContinue {
		return "continue"
	}
	return "end"
}

// criticalKeywords mark error entries as infrastructure failures rather than
// data-quality issues.
var criticalKeywords = []string{"api", "network", "timeout", "critical"}

// CheckApproval routes the run after the approval stage. Only the literal
// cancelled status rejects; every other status, including unexpected ones, is
// treated as approval so a degraded or non-interactive run still reaches the
// report instead of stalling on a gate nobody can answer.
func CheckApproval(state *core.State) ApprovalOutcome {
	if state.Status == core.StatusCancelled {
		return OutcomeRejected
	}
	return OutcomeApproved
}

// ShouldContinue decides after the review stage whether to loop back to
// research. It is a pure function of the state: retries happen solely to
// recover missing or failed quote data, bounded by the iteration ceiling and
// short-circuited by repeated critical errors.
func ShouldContinue(state *core.State) ContinueOutcome {
	if state.Iteration >= state.MaxIterations {
		return DecisionEnd
	}
	if CriticalErrorCount(state.Errors) >= 2 {
		return DecisionEnd
	}
	if state.Status == core.StatusDone {
		return DecisionEnd
	}
	if !state.HasQuoteData() && state.Iteration < state.MaxIterations-1 {
		return DecisionContinue
	}
	return DecisionEnd
}

// CriticalErrorCount counts error entries containing a critical keyword
// (case-insensitive).
func CriticalErrorCount(errors []string) int {
	count := 0
	for _, entry := range errors {
		lowered := strings.ToLower(entry)
		for _, keyword := range criticalKeywords {
			if strings.Contains(lowered, keyword) {
				count++
				break
			}
		}
	}
	return count
}
