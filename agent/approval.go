package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
)

// CancelledReport is the fixed report substituted when the user rejects
// approval.
const CancelledReport = "Report generation was cancelled because the user rejected the analysis."

// ApprovalSummary is the context shown to a human before the go/no-go decision.
type ApprovalSummary struct {
	StockSymbol     string
	AnalysisPreview string
	AnalysisLength  int
	Recommendations []string
}

// DecisionProvider supplies the human approval decision. Implementations
// should return io.EOF (or any error) when no decision can be obtained; the
// stage treats that as an implicit approval so non-interactive runs proceed.
type DecisionProvider interface {
	RequestDecision(summary ApprovalSummary) (bool, error)
}

// StaticDecision is a DecisionProvider that always answers the same way.
// Useful for tests and forced-approval configurations.
type StaticDecision bool

// RequestDecision implements DecisionProvider.
func (d StaticDecision) RequestDecision(ApprovalSummary) (bool, error) { return bool(d), nil }

// ConsoleDecisionProvider prompts synchronously on the given reader/writer
// pair for a yes/no decision.
type ConsoleDecisionProvider struct {
	In  io.Reader
	Out io.Writer
}

// RequestDecision implements DecisionProvider. Anything other than "y" or
// "yes" is a rejection; end of input yields io.EOF.
func (p *ConsoleDecisionProvider) RequestDecision(summary ApprovalSummary) (bool, error) {
	fmt.Fprintln(p.Out, strings.Repeat("=", 60))
	fmt.Fprintln(p.Out, "Approval required before the final report is generated")
	fmt.Fprintln(p.Out, strings.Repeat("=", 60))
	fmt.Fprintf(p.Out, "Symbol:          %s\n", summary.StockSymbol)
	fmt.Fprintf(p.Out, "Analysis length: %d characters\n", summary.AnalysisLength)
	if summary.AnalysisPreview != "" {
		fmt.Fprintf(p.Out, "Analysis preview:\n  %s\n", summary.AnalysisPreview)
	}
	if len(summary.Recommendations) > 0 {
		fmt.Fprintln(p.Out, "Recommendations:")
		for i, rec := range summary.Recommendations {
			if i == 3 {
				break
			}
			fmt.Fprintf(p.Out, "  %d. %s\n", i+1, rec)
		}
	}
	fmt.Fprint(p.Out, "\nContinue? (y/n): ")

	scanner := bufio.NewScanner(p.In)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, io.EOF
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

// ApprovalStage is the optional human-in-the-loop gate between recommendation
// and review. A rejection cancels the run and pre-empts the review stage.
type ApprovalStage struct {
	autoApprove bool
	decisions   DecisionProvider
	logger      logging.Logger
}

// NewApprovalStage creates the approval stage. When autoApprove is set the
// provider is never consulted.
func NewApprovalStage(autoApprove bool, decisions DecisionProvider, logger logging.Logger) *ApprovalStage {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ApprovalStage{autoApprove: autoApprove, decisions: decisions, logger: logger}
}

// Name implements Stage.
func (s *ApprovalStage) Name() string { return StageApproval }

// Run implements Stage. On rejection it sets the cancelled status, records
// the rejection and substitutes the fixed cancellation report.
func (s *ApprovalStage) Run(_ context.Context, state *core.State) error {
	if s.autoApprove {
		s.logger.Info("auto-approved", "symbol", state.StockSymbol)
		state.AddMessage("system", "Auto-approve mode: analysis results were approved automatically.")
		return nil
	}

	preview := state.Analysis
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	approved, err := s.decisions.RequestDecision(ApprovalSummary{
		StockSymbol:     state.StockSymbol,
		AnalysisPreview: preview,
		AnalysisLength:  len(state.Analysis),
		Recommendations: state.Recommendations,
	})
	if err != nil {
		// No decision obtainable (e.g. non-interactive run hit end of input).
		s.logger.Warn("no approval decision available, approving implicitly", "error", err.Error())
		approved = true
	}

	if approved {
		s.logger.Info("approved", "symbol", state.StockSymbol)
		state.AddMessage("system", "The user approved the analysis results.")
		return nil
	}

	s.logger.Warn("rejected", "symbol", state.StockSymbol)
	state.Status = core.StatusCancelled
	state.AddError("user did not approve the analysis")
	state.AddMessage("system", "The user rejected the analysis results. Stopping the workflow.")
	state.FinalReport = CancelledReport
	return nil
}
