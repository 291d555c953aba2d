// Package workflow owns the fixed directed graph over the pipeline stages
// (research, analyze, recommend, approval, review), the two routing decisions
// governing its edges, and the run/stream drivers. The topology is hard-coded
// by design; this is not a general workflow engine.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/finmesh/agent"
	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/logging"
)

// ErrorReport is the report substituted when the run itself fails
// unexpectedly. The caller still receives a well-formed state.
const ErrorReport = "We apologize: an unexpected error occurred while executing the workflow."

// Stages holds the five stage handlers in graph order.
type Stages struct {
	Research  agent.Stage
	Analyze   agent.Stage
	Recommend agent.Stage
	Approval  agent.Stage
	Review    agent.Stage
}

// Workflow executes the fixed pipeline graph to completion.
type Workflow struct {
	stages Stages
	logger logging.Logger
}

// Option customizes a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Workflow) { w.logger = l }
}

// New creates a Workflow over the given stages.
func New(stages Stages, opts ...Option) *Workflow {
	w := &Workflow{stages: stages, logger: logging.NoOpLogger{}}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// StageEvent is one streaming step: the stage that just ran and a snapshot of
// the state after it.
type StageEvent struct {
	Node   string      `json:"node"`
	State  *core.State `json:"state"`
	Status core.Status `json:"status"`
}

// Run drives the graph to completion and returns the final state. It never
// panics past the driver: unexpected failures yield a state with the error
// status, a recorded error entry and a substitute report.
func (w *Workflow) Run(ctx context.Context, state *core.State) (final *core.State) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("workflow run failed", "run_id", state.RunID, "error", fmt.Sprint(r))
			state.AddError(fmt.Sprintf("workflow execution error: %v", r))
			state.Status = core.StatusError
			state.FinalReport = ErrorReport
			final = state
		}
	}()

	w.logger.Info("workflow started", "run_id", state.RunID, "symbol", state.StockSymbol)
	w.execute(ctx, state, nil)
	w.logger.Info("workflow completed",
		"run_id", state.RunID, "status", string(state.Status), "report_length", len(state.FinalReport))
	return state
}

// Stream drives the same graph while emitting a StageEvent after every stage.
// The channel is closed when the run finishes. Each call requires a fresh
// state; there is no mid-stream resume. Cancelling the context stops the
// walk: the driver goroutine never blocks on an abandoned channel, it just
// closes the channel and exits.
func (w *Workflow) Stream(ctx context.Context, state *core.State) <-chan StageEvent {
	events := make(chan StageEvent)
	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("workflow stream failed", "run_id", state.RunID, "error", fmt.Sprint(r))
				state.AddError(fmt.Sprintf("workflow execution error: %v", r))
				state.Status = core.StatusError
				state.FinalReport = ErrorReport
				select {
				case events <- StageEvent{Node: "error", State: state.Clone(), Status: core.StatusError}:
				case <-ctx.Done():
				}
			}
		}()
		w.execute(ctx, state, func(node string) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case events <- StageEvent{Node: node, State: state.Clone(), Status: state.Status}:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return events
}

// execute walks the graph: research -> analyze -> recommend -> approval ->
// (decision) -> review -> (decision) -> loop or end. emit is optional; when
// it returns false the walk stops.
func (w *Workflow) execute(ctx context.Context, state *core.State, emit func(node string) bool) {
	for {
		if !w.runStage(ctx, w.stages.Research, state, emit) {
			return
		}
		if !w.runStage(ctx, w.stages.Analyze, state, emit) {
			return
		}
		if !w.runStage(ctx, w.stages.Recommend, state, emit) {
			return
		}
		if !w.runStage(ctx, w.stages.Approval, state, emit) {
			return
		}

		approval := CheckApproval(state)
		w.logger.Info("approval decision", "run_id", state.RunID, "result", approval.String())
		if approval == OutcomeRejected {
			return
		}

		if !w.runStage(ctx, w.stages.Review, state, emit) {
			return
		}

		decision := ShouldContinue(state)
		w.logger.Info("continue decision",
			"run_id", state.RunID, "result", decision.String(), "iteration", state.Iteration)
		if decision == DecisionEnd {
			return
		}

		// One full traversal back to research counts as an iteration.
		state.Iteration++
		state.Status = core.StatusResearching
	}
}

// stageRunLogger is the optional richer logging surface for stage metrics.
type stageRunLogger interface {
	LogStageRun(stage string, iteration int, dur time.Duration, status string)
}

func (w *Workflow) runStage(ctx context.Context, stage agent.Stage, state *core.State, emit func(node string) bool) bool {
	start := time.Now()
	if err := stage.Run(ctx, state); err != nil {
		// Stages degrade internally; a returned error is unexpected and
		// handled like a panic by the drivers.
		panic(fmt.Sprintf("stage %s: %v", stage.Name(), err))
	}
	if sl, ok := w.logger.(stageRunLogger); ok {
		sl.LogStageRun(stage.Name(), state.Iteration, time.Since(start), string(state.Status))
	} else {
		w.logger.Info("stage completed",
			"run_id", state.RunID, "stage", stage.Name(), "status", string(state.Status),
			"iteration", state.Iteration, "duration", time.Since(start))
	}
	if emit != nil {
		return emit(stage.Name())
	}
	return true
}
