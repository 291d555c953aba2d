// Package agent implements the stage handlers of the analysis pipeline:
// research, analyze, recommend, human approval and review. Each stage owns a
// disjoint set of state fields (see core.State), mutates the state it is
// handed and advances the status for the workflow's routing decisions.
// Stages that call the model degrade to deterministic rule-based fallbacks,
// so a run always produces a report.
package agent

import (
	"context"

	"github.com/hupe1980/finmesh/core"
)

// Stage is one step of the fixed pipeline. Run mutates the state in place;
// the caller owns the state before the call, the stage owns it during.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *core.State) error
}

// Stage names used in logs and stream events.
const (
	StageResearch  = "research"
	StageAnalyze   = "analyze"
	StageRecommend = "recommend"
	StageApproval  = "human_approval"
	StageReview    = "review"
)
