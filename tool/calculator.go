package tool

import (
	"github.com/hupe1980/finmesh/eval"
	"github.com/hupe1980/finmesh/logging"
)

// CalculatorToolName identifies the calculator in tool history entries.
const CalculatorToolName = "calculator_tool"

// CalculatorTool is a thin pass-through to the safe expression evaluator.
// Evaluation is deterministic and local, so there is no retry.
type CalculatorTool struct {
	evaluator *eval.Evaluator
}

// NewCalculatorTool creates a calculator adapter.
func NewCalculatorTool(logger logging.Logger) *CalculatorTool {
	return &CalculatorTool{evaluator: eval.New(logger)}
}

// Name returns the tool identifier.
func (t *CalculatorTool) Name() string { return CalculatorToolName }

// Run evaluates the expression with the identical contract as eval.Evaluate.
func (t *CalculatorTool) Run(expression string) eval.Result {
	return t.evaluator.Evaluate(expression)
}
