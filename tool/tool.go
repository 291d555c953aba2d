// Package tool implements the external data adapters of the pipeline: quote
// lookup, news search and the safe calculator. Each adapter wraps exactly one
// collaborator call behind a uniform result shape (status, payload, error,
// retry hint) and bounded exponential-backoff retry for transient failures.
package tool

import (
	"fmt"
	"time"

	"github.com/hupe1980/finmesh/logging"
)

// Result status values shared by every adapter.
const (
	// StatusSuccess indicates the payload fields are populated.
	StatusSuccess = "success"
	// StatusError indicates Error is present and non-empty.
	StatusError = "error"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// toolCallLogger is the optional richer logging surface adapters use to
// record a finished invocation (all retries included) as one audit entry.
type toolCallLogger interface {
	LogToolCall(tool string, dur time.Duration, success bool, err error)
}

// logToolCall emits the per-invocation audit entry when the logger supports
// it; plain Logger implementations get an equivalent structured line.
func logToolCall(l logging.Logger, tool string, dur time.Duration, err error) {
	if tcl, ok := l.(toolCallLogger); ok {
		tcl.LogToolCall(tool, dur, err == nil, err)
		return
	}
	if err != nil {
		l.Error("tool call failed", "tool", tool, "duration", dur, "error", err.Error())
		return
	}
	l.Info("tool call completed", "tool", tool, "duration", dur)
}

// backoffBase is the first retry delay; it doubles on each subsequent attempt,
// bounding total sleep for n retries to roughly base*(2^n-1).
const backoffBase = 500 * time.Millisecond

// backoffDelay returns the sleep duration before retrying after the given
// zero-based attempt.
func backoffDelay(attempt int) time.Duration {
	return backoffBase << attempt
}
