package model

import (
	"context"
	"fmt"
	"strings"
)

// FailureKind tags the outcome of a completion call. Stages match on the tag
// rather than searching error text.
type FailureKind int

const (
	// FailureNone indicates a successful completion.
	FailureNone FailureKind = iota
	// FailureQuota indicates the provider reported quota exhaustion.
	FailureQuota
	// FailureRateLimited indicates the provider rejected the call for rate limiting.
	FailureRateLimited
	// FailureOther covers every other provider failure.
	FailureOther
)

// String returns the string representation of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureQuota:
		return "quota_exceeded"
	case FailureRateLimited:
		return "rate_limited"
	case FailureOther:
		return "other"
	default:
		return "unknown"
	}
}

// Message is a single role-tagged input to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request captures the normalized model input produced by stages.
type Request struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"` // 0 means provider default (0.1)
	MaxTokens   int64     `json:"max_tokens"`  // 0 means provider default (1000)
}

// Response is the tagged result of a completion call. Text is only meaningful
// when Failure is FailureNone; otherwise Detail carries the provider message.
type Response struct {
	Text    string      `json:"text"`
	Failure FailureKind `json:"failure"`
	Detail  string      `json:"detail,omitempty"`
}

// OK reports whether the completion succeeded.
func (r Response) OK() bool { return r.Failure == FailureNone }

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface stages use to drive text completion.
type Model interface {
	Complete(ctx context.Context, req Request) Response

	// Info returns information about the model implementation.
	Info() Info
}

// ClassifyErrorText maps raw provider error text onto a FailureKind. Used by
// adapters when the SDK exposes no structured error code (see package doc for
// the misclassification caveat).
func ClassifyErrorText(msg string) FailureKind {
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "insufficient_quota"), strings.Contains(lowered, "quota"):
		return FailureQuota
	case strings.Contains(lowered, "rate limit"), strings.Contains(lowered, "rate_limit"), strings.Contains(lowered, "429"):
		return FailureRateLimited
	default:
		return FailureOther
	}
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
	failure   FailureKind
	detail    string
	Requests  []Request // recorded calls, in order
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned completion returned when the last message
// contains the given substring.
func (m *MockModel) AddResponse(promptContains, response string) {
	m.responses[promptContains] = response
}

// FailWith forces every subsequent call to return the given failure.
func (m *MockModel) FailWith(kind FailureKind, detail string) {
	m.failure = kind
	m.detail = detail
}

// Complete implements Model.
func (m *MockModel) Complete(_ context.Context, req Request) Response {
	m.Requests = append(m.Requests, req)
	if m.failure != FailureNone {
		return Response{Failure: m.failure, Detail: m.detail}
	}
	var prompt string
	if len(req.Messages) > 0 {
		prompt = req.Messages[len(req.Messages)-1].Content
	}
	for needle, canned := range m.responses {
		if strings.Contains(prompt, needle) {
			return Response{Text: canned}
		}
	}
	return Response{Text: fmt.Sprintf("Mock response to: %s", prompt)}
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
