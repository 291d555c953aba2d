package core

import "github.com/google/uuid"

// Status is the single source of truth for routing decisions in the workflow.
type Status string

const (
	// StatusResearching is the initial state: collecting quote and news data.
	StatusResearching Status = "researching"
	// StatusAnalyzing indicates research finished and analysis is next.
	StatusAnalyzing Status = "analyzing"
	// StatusRecommending indicates analysis finished and recommendations are next.
	StatusRecommending Status = "recommending"
	// StatusReviewing indicates recommendations finished and the final report is next.
	StatusReviewing Status = "reviewing"
	// StatusDone is the successful terminal state.
	StatusDone Status = "done"
	// StatusCancelled is the terminal state after a user rejected approval.
	StatusCancelled Status = "cancelled"
	// StatusError is the terminal state after an unrecoverable failure.
	StatusError Status = "error"
)

// IsTerminal reports whether the status ends the workflow.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled || s == StatusError
}

// Message is one entry of the conversational transcript accumulated by stages.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewsItem is a single normalized news search result.
type NewsItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Snippet       string `json:"snippet"`
	PublishedDate string `json:"published_date"`
}

// ToolRecord is one append-only audit entry for a tool invocation.
type ToolRecord struct {
	Tool   string            `json:"tool"`
	Input  map[string]string `json:"input"`
	Output any               `json:"output"`
}

// State is the single mutable record threaded through every stage of a run.
//
// Ownership contract: exactly one stage holds the state at a time, mutates it
// in place and hands it to the next stage. Accumulating fields (Messages,
// ToolHistory, Errors) are append-only; the remaining fields are each written
// by exactly one stage (see the stage implementations in package agent).
type State struct {
	RunID           string       `json:"run_id"`
	Messages        []Message    `json:"messages"`
	StockSymbol     string       `json:"stock_symbol"`
	UserQuery       string       `json:"user_query"`
	StockData       *StockData   `json:"stock_data,omitempty"`
	NewsData        []NewsItem   `json:"news_data"`
	Analysis        string       `json:"analysis,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
	FinalReport     string       `json:"final_report"`
	ToolHistory     []ToolRecord `json:"tool_history"`
	Errors          []string     `json:"errors"`
	Iteration       int          `json:"iteration"`
	MaxIterations   int          `json:"max_iterations"`
	Status          Status       `json:"status"`
}

// StateOption customizes construction defaults.
type StateOption func(*State)

// WithMaxIterations overrides the retry ceiling (minimum 1).
func WithMaxIterations(n int) StateOption {
	return func(s *State) {
		if n >= 1 {
			s.MaxIterations = n
		}
	}
}

// NewState constructs the initial workflow state for a run. Defaults are
// applied once here; no stage falls back to permissive lookups afterwards.
func NewState(symbol, query string, opts ...StateOption) *State {
	s := &State{
		RunID:         uuid.NewString(),
		Messages:      []Message{},
		StockSymbol:   symbol,
		UserQuery:     query,
		NewsData:      []NewsItem{},
		ToolHistory:   []ToolRecord{},
		Errors:        []string{},
		Iteration:     0,
		MaxIterations: 3,
		Status:        StatusResearching,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddMessage appends an entry to the transcript.
func (s *State) AddMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// AddError appends a human-readable error description to the audit trail.
func (s *State) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// RecordTool appends an audit entry for a tool invocation.
func (s *State) RecordTool(tool string, input map[string]string, output any) {
	s.ToolHistory = append(s.ToolHistory, ToolRecord{Tool: tool, Input: input, Output: output})
}

// HasQuoteData reports whether the research stage collected usable quote data.
func (s *State) HasQuoteData() bool {
	return s.StockData != nil && s.StockData.Status == "success"
}

// Clone returns a deep copy of the state safe for independent inspection,
// e.g. per-stage snapshots emitted by the stream driver.
func (s *State) Clone() *State {
	clone := *s
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	clone.NewsData = make([]NewsItem, len(s.NewsData))
	copy(clone.NewsData, s.NewsData)
	clone.Recommendations = make([]string, len(s.Recommendations))
	copy(clone.Recommendations, s.Recommendations)
	clone.ToolHistory = make([]ToolRecord, len(s.ToolHistory))
	copy(clone.ToolHistory, s.ToolHistory)
	clone.Errors = make([]string, len(s.Errors))
	copy(clone.Errors, s.Errors)
	if s.StockData != nil {
		sd := *s.StockData
		clone.StockData = &sd
	}
	return &clone
}
