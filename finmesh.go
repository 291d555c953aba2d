// Package finmesh provides a high-level façade over the financial analysis
// pipeline (research, analyze, recommend, approval, review). Most applications
// interact with this package by:
//  1. Creating a FinMesh via New() from a resolved configuration
//  2. Running an analysis synchronously (Analyze) or as a stream of stage
//     events (AnalyzeStream)
//
// The façade wires the model adapter, market data tools and the workflow
// driver; all defaults are safe for local development. Deployments typically
// supply credentials through the environment and a structured log file path.
package finmesh

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/hupe1980/finmesh/agent"
	"github.com/hupe1980/finmesh/core"
	"github.com/hupe1980/finmesh/internal/config"
	"github.com/hupe1980/finmesh/logging"
	"github.com/hupe1980/finmesh/model"
	"github.com/hupe1980/finmesh/model/anthropic"
	"github.com/hupe1980/finmesh/model/openai"
	"github.com/hupe1980/finmesh/tool"
	"github.com/hupe1980/finmesh/workflow"
)

// ErrNoModelCredential is returned by New when neither an OpenAI nor an
// Anthropic API key is configured and no model override is supplied.
var ErrNoModelCredential = errors.New("finmesh: no model credential configured")

// Options configures the FinMesh instance beyond what Config carries.
type Options struct {
	// Model overrides the credential-based model selection. Useful for tests.
	Model model.Model

	// QuoteClient overrides the default Yahoo Finance quote client.
	QuoteClient tool.QuoteClient

	// Decisions supplies the human approval decision when auto-approve is
	// off. Defaults to a console prompt on stdin/stdout.
	Decisions agent.DecisionProvider

	// Logger overrides the logger built from the config's log settings.
	Logger logging.Logger
}

// FinMesh is the high-level façade aggregating the tools, stages and the
// workflow driver.
type FinMesh struct {
	cfg      *config.Config
	logger   logging.Logger
	closer   func() error
	workflow *workflow.Workflow
}

// New creates a FinMesh instance from the given configuration. The model is
// chosen by available credential (OpenAI first, Anthropic otherwise) unless
// Options.Model is set.
func New(cfg *config.Config, optFns ...func(o *Options)) (*FinMesh, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	closer := func() error { return nil }
	if logger == nil {
		fl, err := logging.NewLogger(&logging.LoggerConfig{
			Level:    logging.ParseLevel(cfg.LogLevel),
			Format:   cfg.LogFormat,
			Output:   os.Stderr,
			FilePath: cfg.LogFile,
		})
		if err != nil {
			return nil, err
		}
		logger = fl
		closer = fl.Close
	}

	m := opts.Model
	if m == nil {
		switch {
		case cfg.OpenAIAPIKey != "":
			m = openai.NewModel(func(o *openai.Options) {
				o.APIKey = cfg.OpenAIAPIKey
				if cfg.Model != "" {
					o.Model = cfg.Model
				}
				o.Temperature = cfg.Temperature
				o.MaxTokens = int64(cfg.MaxTokens)
			})
		case cfg.AnthropicAPIKey != "":
			m = anthropic.NewModel(func(o *anthropic.Options) {
				o.APIKey = cfg.AnthropicAPIKey
				o.Temperature = cfg.Temperature
				o.MaxTokens = int64(cfg.MaxTokens)
			})
		default:
			return nil, ErrNoModelCredential
		}
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}

	quoteClient := opts.QuoteClient
	if quoteClient == nil {
		quoteClient = tool.NewYahooQuoteClient(tool.WithYahooHTTPClient(httpClient))
	}
	quoteTool := tool.NewQuoteTool(quoteClient,
		tool.WithQuoteMaxRetries(cfg.MaxRetries),
		tool.WithQuoteLogger(logger))
	newsTool := tool.NewNewsTool(cfg.TavilyAPIKey,
		tool.WithNewsMaxResults(cfg.NewsResults),
		tool.WithNewsMaxRetries(cfg.MaxRetries),
		tool.WithNewsHTTPClient(httpClient),
		tool.WithNewsLogger(logger))
	calcTool := tool.NewCalculatorTool(logger)

	decisions := opts.Decisions
	if decisions == nil {
		decisions = &agent.ConsoleDecisionProvider{In: os.Stdin, Out: os.Stdout}
	}

	wf := workflow.New(workflow.Stages{
		Research:  agent.NewResearchStage(quoteTool, newsTool, logger),
		Analyze:   agent.NewAnalyzeStage(m, logger),
		Recommend: agent.NewRecommendStage(m, calcTool, logger),
		Approval:  agent.NewApprovalStage(cfg.AutoApprove, decisions, logger),
		Review:    agent.NewReviewStage(m, logger),
	}, workflow.WithLogger(logger))

	return &FinMesh{cfg: cfg, logger: logger, closer: closer, workflow: wf}, nil
}

// Analyze runs the full pipeline for the given symbol and returns the final
// state. The returned state is always well formed, even on internal failure.
func (f *FinMesh) Analyze(ctx context.Context, symbol, query string) *core.State {
	state := core.NewState(symbol, query, core.WithMaxIterations(f.cfg.MaxIterations))
	return f.workflow.Run(ctx, state)
}

// AnalyzeStream runs the pipeline while emitting a StageEvent after every
// stage. The channel is closed when the run finishes.
func (f *FinMesh) AnalyzeStream(ctx context.Context, symbol, query string) <-chan workflow.StageEvent {
	state := core.NewState(symbol, query, core.WithMaxIterations(f.cfg.MaxIterations))
	return f.workflow.Stream(ctx, state)
}

// Close releases resources held by the façade, such as the log file.
func (f *FinMesh) Close() error {
	return f.closer()
}
