// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. It adapts finmesh's normalized Request/Response
// structures into the SDK's message format and classifies API errors into
// the tagged failure kinds stages rely on.
package openai

import (
	"context"
	"errors"

	"github.com/hupe1980/finmesh/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI model adapter.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.1,
		MaxTokens:   1000,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)
	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.1,
		MaxTokens:   1000,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Complete implements model.Model.
func (m *Model) Complete(ctx context.Context, req model.Request) model.Response {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	temperature := m.opts.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	maxTokens := m.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.opts.Model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return model.Response{Failure: classify(err), Detail: err.Error()}
	}
	if len(resp.Choices) == 0 {
		return model.Response{Failure: model.FailureOther, Detail: "no choices returned"}
	}
	return model.Response{Text: resp.Choices[0].Message.Content}
}

// classify maps an SDK error onto a FailureKind using the HTTP status and
// error code when available, falling back to error text inspection.
func classify(err error) model.FailureKind {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.Code == "insufficient_quota" {
			return model.FailureQuota
		}
		if apierr.StatusCode == 429 {
			return model.FailureRateLimited
		}
	}
	return model.ClassifyErrorText(err.Error())
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "openai"}
}
