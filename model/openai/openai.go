// Package openai provides a model.Backend over any OpenAI-compatible chat
// completion endpoint. The primary target is Ollama's /v1 surface on a
// per-agent host, but it works unchanged against the hosted OpenAI API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/forgelab/ipd/model"
)

// DefaultPort is Ollama's default listen port.
const DefaultPort = 11434

// Options configure the OpenAI-compatible backend adapter.
type Options struct {
	// BaseURL overrides the endpoint; when empty it is derived from Host as
	// http://<host>:11434/v1 (Ollama's OpenAI-compatible surface).
	BaseURL string
	// APIKey is passed through to the endpoint. Ollama ignores it; hosted
	// endpoints require it.
	APIKey string
}

// Backend wraps the OpenAI chat completions API behind model.Backend.
type Backend struct {
	client openai.Client
	mdl    string
	host   string
}

// New creates a backend for the given host and model identifier.
func New(host, mdl string, optFns ...func(o *Options)) *Backend {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s:%d/v1", host, DefaultPort)
	}

	clientOpts := []option.RequestOption{option.WithBaseURL(baseURL)}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	} else {
		// The SDK requires a key even when the server does not check it.
		clientOpts = append(clientOpts, option.WithAPIKey("ollama"))
	}

	return &Backend{client: openai.NewClient(clientOpts...), mdl: mdl, host: host}
}

// NewFromClient creates a backend from an existing client.
func NewFromClient(client openai.Client, host, mdl string) *Backend {
	return &Backend{client: client, mdl: mdl, host: host}
}

// Generate implements model.Backend with a single non-streaming completion.
func (b *Backend) Generate(ctx context.Context, req model.Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Text))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Text))
		default:
			messages = append(messages, openai.UserMessage(m.Text))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       b.mdl,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Info returns metadata describing this backend.
func (b *Backend) Info() model.Info {
	return model.Info{Model: b.mdl, Host: b.host, Provider: "openai"}
}
