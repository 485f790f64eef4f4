// Package anthropic provides a model.Backend over the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/forgelab/ipd/model"
)

// Options configure the Anthropic backend adapter.
type Options struct {
	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey string
}

// Backend wraps the Anthropic Messages API behind model.Backend.
type Backend struct {
	client anthropic.Client
	mdl    string
	host   string
}

// New creates a backend for the given model identifier. host is recorded as
// metadata only; the SDK always talks to the Anthropic API.
func New(host, mdl string, optFns ...func(o *Options)) *Backend {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	return &Backend{client: anthropic.NewClient(clientOpts...), mdl: mdl, host: host}
}

// Generate implements model.Backend with a single non-streaming message.
func (b *Backend) Generate(ctx context.Context, req model.Request) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	var standing []string
	for _, m := range req.Messages {
		switch m.Role {
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		case "system":
			// The Messages API takes a single system field; standing
			// context injected mid-conversation is folded into it.
			standing = append(standing, m.Text)
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}

	system := req.System
	if len(standing) > 0 {
		system = strings.TrimSpace(system + "\n\n" + strings.Join(standing, "\n\n"))
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(b.mdl),
		Messages:    messages,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

// Info returns metadata describing this backend.
func (b *Backend) Info() model.Info {
	return model.Info{Model: b.mdl, Host: b.host, Provider: "anthropic"}
}
