// Package llm wraps the language model used to tidy complaint text.
package llm

import (
	"context"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CompletionRequest is a single-turn prompt.
type CompletionRequest struct {
	Model     string
	MaxTokens int64
	System    string
	Prompt    string
}

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// AnthropicClient implements Completer with the official anthropic-sdk-go.
type AnthropicClient struct {
	client sdk.Client
}

// NewAnthropicClient creates a client. Extra options are appended after the
// API key and timeout, so tests can point it at a local server.
func NewAnthropicClient(apiKey string, timeout time.Duration, opts ...option.RequestOption) *AnthropicClient {
	base := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout > 0 {
		base = append(base, option.WithRequestTimeout(timeout))
	}
	return &AnthropicClient{client: sdk.NewClient(append(base, opts...)...)}
}

// Complete sends the prompt and joins every text block of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var out strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}

	zap.L().Debug("anthropic: message complete",
		zap.String("model", string(msg.Model)),
		zap.String("stop_reason", string(msg.StopReason)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return out.String(), nil
}

var _ Completer = (*AnthropicClient)(nil)
