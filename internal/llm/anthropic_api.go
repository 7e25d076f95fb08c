package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lmoreno/pbigen/internal/core"
)

// AnthropicAPIAdapter talks to the Anthropic Messages API directly.
// Captures travel as base64 image blocks, so the model must be
// vision-capable (every model in the catalog is).
type AnthropicAPIAdapter struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

var _ Adapter = (*AnthropicAPIAdapter)(nil)

// NewAnthropicAPIAdapter creates an Anthropic API adapter.
func NewAnthropicAPIAdapter(config Config) (*AnthropicAPIAdapter, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &AnthropicAPIAdapter{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (a *AnthropicAPIAdapter) Name() string {
	return "anthropic-api"
}

// Model returns the configured model identifier.
func (a *AnthropicAPIAdapter) Model() string {
	return a.model
}

func (a *AnthropicAPIAdapter) IsAvailable() bool {
	return os.Getenv("ANTHROPIC_API_KEY") != ""
}

// Generate makes exactly one Messages API call. The text block goes first,
// then the captures in their original order so 1-based references line up.
func (a *AnthropicAPIAdapter) Generate(ctx context.Context, systemPrompt, userPrompt string, images []core.Attachment) (string, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(images)+1)
	blocks = append(blocks, anthropic.NewTextBlock(userPrompt))
	for _, img := range images {
		encoded := base64.StdEncoding.EncodeToString(img.Data)
		blocks = append(blocks, anthropic.NewImageBlockBase64(img.MediaType, encoded))
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		var apierr *anthropic.Error
		if errors.As(err, &apierr) {
			return "", &core.TransportError{Service: "anthropic", Status: apierr.StatusCode, Err: err}
		}
		return "", &core.TransportError{Service: "anthropic", Err: err}
	}

	// Concatenate text blocks from the response
	var output string
	for _, block := range resp.Content {
		if block.Type == "text" {
			output += block.Text
		}
	}

	return output, nil
}
