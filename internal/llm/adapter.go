package llm

import (
	"context"

	"github.com/lmoreno/pbigen/internal/core"
)

// Adapter is the interface all model adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Model returns the configured model identifier.
	Model() string

	// IsAvailable checks if this adapter can be used (API key set, etc.)
	IsAvailable() bool

	// Generate submits the prompts plus ordered image attachments and
	// returns the model's raw text output.
	Generate(ctx context.Context, systemPrompt, userPrompt string, images []core.Attachment) (string, error)
}

// Config holds configuration for model adapters.
type Config struct {
	// Model specifies which model to use (optional, adapter chooses default).
	Model string `yaml:"model"`

	// APIKey for direct API access (falls back to ANTHROPIC_API_KEY).
	APIKey string `yaml:"-"`

	// MaxTokens limits response length.
	MaxTokens int `yaml:"max_tokens"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 4096,
	}
}
