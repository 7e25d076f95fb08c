package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ModelAdapter is the interface for LLM providers used by the synthesizer.
// This matches llm.Adapter but is defined here to avoid import cycles.
type ModelAdapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Generate submits the prompts plus ordered image attachments and
	// returns the model's raw text output.
	Generate(ctx context.Context, systemPrompt, userPrompt string, images []Attachment) (string, error)
}

// Synthesizer turns a GenerationRequest into a GenerationResult with exactly
// one outbound model call. It never retries; the caller decides whether to
// re-submit.
type Synthesizer struct {
	adapter ModelAdapter
}

// NewSynthesizer creates a synthesizer backed by the given adapter.
func NewSynthesizer(adapter ModelAdapter) *Synthesizer {
	return &Synthesizer{adapter: adapter}
}

// Synthesize validates the request, composes the prompt block, submits it
// with the attachments, and decodes the response. Validation failures are
// caught before any network call.
func (s *Synthesizer) Synthesize(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userPrompt := BuildUserPrompt(req)

	raw, err := s.adapter.Generate(ctx, SystemPrompt, userPrompt, req.Attachments)
	if err != nil {
		return nil, err
	}

	return DecodeResult(raw)
}

// DecodeResult decodes the model's text output into a GenerationResult.
// Surrounding code fences are stripped defensively even though the prompt
// forbids them. Any decode or shape failure surfaces as a GenerationError
// carrying the raw text.
func DecodeResult(raw string) (*GenerationResult, error) {
	text := stripFences(raw)

	// Find the JSON object in case the model added stray prose
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &GenerationError{Raw: raw, Err: fmt.Errorf("no JSON object found in response")}
	}

	var result GenerationResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return nil, &GenerationError{Raw: raw, Err: fmt.Errorf("failed to decode JSON: %w", err)}
	}

	if err := result.Validate(); err != nil {
		return nil, &GenerationError{Raw: raw, Err: err}
	}

	return &result, nil
}

// stripFences removes markdown code fence markers around the output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
