package tui

import "fmt"

// ModelPricing contains pricing per 1M tokens for the supported models.
// Prices are in USD. Updated: 2026-01-30 from https://docs.anthropic.com/en/docs/about-claude/models
var ModelPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	"claude-sonnet-4-20250514":   {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-opus-4-20250514":     {InputPer1M: 15.0, OutputPer1M: 75.0},
	"claude-3-7-sonnet-20250219": {InputPer1M: 3.0, OutputPer1M: 15.0},
	"claude-3-haiku-20240307":    {InputPer1M: 0.25, OutputPer1M: 1.25},

	// Fallback for unknown models (use conservative estimate)
	"default": {InputPer1M: 5.0, OutputPer1M: 15.0},
}

// EstimateTokens estimates token count from character count.
// Uses the approximation that 1 token ≈ 4 characters.
func EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return chars / 4
}

// EstimateImageTokens estimates token count for one attached capture.
// Vision inputs cost roughly bytes/750 tokens for typical screenshots.
func EstimateImageTokens(imageBytes int) int {
	if imageBytes <= 0 {
		return 0
	}
	return imageBytes / 750
}

// EstimateCost calculates the estimated cost for a model given token counts.
// Returns cost in USD.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := ModelPricing[model]
	if !ok {
		pricing = ModelPricing["default"]
	}

	inputCost := float64(inputTokens) * pricing.InputPer1M / 1_000_000
	outputCost := float64(outputTokens) * pricing.OutputPer1M / 1_000_000

	return inputCost + outputCost
}

// FormatCost formats a cost in USD for display.
// Uses appropriate precision based on the magnitude.
func FormatCost(cost float64) string {
	if cost < 0.001 {
		return fmt.Sprintf("$%.4f", cost)
	}
	if cost < 0.01 {
		return fmt.Sprintf("$%.3f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// FormatTokens formats a token count for display.
// Uses k suffix for thousands.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	if tokens < 10000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%dk", tokens/1000)
}
