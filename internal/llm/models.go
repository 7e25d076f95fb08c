package llm

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "claude-sonnet-4-20250514")
	Name        string // Human-readable name
	Description string // Brief description
}

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// Models lists the vision-capable Claude models offered by the setup wizard.
// Captures are sent as image blocks, so text-only models are excluded.
var Models = []ModelInfo{
	{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Description: "Best balance of speed and capability ($3/$15 per MTok)"},
	{ID: "claude-opus-4-20250514", Name: "Claude Opus 4", Description: "Maximum quality for dense feature descriptions ($15/$75 per MTok)"},
	{ID: "claude-3-7-sonnet-20250219", Name: "Claude 3.7 Sonnet", Description: "Previous balanced model ($3/$15 per MTok)"},
	{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Description: "Fastest and cheapest, fine for short asks ($0.25/$1.25 per MTok)"},
}
