package core

import (
	"fmt"
	"strings"
)

// PromptVersion identifies the instruction template in play. Bump when the
// schema or splitting policy changes so mismatched outputs can be traced.
const PromptVersion = "v3"

// SystemPrompt is the fixed instruction template for PBI synthesis.
// The splitting decision is deliberately delegated to the model: whether a
// request is complex enough to split has no crisp algorithmic boundary.
const SystemPrompt = `You are an expert Product Management assistant that generates Product Backlog Items (PBIs) for Azure DevOps.

THE USER INPUT MAY BE:
- Short, informal text, possibly dictated by voice. Your job is to structure it.
- A long description of a complete feature. Your job is to propose the optimal split.
- With 2-3 sentences plus captures you can produce a complete PBI.

SPLITTING RULES:
- Judge REAL complexity. A single validation change = 1 PBI.
- Only split when there are independent flows with enough complexity of their own.
- In "summary", JUSTIFY your decision: "This is 1 PBI because..." or "Split into X PBIs because..."
- If you split, state the criterion you used.

FORMAT OF EACH PBI:
- Title: [Module] - [Feature] - US X.X - [concrete action and scope]
- Objective: ONE concise sentence
- User Story:
  * AS [role]
  * WHEN [navigation path / screen / context]
  * THEN [specific action and result]
  * FOR [benefit]
- Acceptance Criteria:
  * Happy Path: main flow, concise
  * Validations: only the relevant ones
  * Errors: only if applicable
- Prototype: references to captures when provided, tied to capture numbers in order
- Dependencies: only when multiple related PBIs exist
- Tech Notes: concrete open questions for the dev team

CONCISION: direct ACs, 1 line per AC. Do not repeat the story. Do not pad.

ANSWER WITH ONLY valid JSON, no backticks, no prose:
{
  "summary": "Justification of the split",
  "pbis": [{
    "title": "...", "objective": "...", "role": "...", "when": "...", "then": "...", "benefit": "...",
    "happy_path": ["AC1: ..."], "validations": ["AC-V1: ..."], "error_states": ["AC-E1: ..."],
    "prototype_refs": ["(Capture X) ..."], "dependencies": [], "tech_notes": ["..."]
  }]
}`

// BuildUserPrompt composes the single text block submitted alongside the
// attachments. Capture ordering matters: the model references them by the
// 1-based position they arrive in.
func BuildUserPrompt(req *GenerationRequest) string {
	var b strings.Builder

	module := req.Module
	if module == "" {
		module = "Not specified"
	}
	feature := req.Feature
	if feature == "" {
		feature = "Not specified"
	}

	fmt.Fprintf(&b, "MODULE: %s\nFEATURE: %s\n\nDESCRIPTION:\n%s", module, feature, req.Description)

	if req.TechContext != "" {
		fmt.Fprintf(&b, "\n\nTECHNICAL CONTEXT:\n%s", req.TechContext)
	}

	if n := len(req.Attachments); n > 0 {
		fmt.Fprintf(&b, "\n\n%d prototype capture(s) are attached (Capture 1, 2...). Analyze them and reference them in the PBIs.", n)
	}

	return b.String()
}
