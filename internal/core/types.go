package core

import (
	"regexp"
	"strconv"
	"strings"
)

// Attachment is one prototype capture sent with a generation request.
// Captures are referenced by 1-based position ("Capture 1", "Capture 2", ...)
// in the order they appear here.
type Attachment struct {
	Data      []byte // raw image bytes
	MediaType string // e.g. "image/png"
}

// GenerationRequest is the input to the synthesizer.
// Only Description is required; Module and Feature are free-text grouping
// labels used in the title convention.
type GenerationRequest struct {
	Module      string       `json:"module,omitempty"`
	Feature     string       `json:"feature,omitempty"`
	Description string       `json:"description"`
	TechContext string       `json:"tech_context,omitempty"`
	Attachments []Attachment `json:"-"`
}

// BacklogItem is one generated Product Backlog Item.
// JSON tags stay wire-compatible with the model's documented schema.
type BacklogItem struct {
	Title         string   `json:"title"`
	Objective     string   `json:"objective"` // one sentence
	Role          string   `json:"role"`
	When          string   `json:"when"`
	Then          string   `json:"then"`
	Benefit       string   `json:"benefit"`
	HappyPath     []string `json:"happy_path"`
	Validations   []string `json:"validations,omitempty"`
	ErrorStates   []string `json:"error_states,omitempty"`
	PrototypeRefs []string `json:"prototype_refs,omitempty"`
	Dependencies  []string `json:"dependencies,omitempty"`
	TechNotes     []string `json:"tech_notes,omitempty"`
}

// GenerationResult is the decoded output of one synthesis call.
// Summary justifies the split decision (1 item vs N items).
type GenerationResult struct {
	Summary string        `json:"summary"`
	Items   []BacklogItem `json:"pbis"`
}

// captureRefPattern matches capture references embedded in prototype lines,
// e.g. "(Capture 2) shows the confirmation dialog" or "ver Captura 1".
// The source system wrote references in Spanish, so both spellings count.
var captureRefPattern = regexp.MustCompile(`(?i)capt(?:ure|ura)s?\s*(?:n[o°º]?\.?\s*)?(\d+)`)

// ParseCaptureIndex extracts the first 1-based capture index from a
// prototype reference line. Returns false when the line carries none.
func ParseCaptureIndex(s string) (int, bool) {
	m := captureRefPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Validate checks a GenerationRequest before any network call is made.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return &ValidationError{Field: "description", Message: "required"}
	}
	return nil
}

// Validate checks the decoded result for required shape.
// An empty item list is never returned silently.
func (r *GenerationResult) Validate() error {
	if len(r.Items) == 0 {
		return &ValidationError{Field: "pbis", Message: "at least one backlog item required"}
	}
	for i, item := range r.Items {
		if item.Title == "" {
			return &ValidationError{Field: "pbis[" + strconv.Itoa(i) + "].title", Message: "required"}
		}
	}
	return nil
}
