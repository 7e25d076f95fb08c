package core

import (
	"strings"
	"testing"
)

func TestBuildUserPrompt(t *testing.T) {
	req := &GenerationRequest{
		Module:      "Holidays & Absences",
		Feature:     "Vacation policies",
		Description: "Remove the sum validation; each field 0-100",
		TechContext: "PATCH /api/policies",
		Attachments: []Attachment{
			{Data: []byte{1}, MediaType: "image/png"},
			{Data: []byte{2}, MediaType: "image/jpeg"},
		},
	}

	prompt := BuildUserPrompt(req)

	for _, want := range []string{
		"MODULE: Holidays & Absences",
		"FEATURE: Vacation policies",
		"Remove the sum validation",
		"TECHNICAL CONTEXT:\nPATCH /api/policies",
		"2 prototype capture(s)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildUserPromptDefaults(t *testing.T) {
	req := &GenerationRequest{Description: "quick change"}
	prompt := BuildUserPrompt(req)

	if !strings.Contains(prompt, "MODULE: Not specified") {
		t.Error("empty module should render as Not specified")
	}
	if strings.Contains(prompt, "TECHNICAL CONTEXT") {
		t.Error("empty tech context should be omitted")
	}
	if strings.Contains(prompt, "capture(s)") {
		t.Error("attachment note should be omitted without attachments")
	}
}

func TestSystemPromptContract(t *testing.T) {
	// The instruction template is the contract the decoder relies on.
	for _, want := range []string{"summary", "pbis", "happy_path", "prototype_refs", "JSON"} {
		if !strings.Contains(SystemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}
