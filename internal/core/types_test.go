package core

import "testing"

func TestParseCaptureIndex(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantOK  bool
	}{
		{"(Capture 2) shows the confirmation dialog", 2, true},
		{"(Captura 1) pantalla de inicio", 1, true},
		{"see capture 10 for the empty state", 10, true},
		{"CAPTURA 3", 3, true},
		{"the filters panel, no reference here", 0, false},
		{"capture zero is not a thing", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCaptureIndex(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseCaptureIndex(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	req := &GenerationRequest{Description: "  \t "}
	if err := req.Validate(); err == nil {
		t.Error("whitespace-only description should fail validation")
	}

	req.Description = "add filters to the report"
	if err := req.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestGenerationResultValidate(t *testing.T) {
	tests := []struct {
		name    string
		result  GenerationResult
		wantErr bool
	}{
		{
			name: "valid",
			result: GenerationResult{
				Summary: "one PBI",
				Items:   []BacklogItem{{Title: "Reports - Filters - US 1.1 - Add date filter"}},
			},
			wantErr: false,
		},
		{
			name:    "no items",
			result:  GenerationResult{Summary: "nothing"},
			wantErr: true,
		},
		{
			name: "item without title",
			result: GenerationResult{
				Items: []BacklogItem{{Objective: "something"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
