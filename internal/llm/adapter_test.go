package llm

import "testing"

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want 4096", config.MaxTokens)
	}
}

func TestAnthropicAPIAdapterName(t *testing.T) {
	adapter, err := NewAnthropicAPIAdapter(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAnthropicAPIAdapter() error = %v", err)
	}
	if adapter.Name() != "anthropic-api" {
		t.Errorf("Name() = %s, want anthropic-api", adapter.Name())
	}
}

func TestAnthropicAPIAdapterDefaults(t *testing.T) {
	adapter, err := NewAnthropicAPIAdapter(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAnthropicAPIAdapter() error = %v", err)
	}
	if adapter.model != DefaultModel {
		t.Errorf("model = %s, want %s", adapter.model, DefaultModel)
	}
	if adapter.maxTokens != 4096 {
		t.Errorf("maxTokens = %d, want 4096", adapter.maxTokens)
	}
}

func TestModelsCatalog(t *testing.T) {
	if len(Models) == 0 {
		t.Fatal("model catalog should not be empty")
	}
	found := false
	for _, m := range Models {
		if m.ID == DefaultModel {
			found = true
		}
		if m.ID == "" || m.Name == "" {
			t.Errorf("model entry missing ID or Name: %+v", m)
		}
	}
	if !found {
		t.Errorf("default model %s missing from catalog", DefaultModel)
	}
}
