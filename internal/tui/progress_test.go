package tui

import (
	"strings"
	"testing"
)

func TestProgressDisplayShowsSpinnerWhileRunning(t *testing.T) {
	p := NewProgressDisplay("claude-sonnet-4-20250514", 2000, 750_000)

	view := p.View()
	if !strings.Contains(view, "Generating backlog items") {
		t.Errorf("running view should show the status line, got %q", view)
	}
	if strings.Contains(view, "Generation Complete") {
		t.Errorf("running view must not show the summary, got %q", view)
	}
}

func TestProgressDisplayCompletesOnDoneMsg(t *testing.T) {
	p := NewProgressDisplay("claude-sonnet-4-20250514", 2000, 0)

	model, cmd := p.Update(GenerationDoneMsg{OutputChars: 1500, ItemCount: 3})
	if cmd == nil {
		t.Fatal("done message should quit the program")
	}

	view := model.View()
	if !strings.Contains(view, "Generation Complete") {
		t.Errorf("final view should show the summary, got %q", view)
	}
	if !strings.Contains(view, "Items: 3") {
		t.Errorf("final view should show the item count, got %q", view)
	}
}

func TestProgressDisplayFailureSuppressesSummary(t *testing.T) {
	p := NewProgressDisplay("claude-sonnet-4-20250514", 2000, 0)

	model, cmd := p.Update(GenerationFailedMsg{})
	if cmd == nil {
		t.Fatal("failure message should quit the program")
	}
	if view := model.View(); view != "" {
		t.Errorf("failed view should be empty so the caller prints the error, got %q", view)
	}
}
