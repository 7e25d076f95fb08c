package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lmoreno/pbigen/internal/core"
	"github.com/lmoreno/pbigen/internal/render"
)

// ReviewModel is a Bubble Tea model for browsing generated backlog items
// one card at a time and copying the rendered markup to the clipboard.
type ReviewModel struct {
	summary     string
	items       []core.BacklogItem
	attachments []core.Attachment
	cursor      int
	status      string
	quitting    bool
}

// NewReviewModel creates a card browser over a generation result.
func NewReviewModel(result *core.GenerationResult, attachments []core.Attachment) *ReviewModel {
	return &ReviewModel{
		summary:     result.Summary,
		items:       result.Items,
		attachments: attachments,
	}
}

// Init implements tea.Model.
func (m *ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "left", "h", "k":
		if m.cursor > 0 {
			m.cursor--
			m.status = ""
		}

	case "right", "l", "j", "tab":
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.status = ""
		}

	case "c", "enter":
		if err := render.CopyItem(&m.items[m.cursor], m.attachments); err != nil {
			m.status = ErrorStyle.Render(fmt.Sprintf("clipboard copy failed: %v", err))
		} else {
			m.status = SuccessStyle.Render("Copied as HTML, paste into the board description field")
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m *ReviewModel) View() string {
	if m.quitting || len(m.items) == 0 {
		return ""
	}

	item := m.items[m.cursor]

	var b strings.Builder
	if m.summary != "" {
		b.WriteString(SubtitleStyle.Render(m.summary))
		b.WriteString("\n\n")
	}

	b.WriteString(SelectedCardStyle.Render(render.PlainText(&item)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d/%d\n",
		TitleStyle.Render("Item"), m.cursor+1, len(m.items)))

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("←/→ browse  c copy HTML  q quit"))
	return b.String()
}

// RenderCards prints all items as static cards (non-interactive mode).
func RenderCards(result *core.GenerationResult) string {
	var b strings.Builder
	if result.Summary != "" {
		b.WriteString(SubtitleStyle.Render(result.Summary))
		b.WriteString("\n\n")
	}
	for i, item := range result.Items {
		b.WriteString(fmt.Sprintf("%s %d/%d\n",
			TitleStyle.Render("Item"), i+1, len(result.Items)))
		b.WriteString(CardStyle.Render(render.PlainText(&item)))
		b.WriteString("\n\n")
	}
	return b.String()
}
