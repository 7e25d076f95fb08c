package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// GenerationInfo tracks the single synthesis call of one run.
type GenerationInfo struct {
	Model       string
	InputChars  int
	ImageBytes  int
	StartTime   time.Time
	EndTime     time.Time
	IsComplete  bool
	OutputChars int
	ItemCount   int
}

// GenerationDoneMsg reports that the synthesis call finished.
type GenerationDoneMsg struct {
	OutputChars int
	ItemCount   int
}

// GenerationFailedMsg reports that the synthesis call failed. The error
// itself is printed by the caller once the program has exited.
type GenerationFailedMsg struct{}

// ProgressDisplay is a Bubble Tea model showing generation progress.
type ProgressDisplay struct {
	spinner  spinner.Model
	info     GenerationInfo
	running  bool
	quitting bool
	failed   bool
}

// NewProgressDisplay creates a progress display for one generation call.
func NewProgressDisplay(model string, inputChars, imageBytes int) *ProgressDisplay {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &ProgressDisplay{
		spinner: s,
		info: GenerationInfo{
			Model:      model,
			InputChars: inputChars,
			ImageBytes: imageBytes,
			StartTime:  time.Now(),
		},
		running: true,
	}
}

// Complete marks the call as finished.
func (p *ProgressDisplay) Complete(outputChars, itemCount int) {
	p.info.IsComplete = true
	p.info.EndTime = time.Now()
	p.info.OutputChars = outputChars
	p.info.ItemCount = itemCount
	p.running = false
}

// Init implements tea.Model.
func (p *ProgressDisplay) Init() tea.Cmd {
	return p.spinner.Tick
}

// Update implements tea.Model.
func (p *ProgressDisplay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			p.quitting = true
			return p, tea.Quit
		}

	case GenerationDoneMsg:
		p.Complete(msg.OutputChars, msg.ItemCount)
		p.quitting = true
		return p, tea.Quit

	case GenerationFailedMsg:
		p.running = false
		p.failed = true
		return p, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

// View implements tea.Model.
func (p *ProgressDisplay) View() string {
	if p.failed {
		return ""
	}
	if p.quitting {
		return RenderSummary(p.info)
	}

	elapsed := time.Since(p.info.StartTime).Truncate(time.Second)
	inputTokens := EstimateTokens(p.info.InputChars) + EstimateImageTokens(p.info.ImageBytes)

	var status string
	if p.running {
		status = p.spinner.View()
	} else {
		status = SuccessStyle.Render("✓")
	}

	return fmt.Sprintf("%s %s  %s  %s  ~%s input",
		status,
		SubtitleStyle.Render("Generating backlog items"),
		ModelStyle.Render(p.info.Model),
		HelpStyle.Render(elapsed.String()),
		FormatTokens(inputTokens),
	)
}

// RenderGenerationStart returns a start line (non-interactive mode).
func RenderGenerationStart(model string, inputChars, imageBytes int) string {
	inputTokens := EstimateTokens(inputChars) + EstimateImageTokens(imageBytes)
	return fmt.Sprintf("%s %s  %s  ~%s input tokens",
		SpinnerStyle.Render("→"),
		SubtitleStyle.Render("Generating backlog items"),
		ModelStyle.Render(model),
		FormatTokens(inputTokens),
	)
}

// RenderSummary returns the final summary line.
func RenderSummary(info GenerationInfo) string {
	inputTokens := EstimateTokens(info.InputChars) + EstimateImageTokens(info.ImageBytes)
	outputTokens := EstimateTokens(info.OutputChars)
	cost := EstimateCost(info.Model, inputTokens, outputTokens)

	var duration time.Duration
	if info.IsComplete {
		duration = info.EndTime.Sub(info.StartTime)
	}

	return fmt.Sprintf("\n%s\n  Items: %d  Tokens: ~%s in / ~%s out  Est. cost: %s  Time: %s\n",
		TitleStyle.Render("Generation Complete"),
		info.ItemCount,
		FormatTokens(inputTokens),
		FormatTokens(outputTokens),
		CostStyle.Render(FormatCost(cost)),
		duration.Truncate(time.Second).String(),
	)
}
