package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lmoreno/pbigen/internal/llm"
	"github.com/lmoreno/pbigen/internal/tui"
)

var resetConfig bool

// SetupCmd represents the setup command.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Configure pbigen with an interactive wizard.

The wizard picks the generation model and connects your Azure DevOps
board (organization and project). Secrets stay out of the file:
set ANTHROPIC_API_KEY and AZURE_DEVOPS_PAT in the environment.

Configuration is saved to ~/.pbigen.yaml`,
	RunE: runSetup,
}

func init() {
	SetupCmd.Flags().BoolVar(&resetConfig, "reset", false, "Reset configuration to defaults")
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := configPath()

	// Handle reset
	if resetConfig {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove config: %w", err)
		}
		fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration reset to defaults")
		fmt.Printf("  Removed: %s\n", path)
		return nil
	}

	p := tea.NewProgram(newSetupModel())
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	final := m.(setupModel)
	if final.cancelled {
		fmt.Println("Setup cancelled")
		return nil
	}

	var cfg fileConfig
	cfg.Model = final.selectedModel
	cfg.Azure.Organization = final.inputs[0].Value()
	cfg.Azure.Project = final.inputs[1].Value()
	cfg.Azure.AreaPath = final.inputs[2].Value()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println(tui.SuccessStyle.Render("✓") + " Configuration saved to " + path)
	fmt.Println()
	fmt.Printf("  Model:        %s\n", tui.ModelStyle.Render(cfg.Model))
	fmt.Printf("  Organization: %s\n", cfg.Azure.Organization)
	fmt.Printf("  Project:      %s\n", cfg.Azure.Project)
	if cfg.Azure.AreaPath != "" {
		fmt.Printf("  Area path:    %s\n", cfg.Azure.AreaPath)
	}
	fmt.Println()
	fmt.Printf("  %s\n", tui.HelpStyle.Render("Remember to export ANTHROPIC_API_KEY and AZURE_DEVOPS_PAT"))

	return nil
}

// Bubble Tea model for the setup wizard

const (
	stepModel = iota
	stepOrganization
	stepProject
	stepAreaPath
	stepDone
)

type setupModel struct {
	step          int
	modelList     list.Model
	inputs        []textinput.Model
	selectedModel string
	cancelled     bool
}

type modelItem struct {
	info llm.ModelInfo
}

func (m modelItem) Title() string       { return m.info.Name }
func (m modelItem) Description() string { return m.info.Description }
func (m modelItem) FilterValue() string { return m.info.Name }

func newSetupModel() setupModel {
	items := make([]list.Item, len(llm.Models))
	for i, m := range llm.Models {
		items[i] = modelItem{info: m}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("#2980b9"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("#95a5a6"))

	l := list.New(items, delegate, 70, 14)
	l.Title = "Select Generation Model"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = tui.TitleStyle

	labels := []string{"Azure DevOps organization", "Project", "Area path (optional)"}
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 120
		ti.Width = 50
		inputs[i] = ti
	}

	return setupModel{
		step:      stepModel,
		modelList: l,
		inputs:    inputs,
	}
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.modelList.SetWidth(msg.Width)
		m.modelList.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit

		case "q":
			if m.step == stepModel {
				m.cancelled = true
				return m, tea.Quit
			}

		case "enter":
			switch m.step {
			case stepModel:
				if item, ok := m.modelList.SelectedItem().(modelItem); ok {
					m.selectedModel = item.info.ID
				}
				m.step++
				m.inputs[0].Focus()
				return m, textinput.Blink

			case stepOrganization, stepProject, stepAreaPath:
				idx := m.step - stepOrganization
				m.inputs[idx].Blur()
				m.step++
				if m.step >= stepDone {
					return m, tea.Quit
				}
				m.inputs[idx+1].Focus()
				return m, textinput.Blink
			}
		}
	}

	var cmd tea.Cmd
	switch m.step {
	case stepModel:
		m.modelList, cmd = m.modelList.Update(msg)
	case stepOrganization, stepProject, stepAreaPath:
		idx := m.step - stepOrganization
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	}
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled || m.step >= stepDone {
		return ""
	}

	if m.step == stepModel {
		help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • q: quit")
		return m.modelList.View() + help
	}

	idx := m.step - stepOrganization
	titles := []string{
		"Azure DevOps organization (dev.azure.com/<organization>)",
		"Team project",
		"Area path (optional, enter to skip)",
	}

	return fmt.Sprintf("\n  %s\n\n  %s\n\n%s\n",
		tui.TitleStyle.Render(titles[idx]),
		m.inputs[idx].View(),
		tui.HelpStyle.Render("  enter: continue • ctrl+c: quit"),
	)
}
