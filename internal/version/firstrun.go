package version

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lmoreno/pbigen/internal/tui"
)

// IsFirstRun returns true if this appears to be the first run.
// Checks for existence of config file or first-run marker.
func IsFirstRun() bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}

	configPath := filepath.Join(home, ".pbigen.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return false // Config exists, not first run
	}

	markerPath := filepath.Join(home, ".pbigen", ".initialized")
	if _, err := os.Stat(markerPath); err == nil {
		return false // Already initialized
	}

	return true
}

// MarkInitialized creates the first-run marker.
func MarkInitialized() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	dir := filepath.Join(home, ".pbigen")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return
	}

	markerPath := filepath.Join(dir, ".initialized")
	_ = os.WriteFile(markerPath, []byte{}, 0644)
}

// PrintFirstRunNotice prints a welcome message for first-time users.
func PrintFirstRunNotice() {
	fmt.Println()
	fmt.Printf("%s Welcome to pbigen!\n", tui.TitleStyle.Render("*"))
	fmt.Println()
	fmt.Println("  Quick start:")
	fmt.Printf("    1. Run %s to pick a model and connect your board\n", tui.ModelStyle.Render("pbigen setup"))
	fmt.Printf("    2. Export %s with your Anthropic key\n", tui.ModelStyle.Render("ANTHROPIC_API_KEY"))
	fmt.Printf("    3. Generate items: %s\n", tui.ModelStyle.Render("pbigen generate -d \"describe the feature\""))
	fmt.Println()
	fmt.Printf("  %s\n", tui.HelpStyle.Render("Run 'pbigen --help' for all options"))
	fmt.Println()

	// Mark as initialized so we don't show this again
	MarkInitialized()
}
