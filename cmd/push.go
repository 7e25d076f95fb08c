package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmoreno/pbigen/internal/azdo"
	"github.com/lmoreno/pbigen/internal/core"
	"github.com/lmoreno/pbigen/internal/tui"
)

var (
	pushCaptures   []string
	pushParent     string
	pushIteration  string
	pushArea       string
	pushTasks      bool
	pushConfigFile string
)

// PushCmd represents the push command.
var PushCmd = &cobra.Command{
	Use:   "push <checkpoint.json>",
	Short: "Push a saved generation result to Azure DevOps",
	Long: `Push backlog items from a checkpoint file (written by
'generate --save-json') to Azure DevOps Boards.

Captures are re-attached from the files given with --capture, in the
same order as during generation so "Capture N" references line up.`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

func init() {
	PushCmd.Flags().StringArrayVar(&pushCaptures, "capture", nil, "Prototype capture image (repeatable, order defines Capture 1, 2, ...)")
	PushCmd.Flags().StringVar(&pushParent, "parent", "", "Parent work item URL")
	PushCmd.Flags().StringVar(&pushIteration, "iteration", "", "Iteration path")
	PushCmd.Flags().StringVar(&pushArea, "area", "", "Area path")
	PushCmd.Flags().BoolVar(&pushTasks, "tasks", false, "Create one child Task per acceptance criterion")
	PushCmd.Flags().StringVar(&pushConfigFile, "config", "", "Config file (default: .pbigen.yaml)")
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadFileConfig(pushConfigFile)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		fmt.Printf("Loaded config from: %s\n", cfgPath)
	}

	if !cmd.Flags().Changed("iteration") && cfg.Azure.IterationPath != "" {
		pushIteration = cfg.Azure.IterationPath
	}
	if !cmd.Flags().Changed("area") && cfg.Azure.AreaPath != "" {
		pushArea = cfg.Azure.AreaPath
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read checkpoint: %w", err)
	}
	var result core.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse checkpoint JSON: %w", err)
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("checkpoint is not a valid generation result: %w", err)
	}
	fmt.Printf("Loaded %d item(s) from checkpoint\n", len(result.Items))

	var attachments []core.Attachment
	for _, path := range pushCaptures {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read capture %s: %w", path, err)
		}
		attachments = append(attachments, core.Attachment{
			Data:      data,
			MediaType: mediaTypeFor(path),
		})
	}

	client, err := azdo.NewClient(cfg.azureConfig())
	if err != nil {
		return err
	}

	opts := azdo.PushOptions{
		IterationPath:    pushIteration,
		AreaPath:         pushArea,
		ParentURL:        pushParent,
		CreateChildTasks: pushTasks,
	}
	return pushItems(context.Background(), client, result.Items, attachments, opts)
}

// pushItems pushes each item in turn, printing per-item outcomes. A failed
// item does not stop the rest; the command fails if nothing was created.
func pushItems(ctx context.Context, client *azdo.Client, items []core.BacklogItem, attachments []core.Attachment, opts azdo.PushOptions) error {
	pushed := 0

	for i := range items {
		item := &items[i]
		fmt.Printf("Pushing %d/%d: %s\n", i+1, len(items), item.Title)

		result, err := azdo.PushItem(ctx, client, item, attachments, opts)
		if err != nil {
			fmt.Printf("  %s %v\n", tui.ErrorStyle.Render("✗"), err)
			continue
		}
		pushed++
		fmt.Printf("  %s #%d %s\n", tui.SuccessStyle.Render("✓"), result.Item.ID, result.Item.URL)
		for _, task := range result.ChildTasks {
			fmt.Printf("    task #%d\n", task.ID)
		}
		if partial := result.PartialError(); partial != nil {
			fmt.Printf("  %s %v\n", tui.WarningStyle.Render("!"), partial)
		}
	}

	fmt.Printf("\nPushed %d/%d item(s)\n", pushed, len(items))
	if pushed == 0 {
		return fmt.Errorf("no items were created")
	}
	return nil
}
