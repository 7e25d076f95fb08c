package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lmoreno/pbigen/internal/azdo"
	"github.com/lmoreno/pbigen/internal/core"
	"github.com/lmoreno/pbigen/internal/figma"
	"github.com/lmoreno/pbigen/internal/llm"
	"github.com/lmoreno/pbigen/internal/render"
	"github.com/lmoreno/pbigen/internal/tui"
)

var (
	genModule      string
	genFeature     string
	genDescription string
	genDescFile    string
	genTechContext string
	genCaptures    []string
	genFigmaURL    string
	genModel       string
	genMaxTokens   int
	genOutput      string
	genSaveJSON    string
	genCopy        bool
	genPush        bool
	genParent      string
	genIteration   string
	genArea        string
	genTasks       bool
	genDryRun      bool
	genConfigFile  string
)

// GenerateCmd represents the generate command.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Product Backlog Items from a feature description",
	Long: `Generate one or more Product Backlog Items from a short functional
description, optionally grounded on prototype captures.

The model decides whether the description is one independent story or
several, and answers structured items with user story, acceptance
criteria, validations, and error states. Review the cards, copy the
rendered HTML to the clipboard, or push them straight to Azure DevOps.`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&genModule, "module", "m", "", "Module the feature belongs to (used in titles)")
	GenerateCmd.Flags().StringVarP(&genFeature, "feature", "f", "", "Feature name (used in titles)")
	GenerateCmd.Flags().StringVarP(&genDescription, "description", "d", "", "Functional description of the requirement")
	GenerateCmd.Flags().StringVar(&genDescFile, "description-file", "", "Read the description from a file instead")
	GenerateCmd.Flags().StringVarP(&genTechContext, "context", "c", "", "Technical context (stack, restrictions, conventions)")
	GenerateCmd.Flags().StringArrayVar(&genCaptures, "capture", nil, "Prototype capture image (repeatable, order defines Capture 1, 2, ...)")
	GenerateCmd.Flags().StringVar(&genFigmaURL, "figma-url", "", "Figma frame URL to export captures from (needs FIGMA_TOKEN)")

	GenerateCmd.Flags().StringVar(&genModel, "model", "", "Model to use (default from config or "+llm.DefaultModel+")")
	GenerateCmd.Flags().IntVar(&genMaxTokens, "max-tokens", 0, "Response token limit")

	GenerateCmd.Flags().StringVarP(&genOutput, "output", "o", "review", "Output mode (review/cards/html/json)")
	GenerateCmd.Flags().StringVar(&genSaveJSON, "save-json", "", "Save the decoded result to a checkpoint file")
	GenerateCmd.Flags().BoolVar(&genCopy, "copy", false, "Copy the rendered HTML of all items to the clipboard")

	GenerateCmd.Flags().BoolVar(&genPush, "push", false, "Push the generated items to Azure DevOps")
	GenerateCmd.Flags().StringVar(&genParent, "parent", "", "Parent work item URL for pushed items")
	GenerateCmd.Flags().StringVar(&genIteration, "iteration", "", "Iteration path for pushed items")
	GenerateCmd.Flags().StringVar(&genArea, "area", "", "Area path for pushed items")
	GenerateCmd.Flags().BoolVar(&genTasks, "tasks", false, "Create one child Task per acceptance criterion when pushing")
	GenerateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "With --push, preview the titles without creating anything")

	GenerateCmd.Flags().StringVar(&genConfigFile, "config", "", "Config file (default: .pbigen.yaml)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadFileConfig(genConfigFile)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		fmt.Printf("Loaded config from: %s\n", cfgPath)
	}

	// Flags win over the config file
	if !cmd.Flags().Changed("model") && cfg.Model != "" {
		genModel = cfg.Model
	}
	if !cmd.Flags().Changed("max-tokens") && cfg.MaxTokens > 0 {
		genMaxTokens = cfg.MaxTokens
	}
	if !cmd.Flags().Changed("iteration") && cfg.Azure.IterationPath != "" {
		genIteration = cfg.Azure.IterationPath
	}
	if !cmd.Flags().Changed("area") && cfg.Azure.AreaPath != "" {
		genArea = cfg.Azure.AreaPath
	}

	description := genDescription
	if genDescFile != "" {
		data, err := os.ReadFile(genDescFile)
		if err != nil {
			return fmt.Errorf("failed to read description file: %w", err)
		}
		description = string(data)
	}

	req := &core.GenerationRequest{
		Module:      genModule,
		Feature:     genFeature,
		Description: description,
		TechContext: genTechContext,
	}

	for _, path := range genCaptures {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read capture %s: %w", path, err)
		}
		req.Attachments = append(req.Attachments, core.Attachment{
			Data:      data,
			MediaType: mediaTypeFor(path),
		})
	}

	ctx := context.Background()

	if genFigmaURL != "" {
		figmaClient, err := figma.NewClient("")
		if err != nil {
			return err
		}
		fmt.Println("Exporting captures from Figma...")
		captures, err := figmaClient.FetchCaptures(ctx, genFigmaURL)
		if err != nil {
			return fmt.Errorf("figma export failed: %w", err)
		}
		req.Attachments = append(req.Attachments, captures...)
		fmt.Printf("Exported %d capture(s)\n", len(captures))
	}

	adapter, err := createAdapter(genModel, genMaxTokens)
	if err != nil {
		return err
	}

	inputChars := len(core.SystemPrompt) + len(core.BuildUserPrompt(req))
	imageBytes := 0
	for _, att := range req.Attachments {
		imageBytes += len(att.Data)
	}

	info := tui.GenerationInfo{
		Model:      adapter.Model(),
		InputChars: inputChars,
		ImageBytes: imageBytes,
		StartTime:  time.Now(),
	}

	// The spinner runs while the call is in flight; the worker goroutine
	// reports back through the program so it quits on its own.
	var (
		result *core.GenerationResult
		genErr error
	)
	prog := tea.NewProgram(tui.NewProgressDisplay(adapter.Model(), inputChars, imageBytes))
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, genErr = core.NewSynthesizer(adapter).Synthesize(ctx, req)
		if genErr != nil {
			prog.Send(tui.GenerationFailedMsg{})
			return
		}
		prog.Send(tui.GenerationDoneMsg{OutputChars: resultChars(result), ItemCount: len(result.Items)})
	}()

	interactive := true
	if _, err := prog.Run(); err != nil {
		// No TTY: print static lines around the same call instead
		interactive = false
		fmt.Println(tui.RenderGenerationStart(adapter.Model(), inputChars, imageBytes))
	}
	<-done

	if genErr != nil {
		var decodeErr *core.GenerationError
		if errors.As(genErr, &decodeErr) {
			// Surface the raw answer so the user can salvage or re-submit
			fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Model answer could not be decoded. Raw output:"))
			fmt.Fprintln(os.Stderr, decodeErr.Raw)
		}
		return genErr
	}

	info.IsComplete = true
	info.EndTime = time.Now()
	info.ItemCount = len(result.Items)
	info.OutputChars = resultChars(result)
	if !interactive {
		fmt.Println(tui.RenderSummary(info))
	}

	if genSaveJSON != "" {
		if err := saveCheckpoint(genSaveJSON, result); err != nil {
			return err
		}
		fmt.Printf("Saved checkpoint to: %s\n", genSaveJSON)
	}

	if genCopy {
		var parts []string
		for i := range result.Items {
			parts = append(parts, render.HTML(&result.Items[i], render.InlineResolver(req.Attachments)))
		}
		if err := render.CopyHTML(strings.Join(parts, "\n<hr>\n")); err != nil {
			fmt.Fprintf(os.Stderr, "%s clipboard copy failed: %v\n", tui.WarningStyle.Render("!"), err)
		} else {
			fmt.Println(tui.SuccessStyle.Render("✓") + " Copied rendered HTML to clipboard")
		}
	}

	switch genOutput {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "html":
		for i := range result.Items {
			fmt.Println(render.HTML(&result.Items[i], render.InlineResolver(req.Attachments)))
		}
	case "cards":
		fmt.Print(tui.RenderCards(result))
	case "review":
		p := tea.NewProgram(tui.NewReviewModel(result, req.Attachments))
		if _, err := p.Run(); err != nil {
			// Fall back to static cards when no TTY is available
			fmt.Print(tui.RenderCards(result))
		}
	default:
		return fmt.Errorf("unknown output mode: %s", genOutput)
	}

	if genPush {
		if genDryRun {
			fmt.Println("Dry run, would create:")
			for i := range result.Items {
				fmt.Printf("  %d. %s\n", i+1, result.Items[i].Title)
			}
			return nil
		}
		client, err := azdo.NewClient(cfg.azureConfig())
		if err != nil {
			return err
		}
		opts := azdo.PushOptions{
			IterationPath:    genIteration,
			AreaPath:         genArea,
			ParentURL:        genParent,
			CreateChildTasks: genTasks,
		}
		return pushItems(ctx, client, result.Items, req.Attachments, opts)
	}

	return nil
}

// resultChars approximates the output size for the token estimate.
func resultChars(result *core.GenerationResult) int {
	n := len(result.Summary)
	for _, item := range result.Items {
		n += len(item.Title) + len(item.Objective)
		for _, s := range item.HappyPath {
			n += len(s)
		}
	}
	return n
}

// saveCheckpoint writes the decoded result for later pushing.
func saveCheckpoint(path string, result *core.GenerationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// mediaTypeFor maps a capture file extension to its media type.
func mediaTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
