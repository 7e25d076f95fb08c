package azdo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lmoreno/pbigen/internal/core"
	"github.com/lmoreno/pbigen/internal/render"
)

// PushOptions configures how a backlog item lands in the board.
type PushOptions struct {
	IterationPath string
	AreaPath      string
	ParentURL     string

	// CreateChildTasks creates one child Task per happy-path criterion.
	CreateChildTasks bool
}

// PushResult reports everything a push produced, including the failures of
// the batch phases that kept going.
type PushResult struct {
	Item           *WorkItem
	AttachmentURLs map[int]string // capture position -> hosted URL
	ChildTasks     []*WorkItem
	Failures       []core.ItemFailure
}

// PartialError returns the collected batch failures as a PartialError, or
// nil when everything succeeded.
func (r *PushResult) PartialError() *core.PartialError {
	if len(r.Failures) == 0 {
		return nil
	}
	return &core.PartialError{Op: "push", Failures: r.Failures}
}

// PushItem uploads the captures, renders the description with the hosted
// URLs, creates the work item, and optionally creates child tasks.
//
// Attachment uploads run sequentially and a failure on one is recorded
// without aborting the rest or the overall push; the same applies to child
// tasks. Only the work-item create itself is terminal.
func PushItem(ctx context.Context, client *Client, item *core.BacklogItem, attachments []core.Attachment, opts PushOptions) (*PushResult, error) {
	result := &PushResult{AttachmentURLs: make(map[int]string)}

	for i, att := range attachments {
		name := fmt.Sprintf("capture-%d-%s%s", i+1, uuid.NewString()[:8], extensionFor(att.MediaType))
		ref, err := client.UploadAttachment(ctx, name, att.Data)
		if err != nil {
			result.Failures = append(result.Failures, core.ItemFailure{
				Position: i + 1,
				Name:     name,
				Err:      err,
			})
			continue
		}
		result.AttachmentURLs[i+1] = ref.URL
	}

	description := render.HTML(item, render.HostedResolver(result.AttachmentURLs))

	created, err := client.CreateWorkItem(ctx, "Product Backlog Item", item.Title, description, WorkItemOptions{
		IterationPath: opts.IterationPath,
		AreaPath:      opts.AreaPath,
		ParentURL:     opts.ParentURL,
	})
	if err != nil {
		return result, err
	}
	result.Item = created

	if opts.CreateChildTasks {
		for i, ac := range item.HappyPath {
			task, err := client.CreateWorkItem(ctx, "Task", ac, "", WorkItemOptions{
				IterationPath: opts.IterationPath,
				AreaPath:      opts.AreaPath,
				ParentURL:     created.URL,
			})
			if err != nil {
				result.Failures = append(result.Failures, core.ItemFailure{
					Position: i + 1,
					Name:     ac,
					Err:      err,
				})
				continue
			}
			result.ChildTasks = append(result.ChildTasks, task)
		}
	}

	return result, nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
