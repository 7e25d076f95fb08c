package render

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/lmoreno/pbigen/internal/core"
)

// CopyItem writes the rendered fragment for one backlog item to the system
// clipboard, with captures inlined so the paste is self-contained.
func CopyItem(item *core.BacklogItem, attachments []core.Attachment) error {
	return CopyHTML(HTML(item, InlineResolver(attachments)))
}

// CopyHTML writes an already rendered fragment to the system clipboard.
func CopyHTML(fragment string) error {
	if err := clipboard.WriteAll(fragment); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
