package render

import (
	"fmt"
	"strings"

	"github.com/lmoreno/pbigen/internal/core"
)

// PlainText renders a backlog item without markup, mirroring the HTML
// section order. Used as the clipboard fallback and for terminal output.
func PlainText(item *core.BacklogItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", item.Title)
	fmt.Fprintf(&b, "Objective: %s\n\n", item.Objective)

	fmt.Fprintf(&b, "As %s\nWhen %s\nThen %s\nFor %s\n\n", item.Role, item.When, item.Then, item.Benefit)

	b.WriteString("Happy Path:\n")
	writeBullets(&b, item.HappyPath)

	if len(item.Validations) > 0 {
		b.WriteString("\nValidations & Edge Cases:\n")
		writeBullets(&b, item.Validations)
	}
	if len(item.ErrorStates) > 0 {
		b.WriteString("\nError States:\n")
		writeBullets(&b, item.ErrorStates)
	}
	if len(item.PrototypeRefs) > 0 {
		b.WriteString("\nPrototype:\n")
		writeBullets(&b, item.PrototypeRefs)
	}
	if len(item.Dependencies) > 0 {
		b.WriteString("\nDependencies:\n")
		writeBullets(&b, item.Dependencies)
	}
	if len(item.TechNotes) > 0 {
		b.WriteString("\nTech Notes:\n")
		writeBullets(&b, item.TechNotes)
	}

	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}
