package render

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/lmoreno/pbigen/internal/core"
)

// ImageResolver maps a 1-based capture position to an embeddable image
// reference. The second return is false when no image exists for that
// position.
type ImageResolver func(pos int) (string, bool)

// NoImages is a resolver that never resolves. Used when a result is
// rendered before any captures exist.
func NoImages(pos int) (string, bool) { return "", false }

// InlineResolver embeds the raw capture bytes as data: URIs. This keeps the
// fragment self-contained for the clipboard path.
func InlineResolver(attachments []core.Attachment) ImageResolver {
	return func(pos int) (string, bool) {
		if pos < 1 || pos > len(attachments) {
			return "", false
		}
		att := attachments[pos-1]
		return fmt.Sprintf("data:%s;base64,%s", att.MediaType, base64.StdEncoding.EncodeToString(att.Data)), true
	}
}

// HostedResolver substitutes tracker attachment URLs, keyed by capture
// position. Used once captures have been uploaded to Azure DevOps.
func HostedResolver(urls map[int]string) ImageResolver {
	return func(pos int) (string, bool) {
		url, ok := urls[pos]
		return url, ok
	}
}

// HTML renders one backlog item as a fixed-structure fragment suitable for
// an Azure DevOps description field. Sections appear in a fixed order and
// empty optional sections are omitted. The function is pure: same item and
// same resolver behavior produce byte-identical output.
func HTML(item *core.BacklogItem, resolve ImageResolver) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(item.Title))

	fmt.Fprintf(&b, "<h3>🎯 Objective</h3><p>%s</p>", html.EscapeString(item.Objective))

	b.WriteString("<h3>👤 User Story</h3>")
	fmt.Fprintf(&b, "<p><b>As</b> %s<br><b>When</b> %s<br><b>Then</b> %s<br><b>For</b> %s</p>",
		html.EscapeString(item.Role),
		html.EscapeString(item.When),
		html.EscapeString(item.Then),
		html.EscapeString(item.Benefit),
	)

	b.WriteString("<h3>✅ Acceptance Criteria</h3><h4>Happy Path</h4>")
	writeList(&b, item.HappyPath)

	if len(item.Validations) > 0 {
		b.WriteString("<h4>Validations & Edge Cases</h4>")
		writeList(&b, item.Validations)
	}

	if len(item.ErrorStates) > 0 {
		b.WriteString("<h4>Error States</h4>")
		writeList(&b, item.ErrorStates)
	}

	if len(item.PrototypeRefs) > 0 {
		b.WriteString("<h3>🖼️ Prototype</h3><ul>")
		for _, ref := range item.PrototypeRefs {
			fmt.Fprintf(&b, "<li>%s", html.EscapeString(ref))
			if pos, ok := core.ParseCaptureIndex(ref); ok {
				if src, found := resolve(pos); found {
					fmt.Fprintf(&b, `<br><img src="%s" alt="Capture %d" style="max-width:100%%">`, src, pos)
				}
			}
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
	}

	if len(item.Dependencies) > 0 {
		b.WriteString("<h3>🔗 Dependencies</h3>")
		writeList(&b, item.Dependencies)
	}

	if len(item.TechNotes) > 0 {
		b.WriteString("<h3>💡 Tech Notes</h3>")
		writeList(&b, item.TechNotes)
	}

	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	b.WriteString("<ul>")
	for _, it := range items {
		fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(it))
	}
	b.WriteString("</ul>")
}
