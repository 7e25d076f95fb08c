package render

import (
	"strings"
	"testing"

	"github.com/lmoreno/pbigen/internal/core"
)

func fullItem() *core.BacklogItem {
	return &core.BacklogItem{
		Title:         "Holidays - Policies - US 1.1 - Remove sum validation",
		Objective:     "Allow independent percentage fields.",
		Role:          "HR administrator",
		When:          "editing a vacation policy",
		Then:          "each field accepts 0-100",
		Benefit:       "flexible policies",
		HappyPath:     []string{"AC1: saving succeeds"},
		Validations:   []string{"AC-V1: values limited to 0-100"},
		ErrorStates:   []string{"AC-E1: out-of-range shows inline error"},
		PrototypeRefs: []string{"(Capture 2) shows the confirmation dialog"},
		Dependencies:  []string{"US 1.0 policy editor"},
		TechNotes:     []string{"Is the 0-100 limit enforced server-side?"},
	}
}

func minimalItem() *core.BacklogItem {
	return &core.BacklogItem{
		Title:     "Reports - Export - US 2.1 - Add CSV export",
		Objective: "Let users export the filtered report.",
		Role:      "analyst",
		When:      "viewing a filtered report",
		Then:      "a CSV downloads with the visible rows",
		Benefit:   "offline analysis",
		HappyPath: []string{"AC1: download starts within 2s"},
	}
}

func TestHTMLDeterministic(t *testing.T) {
	item := fullItem()
	resolver := HostedResolver(map[int]string{2: "https://example.org/capture2.png"})

	first := HTML(item, resolver)
	second := HTML(item, resolver)
	if first != second {
		t.Error("rendering the same item twice must produce byte-identical output")
	}
}

func TestHTMLMandatorySectionsOnly(t *testing.T) {
	out := HTML(minimalItem(), NoImages)

	for _, want := range []string{"<h2>", "Objective", "User Story", "Happy Path"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing mandatory section %q", want)
		}
	}
	for _, banned := range []string{"Validations", "Error States", "Prototype", "Dependencies", "Tech Notes"} {
		if strings.Contains(out, banned) {
			t.Errorf("empty optional section %q must be omitted", banned)
		}
	}
}

func TestHTMLCaptureSplicing(t *testing.T) {
	item := minimalItem()
	item.PrototypeRefs = []string{"(Capture 2) shows the confirmation dialog"}

	// Position 2 resolves, position 1 does not.
	resolver := HostedResolver(map[int]string{2: "https://example.org/c2.png"})
	out := HTML(item, resolver)

	if got := strings.Count(out, "<img "); got != 1 {
		t.Fatalf("got %d embedded images, want exactly 1", got)
	}
	if !strings.Contains(out, `src="https://example.org/c2.png"`) {
		t.Error("embedded image should use the resolved reference for position 2")
	}

	// The image sits in the same list entry as its reference text.
	proto := out[strings.Index(out, "Prototype"):]
	li := proto[strings.Index(proto, "<li>"):strings.Index(proto, "</li>")]
	if !strings.Contains(li, "confirmation dialog") || !strings.Contains(li, "<img ") {
		t.Error("image must be embedded beneath its reference line")
	}
}

func TestHTMLUnresolvedCaptureOmitsImage(t *testing.T) {
	item := minimalItem()
	item.PrototypeRefs = []string{"(Capture 3) empty state"}

	out := HTML(item, NoImages)
	if strings.Contains(out, "<img ") {
		t.Error("unresolved capture reference must not embed an image")
	}
	if !strings.Contains(out, "empty state") {
		t.Error("reference text must still be emitted")
	}
}

func TestHTMLEscapesUserText(t *testing.T) {
	item := minimalItem()
	item.Title = `Reports <script>alert("x")</script>`

	out := HTML(item, NoImages)
	if strings.Contains(out, "<script>") {
		t.Error("user text must be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("expected escaped title text")
	}
}

func TestInlineResolver(t *testing.T) {
	attachments := []core.Attachment{
		{Data: []byte{0x89, 0x50}, MediaType: "image/png"},
	}
	resolver := InlineResolver(attachments)

	src, ok := resolver(1)
	if !ok {
		t.Fatal("position 1 should resolve")
	}
	if !strings.HasPrefix(src, "data:image/png;base64,") {
		t.Errorf("inline reference should be a data URI, got %s", src)
	}

	if _, ok := resolver(2); ok {
		t.Error("position beyond the attachment list must not resolve")
	}
	if _, ok := resolver(0); ok {
		t.Error("position 0 must not resolve")
	}
}

func TestPlainTextSectionOrder(t *testing.T) {
	out := PlainText(fullItem())

	sections := []string{"Objective:", "As HR administrator", "Happy Path:", "Validations", "Error States", "Prototype:", "Dependencies:", "Tech Notes:"}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		if idx == -1 {
			t.Fatalf("plain text missing section %q", s)
		}
		if idx < last {
			t.Errorf("section %q out of order", s)
		}
		last = idx
	}
}
