package htmlsink

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/plan"
	"github.com/matzehuels/blockplan/pkg/segment"
)

func samplePlan() *plan.Plan {
	doc := []block.Block{
		block.NewParagraph(""),
		block.NewTitleMarker("Why Us"),
		block.NewParagraph("hello"),
		&block.Component{Name: "marquee"},
		&block.Layout{
			Columns: []float64{1, 2, 1},
			Areas: []*block.LayoutArea{
				{Children: []block.Block{block.NewParagraph("a")}},
				{Children: []block.Block{block.NewParagraph("b")}},
				{Children: []block.Block{block.NewParagraph("c")}},
			},
		},
		&block.Component{Name: "form", Props: map[string]any{"list": "news"}},
		&block.Divider{},
		block.NewTitleMarker("faq"),
		&block.Paragraph{Children: []block.Block{
			&block.TextLeaf{Text: "bold", Bold: true},
			&block.TextLeaf{Text: " and "},
			&block.TextLeaf{Text: "both", Bold: true, Italic: true},
		}},
	}
	return plan.Build(segment.Segment(doc, segment.Options{}), nil)
}

func TestRenderFragment(t *testing.T) {
	out, err := Render(samplePlan())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		`<div class="blockplan">`,
		`<details class="section" id="why-us"><summary>Why Us</summary>`,
		`<div class="boxed"><p>hello</p></div>`,
		`<div class="breakout"><div class="component" data-component="marquee"></div></div>`,
		`<div class="layout" style="display:grid;grid-template-columns:1fr 2fr 1fr">`,
		`<div class="layout-area" style="text-align:left"><p>a</p></div>`,
		`<div class="layout-area" style="text-align:center"><p>b</p></div>`,
		`<div class="layout-area" style="text-align:right"><p>c</p></div>`,
		`<div class="form-anchor" data-component="form" data-props=`,
		`<section class="section" id="faq">`,
		`<strong>bold</strong> and <strong><em>both</em></strong>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s\n%s", want, got)
		}
	}
	if strings.Contains(got, "<html") {
		t.Error("fragment contains <html>")
	}
	// Post-anchor section IDs are never displayed.
	if strings.Contains(got, "<summary>faq</summary>") {
		t.Error("post-anchor section rendered a summary")
	}
	// The title marker and leading empty paragraph do not appear.
	if strings.Contains(got, "<blockquote>") || strings.Contains(got, "<p></p>") {
		t.Error("consumed blocks rendered")
	}
}

func TestRenderStandalone(t *testing.T) {
	out, err := Render(samplePlan(), WithStandalone("Landing"), WithOpenFirst())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := string(out)
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Landing</title>",
		".breakout {",
		`<details class="section" id="why-us" open="">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s", want)
		}
	}

	out, _ = Render(samplePlan(), WithStandalone("x"), WithCSS(""))
	if strings.Contains(string(out), "<style>") {
		t.Error("WithCSS(\"\") still emitted a stylesheet")
	}
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name string
		b    block.Block
		want string
	}{
		{"heading", &block.Heading{Level: 2, Children: []block.Block{&block.TextLeaf{Text: "H"}}}, "<h2>H</h2>"},
		{"heading clamp", &block.Heading{Level: 9}, "<h6></h6>"},
		{"divider", &block.Divider{}, "<hr/>"},
		{"code", &block.Code{Children: []block.Block{&block.TextLeaf{Text: "x < y"}}}, "<pre><code>x &lt; y</code></pre>"},
		{"underline", &block.TextLeaf{Text: "u", Underline: true}, "<u>u</u>"},
		{"unknown", &block.Unknown{Type: "table"}, `<div class="unknown" data-type="table"></div>`},
		{"quote", &block.Blockquote{Children: []block.Block{block.NewParagraph("q")}}, "<blockquote><p>q</p></blockquote>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			if err := html.Render(&sb, node(tt.b)); err != nil {
				t.Fatal(err)
			}
			if sb.String() != tt.want {
				t.Errorf("got %s, want %s", sb.String(), tt.want)
			}
		})
	}
}

func TestLayoutWithoutPlanColumns(t *testing.T) {
	l := &block.Layout{
		Columns: []float64{0.5, 0.5},
		Areas:   []*block.LayoutArea{{}, {}, {}},
	}
	var sb strings.Builder
	if err := html.Render(&sb, node(l)); err != nil {
		t.Fatal(err)
	}
	got := sb.String()
	want := `<div class="layout" style="display:grid;grid-template-columns:0.5fr 0.5fr">` +
		`<div class="layout-area" style="text-align:left"></div>` +
		`<div class="layout-area" style="text-align:right"></div>` +
		`<div class="layout-area"></div></div>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Why Us":           "why-us",
		"  Pricing & FAQ ": "pricing-faq",
		"Step 2: Go!":      "step-2-go",
		"!!!":              "",
		"Über":             "über",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSectionIDFallback(t *testing.T) {
	if got := sectionID(plan.Section{Title: "???"}, 2); got != "section-3" {
		t.Errorf("sectionID = %q, want section-3", got)
	}
}
