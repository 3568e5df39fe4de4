package plan

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/blockplan/pkg/align"
	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/partition"
	"github.com/matzehuels/blockplan/pkg/segment"
)

func sampleDoc() []block.Block {
	return []block.Block{
		block.NewParagraph(""),
		block.NewTitleMarker("Intro"),
		block.NewParagraph("hello"),
		&block.Component{Name: "marquee"},
		block.NewParagraph("after"),
		&block.Divider{},
		block.NewTitleMarker("Details"),
		&block.Layout{
			Columns: []float64{1, 2, 1},
			Areas:   []*block.LayoutArea{{}, {}, {}},
		},
		&block.Component{Name: "form", Props: map[string]any{"id": "signup"}},
		&block.Divider{},
		block.NewTitleMarker("faq"),
		block.NewParagraph("q"),
	}
}

func TestBuild(t *testing.T) {
	p := Build(segment.Segment(sampleDoc(), segment.Options{}), nil)

	if !p.HasAnchor() || p.Anchor.Name != "form" {
		t.Fatalf("Anchor = %+v, want form", p.Anchor)
	}
	if len(p.Pre) != 2 || len(p.Post) != 1 {
		t.Fatalf("sections = %d/%d, want 2/1", len(p.Pre), len(p.Post))
	}

	intro := p.Pre[0]
	if intro.Title != "Intro" {
		t.Errorf("Pre[0].Title = %q", intro.Title)
	}
	kinds := make([]partition.Kind, len(intro.Groups))
	for i, g := range intro.Groups {
		kinds[i] = g.Kind
	}
	wantKinds := []partition.Kind{partition.Boxed, partition.Breakout, partition.Boxed}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("Intro group kinds = %v, want %v", kinds, wantKinds)
	}

	details := p.Pre[1]
	if len(details.Groups) != 1 || details.Groups[0].Kind != partition.Breakout {
		t.Fatalf("Details groups = %+v", details.Groups)
	}
	wantCols := []align.Alignment{align.Left, align.Center, align.Right}
	if got := details.Groups[0].Columns; !reflect.DeepEqual(got, wantCols) {
		t.Errorf("Details columns = %v, want %v", got, wantCols)
	}

	if p.Post[0].ID != "faq" || p.Post[0].Title != "" {
		t.Errorf("Post[0] = %q/%q, want id faq", p.Post[0].Title, p.Post[0].ID)
	}

	want := Stats{
		Segment:  segment.Stats{Dividers: 2, TitleMarkers: 3, Discarded: 1},
		Sections: 3,
		Boxed:    3,
		Breakout: 2,
		Blocks:   5,
		Layouts:  1,
	}
	if p.Stats != want {
		t.Errorf("Stats = %+v, want %+v", p.Stats, want)
	}
}

func TestBuildCustomClassifier(t *testing.T) {
	res := segment.Segment(sampleDoc(), segment.Options{})
	p := Build(res, partition.NewComponentSet())

	// marquee is boxed without the default set, so Intro is one run.
	if got := len(p.Pre[0].Groups); got != 1 {
		t.Errorf("Intro groups = %d, want 1", got)
	}
	// Layouts are always breakout.
	if got := p.Pre[1].Groups[0].Kind; got != partition.Breakout {
		t.Errorf("layout group kind = %s, want breakout", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	p := Build(segment.Segment(nil, segment.Options{}), nil)
	if p.HasAnchor() || p.Pre != nil || p.Post != nil {
		t.Errorf("Build(empty) = %+v", p)
	}
	if len(p.Sections()) != 0 {
		t.Errorf("Sections() = %d, want 0", len(p.Sections()))
	}
}

func TestSectionsOrder(t *testing.T) {
	p := Build(segment.Segment(sampleDoc(), segment.Options{}), nil)
	var labels []string
	for _, s := range p.Sections() {
		labels = append(labels, s.Label())
	}
	want := []string{"Intro", "Details", "faq"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	p := Build(segment.Segment(sampleDoc(), segment.Options{}), nil)

	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"kind": "breakout"`, `"columns": [`, `"center"`, `"id": "faq"`, `"component": "form"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal output missing %s", want)
		}
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Stats != p.Stats {
		t.Errorf("Stats = %+v, want %+v", got.Stats, p.Stats)
	}
	if got.Anchor == nil || got.Anchor.Name != "form" || got.Anchor.Props["id"] != "signup" {
		t.Errorf("Anchor = %+v", got.Anchor)
	}
	if len(got.Pre) != len(p.Pre) || len(got.Post) != len(p.Post) {
		t.Fatalf("sections = %d/%d", len(got.Pre), len(got.Post))
	}
	for i := range p.Pre {
		if len(got.Pre[i].Groups) != len(p.Pre[i].Groups) {
			t.Errorf("Pre[%d] groups = %d, want %d", i, len(got.Pre[i].Groups), len(p.Pre[i].Groups))
		}
	}
	if !reflect.DeepEqual(got.Pre[1].Groups[0].Columns, p.Pre[1].Groups[0].Columns) {
		t.Errorf("columns lost in round trip")
	}
	if block.Text(got.Post[0].Groups[0].Blocks[0]) != "q" {
		t.Errorf("Post content = %q", block.Text(got.Post[0].Groups[0].Blocks[0]))
	}
}

func TestMarshalNoAnchor(t *testing.T) {
	p := Build(segment.Segment([]block.Block{block.NewTitleMarker("A")}, segment.Options{}), nil)

	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `"anchor": null`) {
		t.Errorf("want null anchor, got %s", buf.String())
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.HasAnchor() {
		t.Error("HasAnchor() = true, want false")
	}
	if len(got.Pre) != 1 || got.Pre[0].Title != "A" {
		t.Errorf("Pre = %+v", got.Pre)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"anchor not component", `{"anchor": {"type": "paragraph", "children": []}}`},
		{"bad blocks", `{"pre": [{"title": "a", "groups": [{"kind": "boxed", "blocks": "nope"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
