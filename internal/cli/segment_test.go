package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/blockplan/pkg/block"
	docio "github.com/matzehuels/blockplan/pkg/io"
	"github.com/matzehuels/blockplan/pkg/segment"
)

func loadSegments(t *testing.T, path string) segment.Result {
	t.Helper()
	doc, _, err := docio.ImportDocument(path, docio.FormatAuto)
	if err != nil {
		t.Fatalf("ImportDocument(%s): %v", path, err)
	}
	return segment.Segment(doc, segment.Options{})
}

func TestSectionRows(t *testing.T) {
	for _, path := range []string{"testdata/landing.json", "testdata/landing.md"} {
		t.Run(path, func(t *testing.T) {
			rows := sectionRows(loadSegments(t, path))
			want := [][]string{
				{"pre", "1", "Overview", "4", "Plan launches in minutes."},
				{"pre", "2", "Pricing", "1", "FreeProTeam"},
				{"post", "1", "#faq", "1", "Cancel anytime."},
			}
			if !reflect.DeepEqual(rows, want) {
				t.Errorf("sectionRows =\n%v\nwant\n%v", rows, want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("word ", 20)
	tests := []struct {
		name   string
		blocks []block.Block
		want   string
	}{
		{"empty", nil, ""},
		{"skips blank", []block.Block{block.NewParagraph(""), block.NewParagraph("hi")}, "hi"},
		{"collapses space", []block.Block{block.NewParagraph("a \n  b")}, "a b"},
		{"truncates", []block.Block{block.NewParagraph(long)}, strings.Repeat("word ", 8)[:previewWidth-1] + "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.blocks); got != tt.want {
				t.Errorf("preview = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSectionTable(t *testing.T) {
	out := sectionTable(sectionRows(loadSegments(t, "testdata/landing.json")))
	for _, want := range []string{"Region", "Overview", "Pricing", "#faq"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRunSegment(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := c.runSegment("testdata/landing.json", docio.FormatAuto, "form"); err != nil {
		t.Fatalf("runSegment: %v", err)
	}
	if err := c.runSegment("testdata/missing.json", docio.FormatAuto, "form"); err == nil {
		t.Error("runSegment on a missing file should fail")
	}
}
