package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/blockplan/pkg/config"
	"github.com/matzehuels/blockplan/pkg/errors"
	"github.com/matzehuels/blockplan/pkg/plan"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "docs/landing.json", "docs/landing"},
		{"", "landing.md", "landing"},
		{"", "-", "plan"},
		{"out/page", "landing.json", "out/page"},
		{"out/page.html", "landing.json", "out/page"},
		{"out/page.plan.json", "landing.json", "out/page"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name                  string
		output, input, format string
		count                 int
		want                  string
	}{
		{"derived json", "", "landing.json", "json", 1, "landing.plan.json"},
		{"derived svg", "", "landing.md", "svg", 1, "landing.svg"},
		{"explicit single", "preview.htm", "landing.json", "html", 1, "preview.htm"},
		{"explicit multi", "out/page", "landing.json", "dot", 2, "out/page.dot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.output, tt.input, tt.format, tt.count); got != tt.want {
				t.Errorf("artifactPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "page")
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"json": []byte("{}"), "html": []byte("<p></p>")},
		formats:   []string{"json", "html"},
		input:     "landing.json",
		output:    base,
	})
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{base + ".plan.json", base + ".html"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(base + ".html")
	if err != nil || string(data) != "<p></p>" {
		t.Errorf("html = %q, %v", data, err)
	}
}

func TestRunPlan(t *testing.T) {
	c, _ := newTestCLI(t)
	c.Config.Cache.Backend = config.BackendNone

	base := filepath.Join(t.TempDir(), "landing")
	opts := c.pipelineOptions()
	opts.Formats = []string{"json", "html", "dot"}

	if err := c.runPlan(context.Background(), "testdata/landing.md", opts, base, false); err != nil {
		t.Fatalf("runPlan: %v", err)
	}

	p, err := plan.Read(mustOpen(t, base+".plan.json"))
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	if !p.HasAnchor() || p.Anchor.Name != "form" {
		t.Errorf("anchor = %+v", p.Anchor)
	}
	if p.Stats.Sections != 3 || p.Stats.Layouts != 1 {
		t.Errorf("stats = %+v", p.Stats)
	}

	html, _ := os.ReadFile(base + ".html")
	if !bytes.Contains(html, []byte(`<details class="section"`)) {
		t.Errorf("html missing preview sections:\n%s", html)
	}
	dot, _ := os.ReadFile(base + ".dot")
	if !strings.HasPrefix(string(dot), "digraph outline") {
		t.Errorf("dot = %q", dot)
	}
}

func TestRunPlanRequireAnchor(t *testing.T) {
	c, _ := newTestCLI(t)
	c.Config.Cache.Backend = config.BackendNone

	opts := c.pipelineOptions()
	opts.Anchor = "checkout"
	opts.RequireAnchor = true
	opts.Formats = []string{"json"}

	err := c.runPlan(context.Background(), "testdata/landing.json", opts, filepath.Join(t.TempDir(), "x"), false)
	if !errors.Is(err, errors.ErrCodeNoAnchor) {
		t.Errorf("runPlan error = %v, want NO_ANCHOR", err)
	}
}

func TestPlanCommandRejectsMultiFormatStdout(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"plan", "-f", "json,html", "-o", "-", "testdata/landing.json"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute error = %v, want INVALID_INPUT", err)
	}
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}
