// Package outline draws the structure of a [plan.Plan] as a Graphviz diagram:
// one node for the document, one per section, the anchor between the two
// regions, and one per render group.
//
//	dot := outline.ToDOT(p, outline.Options{Detailed: true})
//	svg, err := outline.RenderSVG(ctx, dot)
package outline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/partition"
	"github.com/matzehuels/blockplan/pkg/plan"
)

// Options configures the diagram.
type Options struct {
	// Detailed adds block kinds and column alignments to group labels.
	Detailed bool
}

// ToDOT returns the outline of p in DOT format.
func ToDOT(p *plan.Plan, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph outline {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("  \"doc\" [label=\"document\", shape=folder];\n")

	prev := "doc"
	for i, s := range p.Pre {
		id := fmt.Sprintf("pre%d", i)
		writeSection(&buf, id, s.Label(), "lightyellow", s, opts)
		fmt.Fprintf(&buf, "  %q -> %q;\n", prev, id)
		prev = id
	}

	if p.Anchor != nil {
		fmt.Fprintf(&buf, "  \"anchor\" [label=%q, shape=hexagon, fillcolor=lightblue];\n", "form: "+p.Anchor.Name)
		fmt.Fprintf(&buf, "  %q -> \"anchor\" [style=bold];\n", prev)
		prev = "anchor"
	}

	for i, s := range p.Post {
		id := fmt.Sprintf("post%d", i)
		writeSection(&buf, id, "#"+s.Label(), "honeydew", s, opts)
		fmt.Fprintf(&buf, "  %q -> %q;\n", prev, id)
		prev = id
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeSection(buf *bytes.Buffer, id, label, fill string, s plan.Section, opts Options) {
	fmt.Fprintf(buf, "  %q [label=%q, fillcolor=%s];\n", id, label, fill)
	for j, g := range s.Groups {
		gid := fmt.Sprintf("%s_g%d", id, j)
		attrs := []string{fmt.Sprintf("label=%q", groupLabel(g, opts.Detailed)), "shape=note"}
		if g.Kind == partition.Breakout {
			attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=mistyrose")
		}
		fmt.Fprintf(buf, "  %q [%s];\n", gid, strings.Join(attrs, ", "))
		fmt.Fprintf(buf, "  %q -> %q [arrowhead=none];\n", id, gid)
	}
}

func groupLabel(g plan.Group, detailed bool) string {
	label := fmt.Sprintf("%s (%d)", g.Kind, len(g.Blocks))
	if !detailed {
		return label
	}
	kinds := make([]string, len(g.Blocks))
	for i, b := range g.Blocks {
		kinds[i] = string(b.Kind())
		if name, ok := block.ComponentName(b); ok {
			kinds[i] += ":" + name
		}
	}
	label += "\n" + strings.Join(kinds, ", ")
	if len(g.Columns) > 0 {
		cols := make([]string, len(g.Columns))
		for i, a := range g.Columns {
			cols[i] = string(a)
		}
		label += "\n[" + strings.Join(cols, " ") + "]"
	}
	return label
}

// RenderSVG lays out a DOT graph with the embedded Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> tag with one whose viewBox
// starts at the origin and whose size matches it, so the image scales.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
