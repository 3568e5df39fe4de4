// Package plan composes the segmenter, partitioner and alignment resolver into
// a single render plan.
//
// A [Plan] is the intermediate representation handed to painters: titled
// preview sections, the form anchor, and post-form sections, each already
// split into boxed and breakout groups with column alignments resolved for
// layout blocks. Plans are plain values and serialize to JSON for caching and
// for the HTTP API.
package plan

import (
	"github.com/matzehuels/blockplan/pkg/align"
	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/partition"
	"github.com/matzehuels/blockplan/pkg/segment"
)

// Plan is the render plan for one document.
type Plan struct {
	Pre    []Section
	Anchor *block.Component
	Post   []Section
	Stats  Stats
}

// Section is a segmented section with its render groups.
type Section struct {
	Title  string
	ID     string
	Groups []Group
}

// Group is a render group. Columns is set only for a breakout group holding a
// layout and gives one alignment per layout area.
type Group struct {
	Kind    partition.Kind
	Blocks  []block.Block
	Columns []align.Alignment
}

// Stats summarizes a plan.
type Stats struct {
	Segment  segment.Stats `json:"segment"`
	Sections int           `json:"sections"`
	Boxed    int           `json:"boxed"`
	Breakout int           `json:"breakout"`
	Blocks   int           `json:"blocks"`
	Layouts  int           `json:"layouts"`
}

// Build partitions every section of res and resolves layout alignments.
// A nil classifier means [partition.Default].
func Build(res segment.Result, c partition.Classifier) *Plan {
	if c == nil {
		c = partition.Default()
	}

	p := &Plan{
		Anchor: res.Anchor,
		Stats:  Stats{Segment: res.Stats},
	}
	p.Pre = p.buildSections(res.Pre, c)
	p.Post = p.buildSections(res.Post, c)
	return p
}

func (p *Plan) buildSections(sections []segment.Section, c partition.Classifier) []Section {
	if len(sections) == 0 {
		return nil
	}
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, Section{
			Title:  s.Title,
			ID:     s.ID,
			Groups: p.buildGroups(partition.Partition(s.Content, c)),
		})
		p.Stats.Sections++
	}
	return out
}

func (p *Plan) buildGroups(groups []partition.Group) []Group {
	if len(groups) == 0 {
		return nil
	}
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		pg := Group{Kind: g.Kind, Blocks: g.Blocks}
		switch g.Kind {
		case partition.Breakout:
			p.Stats.Breakout++
			if l, ok := g.Blocks[0].(*block.Layout); ok {
				pg.Columns = align.ForLayout(l)
				p.Stats.Layouts++
			}
		case partition.Boxed:
			p.Stats.Boxed++
		}
		p.Stats.Blocks += len(g.Blocks)
		out = append(out, pg)
	}
	return out
}

// HasAnchor reports whether the plan carries a form anchor.
func (p *Plan) HasAnchor() bool { return p.Anchor != nil }

// Sections returns all sections, pre-anchor first.
func (p *Plan) Sections() []Section {
	out := make([]Section, 0, len(p.Pre)+len(p.Post))
	out = append(out, p.Pre...)
	return append(out, p.Post...)
}

// Label returns the display title of s, falling back to its ID.
func (s Section) Label() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}
