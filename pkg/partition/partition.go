// Package partition groups the content of one section into boxed panels and
// full-bleed breakout regions.
//
// Runs of ordinary blocks are collected into a single boxed group. Breakout
// blocks (layouts, and components in the configured breakout set) close the
// current run and are emitted alone. Group order mirrors input order, a boxed
// group is never empty, and a breakout group always holds exactly one block.
package partition

import "github.com/matzehuels/blockplan/pkg/block"

// Kind distinguishes contained panels from edge-to-edge regions.
type Kind string

// Group kinds.
const (
	Boxed    Kind = "boxed"
	Breakout Kind = "breakout"
)

// DefaultBreakout lists the full-width widgets recognized out of the box.
var DefaultBreakout = []string{"marquee", "carousel"}

// Group is a contiguous slice of a section's content painted as one unit.
type Group struct {
	Kind   Kind          `json:"kind"`
	Blocks []block.Block `json:"-"`
}

// Classifier decides whether a block breaks out of the boxed panel.
type Classifier interface {
	IsBreakout(b block.Block) bool
}

// ComponentSet classifies layouts and the named components as breakout.
type ComponentSet map[string]struct{}

// NewComponentSet returns a classifier treating the given component names as
// breakout widgets.
func NewComponentSet(names ...string) ComponentSet {
	s := make(ComponentSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// IsBreakout reports whether b is a layout or a component named in s.
func (s ComponentSet) IsBreakout(b block.Block) bool {
	switch v := b.(type) {
	case *block.Layout:
		return true
	case *block.Component:
		_, ok := s[v.Name]
		return ok
	default:
		return false
	}
}

// Default returns a classifier for [DefaultBreakout].
func Default() ComponentSet {
	return NewComponentSet(DefaultBreakout...)
}

// Partition walks content once and returns its render groups.
//
// Paragraphs consisting of a single empty text leaf are skipped. A nil
// classifier means [Default]. Dividers are not expected here; the segmenter
// removes them, and any that remain are treated as boxed content.
func Partition(content []block.Block, c Classifier) []Group {
	if c == nil {
		c = Default()
	}

	var (
		groups []Group
		open   []block.Block
	)
	flush := func() {
		if len(open) == 0 {
			return
		}
		groups = append(groups, Group{Kind: Boxed, Blocks: open})
		open = nil
	}

	for _, b := range content {
		if block.IsEmptyParagraph(b) {
			continue
		}
		if c.IsBreakout(b) {
			flush()
			groups = append(groups, Group{Kind: Breakout, Blocks: []block.Block{b}})
			continue
		}
		open = append(open, b)
	}
	flush()

	return groups
}
