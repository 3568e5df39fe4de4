// Package segment splits a flat block list into titled sections around a
// single form anchor.
//
// A document is scanned once, front to back. Before the anchor, every title
// marker opens a new section and dividers are dropped. The first component
// block named after the anchor closes the pre-anchor region. After it, a
// section only opens on a divider immediately followed by a title marker; the
// pair is consumed together. Content that appears while no section is open is
// discarded, which is how the customary leading empty paragraph disappears.
//
// Segment never fails. Blocks with unexpected shapes fall through to the
// ordinary append-or-discard rule.
package segment

import "github.com/matzehuels/blockplan/pkg/block"

// DefaultAnchorComponent is the component name of the embedded form widget.
const DefaultAnchorComponent = "form"

// Options configures segmentation.
type Options struct {
	// AnchorComponent names the component block that divides the document.
	// Empty means DefaultAnchorComponent.
	AnchorComponent string
}

func (o Options) anchor() string {
	if o.AnchorComponent == "" {
		return DefaultAnchorComponent
	}
	return o.AnchorComponent
}

// Section is a run of content opened by a title marker.
//
// Pre-anchor sections carry the marker text as Title. Post-anchor sections
// carry it as ID instead; it is never displayed.
type Section struct {
	Title   string        `json:"title,omitempty"`
	ID      string        `json:"id,omitempty"`
	Content []block.Block `json:"-"`
}

// Stats counts the blocks that did not land in any section.
type Stats struct {
	Dividers     int `json:"dividers"`
	TitleMarkers int `json:"title_markers"`
	Discarded    int `json:"discarded"`
}

// Result is the outcome of [Segment].
type Result struct {
	Pre    []Section
	Anchor *block.Component
	Post   []Section
	Stats  Stats
}

// HasAnchor reports whether an anchor block was found.
func (r Result) HasAnchor() bool { return r.Anchor != nil }

// Sections returns the pre-anchor sections followed by the post-anchor ones.
func (r Result) Sections() []Section {
	out := make([]Section, 0, len(r.Pre)+len(r.Post))
	out = append(out, r.Pre...)
	return append(out, r.Post...)
}

// ContentCount returns the number of blocks placed into sections.
func (r Result) ContentCount() int {
	n := 0
	for _, s := range r.Pre {
		n += len(s.Content)
	}
	for _, s := range r.Post {
		n += len(s.Content)
	}
	return n
}

// scanner holds the state of one forward pass.
type scanner struct {
	anchorName string
	current    *Section
	res        Result
}

// Segment scans doc and returns its sections and anchor.
//
// The input slice and its blocks are not modified; section content slices are
// freshly allocated and share block pointers with doc.
func Segment(doc []block.Block, opts Options) Result {
	s := &scanner{anchorName: opts.anchor()}

	for i := 0; i < len(doc); i++ {
		b := doc[i]

		if !s.res.HasAnchor() {
			s.pre(b)
			continue
		}

		var next block.Block
		if i+1 < len(doc) {
			next = doc[i+1]
		}
		i += s.post(b, next)
	}

	s.flush()
	return s.res
}

// pre handles one block before the anchor has been seen.
func (s *scanner) pre(b block.Block) {
	if block.IsComponent(b, s.anchorName) {
		s.flush()
		s.res.Anchor = b.(*block.Component)
		return
	}
	if title, ok := block.TitleMarker(b); ok {
		s.flush()
		s.res.Stats.TitleMarkers++
		s.current = &Section{Title: title}
		return
	}
	if block.IsDivider(b) {
		s.res.Stats.Dividers++
		return
	}
	s.append(b)
}

// post handles one block after the anchor and reports how many extra blocks
// it consumed beyond b.
func (s *scanner) post(b, next block.Block) int {
	if !block.IsDivider(b) {
		s.append(b)
		return 0
	}

	s.res.Stats.Dividers++
	id, ok := "", false
	if next != nil {
		id, ok = block.TitleMarker(next)
	}
	if !ok {
		return 0
	}

	s.flush()
	s.res.Stats.TitleMarkers++
	s.current = &Section{ID: id}
	return 1
}

func (s *scanner) append(b block.Block) {
	if s.current == nil {
		s.res.Stats.Discarded++
		return
	}
	s.current.Content = append(s.current.Content, b)
}

// flush moves the open section into the region the scan is currently in.
func (s *scanner) flush() {
	if s.current == nil {
		return
	}
	if s.res.HasAnchor() {
		s.res.Post = append(s.res.Post, *s.current)
	} else {
		s.res.Pre = append(s.res.Pre, *s.current)
	}
	s.current = nil
}
