package block

import (
	"encoding/json"
	"strings"
)

// Kind identifies a block variant. Values equal the wire "type" discriminator.
type Kind string

// Block kinds understood by the pipeline.
const (
	KindText       Kind = "text"
	KindParagraph  Kind = "paragraph"
	KindHeading    Kind = "heading"
	KindDivider    Kind = "divider"
	KindBlockquote Kind = "blockquote"
	KindCode       Kind = "code"
	KindComponent  Kind = "component-block"
	KindLayout     Kind = "layout"
	KindLayoutArea Kind = "layout-area"
)

// Block is one node of a document. The set of implementations is closed.
type Block interface {
	Kind() Kind
	block()
}

// TextLeaf is terminal inline text.
type TextLeaf struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

// Paragraph holds inline children.
type Paragraph struct {
	Children []Block
}

// Heading holds inline children at a level between 1 and 6.
type Heading struct {
	Level    int
	Children []Block
}

// Divider is a zero-width separator.
type Divider struct{}

// Blockquote holds nested blocks. A blockquote wrapping a single [Code]
// wrapping a single [TextLeaf] is a title marker (see [TitleMarker]).
type Blockquote struct {
	Children []Block
}

// Code holds inline children rendered as code.
type Code struct {
	Children []Block
}

// Component is a named widget invocation. Props are opaque to the pipeline.
type Component struct {
	Name     string
	Props    map[string]any
	Children []Block
}

// Layout is a multi-column block. Columns holds one positive weight per area.
type Layout struct {
	Columns []float64
	Areas   []*LayoutArea
}

// LayoutArea is one column of a [Layout].
type LayoutArea struct {
	Children []Block
}

// Unknown is a node whose type is not part of the vocabulary. Raw holds the
// original JSON so the node survives a decode/encode round trip.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

func (*TextLeaf) Kind() Kind   { return KindText }
func (*Paragraph) Kind() Kind  { return KindParagraph }
func (*Heading) Kind() Kind    { return KindHeading }
func (*Divider) Kind() Kind    { return KindDivider }
func (*Blockquote) Kind() Kind { return KindBlockquote }
func (*Code) Kind() Kind       { return KindCode }
func (*Component) Kind() Kind  { return KindComponent }
func (*Layout) Kind() Kind     { return KindLayout }
func (*LayoutArea) Kind() Kind { return KindLayoutArea }
func (u *Unknown) Kind() Kind  { return Kind(u.Type) }

func (*TextLeaf) block()   {}
func (*Paragraph) block()  {}
func (*Heading) block()    {}
func (*Divider) block()    {}
func (*Blockquote) block() {}
func (*Code) block()       {}
func (*Component) block()  {}
func (*Layout) block()     {}
func (*LayoutArea) block() {}
func (*Unknown) block()    {}

// Children returns the nested blocks of b. Layout areas are returned as blocks
// in column order. Leaves, dividers and unknown nodes have no children.
func Children(b Block) []Block {
	switch v := b.(type) {
	case *Paragraph:
		return v.Children
	case *Heading:
		return v.Children
	case *Blockquote:
		return v.Children
	case *Code:
		return v.Children
	case *Component:
		return v.Children
	case *LayoutArea:
		return v.Children
	case *Layout:
		out := make([]Block, len(v.Areas))
		for i, a := range v.Areas {
			out[i] = a
		}
		return out
	case *TextLeaf, *Divider, *Unknown:
		return nil
	default:
		return nil
	}
}

// Text returns the concatenated leaf text of b and its descendants.
func Text(b Block) string {
	var sb strings.Builder
	writeText(&sb, b)
	return sb.String()
}

func writeText(sb *strings.Builder, b Block) {
	if leaf, ok := b.(*TextLeaf); ok {
		sb.WriteString(leaf.Text)
		return
	}
	for _, c := range Children(b) {
		writeText(sb, c)
	}
}

// Count returns the number of blocks in doc, including nested descendants.
func Count(doc []Block) int {
	n := 0
	for _, b := range doc {
		n += 1 + Count(Children(b))
	}
	return n
}

// NewParagraph returns a paragraph holding a single plain text leaf.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{Children: []Block{&TextLeaf{Text: text}}}
}

// NewTitleMarker returns the quote → code → text shape that opens a section.
func NewTitleMarker(title string) *Blockquote {
	return &Blockquote{Children: []Block{
		&Code{Children: []Block{&TextLeaf{Text: title}}},
	}}
}
