package block

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/matzehuels/blockplan/pkg/errors"
)

// Fenced code info strings that map to widget blocks.
const (
	fenceComponent = "component"
	fenceLayout    = "layout"
	areaSeparator  = "---"
)

// markdown is a shared goldmark instance. Parsers are safe for concurrent use.
var markdown = goldmark.New()

// FromMarkdown converts Markdown source into a block tree.
//
// The mapping follows the authoring conventions of the editor:
//
//   - paragraphs and headings map directly, with emphasis carried as marks
//   - a thematic break ("---" or "***") becomes a [Divider]
//   - a blockquote holding only a code span (> `Title`) becomes a title marker
//   - a fenced block with info "component <name>" becomes a [Component]; the
//     body, when present, is the JSON props object
//   - a fenced block with info "layout <w1> <w2> ..." becomes a [Layout]; the
//     body is split into areas on lines holding only "---", and each area is
//     parsed as Markdown
//
// Any other block becomes a paragraph of its text. Invalid component props
// JSON is the only error.
func FromMarkdown(src []byte) ([]Block, error) {
	doc := markdown.Parser().Parse(text.NewReader(src))
	return convertBlocks(doc, src)
}

func convertBlocks(parent ast.Node, src []byte) ([]Block, error) {
	var out []Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		b, err := convertBlock(n, src)
		if err != nil {
			return nil, err
		}
		if b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func convertBlock(n ast.Node, src []byte) (Block, error) {
	switch v := n.(type) {
	case *ast.Paragraph:
		return &Paragraph{Children: convertInlines(v, src)}, nil
	case *ast.TextBlock:
		return &Paragraph{Children: convertInlines(v, src)}, nil
	case *ast.Heading:
		return &Heading{Level: v.Level, Children: convertInlines(v, src)}, nil
	case *ast.ThematicBreak:
		return &Divider{}, nil
	case *ast.Blockquote:
		if title, ok := quotedCodeSpan(v, src); ok {
			return NewTitleMarker(title), nil
		}
		children, err := convertBlocks(v, src)
		if err != nil {
			return nil, err
		}
		return &Blockquote{Children: children}, nil
	case *ast.FencedCodeBlock:
		return convertFence(v, src)
	case *ast.CodeBlock:
		return &Code{Children: []Block{&TextLeaf{Text: rawLines(v, src)}}}, nil
	default:
		t := strings.TrimSpace(plainText(n, src))
		if t == "" {
			t = strings.TrimSpace(rawLines(n, src))
		}
		return NewParagraph(t), nil
	}
}

// quotedCodeSpan matches > `Title`: a blockquote holding one paragraph that
// holds exactly one code span.
func quotedCodeSpan(q *ast.Blockquote, src []byte) (string, bool) {
	if q.ChildCount() != 1 {
		return "", false
	}
	p, ok := q.FirstChild().(*ast.Paragraph)
	if !ok || p.ChildCount() != 1 {
		return "", false
	}
	span, ok := p.FirstChild().(*ast.CodeSpan)
	if !ok {
		return "", false
	}
	return plainText(span, src), true
}

func convertFence(f *ast.FencedCodeBlock, src []byte) (Block, error) {
	var info []string
	if f.Info != nil {
		info = strings.Fields(string(f.Info.Segment.Value(src)))
	}
	body := rawLines(f, src)

	if len(info) == 0 {
		return &Code{Children: []Block{&TextLeaf{Text: body}}}, nil
	}

	switch info[0] {
	case fenceComponent:
		c := &Component{}
		if len(info) > 1 {
			c.Name = info[1]
		}
		if strings.TrimSpace(body) != "" {
			if err := json.Unmarshal([]byte(body), &c.Props); err != nil {
				return nil, fmt.Errorf("component %q props: %w", c.Name, err)
			}
		}
		return c, nil
	case fenceLayout:
		return convertLayout(info[1:], body)
	default:
		return &Code{Children: []Block{&TextLeaf{Text: body}}}, nil
	}
}

func convertLayout(weights []string, body string) (Block, error) {
	l := &Layout{}
	for _, part := range splitAreas(body) {
		children, err := FromMarkdown([]byte(part))
		if err != nil {
			return nil, err
		}
		l.Areas = append(l.Areas, &LayoutArea{Children: children})
	}
	for _, w := range weights {
		f, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, fmt.Errorf("layout weight %q: %w", w, err)
		}
		l.Columns = append(l.Columns, f)
	}
	if len(l.Columns) == 0 {
		for range l.Areas {
			l.Columns = append(l.Columns, 1)
		}
	}
	if err := errors.ValidateColumns(l.Columns); err != nil {
		return nil, err
	}
	return l, nil
}

func splitAreas(body string) []string {
	var (
		areas []string
		cur   strings.Builder
	)
	for _, line := range strings.SplitAfter(body, "\n") {
		if strings.TrimSpace(line) == areaSeparator {
			areas = append(areas, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(line)
	}
	return append(areas, cur.String())
}

// marks is the inline formatting state while walking emphasis nodes.
type marks struct {
	bold, italic bool
}

func convertInlines(n ast.Node, src []byte) []Block {
	var out []Block
	walkInlines(n, src, marks{}, &out)
	if len(out) == 0 {
		out = append(out, &TextLeaf{})
	}
	return out
}

func walkInlines(n ast.Node, src []byte, m marks, out *[]Block) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			t := string(v.Segment.Value(src))
			if v.HardLineBreak() {
				t += "\n"
			} else if v.SoftLineBreak() {
				t += " "
			}
			appendLeaf(out, t, m)
		case *ast.String:
			appendLeaf(out, string(v.Value), m)
		case *ast.CodeSpan:
			appendLeaf(out, plainText(v, src), m)
		case *ast.AutoLink:
			appendLeaf(out, string(v.URL(src)), m)
		case *ast.Emphasis:
			inner := m
			if v.Level >= 2 {
				inner.bold = true
			} else {
				inner.italic = true
			}
			walkInlines(v, src, inner, out)
		default:
			walkInlines(v, src, m, out)
		}
	}
}

// appendLeaf merges text into the previous leaf when the marks match so that
// soft line breaks do not fragment a sentence into many leaves.
func appendLeaf(out *[]Block, t string, m marks) {
	if n := len(*out); n > 0 {
		if prev, ok := (*out)[n-1].(*TextLeaf); ok && prev.Bold == m.bold && prev.Italic == m.italic {
			prev.Text += t
			return
		}
	}
	*out = append(*out, &TextLeaf{Text: t, Bold: m.bold, Italic: m.italic})
}

func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func rawLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}
