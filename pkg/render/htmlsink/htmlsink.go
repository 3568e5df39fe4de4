package htmlsink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/blockplan/pkg/align"
	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/partition"
	"github.com/matzehuels/blockplan/pkg/plan"
)

// =============================================================================
// Options
// =============================================================================

type config struct {
	standalone bool
	title      string
	openFirst  bool
	css        string
}

// Option configures rendering.
type Option func(*config)

// WithStandalone wraps the fragment in a full HTML document with a default
// stylesheet and the given page title.
func WithStandalone(title string) Option {
	return func(c *config) {
		c.standalone = true
		c.title = title
	}
}

// WithOpenFirst renders the first preview section expanded.
func WithOpenFirst() Option {
	return func(c *config) { c.openFirst = true }
}

// WithCSS replaces the default stylesheet of standalone output.
func WithCSS(css string) Option {
	return func(c *config) { c.css = css }
}

// =============================================================================
// Entry Points
// =============================================================================

// Render returns p as HTML.
func Render(p *plan.Plan, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders p to w.
func Write(w io.Writer, p *plan.Plan, opts ...Option) error {
	cfg := config{css: DefaultCSS}
	for _, o := range opts {
		o(&cfg)
	}

	root := Tree(p, cfg.openFirst)
	if cfg.standalone {
		root = document(root, cfg)
	}
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Tree builds the <div class="blockplan"> element for p.
func Tree(p *plan.Plan, openFirst bool) *html.Node {
	root := elem(atom.Div, "class", "blockplan")

	for i, s := range p.Pre {
		d := elem(atom.Details, "class", "section", "id", sectionID(s, i))
		if openFirst && i == 0 {
			setAttr(d, "open", "")
		}
		summary := elem(atom.Summary)
		summary.AppendChild(text(s.Title))
		d.AppendChild(summary)
		appendGroups(d, s.Groups)
		root.AppendChild(d)
	}

	if p.Anchor != nil {
		root.AppendChild(anchor(p.Anchor))
	}

	for i, s := range p.Post {
		sec := elem(atom.Section, "class", "section", "id", sectionID(s, len(p.Pre)+i))
		appendGroups(sec, s.Groups)
		root.AppendChild(sec)
	}
	return root
}

// =============================================================================
// Plan Structure
// =============================================================================

func appendGroups(parent *html.Node, groups []plan.Group) {
	for _, g := range groups {
		class := "boxed"
		if g.Kind == partition.Breakout {
			class = "breakout"
		}
		div := elem(atom.Div, "class", class)
		for _, b := range g.Blocks {
			if l, ok := b.(*block.Layout); ok {
				div.AppendChild(layout(l, g.Columns))
				continue
			}
			div.AppendChild(node(b))
		}
		parent.AppendChild(div)
	}
}

func anchor(c *block.Component) *html.Node {
	n := elem(atom.Div, "class", "form-anchor", "data-component", c.Name)
	if len(c.Props) > 0 {
		if raw, err := json.Marshal(c.Props); err == nil {
			setAttr(n, "data-props", string(raw))
		}
	}
	appendChildren(n, c.Children)
	return n
}

// layout renders l as a grid. columns comes from the plan; when it is nil the
// alignments are resolved here.
func layout(l *block.Layout, columns []align.Alignment) *html.Node {
	if columns == nil {
		columns = align.ForLayout(l)
	}

	tracks := make([]string, len(l.Columns))
	for i, w := range l.Columns {
		tracks[i] = strconv.FormatFloat(w, 'g', -1, 64) + "fr"
	}
	style := "display:grid"
	if len(tracks) > 0 {
		style += ";grid-template-columns:" + strings.Join(tracks, " ")
	}
	n := elem(atom.Div, "class", "layout", "style", style)

	for i, a := range l.Areas {
		area := elem(atom.Div, "class", "layout-area")
		if i < len(columns) {
			setAttr(area, "style", "text-align:"+string(columns[i]))
		}
		appendChildren(area, a.Children)
		n.AppendChild(area)
	}
	return n
}

// =============================================================================
// Blocks
// =============================================================================

var headings = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func node(b block.Block) *html.Node {
	switch v := b.(type) {
	case *block.TextLeaf:
		return leaf(v)
	case *block.Paragraph:
		return withChildren(elem(atom.P), v.Children)
	case *block.Heading:
		lvl := min(max(v.Level, 1), 6)
		return withChildren(elem(headings[lvl-1]), v.Children)
	case *block.Divider:
		return elem(atom.Hr)
	case *block.Blockquote:
		return withChildren(elem(atom.Blockquote), v.Children)
	case *block.Code:
		pre := elem(atom.Pre)
		code := elem(atom.Code)
		code.AppendChild(text(block.Text(v)))
		pre.AppendChild(code)
		return pre
	case *block.Component:
		n := elem(atom.Div, "class", "component", "data-component", v.Name)
		return withChildren(n, v.Children)
	case *block.Layout:
		return layout(v, nil)
	case *block.LayoutArea:
		return withChildren(elem(atom.Div, "class", "layout-area"), v.Children)
	default:
		return elem(atom.Div, "class", "unknown", "data-type", string(b.Kind()))
	}
}

// leaf wraps text in <strong>, <em> and <u>, outermost first.
func leaf(t *block.TextLeaf) *html.Node {
	n := text(t.Text)
	for _, m := range []struct {
		on bool
		a  atom.Atom
	}{{t.Underline, atom.U}, {t.Italic, atom.Em}, {t.Bold, atom.Strong}} {
		if m.on {
			w := elem(m.a)
			w.AppendChild(n)
			n = w
		}
	}
	return n
}

// =============================================================================
// Node Helpers
// =============================================================================

func elem(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func appendChildren(n *html.Node, children []block.Block) {
	for _, c := range children {
		n.AppendChild(node(c))
	}
}

func withChildren(n *html.Node, children []block.Block) *html.Node {
	appendChildren(n, children)
	return n
}

// sectionID prefers the post-anchor ID, then a slug of the title, then the
// section index.
func sectionID(s plan.Section, i int) string {
	if s.ID != "" {
		return s.ID
	}
	if slug := Slug(s.Title); slug != "" {
		return slug
	}
	return "section-" + strconv.Itoa(i+1)
}

// Slug lowercases s and joins its letter and digit runs with hyphens.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
