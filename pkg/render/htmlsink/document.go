package htmlsink

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultCSS is the stylesheet embedded in standalone output.
const DefaultCSS = `
.blockplan { max-width: 72rem; margin: 0 auto; font-family: system-ui, sans-serif; }
.section { margin: 1.5rem 0; }
details.section > summary { cursor: pointer; font-weight: 600; font-size: 1.25rem; }
.boxed { max-width: 42rem; margin: 1rem auto; padding: 0 1rem; }
.breakout { width: 100%; margin: 1.5rem 0; }
.layout { gap: 2rem; }
.form-anchor { margin: 2rem auto; padding: 1.5rem; border: 1px solid #ddd; border-radius: 8px; max-width: 42rem; }
`

func document(body *html.Node, cfg config) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := elem(atom.Html, "lang", "en")
	head := elem(atom.Head)
	head.AppendChild(elem(atom.Meta, "charset", "utf-8"))
	head.AppendChild(elem(atom.Meta, "name", "viewport", "content", "width=device-width, initial-scale=1"))
	title := elem(atom.Title)
	title.AppendChild(text(cfg.title))
	head.AppendChild(title)
	if cfg.css != "" {
		style := elem(atom.Style)
		style.AppendChild(&html.Node{Type: html.RawNode, Data: cfg.css})
		head.AppendChild(style)
	}

	b := elem(atom.Body)
	b.AppendChild(body)
	root.AppendChild(head)
	root.AppendChild(b)
	doc.AppendChild(root)
	return doc
}
