package block

// TitleMarker reports whether b is a title marker and returns its text.
// The shape is exact: a [Blockquote] whose only child is a [Code] whose only
// child is a [TextLeaf]. Anything else, including a blockquote with extra
// children, is ordinary content.
func TitleMarker(b Block) (string, bool) {
	quote, ok := b.(*Blockquote)
	if !ok || len(quote.Children) != 1 {
		return "", false
	}
	code, ok := quote.Children[0].(*Code)
	if !ok || len(code.Children) != 1 {
		return "", false
	}
	leaf, ok := code.Children[0].(*TextLeaf)
	if !ok {
		return "", false
	}
	return leaf.Text, true
}

// IsDivider reports whether b is a [Divider].
func IsDivider(b Block) bool {
	_, ok := b.(*Divider)
	return ok
}

// IsEmptyParagraph reports whether b is a paragraph whose only child is an
// empty text leaf.
func IsEmptyParagraph(b Block) bool {
	p, ok := b.(*Paragraph)
	if !ok || len(p.Children) != 1 {
		return false
	}
	leaf, ok := p.Children[0].(*TextLeaf)
	return ok && leaf.Text == ""
}

// ComponentName returns the widget name of b when b is a [Component].
func ComponentName(b Block) (string, bool) {
	c, ok := b.(*Component)
	if !ok {
		return "", false
	}
	return c.Name, true
}

// IsComponent reports whether b is a [Component] named name.
func IsComponent(b Block, name string) bool {
	n, ok := ComponentName(b)
	return ok && n == name
}
