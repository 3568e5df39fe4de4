package block

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// wireNode is the decoding view of any node. Fields not used by a given type
// are simply left empty.
type wireNode struct {
	Type      string            `json:"type"`
	Text      *string           `json:"text"`
	Bold      bool              `json:"bold"`
	Italic    bool              `json:"italic"`
	Underline bool              `json:"underline"`
	Level     int               `json:"level"`
	Component string            `json:"component"`
	Props     map[string]any    `json:"props"`
	Layout    []float64         `json:"layout"`
	Columns   []float64         `json:"columns"`
	Children  []json.RawMessage `json:"children"`
}

type leafOut struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

type nodeOut struct {
	Type      string            `json:"type"`
	Level     int               `json:"level,omitempty"`
	Component string            `json:"component,omitempty"`
	Props     map[string]any    `json:"props,omitempty"`
	Layout    []float64         `json:"layout,omitempty"`
	Children  []json.RawMessage `json:"children"`
}

// Decode reads a JSON document from r. The document is either a bare array of
// nodes or an object with a "document" array.
//
// Decoding is best-effort: unrecognized node types become [Unknown] and layout
// children that are not layout areas are skipped. Only malformed JSON is an
// error.
func Decode(r io.Reader) ([]Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a JSON document held in memory. See [Decode].
func Unmarshal(data []byte) ([]Block, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Document []json.RawMessage `json:"document"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return decodeAll(wrapper.Document, "document")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return decodeAll(raw, "")
}

func decodeAll(raw []json.RawMessage, path string) ([]Block, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]Block, 0, len(raw))
	for i, r := range raw {
		b, err := decodeNode(r, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeNode(raw json.RawMessage, path string) (Block, error) {
	var n wireNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if (n.Type == "" && n.Text != nil) || Kind(n.Type) == KindText {
		leaf := &TextLeaf{Bold: n.Bold, Italic: n.Italic, Underline: n.Underline}
		if n.Text != nil {
			leaf.Text = *n.Text
		}
		return leaf, nil
	}

	children, err := decodeAll(n.Children, path+".children")
	if err != nil {
		return nil, err
	}

	switch Kind(n.Type) {
	case KindParagraph:
		return &Paragraph{Children: children}, nil
	case KindHeading:
		return &Heading{Level: n.Level, Children: children}, nil
	case KindDivider:
		return &Divider{}, nil
	case KindBlockquote:
		return &Blockquote{Children: children}, nil
	case KindCode:
		return &Code{Children: children}, nil
	case KindComponent:
		return &Component{Name: n.Component, Props: n.Props, Children: children}, nil
	case KindLayoutArea:
		return &LayoutArea{Children: children}, nil
	case KindLayout:
		cols := n.Layout
		if cols == nil {
			cols = n.Columns
		}
		l := &Layout{Columns: cols}
		for _, c := range children {
			if area, ok := c.(*LayoutArea); ok {
				l.Areas = append(l.Areas, area)
			}
		}
		return l, nil
	default:
		return &Unknown{Type: n.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// Marshal encodes doc as a JSON array in the wire format read by [Decode].
func Marshal(doc []Block) ([]byte, error) {
	nodes, err := encodeAll(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodes)
}

// Encode writes doc to w as indented JSON.
func Encode(w io.Writer, doc []Block) error {
	nodes, err := encodeAll(doc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nodes); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalBlock encodes a single block.
func MarshalBlock(b Block) (json.RawMessage, error) {
	return encodeNode(b)
}

// UnmarshalBlock decodes a single block.
func UnmarshalBlock(data []byte) (Block, error) {
	return decodeNode(data, "")
}

func encodeAll(doc []Block) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(doc))
	for _, b := range doc {
		raw, err := encodeNode(b)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func encodeNode(b Block) (json.RawMessage, error) {
	switch v := b.(type) {
	case *TextLeaf:
		return json.Marshal(leafOut{Text: v.Text, Bold: v.Bold, Italic: v.Italic, Underline: v.Underline})
	case *Unknown:
		if len(v.Raw) > 0 {
			return v.Raw, nil
		}
		return json.Marshal(nodeOut{Type: v.Type, Children: []json.RawMessage{}})
	case *Divider:
		return json.Marshal(nodeOut{Type: string(KindDivider), Children: []json.RawMessage{}})
	case *Layout:
		children, err := encodeAll(Children(v))
		if err != nil {
			return nil, err
		}
		return json.Marshal(nodeOut{Type: string(KindLayout), Layout: v.Columns, Children: children})
	case *Component:
		children, err := encodeAll(v.Children)
		if err != nil {
			return nil, err
		}
		return json.Marshal(nodeOut{Type: string(KindComponent), Component: v.Name, Props: v.Props, Children: children})
	case *Heading:
		children, err := encodeAll(v.Children)
		if err != nil {
			return nil, err
		}
		return json.Marshal(nodeOut{Type: string(KindHeading), Level: v.Level, Children: children})
	case *Paragraph, *Blockquote, *Code, *LayoutArea:
		children, err := encodeAll(Children(v))
		if err != nil {
			return nil, err
		}
		return json.Marshal(nodeOut{Type: string(v.Kind()), Children: children})
	default:
		return nil, fmt.Errorf("encode: unsupported block %T", b)
	}
}
