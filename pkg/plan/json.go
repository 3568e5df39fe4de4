package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/blockplan/pkg/align"
	"github.com/matzehuels/blockplan/pkg/block"
	"github.com/matzehuels/blockplan/pkg/partition"
)

// =============================================================================
// Wire Types
// =============================================================================

type planJSON struct {
	Pre    []sectionJSON   `json:"pre"`
	Anchor json.RawMessage `json:"anchor"`
	Post   []sectionJSON   `json:"post"`
	Stats  Stats           `json:"stats"`
}

type sectionJSON struct {
	Title  string      `json:"title,omitempty"`
	ID     string      `json:"id,omitempty"`
	Groups []groupJSON `json:"groups"`
}

type groupJSON struct {
	Kind    partition.Kind    `json:"kind"`
	Columns []align.Alignment `json:"columns,omitempty"`
	Blocks  json.RawMessage   `json:"blocks"`
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal encodes p as indented JSON. Blocks use the editor wire format.
func Marshal(p *Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes p as indented JSON to w.
func Write(p *Plan, w io.Writer) error {
	out, err := toJSON(p)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes p as JSON to path.
func WriteFile(p *Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(p, f)
}

// Unmarshal decodes a plan produced by [Marshal].
func Unmarshal(data []byte) (*Plan, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a plan from r.
func Read(r io.Reader) (*Plan, error) {
	var in planJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromJSON(in)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func toJSON(p *Plan) (planJSON, error) {
	out := planJSON{Stats: p.Stats, Anchor: json.RawMessage("null")}

	if p.Anchor != nil {
		raw, err := block.MarshalBlock(p.Anchor)
		if err != nil {
			return planJSON{}, fmt.Errorf("anchor: %w", err)
		}
		out.Anchor = raw
	}

	var err error
	if out.Pre, err = sectionsToJSON(p.Pre); err != nil {
		return planJSON{}, err
	}
	if out.Post, err = sectionsToJSON(p.Post); err != nil {
		return planJSON{}, err
	}
	return out, nil
}

func sectionsToJSON(sections []Section) ([]sectionJSON, error) {
	out := make([]sectionJSON, 0, len(sections))
	for _, s := range sections {
		sj := sectionJSON{Title: s.Title, ID: s.ID, Groups: make([]groupJSON, 0, len(s.Groups))}
		for _, g := range s.Groups {
			blocks, err := block.Marshal(g.Blocks)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", s.Label(), err)
			}
			sj.Groups = append(sj.Groups, groupJSON{Kind: g.Kind, Columns: g.Columns, Blocks: blocks})
		}
		out = append(out, sj)
	}
	return out, nil
}

func fromJSON(in planJSON) (*Plan, error) {
	p := &Plan{Stats: in.Stats}

	if len(in.Anchor) > 0 && string(in.Anchor) != "null" {
		b, err := block.UnmarshalBlock(in.Anchor)
		if err != nil {
			return nil, fmt.Errorf("anchor: %w", err)
		}
		c, ok := b.(*block.Component)
		if !ok {
			return nil, fmt.Errorf("anchor: got %s block, want component", b.Kind())
		}
		p.Anchor = c
	}

	var err error
	if p.Pre, err = sectionsFromJSON(in.Pre); err != nil {
		return nil, err
	}
	if p.Post, err = sectionsFromJSON(in.Post); err != nil {
		return nil, err
	}
	return p, nil
}

func sectionsFromJSON(in []sectionJSON) ([]Section, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Section, 0, len(in))
	for _, sj := range in {
		s := Section{Title: sj.Title, ID: sj.ID}
		for _, gj := range sj.Groups {
			blocks, err := block.Unmarshal(gj.Blocks)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", s.Label(), err)
			}
			s.Groups = append(s.Groups, Group{Kind: gj.Kind, Columns: gj.Columns, Blocks: blocks})
		}
		out = append(out, s)
	}
	return out, nil
}
