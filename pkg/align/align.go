// Package align infers per-column text alignment for multi-column layouts.
//
// The widest column keeps its natural reading position and narrower columns
// lean toward the opposite margin, so authors never set alignment by hand:
//
//	[1]       → left
//	[1 1]     → left right
//	[1 1 1]   → left center right
//	[2 1 1]   → left right right
//	[1 2 1]   → left center right
//	[1 1 2]   → left left right
package align

import "github.com/matzehuels/blockplan/pkg/block"

// Alignment is a CSS-style text alignment.
type Alignment string

// Alignments.
const (
	Left   Alignment = "left"
	Center Alignment = "center"
	Right  Alignment = "right"
)

// Resolve maps column weights to one alignment per column.
// The result has the same length as columns; empty input yields an empty slice.
func Resolve(columns []float64) []Alignment {
	n := len(columns)
	out := make([]Alignment, n)

	switch {
	case n == 0:
		return out
	case n == 1:
		out[0] = Left
		return out
	case n == 2:
		out[0], out[1] = Left, Right
		return out
	case allEqual(columns):
		for i := range out {
			out[i] = Center
		}
		out[0], out[n-1] = Left, Right
		return out
	}

	m := argmax(columns)
	for i := range out {
		switch {
		case m == 0:
			out[i] = Right
		case m == n-1:
			out[i] = Left
		case i < m:
			out[i] = Left
		case i == m:
			out[i] = Center
		default:
			out[i] = Right
		}
	}
	switch m {
	case 0:
		out[0] = Left
	case n - 1:
		out[n-1] = Right
	}
	return out
}

// ForLayout resolves the alignment of every area in l.
func ForLayout(l *block.Layout) []Alignment {
	return Resolve(l.Columns)
}

func allEqual(columns []float64) bool {
	for _, c := range columns[1:] {
		if c != columns[0] {
			return false
		}
	}
	return true
}

// argmax returns the index of the first maximum weight.
func argmax(columns []float64) int {
	m := 0
	for i, c := range columns {
		if c > columns[m] {
			m = i
		}
	}
	return m
}
