package align

import (
	"reflect"
	"testing"

	"github.com/matzehuels/blockplan/pkg/block"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		columns []float64
		want    []Alignment
	}{
		{nil, []Alignment{}},
		{[]float64{1}, []Alignment{Left}},
		{[]float64{3}, []Alignment{Left}},
		{[]float64{1, 1}, []Alignment{Left, Right}},
		{[]float64{2, 1}, []Alignment{Left, Right}},
		{[]float64{1, 2}, []Alignment{Left, Right}},
		{[]float64{1, 1, 1}, []Alignment{Left, Center, Right}},
		{[]float64{1, 1, 1, 1}, []Alignment{Left, Center, Center, Right}},
		{[]float64{2, 1, 1}, []Alignment{Left, Right, Right}},
		{[]float64{1, 2, 1}, []Alignment{Left, Center, Right}},
		{[]float64{1, 1, 2}, []Alignment{Left, Left, Right}},
		{[]float64{3, 1, 1, 1}, []Alignment{Left, Right, Right, Right}},
		{[]float64{1, 1, 1, 3}, []Alignment{Left, Left, Left, Right}},
		{[]float64{1, 1, 3, 1}, []Alignment{Left, Left, Center, Right}},
		{[]float64{1, 3, 1, 1}, []Alignment{Left, Center, Right, Right}},
		// First maximum wins on ties.
		{[]float64{1, 2, 2}, []Alignment{Left, Center, Right}},
		{[]float64{2, 1, 2}, []Alignment{Left, Right, Right}},
		{[]float64{0.5, 0.25, 0.25}, []Alignment{Left, Right, Right}},
	}

	for _, tt := range tests {
		got := Resolve(tt.columns)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resolve(%v) = %v, want %v", tt.columns, got, tt.want)
		}
		if len(got) != len(tt.columns) {
			t.Errorf("Resolve(%v) length = %d, want %d", tt.columns, len(got), len(tt.columns))
		}
	}
}

func TestForLayout(t *testing.T) {
	l := &block.Layout{Columns: []float64{1, 2, 1}}
	want := []Alignment{Left, Center, Right}
	if got := ForLayout(l); !reflect.DeepEqual(got, want) {
		t.Errorf("ForLayout() = %v, want %v", got, want)
	}
}
