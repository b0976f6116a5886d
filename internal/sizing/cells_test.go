package sizing

import (
	"slices"
	"testing"
)

func TestCells(t *testing.T) {
	tests := []struct {
		name      string
		sizes     []float64
		mins      []float64
		collapsed []int
		extent    int
		want      []int
	}{
		{"exact", []float64{100, 10, 190}, nil, []int{1}, 300, []int{100, 10, 190}},
		{"largest remainder", []float64{1, 1, 1}, nil, nil, 10, []int{4, 3, 3}},
		{"scaled down", []float64{100, 100, 200}, nil, nil, 80, []int{20, 20, 40}},
		{"floor repair", []float64{1, 99}, []float64{10, 0}, nil, 50, []int{10, 40}},
		{"floors exceed extent", []float64{20, 20, 20}, mins(3, 20), nil, 30, []int{10, 10, 10}},
		{"all collapsed", []float64{1, 1}, nil, []int{0, 1}, 10, []int{1, 9}},
		{"no extent", []float64{1, 1}, nil, nil, 0, []int{0, 0}},
		{"zero sizes", []float64{0, 0, 0}, nil, nil, 9, []int{3, 3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Constraints{MinSizes: tt.mins, CollapsedSize: 1, Collapsed: tt.collapsed}
			if tt.name == "exact" {
				c.CollapsedSize = 10
			}
			got := Cells(tt.sizes, c, tt.extent)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Cells(%v, %d) = %v, want %v", tt.sizes, tt.extent, got, tt.want)
			}
		})
	}
}

func TestCellsAlwaysFillExtent(t *testing.T) {
	c := Constraints{MinSizes: []float64{3, 3, 3, 3}, CollapsedSize: 1, Collapsed: []int{2}}
	sizes := []float64{33.3, 17.9, 1, 47.8}
	for extent := 1; extent < 120; extent++ {
		got := Cells(sizes, c, extent)
		total := 0
		for _, v := range got {
			total += v
		}
		if total != extent {
			t.Fatalf("extent %d: cells %v sum to %d", extent, got, total)
		}
	}
}
