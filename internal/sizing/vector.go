// Package sizing computes pane extents for a resizable, collapsible split
// layout along a single axis.
//
// Drag and Recalculate are pure functions over a size vector. Splitter holds
// the per-layout session state and the drag state machine around them.
package sizing

import "slices"

// SizeFunc reports the panes' current on-screen extents.
type SizeFunc func() []float64

// MinSizes is either a single floor shared by all panes or a per-pane list.
// PerPane wins when set.
type MinSizes struct {
	Scalar  float64
	PerPane []float64
}

// Resolve expands the floors to exactly n entries. Missing per-pane entries
// fall back to Scalar.
func (m MinSizes) Resolve(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < len(m.PerPane) {
			out[i] = m.PerPane[i]
		} else {
			out[i] = m.Scalar
		}
	}
	return out
}

// Constraints are the read-only inputs shared by Drag and Recalculate.
type Constraints struct {
	MinSizes      []float64 // resolved, one per pane
	CollapsedSize float64
	Collapsed     []int // ascending pane indices
}

// IsCollapsed reports whether pane i is in the collapsed set.
func (c Constraints) IsCollapsed(i int) bool {
	_, ok := slices.BinarySearch(c.Collapsed, i)
	return ok
}

// minSize returns the floor of pane i, 0 when none was configured.
func (c Constraints) minSize(i int) float64 {
	if i < len(c.MinSizes) {
		return c.MinSizes[i]
	}
	return 0
}

// Sum adds up a size vector.
func Sum(v []float64) float64 {
	var total float64
	for _, s := range v {
		total += s
	}
	return total
}

// clampToMin raises every entry to at least its floor, skipping collapsed panes.
func clampToMin(v []float64, c Constraints) {
	for i := range v {
		if c.IsCollapsed(i) {
			continue
		}
		v[i] = max(v[i], c.minSize(i))
	}
}

// Weights turns proportional weights into sizes summing to total.
// All-zero weights split total evenly.
func Weights(weights []float64, total float64) []float64 {
	out := make([]float64, len(weights))
	if len(weights) == 0 {
		return out
	}
	sum := Sum(weights)
	for i, w := range weights {
		if sum <= 0 {
			out[i] = total / float64(len(weights))
			continue
		}
		out[i] = w / sum * total
	}
	return out
}

// Fit scales v so it sums to total. A zero vector is returned unchanged.
func Fit(v []float64, total float64) []float64 {
	out := slices.Clone(v)
	sum := Sum(v)
	if sum <= 0 {
		return out
	}
	for i := range out {
		out[i] *= total / sum
	}
	return out
}

// normalizeIndices sorts and de-duplicates a collapsed index list.
func normalizeIndices(idx []int) []int {
	out := slices.Clone(idx)
	slices.Sort(out)
	return slices.Compact(out)
}
