package sizing

import "slices"

// Recalculate derives a valid size vector from a baseline and the live sizes.
//
// A non-empty baseline is scaled by sum(live)/sum(baseline) (ratio 1 when the
// baseline sums to zero); an empty baseline uses live as-is. Non-collapsed
// entries are then raised to their floors and collapsed entries are pinned to
// CollapsedSize. Extent freed by pinning flows to the next non-collapsed pane,
// or to the closest one before it when the collapsed run ends the vector.
//
// len(baseline) must be 0 or len(live).
func Recalculate(baseline, live []float64, c Constraints) []float64 {
	scaled := scale(baseline, live)
	clampToMin(scaled, c)
	return pinCollapsed(scaled, c)
}

func scale(baseline, live []float64) []float64 {
	if len(baseline) == 0 {
		return slices.Clone(live)
	}
	ratio := 1.0
	if total := Sum(baseline); total != 0 {
		ratio = Sum(live) / total
	}
	out := make([]float64, len(baseline))
	for i, s := range baseline {
		out[i] = s * ratio
	}
	return out
}

// pinCollapsed folds left to right, carrying freed extent until a
// non-collapsed pane takes it. A collapsed pane scaled below CollapsedSize
// frees a negative amount; receivers give it up only down to their floor and
// pass the rest on. Whatever is left at the end goes to the last open pane,
// which again stays on or above its floor.
func pinCollapsed(v []float64, c Constraints) []float64 {
	out := slices.Clone(v)
	var freed float64
	lastOpen := -1
	for i := range out {
		if c.IsCollapsed(i) {
			freed += out[i] - c.CollapsedSize
			out[i] = c.CollapsedSize
			continue
		}
		lastOpen = i
		if freed == 0 {
			continue
		}
		out[i], freed = receive(out[i], freed, c.minSize(i))
	}
	if freed != 0 && lastOpen >= 0 {
		out[lastOpen], _ = receive(out[lastOpen], freed, c.minSize(lastOpen))
	}
	for i := range out {
		out[i] = max(out[i], 0)
	}
	return out
}

// receive adds freed to size without going below floor and returns the
// shortfall still to be absorbed.
func receive(size, freed, floor float64) (float64, float64) {
	next := size + freed
	if next >= floor {
		return next, 0
	}
	return max(size, floor), next - max(size, floor)
}
