package sizing

import (
	"math"
	"sort"
)

// Cells converts a size vector into whole cells summing to extent.
//
// Collapsed panes keep their rounded CollapsedSize. The remaining cells are
// shared by the other panes in proportion to their sizes (largest remainder),
// then panes left below their floor borrow single cells from the pane with
// the most slack. When the extent cannot hold every floor the floors are
// simply not met.
func Cells(sizes []float64, c Constraints, extent int) []int {
	n := len(sizes)
	cells := make([]int, n)
	if n == 0 || extent <= 0 {
		return cells
	}

	remaining := extent
	var open []int
	for i := range sizes {
		if !c.IsCollapsed(i) {
			open = append(open, i)
			continue
		}
		cells[i] = min(int(math.Round(c.CollapsedSize)), remaining)
		remaining -= cells[i]
	}

	if len(open) == 0 {
		cells[n-1] += remaining
		return cells
	}

	apportion(sizes, open, remaining, cells)
	repairFloors(open, c, cells)
	return cells
}

// apportion splits total across idx by largest remainder.
func apportion(sizes []float64, idx []int, total int, cells []int) {
	var sum float64
	for _, i := range idx {
		sum += max(sizes[i], 0)
	}

	type frac struct {
		i int
		f float64
	}
	fracs := make([]frac, 0, len(idx))
	used := 0
	for _, i := range idx {
		exact := float64(total) / float64(len(idx))
		if sum > 0 {
			exact = max(sizes[i], 0) / sum * float64(total)
		}
		whole := int(math.Floor(exact))
		cells[i] = whole
		used += whole
		fracs = append(fracs, frac{i, exact - float64(whole)})
	}

	sort.SliceStable(fracs, func(a, b int) bool { return fracs[a].f > fracs[b].f })
	for k := 0; used < total; k++ {
		cells[fracs[k%len(fracs)].i]++
		used++
	}
}

func repairFloors(idx []int, c Constraints, cells []int) {
	floor := func(i int) int { return int(math.Ceil(c.minSize(i))) }
	for _, i := range idx {
		for cells[i] < floor(i) {
			donor, slack := -1, 0
			for _, j := range idx {
				if s := cells[j] - floor(j); j != i && s > slack {
					donor, slack = j, s
				}
			}
			if donor < 0 {
				break
			}
			cells[donor]--
			cells[i]++
		}
	}
}
