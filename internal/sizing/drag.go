package sizing

import "slices"

// Drag moves the resizer between pane r and pane r+1 by delta and returns the
// new size vector. Only entries r and r+1 change and their sum is conserved,
// unless that sum is below both floors combined, in which case both panes sit
// on their floors.
//
// A resizer touching a collapsed pane does not move; the result is an
// unchanged copy. r must satisfy 0 <= r < len(sizes)-1.
func Drag(sizes []float64, r int, delta float64, c Constraints) []float64 {
	out := slices.Clone(sizes)
	_ = out[r+1] // resizer must sit between two panes

	if c.IsCollapsed(r) || c.IsCollapsed(r+1) {
		return out
	}

	pair := sizes[r] + sizes[r+1]
	minBefore, minAfter := c.minSize(r), c.minSize(r+1)

	if pair < minBefore+minAfter {
		out[r], out[r+1] = minBefore, minAfter
		return out
	}

	before := max(minBefore, sizes[r]+delta)
	after := pair - before
	if after < minAfter {
		after = minAfter
		before = pair - after
	}

	out[r], out[r+1] = before, after
	return out
}
