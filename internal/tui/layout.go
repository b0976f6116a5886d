package tui

import (
	"image"
	"math"
)

// statusRows is the height of the help and status line under the panes.
const statusRows = 1

// geometry maps the split onto the screen.
type geometry struct {
	vertical     bool // panes side by side
	rtl          bool // vertical splits only: pane 0 on the right
	grabber      int  // resizer thickness in cells
	buttonOffset int  // -100..100, see config.CollapseConfig
}

// element is one slot along the split axis: a pane or a resizer.
type element struct {
	resizer bool
	index   int
}

type layout struct {
	panes    []image.Rectangle
	resizers []image.Rectangle
	buttons  []image.Point // collapse button cell of each resizer
	order    []element     // screen order along the axis
	status   image.Rectangle
}

// contentHeight is the number of rows available to panes and resizers.
func contentHeight(height int) int { return max(height-statusRows, 0) }

// extent is the number of cells the panes share along the split axis.
func (g geometry) extent(width, height, n int) int {
	total := width
	if !g.vertical {
		total = contentHeight(height)
	}
	return max(total-max(n-1, 0)*g.grabber, 0)
}

// axisPos projects a pointer position onto the split axis so that moving
// toward higher pane indices is always positive.
func (g geometry) axisPos(x, y int) float64 {
	switch {
	case !g.vertical:
		return float64(y)
	case g.rtl:
		return float64(-x)
	}
	return float64(x)
}

// generateLayout places panes and resizers for the given cell sizes.
func (g geometry) generateLayout(width, height int, cells []int) layout {
	n := len(cells)
	contentH := contentHeight(height)
	ly := layout{
		panes:    make([]image.Rectangle, n),
		resizers: make([]image.Rectangle, max(n-1, 0)),
		buttons:  make([]image.Point, max(n-1, 0)),
		status:   image.Rect(0, contentH, width, height),
	}

	pos, prev := 0, -1
	for k := range n {
		i := k
		if g.vertical && g.rtl {
			i = n - 1 - k
		}
		if prev >= 0 {
			r := min(prev, i)
			ly.resizers[r] = g.span(pos, pos+g.grabber, width, contentH)
			ly.order = append(ly.order, element{resizer: true, index: r})
			pos += g.grabber
		}
		ly.panes[i] = g.span(pos, pos+cells[i], width, contentH)
		ly.order = append(ly.order, element{index: i})
		pos += cells[i]
		prev = i
	}
	for r, rect := range ly.resizers {
		ly.buttons[r] = g.button(rect)
	}
	return ly
}

func (g geometry) span(from, to, width, contentH int) image.Rectangle {
	if g.vertical {
		return image.Rect(from, 0, to, contentH)
	}
	return image.Rect(0, from, width, to)
}

// button places the collapse button along a resizer. The space before and
// after it is shared 100-offset to 100+offset.
func (g geometry) button(rect image.Rectangle) image.Point {
	length := rect.Dx()
	if g.vertical {
		length = rect.Dy()
	}
	before := float64(max(100-g.buttonOffset, 0))
	after := float64(max(100+g.buttonOffset, 0))
	at := 0
	if length > 1 && before+after > 0 {
		at = int(math.Round(float64(length-1) * before / (before + after)))
	}
	if g.vertical {
		return image.Pt(rect.Min.X, rect.Min.Y+at)
	}
	return image.Pt(rect.Min.X+at, rect.Min.Y)
}

func inRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}

// resizerAt returns the resizer under (x, y), or -1.
func (ly layout) resizerAt(x, y int) int {
	for r, rect := range ly.resizers {
		if inRect(x, y, rect) {
			return r
		}
	}
	return -1
}

// paneAt returns the pane under (x, y), or -1.
func (ly layout) paneAt(x, y int) int {
	for i, rect := range ly.panes {
		if inRect(x, y, rect) {
			return i
		}
	}
	return -1
}
