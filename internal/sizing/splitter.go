package sizing

import (
	"slices"

	"github.com/rs/zerolog/log"
)

// Options configure a Splitter.
type Options struct {
	Sizes         []float64 // initial distribution, one per pane
	MinSizes      MinSizes
	CollapsedSize float64
	Collapsed     []int
}

// State is the persistable part of a Splitter.
type State struct {
	Sizes     []float64       `json:"sizes"`
	Collapsed []int           `json:"collapsed"`
	Restore   map[int]float64 `json:"restore,omitempty"`
}

// Splitter owns the size state of one split layout: the authoritative sizes,
// the moved sizes used as the next recalculation baseline, the collapsed set
// and the drag session. It is not safe for concurrent use.
type Splitter struct {
	live          SizeFunc
	minSizes      []float64
	collapsedSize float64
	collapsed     []int

	sizes []float64
	moved []float64

	// restore remembers each collapsed pane's size so expanding can give it back.
	restore map[int]float64

	drag *dragSession

	// OnChange, when set, observes every published size vector.
	OnChange func(sizes []float64)
}

type dragSession struct {
	resizer  int
	last     float64
	snapshot []float64
}

// NewSplitter builds a Splitter. live reports on-screen sizes; nil means the
// Splitter's own sizes are taken as ground truth. Initially collapsed panes are
// pinned immediately.
func NewSplitter(opts Options, live SizeFunc) *Splitter {
	n := len(opts.Sizes)
	s := &Splitter{
		live:          live,
		minSizes:      opts.MinSizes.Resolve(n),
		collapsedSize: opts.CollapsedSize,
		collapsed:     normalizeIndices(opts.Collapsed),
		restore:       make(map[int]float64),
	}
	if s.live == nil {
		s.live = s.Sizes
	}
	for _, i := range s.collapsed {
		s.restore[i] = opts.Sizes[i]
	}
	initial := Recalculate(opts.Sizes, opts.Sizes, s.constraints())
	s.sizes = initial
	s.moved = slices.Clone(initial)
	return s
}

// Len returns the number of panes.
func (s *Splitter) Len() int { return len(s.sizes) }

// Sizes returns a copy of the authoritative size vector.
func (s *Splitter) Sizes() []float64 { return slices.Clone(s.sizes) }

// MovedSizes returns a copy of the baseline recorded by the last completed
// drag or recalculation.
func (s *Splitter) MovedSizes() []float64 { return slices.Clone(s.moved) }

// Collapsed returns the collapsed pane indices in ascending order.
func (s *Splitter) Collapsed() []int { return slices.Clone(s.collapsed) }

// MinSizes returns the resolved per-pane floors.
func (s *Splitter) MinSizes() []float64 { return slices.Clone(s.minSizes) }

// CollapsedSize returns the extent of a collapsed pane.
func (s *Splitter) CollapsedSize() float64 { return s.collapsedSize }

// IsCollapsed reports whether pane i is collapsed.
func (s *Splitter) IsCollapsed(i int) bool { return s.constraints().IsCollapsed(i) }

// Constraints returns the current constraints snapshot.
func (s *Splitter) Constraints() Constraints { return s.constraints() }

func (s *Splitter) constraints() Constraints {
	return Constraints{
		MinSizes:      s.minSizes,
		CollapsedSize: s.collapsedSize,
		Collapsed:     s.collapsed,
	}
}

// CanDrag reports whether resizer r exists and touches no collapsed pane.
func (s *Splitter) CanDrag(r int) bool {
	if r < 0 || r >= len(s.sizes)-1 {
		return false
	}
	return !s.IsCollapsed(r) && !s.IsCollapsed(r+1)
}

// Dragging returns the resizer being dragged, if any.
func (s *Splitter) Dragging() (int, bool) {
	if s.drag == nil {
		return -1, false
	}
	return s.drag.resizer, true
}

// BeginDrag starts a drag of resizer r at pointer position pos. It refuses
// resizers next to a collapsed pane.
func (s *Splitter) BeginDrag(r int, pos float64) bool {
	if !s.CanDrag(r) {
		return false
	}
	s.drag = &dragSession{resizer: r, last: pos, snapshot: slices.Clone(s.sizes)}
	log.Debug().Int("resizer", r).Float64("pos", pos).Msg("sizing: drag start")
	return true
}

// Move feeds a new pointer position into the active drag. It reports whether
// the sizes changed.
func (s *Splitter) Move(pos float64) bool {
	if s.drag == nil {
		return false
	}
	delta := pos - s.drag.last
	s.drag.last = pos
	if delta == 0 {
		return false
	}
	return s.nudge(s.drag.resizer, delta)
}

// EndDrag finishes the drag; the final sizes become the moved sizes.
func (s *Splitter) EndDrag() {
	if s.drag == nil {
		return
	}
	log.Debug().Int("resizer", s.drag.resizer).Floats64("sizes", s.sizes).Msg("sizing: drag end")
	s.drag = nil
	s.moved = slices.Clone(s.sizes)
}

// Nudge moves resizer r by delta outside of a pointer drag, as a complete
// begin/move/end sequence. It reports whether the sizes changed.
func (s *Splitter) Nudge(r int, delta float64) bool {
	if s.drag != nil || !s.CanDrag(r) {
		return false
	}
	changed := s.nudge(r, delta)
	s.moved = slices.Clone(s.sizes)
	return changed
}

func (s *Splitter) nudge(r int, delta float64) bool {
	next := Drag(s.sizes, r, delta, s.constraints())
	if slices.Equal(next, s.sizes) {
		return false
	}
	log.Debug().Int("resizer", r).Float64("delta", delta).Floats64("sizes", next).Msg("sizing: drag")
	s.publish(next)
	return true
}

// ToggleCollapse collapses or expands pane i, then recalculates from the
// pre-drag snapshot while dragging, or from the moved sizes otherwise.
func (s *Splitter) ToggleCollapse(i int) {
	if i < 0 || i >= len(s.sizes) {
		return
	}
	baseline := s.moved
	if s.drag != nil {
		baseline = s.drag.snapshot
	}

	if pos, ok := slices.BinarySearch(s.collapsed, i); ok {
		s.collapsed = slices.Delete(slices.Clone(s.collapsed), pos, pos+1)
		baseline = s.giveBack(baseline, i)
		delete(s.restore, i)
		log.Debug().Int("pane", i).Msg("sizing: expand")
	} else {
		s.collapsed = slices.Insert(slices.Clone(s.collapsed), pos, i)
		s.restore[i] = baseline[i]
		log.Debug().Int("pane", i).Msg("sizing: collapse")
	}

	s.Recalculate(baseline)
}

// giveBack returns pane i its pre-collapse size, taken first from the
// following non-collapsed panes and then from the preceding ones, never
// pushing a donor below its floor.
func (s *Splitter) giveBack(baseline []float64, i int) []float64 {
	b := slices.Clone(baseline)
	want, ok := s.restore[i]
	if !ok || want <= b[i] {
		return b
	}
	need := want - b[i]

	donors := make([]int, 0, len(b))
	for j := i + 1; j < len(b); j++ {
		donors = append(donors, j)
	}
	for j := i - 1; j >= 0; j-- {
		donors = append(donors, j)
	}
	for _, j := range donors {
		if need <= 0 {
			break
		}
		if s.IsCollapsed(j) {
			continue
		}
		give := min(need, b[j]-s.minSizes[j])
		if give <= 0 {
			continue
		}
		b[j] -= give
		b[i] += give
		need -= give
	}
	return b
}

// Resize recalculates after the container extent changed.
func (s *Splitter) Resize() {
	s.Recalculate(s.moved)
}

// Recalculate runs the Recalculator against the live sizes and publishes the
// result as both the moved and the authoritative sizes. A nil baseline uses
// the live sizes unchanged.
func (s *Splitter) Recalculate(baseline []float64) {
	next := Recalculate(baseline, s.live(), s.constraints())
	log.Debug().Floats64("baseline", baseline).Floats64("sizes", next).Ints("collapsed", s.collapsed).Msg("sizing: recalculate")
	s.moved = slices.Clone(next)
	s.publish(next)
}

func (s *Splitter) publish(next []float64) {
	s.sizes = next
	if s.OnChange != nil {
		s.OnChange(slices.Clone(next))
	}
}

// State captures sizes, collapsed set and restore sizes for persistence.
func (s *Splitter) State() State {
	restore := make(map[int]float64, len(s.restore))
	for k, v := range s.restore {
		restore[k] = v
	}
	return State{
		Sizes:     s.MovedSizes(),
		Collapsed: s.Collapsed(),
		Restore:   restore,
	}
}

// Apply restores a saved State. States for a different pane count are
// ignored and Apply returns false.
func (s *Splitter) Apply(st State) bool {
	if len(st.Sizes) != len(s.sizes) {
		return false
	}
	for _, i := range st.Collapsed {
		if i < 0 || i >= len(s.sizes) {
			return false
		}
	}
	s.drag = nil
	s.collapsed = normalizeIndices(st.Collapsed)
	s.restore = make(map[int]float64, len(st.Restore))
	for k, v := range st.Restore {
		if s.IsCollapsed(k) {
			s.restore[k] = v
		}
	}
	s.Recalculate(st.Sizes)
	return true
}
