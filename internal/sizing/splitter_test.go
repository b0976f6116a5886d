package sizing

import (
	"slices"
	"testing"
)

func newTestSplitter(t *testing.T, sizes []float64, collapsed ...int) *Splitter {
	t.Helper()
	return NewSplitter(Options{
		Sizes:         sizes,
		MinSizes:      MinSizes{Scalar: 20},
		CollapsedSize: 10,
		Collapsed:     collapsed,
	}, nil)
}

func assertSizes(t *testing.T, s *Splitter, want ...float64) {
	t.Helper()
	if got := s.Sizes(); !approxEqual(got, want) {
		t.Fatalf("sizes = %v, want %v", got, want)
	}
}

func TestSplitterDragSession(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100})

	if !s.BeginDrag(0, 50) {
		t.Fatal("expected drag to start")
	}
	if r, ok := s.Dragging(); !ok || r != 0 {
		t.Fatalf("Dragging() = %d, %v", r, ok)
	}
	if !s.Move(80) {
		t.Fatal("expected move to change sizes")
	}
	assertSizes(t, s, 130, 70, 100)

	if s.Move(80) {
		t.Fatal("repeated position should not change sizes")
	}

	s.Move(20) // delta -60 from the last position
	assertSizes(t, s, 70, 130, 100)

	if !approxEqual(s.MovedSizes(), []float64{100, 100, 100}) {
		t.Fatalf("moved sizes changed mid-drag: %v", s.MovedSizes())
	}
	s.EndDrag()
	if _, ok := s.Dragging(); ok {
		t.Fatal("expected idle after EndDrag")
	}
	if !approxEqual(s.MovedSizes(), []float64{70, 130, 100}) {
		t.Fatalf("moved sizes = %v after EndDrag", s.MovedSizes())
	}
	if s.Move(0) {
		t.Fatal("move while idle should be ignored")
	}
}

func TestSplitterDragClipsToFloor(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100})
	s.BeginDrag(0, 100)
	s.Move(10)
	assertSizes(t, s, 20, 180, 100)
}

func TestSplitterBeginDragRejected(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100}, 1)
	for _, r := range []int{-1, 0, 1, 2} {
		if s.BeginDrag(r, 0) {
			t.Errorf("BeginDrag(%d) should be refused", r)
		}
	}
	if s.Nudge(0, 30) {
		t.Fatal("nudge next to a collapsed pane should be refused")
	}
	assertSizes(t, s, 100, 10, 190)
}

func TestSplitterToggleCollapse(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100})

	s.ToggleCollapse(1)
	assertSizes(t, s, 100, 10, 190)
	if !s.IsCollapsed(1) || !slices.Equal(s.Collapsed(), []int{1}) {
		t.Fatalf("collapsed = %v", s.Collapsed())
	}

	s.ToggleCollapse(1)
	assertSizes(t, s, 100, 100, 100)
	if s.IsCollapsed(1) {
		t.Fatal("expected pane 1 expanded")
	}

	s.ToggleCollapse(7) // out of range is ignored
	assertSizes(t, s, 100, 100, 100)
}

func TestSplitterExpandRespectsDonorFloor(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100})
	s.ToggleCollapse(0)
	assertSizes(t, s, 10, 190, 100)

	s.Nudge(1, -150)
	assertSizes(t, s, 10, 40, 250)

	s.ToggleCollapse(0)
	assertSizes(t, s, 100, 20, 180)
}

func TestSplitterInitiallyCollapsed(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100}, 0)
	assertSizes(t, s, 10, 190, 100)

	s.ToggleCollapse(0)
	assertSizes(t, s, 100, 100, 100)
}

func TestSplitterToggleDuringDragUsesSnapshot(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100})
	s.BeginDrag(0, 0)
	s.Move(30)
	assertSizes(t, s, 130, 70, 100)

	s.ToggleCollapse(2)
	assertSizes(t, s, 100, 190, 10)

	s.Move(40)
	assertSizes(t, s, 110, 180, 10)
	s.EndDrag()
}

func TestSplitterResize(t *testing.T) {
	extent := 300.0
	var s *Splitter
	s = NewSplitter(Options{
		Sizes:         []float64{100, 100, 100},
		MinSizes:      MinSizes{Scalar: 20},
		CollapsedSize: 10,
	}, func() []float64 { return Fit(s.Sizes(), extent) })

	extent = 450
	s.Resize()
	assertSizes(t, s, 150, 150, 150)

	s.Resize()
	assertSizes(t, s, 150, 150, 150)

	s.ToggleCollapse(2)
	extent = 300
	s.Resize()
	assertSizes(t, s, 100, 190, 10)
}

func TestSplitterOnChange(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100})
	var seen [][]float64
	s.OnChange = func(v []float64) { seen = append(seen, v) }

	s.Nudge(0, 10)
	s.ToggleCollapse(2)
	if len(seen) != 2 {
		t.Fatalf("OnChange called %d times, want 2", len(seen))
	}
	if !approxEqual(seen[0], []float64{110, 90, 100}) {
		t.Errorf("first publish = %v", seen[0])
	}
}

func TestSplitterStateApply(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100})
	s.Nudge(0, 20)
	s.ToggleCollapse(2)
	st := s.State()

	other := newTestSplitter(t, []float64{100, 100, 100})
	if !other.Apply(st) {
		t.Fatal("Apply refused a matching state")
	}
	if !approxEqual(other.Sizes(), s.Sizes()) {
		t.Fatalf("applied sizes %v, want %v", other.Sizes(), s.Sizes())
	}
	other.ToggleCollapse(2)
	assertSizes(t, other, 120, 80, 100)

	if other.Apply(State{Sizes: []float64{1, 2}}) {
		t.Fatal("Apply accepted a state for a different pane count")
	}
	if other.Apply(State{Sizes: []float64{1, 2, 3}, Collapsed: []int{5}}) {
		t.Fatal("Apply accepted an out-of-range collapsed index")
	}
}

func TestSplitterResizeKeepsFloorNextToCollapsed(t *testing.T) {
	extent := 330.0
	var s *Splitter
	s = NewSplitter(Options{
		Sizes:         []float64{100, 100, 20, 110},
		MinSizes:      MinSizes{Scalar: 20},
		CollapsedSize: 10,
	}, func() []float64 { return Fit(s.Sizes(), extent) })

	s.ToggleCollapse(1)
	assertSizes(t, s, 100, 10, 110, 110)
	s.Nudge(2, -90)
	assertSizes(t, s, 100, 10, 20, 200)

	extent = 165
	s.Resize()
	assertSizes(t, s, 50, 10, 20, 95)
}

func TestSplitterCollapseDuringDragRestoresSnapshotSize(t *testing.T) {
	s := newTestSplitter(t, []float64{100, 100, 100})
	s.BeginDrag(1, 0)
	s.Move(30)
	assertSizes(t, s, 100, 130, 70)

	s.ToggleCollapse(2)
	assertSizes(t, s, 100, 190, 10)
	s.EndDrag()

	s.ToggleCollapse(2)
	assertSizes(t, s, 100, 100, 100)
}
