package tui

import (
	"image"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
)

// mouseThrottle is the minimum spacing of wheel and motion events.
const mouseThrottle = 15 * time.Millisecond

var (
	mouseMu        sync.Mutex
	lastMouseEvent time.Time
)

// MouseEventFilter rate-limits wheel and motion events. Pass it to
// tea.WithFilter. Clicks and releases always pass, so a drag always ends.
func MouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	switch msg.(type) {
	case tea.MouseWheelMsg, tea.MouseMotionMsg:
		mouseMu.Lock()
		defer mouseMu.Unlock()
		now := time.Now()
		if now.Sub(lastMouseEvent) < mouseThrottle {
			return nil
		}
		lastMouseEvent = now
	}
	return msg
}

// hoverState debounces the collapse button. target follows the pointer at
// once; shown follows it after the show or hide delay. Every target change
// bumps seq, which voids ticks still in flight.
type hoverState struct {
	target int
	shown  int
	seq    int
}

type hoverMsg struct {
	seq     int
	resizer int
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.split == nil {
		return nil
	}
	mouse := msg.Mouse()
	x, y := mouse.X, mouse.Y

	if m.handleResizerDrag(msg, x, y) {
		return nil
	}

	switch ev := msg.(type) {
	case tea.MouseMotionMsg:
		return m.updateHover(x, y)
	case tea.MouseWheelMsg:
		if i := m.layout.paneAt(x, y); i >= 0 {
			var cmd tea.Cmd
			m.panes[i].viewport, cmd = m.panes[i].viewport.Update(ev)
			return cmd
		}
	}
	return nil
}

// handleResizerDrag runs the click, motion, release cycle on resizers and
// the collapse button. It reports whether the event was consumed.
func (m *Model) handleResizerDrag(msg tea.MouseMsg, x, y int) bool {
	s := m.split.splitter
	switch ev := msg.(type) {
	case tea.MouseClickMsg:
		if ev.Button != tea.MouseLeft {
			return false
		}
		r := m.layout.resizerAt(x, y)
		if r < 0 {
			m.focus = -1
			return false
		}
		if m.buttonVisible(r) && m.layout.buttons[r].Eq(image.Pt(x, y)) {
			m.toggle(r)
			return true
		}
		if s.BeginDrag(r, m.geo.axisPos(x, y)) {
			m.focus = r
		}
		return true

	case tea.MouseMotionMsg:
		if _, dragging := s.Dragging(); !dragging {
			return false
		}
		if s.Move(m.geo.axisPos(x, y)) {
			m.relayout()
		}
		return true

	case tea.MouseReleaseMsg:
		if _, dragging := s.Dragging(); !dragging {
			return false
		}
		s.EndDrag()
		m.relayout()
		r := m.layout.resizerAt(x, y)
		m.hover = hoverState{target: r, shown: r, seq: m.hover.seq + 1}
		return true
	}
	return false
}

// updateHover tracks the resizer under the pointer and schedules the
// button to follow it.
func (m *Model) updateHover(x, y int) tea.Cmd {
	r := m.layout.resizerAt(x, y)
	if r == m.hover.target {
		return nil
	}
	m.hover.target = r
	m.hover.seq++
	if r == m.hover.shown {
		return nil
	}

	delay := m.cfg.Collapse.ShowDelay()
	if r < 0 {
		delay = m.cfg.Collapse.HideDelay()
	}
	if delay <= 0 {
		m.hover.shown = r
		return nil
	}
	msg := hoverMsg{seq: m.hover.seq, resizer: r}
	return tea.Tick(delay, func(time.Time) tea.Msg { return msg })
}

func (m *Model) handleHover(msg hoverMsg) {
	if msg.seq == m.hover.seq {
		m.hover.shown = msg.resizer
	}
}

// buttonVisible reports whether resizer r shows its collapse button.
func (m *Model) buttonVisible(r int) bool {
	if !m.cfg.Collapse.Enabled || r < 0 {
		return false
	}
	if _, dragging := m.split.splitter.Dragging(); dragging {
		return false
	}
	return m.hover.shown == r || m.focus == r
}
