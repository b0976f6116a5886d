package tui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyPressMsg:
		return m, m.handleKeyPress(msg)

	case hoverMsg:
		m.handleHover(msg)
		return m, nil

	case contentMsg:
		m.handleContent(msg)
		return m, nil

	case FilesChangedMsg:
		return m, m.reloadPaths(msg.Paths)

	case layoutSavedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("layout", msg.name).Msg("tui: failed to save layout")
			m.notice = "save failed: " + msg.err.Error()
		} else {
			m.notice = "saved layout " + msg.name
		}
		return m, nil
	}
	return m, nil
}

// handleResize applies a window size change and re-derives the layout.
func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	extent := m.geo.extent(m.width, m.height, len(m.panes))
	if m.split == nil {
		m.initSplit(extent)
	} else {
		m.split.extent = extent
		m.split.splitter.Resize()
	}
	m.relayout()
}

// relayout places panes for the current cells and pushes pane sizes to the
// viewports.
func (m *Model) relayout() {
	if m.split == nil {
		return
	}
	m.layout = m.geo.generateLayout(m.width, m.height, m.split.cells)
	for i := range m.panes {
		rect := m.layout.panes[i]
		m.panes[i].viewport.SetWidth(rect.Dx())
		m.panes[i].viewport.SetHeight(max(rect.Dy()-titleRows(rect), 0))
	}
}

// handleKeyPress processes key events.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quitCmd()
	case key.Matches(msg, m.keys.Reload):
		return m.reloadAll()
	}
	if m.split == nil {
		return nil
	}

	n := len(m.panes) - 1 // resizer count
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.saveCmd()
	case key.Matches(msg, m.keys.Next):
		if n > 0 {
			m.focus = (m.focus + 1) % n
		}
	case key.Matches(msg, m.keys.Prev):
		if n > 0 {
			if m.focus < 0 {
				m.focus = n - 1
			} else {
				m.focus = (m.focus - 1 + n) % n
			}
		}
	case key.Matches(msg, m.keys.Unfocus):
		m.focus = -1
	case key.Matches(msg, m.keys.Grow):
		m.nudge(nudgeStep)
	case key.Matches(msg, m.keys.Shrink):
		m.nudge(-nudgeStep)
	case key.Matches(msg, m.keys.GrowMore):
		m.nudge(nudgeStepMore)
	case key.Matches(msg, m.keys.ShrinkMore):
		m.nudge(-nudgeStepMore)
	case key.Matches(msg, m.keys.Collapse):
		m.toggle(m.focus)
	case key.Matches(msg, m.keys.CollapseNext):
		if m.focus >= 0 {
			m.toggle(m.focus + 1)
		}
	}
	return nil
}

// nudge moves the focused resizer by steps cells in screen direction.
func (m *Model) nudge(steps int) {
	if m.focus < 0 {
		return
	}
	delta := float64(steps)
	if m.geo.rtl {
		delta = -delta
	}
	if !m.split.splitter.Nudge(m.focus, delta) {
		if !m.split.splitter.CanDrag(m.focus) {
			m.notice = "resizer is next to a collapsed pane"
		}
		return
	}
	m.relayout()
}

func (m *Model) toggle(i int) {
	if !m.cfg.Collapse.Enabled || i < 0 || i >= len(m.panes) {
		return
	}
	m.split.splitter.ToggleCollapse(i)
	m.relayout()
}
