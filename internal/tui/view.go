package tui

import (
	"image"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	ruleVertical   = "│"
	ruleHorizontal = "─"
)

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	v.WindowTitle = "panes"
	return v
}

func (m Model) render() string {
	if m.width == 0 || m.split == nil {
		return ""
	}
	status := m.renderStatus()
	panes := m.renderPanes()
	if panes == "" {
		return status
	}
	return panes + "\n" + status
}

// titleRows is the number of title rows a pane of this size gets.
func titleRows(rect image.Rectangle) int { return min(rect.Dy(), 1) }

// renderPanes draws panes and resizers, one string per screen row.
func (m Model) renderPanes() string {
	contentH := contentHeight(m.height)
	if contentH == 0 {
		return ""
	}
	if !m.geo.vertical {
		rows := make([]string, 0, contentH)
		for _, el := range m.layout.order {
			rows = append(rows, m.elementRows(el)...)
		}
		return strings.Join(rows[:min(len(rows), contentH)], "\n")
	}

	cols := make([][]string, len(m.layout.order))
	for k, el := range m.layout.order {
		cols[k] = m.elementRows(el)
	}
	rows := make([]string, contentH)
	var b strings.Builder
	for y := range contentH {
		b.Reset()
		for _, col := range cols {
			b.WriteString(col[y])
		}
		rows[y] = b.String()
		if ansi.StringWidth(rows[y]) > m.width {
			rows[y] = ansi.Truncate(rows[y], m.width, "")
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) elementRows(el element) []string {
	if el.resizer {
		return m.resizerRows(el.index)
	}
	return m.paneRows(el.index)
}

func (m Model) paneRows(i int) []string {
	p := m.panes[i]
	rect := m.layout.panes[i]
	w, h := rect.Dx(), rect.Dy()
	rows := make([]string, 0, h)
	if h == 0 {
		return rows
	}

	collapsed := m.split.splitter.IsCollapsed(i)
	title := m.styles.Title
	if collapsed {
		title = m.styles.TitleCollapsed
	}
	rows = append(rows, fit(title.Render(ansi.Truncate(p.title, w, "…")), w))

	if !collapsed {
		body := strings.Split(p.viewport.View(), "\n")
		for _, line := range body[:min(len(body), h-titleRows(rect))] {
			rows = append(rows, fit(line, w))
		}
	}
	for len(rows) < h {
		rows = append(rows, strings.Repeat(" ", w))
	}
	return rows
}

func (m Model) resizerRows(r int) []string {
	rect := m.layout.resizers[r]
	style := m.ruleStyle(r)
	btn := m.layout.buttons[r]
	visible := m.buttonVisible(r)
	glyph := m.buttonGlyph(r)

	rows := make([]string, 0, rect.Dy())
	if m.geo.vertical {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			if visible && y == btn.Y {
				rows = append(rows, m.styles.Button.Render(glyph)+style.Render(strings.Repeat(ruleVertical, rect.Dx()-1)))
				continue
			}
			rows = append(rows, style.Render(strings.Repeat(ruleVertical, rect.Dx())))
		}
		return rows
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		if visible && y == btn.Y {
			before := btn.X - rect.Min.X
			rows = append(rows, style.Render(strings.Repeat(ruleHorizontal, before))+
				m.styles.Button.Render(glyph)+
				style.Render(strings.Repeat(ruleHorizontal, rect.Dx()-before-1)))
			continue
		}
		rows = append(rows, style.Render(strings.Repeat(ruleHorizontal, rect.Dx())))
	}
	return rows
}

func (m Model) ruleStyle(r int) lipgloss.Style {
	if d, ok := m.split.splitter.Dragging(); ok && d == r {
		return m.styles.RuleHover
	}
	switch r {
	case m.focus:
		return m.styles.RuleFocus
	case m.hover.target, m.hover.shown:
		return m.styles.RuleHover
	}
	return m.styles.Rule
}

// buttonGlyph points the way the pane before resizer r will move: toward the
// resizer when it collapses, away from it when it expands.
func (m Model) buttonGlyph(r int) string {
	collapse, expand := m.cfg.Collapse.BeforeButton, m.cfg.Collapse.AfterButton
	if m.geo.rtl {
		collapse, expand = expand, collapse
	}
	if m.split.splitter.IsCollapsed(r) {
		return expand
	}
	return collapse
}

func (m Model) renderStatus() string {
	right := m.styles.Status.Render(m.sizesLabel())
	if m.notice != "" {
		right = m.styles.Notice.Render(m.notice) + " " + right
	}
	left := ""
	if avail := m.width - lipgloss.Width(right) - 1; avail > 0 {
		h := m.help
		h.SetWidth(avail)
		left = h.ShortHelpView(m.keys.ShortHelp())
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return fit(left+strings.Repeat(" ", gap)+right, m.width)
}

// sizesLabel lists each pane's width (or height) in cells, in pane order.
func (m Model) sizesLabel() string {
	parts := make([]string, len(m.split.cells))
	for i, c := range m.split.cells {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, "·")
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	t := ansi.Truncate(s, w, "")
	if strings.Contains(t, "\x1b[") {
		t += "\x1b[0m"
	}
	return t + strings.Repeat(" ", max(w-ansi.StringWidth(t), 0))
}
