package tui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Next         key.Binding
	Prev         key.Binding
	Grow         key.Binding
	Shrink       key.Binding
	GrowMore     key.Binding
	ShrinkMore   key.Binding
	Collapse     key.Binding
	CollapseNext key.Binding
	Unfocus      key.Binding
	Reload       key.Binding
	Save         key.Binding
	Quit         key.Binding
}

// nudgeStep and nudgeStepMore are the keyboard resize steps in cells.
const (
	nudgeStep     = 1
	nudgeStepMore = 5
)

// newKeyMap binds resizing to the arrows that run along the split axis.
func newKeyMap(vertical bool) keyMap {
	shrink, grow, arrows := "left", "right", "←/→"
	if !vertical {
		shrink, grow, arrows = "up", "down", "↑/↓"
	}
	return keyMap{
		Next:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next resizer")),
		Prev:         key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev resizer")),
		Grow:         key.NewBinding(key.WithKeys(grow), key.WithHelp(arrows, "move")),
		Shrink:       key.NewBinding(key.WithKeys(shrink)),
		GrowMore:     key.NewBinding(key.WithKeys("shift+" + grow)),
		ShrinkMore:   key.NewBinding(key.WithKeys("shift+" + shrink)),
		Collapse:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c/C", "collapse")),
		CollapseNext: key.NewBinding(key.WithKeys("C")),
		Unfocus:      key.NewBinding(key.WithKeys("esc")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Save:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the status line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Grow, k.Collapse, k.Reload, k.Save, k.Quit}
}
