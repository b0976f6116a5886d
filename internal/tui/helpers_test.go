package tui

import (
	"math"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/panes/internal/config"
	"github.com/xonecas/panes/internal/source"
)

func textPanes() []config.PaneConfig {
	return []config.PaneConfig{
		{Title: "a", Source: "text:alpha"},
		{Title: "b", Source: "text:bravo\nline2"},
		{Title: "c", Source: "text:charlie"},
	}
}

func testConfig(mutate ...func(*config.Config)) *config.Config {
	cfg := config.Default()
	cfg.Panes = textPanes()
	for _, fn := range mutate {
		fn(cfg)
	}
	return cfg
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// newTestModel sizes the model and loads every pane synchronously.
func newTestModel(t *testing.T, cfg *config.Config, width, height int, opts ...func(*Options)) Model {
	t.Helper()
	o := Options{Config: cfg, Loader: source.NewLoader(cfg.Theme, t.TempDir(), 0)}
	for _, fn := range opts {
		fn(&o)
	}
	m := New(o)
	m = update(t, m, tea.WindowSizeMsg{Width: width, Height: height})
	for i := range m.panes {
		m = update(t, m, m.loadPane(i)())
	}
	return m
}

// runCmd executes cmd, flattening batches, and returns the messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func click(x, y int) tea.MouseClickMsg {
	return tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func motion(x, y int) tea.MouseMotionMsg {
	return tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func release(x, y int) tea.MouseReleaseMsg {
	return tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func press(k string) tea.KeyPressMsg {
	switch k {
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "shift+right":
		return tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModShift}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "ctrl+s":
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	case "C":
		return tea.KeyPressMsg{Code: 'c', Text: "C", Mod: tea.ModShift}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func assertSizes(t *testing.T, m Model, want ...float64) {
	t.Helper()
	got := m.split.splitter.Sizes()
	if len(got) != len(want) {
		t.Fatalf("sizes = %v, want %v", got, want)
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("sizes = %v, want %v", got, want)
		}
	}
}
