package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/xonecas/panes/internal/config"
	"github.com/xonecas/panes/internal/highlight"
)

// Styles holds the lipgloss styles for the pane chrome.
type Styles struct {
	Title          lipgloss.Style
	TitleCollapsed lipgloss.Style
	Rule           lipgloss.Style // resizer at rest
	RuleHover      lipgloss.Style // hovered or dragged resizer
	RuleFocus      lipgloss.Style // resizer focused from the keyboard
	Button         lipgloss.Style
	Error          lipgloss.Style
	Status         lipgloss.Style
	Notice         lipgloss.Style
}

// NewStyles builds styles from the theme palette and the resizer colors.
func NewStyles(p highlight.Palette, rc config.ResizerConfig) Styles {
	return Styles{
		Title:          lipgloss.NewStyle().Foreground(lipgloss.Color(p.Title)).Bold(true),
		TitleCollapsed: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Dim)),
		Rule:           lipgloss.NewStyle().Foreground(lipgloss.Color(rc.Color)),
		RuleHover:      lipgloss.NewStyle().Foreground(lipgloss.Color(rc.HoverColor)),
		RuleFocus:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
		Button:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		Status:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.Dim)),
		Notice:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
	}
}
