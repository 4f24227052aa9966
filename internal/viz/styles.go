package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles derived from a theme.
type styles struct {
	canvas  lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	playing lipgloss.Style
	paused  lipgloss.Style
	err     lipgloss.Style
	bar     lipgloss.Style
	graph   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:  lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		panel:   lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(44),
		header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		muted:   lipgloss.NewStyle().Foreground(t.Muted),
		playing: lipgloss.NewStyle().Foreground(t.Playing).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(t.Paused).Bold(true),
		err:     lipgloss.NewStyle().Foreground(t.Error),
		bar:     lipgloss.NewStyle().Foreground(t.Accent),
		graph:   lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
	}
}

// ProgressBar renders progress in [0, 1] as a bar of the given width.
func ProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Separator is a muted horizontal rule.
func Separator(width int) string {
	if width < 1 {
		return ""
	}
	return strings.Repeat("─", width)
}
