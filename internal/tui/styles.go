package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/dbdash/internal/view"
)

// Dashboard palette. Chart colours come from the view package so the
// terminal matches the backend's own charts.
const (
	ColorBorder        = lipgloss.Color("#334155")
	ColorAccent        = lipgloss.Color(view.ColorBlue)
	ColorTextPrimary   = lipgloss.Color("#f8fafc")
	ColorTextSecondary = lipgloss.Color("#cbd5e1")
	ColorTextMuted     = lipgloss.Color(view.ColorMutedFG)
	ColorTrack         = lipgloss.Color(view.ColorTrack)
	ColorDanger        = lipgloss.Color(view.ColorRed)
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 2)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 2)

	// PaneStyle frames the sidebar and the main content.
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	PaneFocusedStyle = PaneStyle.
				BorderForeground(ColorAccent)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Strikethrough(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(view.ColorAmber))
)

