package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/dbdash/internal/errors"
)

// alertPrefix heads every fetch failure shown to the user.
const alertPrefix = "Error fetching data: "

// alertBacklog bounds how many alerts may queue while one is on screen.
const alertBacklog = 16

// alertMsg delivers one queued alert to the program.
type alertMsg struct {
	text string
}

// AlertQueue is the dashboard Notifier for the TUI. Alerts raised from
// command goroutines are queued and shown one at a time as modals.
type AlertQueue struct {
	ch chan string
}

// NewAlertQueue creates an empty queue.
func NewAlertQueue() *AlertQueue {
	return &AlertQueue{ch: make(chan string, alertBacklog)}
}

// Alert queues err. When the backlog is full the alert is dropped rather
// than blocking the operation that raised it.
func (q *AlertQueue) Alert(err error) {
	if err == nil {
		return
	}
	select {
	case q.ch <- alertPrefix + errors.Summary(err):
	default:
	}
}

// wait blocks until the next alert arrives.
func (q *AlertQueue) wait() tea.Cmd {
	return func() tea.Msg {
		return alertMsg{text: <-q.ch}
	}
}

var (
	alertBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(ColorDanger).
			Padding(1, 2)

	alertTitleStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)
)

// renderAlert draws the pending alert centred over the screen.
func (m Model) renderAlert() string {
	width := min(max(m.width-8, 20), 72)
	body := lipgloss.NewStyle().Width(width).Render(m.alert)

	lines := []string{
		alertTitleStyle.Render("✗ Request failed"),
		"",
		body,
		"",
		MutedStyle.Render("Press Enter or Esc to dismiss"),
	}
	box := alertBoxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
