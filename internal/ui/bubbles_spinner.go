package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerFrames defines the custom animation frames (◐ ◓ ◑ ◒) for use in Bubble Tea programs.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// SpinnerComponent is the dashboard's loading indicator. It animates while
// Active and renders nothing otherwise.
type SpinnerComponent struct {
	spinner spinner.Model
	Label   string
	Active  bool
	since   time.Time
}

// NewSpinnerComponent creates an idle loading indicator.
func NewSpinnerComponent(label string) SpinnerComponent {
	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return SpinnerComponent{
		spinner: sp,
		Label:   label,
	}
}

// Init returns the initial command for the spinner (tick).
func (s SpinnerComponent) Init() tea.Cmd {
	return s.spinner.Tick
}

// SetActive starts or stops the animation. It returns a tick command when
// the spinner goes from idle to active.
func (s *SpinnerComponent) SetActive(active bool) tea.Cmd {
	if active == s.Active {
		return nil
	}
	s.Active = active
	if !active {
		return nil
	}
	s.since = time.Now()
	return s.spinner.Tick
}

// Update advances the animation while active. Ticks that arrive while idle
// are dropped, which stops the tick loop.
func (s SpinnerComponent) Update(msg tea.Msg) (SpinnerComponent, tea.Cmd) {
	tickMsg, ok := msg.(spinner.TickMsg)
	if !ok || !s.Active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tickMsg)
	return s, cmd
}

// View renders the spinner and label, or "" when idle. Loads that take a
// second or more also show the whole seconds waited.
func (s SpinnerComponent) View() string {
	if !s.Active {
		return ""
	}
	line := s.spinner.View() + " " + s.Label + "..."
	if d := s.Elapsed(); d >= time.Second {
		line += fmt.Sprintf(" %ds", int(d.Seconds()))
	}
	return line
}

// Elapsed returns how long the spinner has been active.
func (s SpinnerComponent) Elapsed() time.Duration {
	if !s.Active || s.since.IsZero() {
		return 0
	}
	return time.Since(s.since)
}
