package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState is where a Spinner is in its life.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner is the status line a CLI command shows on stderr while it waits on
// the backend. It is erased on success so command output starts on a clean
// line.
type Spinner struct {
	label string
	out   io.Writer

	mu      sync.Mutex
	state   SpinnerState
	width   int // cells drawn by the last frame
	started time.Time
	quit    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner creates a spinner that draws on out.
func NewSpinner(label string, out io.Writer) *Spinner {
	return &Spinner{label: label, out: out}
}

// Start draws the first frame and animates until Success or Fail.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SpinnerInProgress {
		return
	}
	s.state = SpinnerInProgress
	s.started = time.Now()
	s.quit = make(chan struct{})
	s.draw(0)

	s.wg.Add(1)
	go s.loop(s.quit)
}

// Success erases the status line.
func (s *Spinner) Success() { s.end(SpinnerSuccess) }

// Fail replaces the status line with a failure marker and the elapsed time.
func (s *Spinner) Fail() { s.end(SpinnerFailed) }

// State returns the current state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Spinner) loop(quit <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 1; ; frame++ {
		select {
		case <-quit:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.state == SpinnerInProgress {
				s.draw(frame)
			}
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) end(state SpinnerState) {
	s.mu.Lock()
	if s.state == SpinnerInProgress {
		close(s.quit)
	}
	s.state = state
	s.mu.Unlock()
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.erase()
	if state != SpinnerFailed {
		return
	}
	mark := lipgloss.NewStyle().Foreground(ColorError).Render(SymbolFail)
	took := lipgloss.NewStyle().Foreground(ColorMuted).Render(elapsed(time.Since(s.started)))
	fmt.Fprintf(s.out, "%s %s %s\n", mark, s.label, took)
}

// draw and erase expect s.mu held.
func (s *Spinner) draw(frame int) {
	s.erase()
	glyph := lipgloss.NewStyle().Foreground(ColorSecondary).Render(spinnerFrames[frame%len(spinnerFrames)])
	line := glyph + " " + s.label + "..."
	fmt.Fprint(s.out, line)
	s.width = lipgloss.Width(line)
}

func (s *Spinner) erase() {
	if s.width == 0 {
		return
	}
	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", s.width)+"\r")
	s.width = 0
}

func elapsed(d time.Duration) string {
	if d < 100*time.Millisecond {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
