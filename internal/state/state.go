// Package state holds the dashboard's UI state: selection, pagination, the
// active tab, panel visibility and the loading indicator.
package state

import (
	"fmt"
	"sync"

	"github.com/rileyhilliard/dbdash/internal/errors"
)

// Tab identifies a top-level view.
type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabData      Tab = "data"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabDashboard, TabData}

// ParseTab validates a tab name.
func ParseTab(name string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == name {
			return t, nil
		}
	}
	return "", errors.New(errors.ErrState,
		fmt.Sprintf("Unknown tab %q", name),
		"Valid tabs: dashboard, data")
}

// State is the mutable selection of the dashboard. It is not safe for
// concurrent use; the controller serializes access.
type State struct {
	Database   string
	Table      string
	Page       int
	TotalPages int
	ActiveTab  Tab

	GaugesVisible bool
	TrendVisible  bool

	// Filter is the table search term. Purely visual.
	Filter string
}

// New returns the initial state: nothing selected, page 1 of 1, dashboard tab.
func New() *State {
	return &State{
		Page:          1,
		TotalPages:    1,
		ActiveTab:     TabDashboard,
		GaugesVisible: true,
		TrendVisible:  true,
	}
}

// SelectDatabase switches database and clears the table and pagination.
func (s *State) SelectDatabase(name string) {
	s.Database = name
	s.Table = ""
	s.Filter = ""
	s.resetPages()
}

// SelectTable switches table and resets to page 1 on the data tab.
func (s *State) SelectTable(name string) {
	s.Table = name
	s.ActiveTab = TabData
	s.resetPages()
}

func (s *State) resetPages() {
	s.Page = 1
	s.TotalPages = 1
}

// SetPage records a successful page load. A zero-row table reports 0 pages,
// so total is clamped to at least 1 and page into [1, total].
func (s *State) SetPage(page, total int) {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	s.Page = page
	s.TotalPages = total
}

// CanPrev reports whether a previous page exists.
func (s *State) CanPrev() bool {
	return s.Page > 1
}

// CanNext reports whether a next page exists.
func (s *State) CanNext() bool {
	return s.Page < s.TotalPages
}

// HasSelection reports whether both a database and a table are selected.
func (s *State) HasSelection() bool {
	return s.Database != "" && s.Table != ""
}

// SwitchTab activates the named tab. Unknown names leave the tab unchanged.
func (s *State) SwitchTab(name string) error {
	t, err := ParseTab(name)
	if err != nil {
		return err
	}
	s.ActiveTab = t
	return nil
}

// NextTab cycles to the following tab.
func (s *State) NextTab() {
	for i, t := range Tabs {
		if t == s.ActiveTab {
			s.ActiveTab = Tabs[(i+1)%len(Tabs)]
			return
		}
	}
	s.ActiveTab = TabDashboard
}

// Loading is a reference-counted loading indicator. It stays active until
// every Begin has been matched by its done call.
type Loading struct {
	mu      sync.Mutex
	pending int
}

// Begin marks one operation as outstanding. The returned func ends it and is
// safe to call more than once.
func (l *Loading) Begin() (done func()) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.pending--
			l.mu.Unlock()
		})
	}
}

// Active reports whether any operation is outstanding.
func (l *Loading) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending > 0
}

// Pending returns the number of outstanding operations.
func (l *Loading) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}
