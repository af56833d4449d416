package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/dbdash/internal/state"
)

// keyMap defines the dashboard key bindings. It also feeds the footer and
// the help overlay through bubbles/help.
type keyMap struct {
	Tab       key.Binding
	Dashboard key.Binding
	Data      key.Binding
	Database  key.Binding
	Search    key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Scroll    key.Binding
	Refresh   key.Binding
	Gauges    key.Binding
	Metrics   key.Binding
	Close     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
	Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
	Data:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "data")),
	Database:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "database")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search tables")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	PrevPage:  key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/h/[", "prev page")),
	NextPage:  key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/l/]", "next page")),
	Scroll:    key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Gauges:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "refresh gauges")),
	Metrics:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "refresh metrics")),
	Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Database, k.Search, k.Select, k.NextPage, k.Refresh, k.Help, k.Quit}
}

// FullHelp is the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Dashboard, k.Data, k.Database, k.Search},
		{k.Up, k.Down, k.Select, k.PrevPage, k.NextPage, k.Scroll},
		{k.Refresh, k.Gauges, k.Metrics, k.Close, k.Help, k.Quit},
	}
}

// HandleKeyMsg processes keyboard input and returns the command to run.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		m.quitting = true
		return true, tea.Quit
	}

	// An alert swallows everything until dismissed.
	if m.alert != "" {
		if key.Matches(msg, keys.Select, keys.Close) {
			m.alert = ""
			return true, m.alerts.wait()
		}
		return true, nil
	}

	if m.searching {
		return true, m.handleSearchKey(msg)
	}

	// Help toggle takes priority
	if key.Matches(msg, keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp {
		if key.Matches(msg, keys.Close) {
			m.showHelp = false
		}
		return true, nil
	}

	if m.picking {
		return true, m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, keys.Tab):
		m.ctrl.NextTab()
		return true, nil

	case key.Matches(msg, keys.Dashboard):
		return true, m.switchTab(state.TabDashboard)

	case key.Matches(msg, keys.Data):
		return true, m.switchTab(state.TabData)

	case key.Matches(msg, keys.Database):
		m.openPicker()
		return true, nil

	case key.Matches(msg, keys.Search):
		if m.snap.State.Database == "" {
			return true, nil
		}
		m.searching = true
		return true, m.search.Focus()

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.snap.VisibleTables)-1 {
			m.cursor++
		}
		return true, nil

	case key.Matches(msg, keys.Select):
		return true, m.selectTable()

	case key.Matches(msg, keys.PrevPage):
		if !m.snap.State.CanPrev() {
			return true, nil
		}
		return true, m.run("prev page", m.ctrl.PrevPage)

	case key.Matches(msg, keys.NextPage):
		if !m.snap.State.CanNext() {
			return true, nil
		}
		return true, m.run("next page", m.ctrl.NextPage)

	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		return true, cmd

	case key.Matches(msg, keys.Refresh):
		return true, m.run("refresh", m.ctrl.Refresh)

	case key.Matches(msg, keys.Gauges):
		return true, m.run("refresh gauges", m.ctrl.RefreshGauges)

	case key.Matches(msg, keys.Metrics):
		return true, m.run("refresh metrics", m.ctrl.RefreshMetrics)
	}

	return false, nil
}

// handleSearchKey edits the table filter. Enter keeps the filter, Esc
// clears it.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Select):
		m.searching = false
		m.search.Blur()
		return nil
	case key.Matches(msg, keys.Close):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ctrl.FilterTables("")
		m.cursor = 0
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.FilterTables(m.search.Value())
	m.cursor = 0
	return cmd
}

// handlePickerKey drives the database picker overlay.
func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	opts := m.snap.Databases
	switch {
	case key.Matches(msg, keys.Close):
		m.picking = false
	case key.Matches(msg, keys.Up):
		if m.dbCursor > 0 {
			m.dbCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.dbCursor < len(opts)-1 {
			m.dbCursor++
		}
	case key.Matches(msg, keys.Select):
		if m.dbCursor >= len(opts) || opts[m.dbCursor].Disabled {
			return nil
		}
		m.picking = false
		return m.selectDatabase(opts[m.dbCursor].Name)
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return tea.Quit
	}
	return nil
}

func (m *Model) switchTab(tab state.Tab) tea.Cmd {
	if err := m.ctrl.SwitchTab(string(tab)); err != nil {
		m.status = err.Error()
	}
	return nil
}

func (m *Model) openPicker() {
	m.picking = true
	m.dbCursor = 0
	for i, o := range m.snap.Databases {
		if o.Name == m.snap.State.Database {
			m.dbCursor = i
			break
		}
	}
}

func (m *Model) selectDatabase(name string) tea.Cmd {
	m.cursor = 0
	m.search.SetValue("")
	m.status = ""
	ctrl := m.ctrl
	return m.run("select database", func(ctx context.Context) error {
		return ctrl.SelectDatabase(ctx, name)
	})
}

func (m *Model) selectTable() tea.Cmd {
	tables := m.snap.VisibleTables
	if m.cursor < 0 || m.cursor >= len(tables) {
		return nil
	}
	name := tables[m.cursor]
	m.content.GotoTop()
	ctrl := m.ctrl
	return m.run("select table", func(ctx context.Context) error {
		return ctrl.SelectTable(ctx, name)
	})
}
