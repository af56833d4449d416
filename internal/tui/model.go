// Package tui is the interactive dashboard: a Bubble Tea program that drives
// a dashboard.Controller and renders its snapshots.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/dbdash/internal/dashboard"
	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
	"github.com/rileyhilliard/dbdash/internal/ui"
	"github.com/rileyhilliard/dbdash/internal/view"
)

// Layout constants, in terminal cells.
const (
	sidebarWidth = 28
	// paneChrome is the border plus horizontal padding of a pane.
	paneChrome  = 4
	headerLines = 2
	footerLines = 1

	// Approximate pixel size of one cell, used to size gauge overlays.
	cellPixelsW = 8
	cellPixelsH = 16

	gaugeHeight = 8
	trendHeight = 6
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx    context.Context
	ctrl   *dashboard.Controller
	alerts *AlertQueue
	log    logger.Logger

	help    help.Model
	spinner ui.SpinnerComponent
	search  textinput.Model
	content viewport.Model

	snap   dashboard.Model
	width  int
	height int

	// cursor indexes VisibleTables; dbCursor indexes the picker list.
	cursor    int
	dbCursor  int
	picking   bool
	searching bool
	showHelp  bool

	// alert is the modal on screen, "" when none.
	alert  string
	status string

	inflight  int
	initialDB string
	quitting  bool
}

// opDoneMsg reports the end of one controller operation.
type opDoneMsg struct {
	op  string
	err error
}

// startMsg kicks off the first load.
type startMsg struct{}

// settingsMsg carries thresholds from a reloaded config file.
type settingsMsg struct {
	settings view.Settings
}

// resizedMsg follows a controller resize.
type resizedMsg struct{}

// NewModel creates the dashboard model. alerts must be the Notifier the
// controller was built with. When database is set it is selected as soon as
// the list loads; otherwise the picker opens.
func NewModel(ctx context.Context, ctrl *dashboard.Controller, alerts *AlertQueue, database string, log logger.Logger) Model {
	if log == nil {
		log = logger.Noop()
	}
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "filter tables"
	search.CharLimit = 64

	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		alerts:    alerts,
		log:       log,
		help:      help.New(),
		spinner:   ui.NewSpinnerComponent("Loading"),
		search:    search,
		content:   viewport.New(0, 0),
		snap:      ctrl.Snapshot(),
		initialDB: database,
	}
}

// Init triggers the database list load and starts listening for alerts.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		m.alerts.wait(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if m.quitting {
			return m, cmd
		}
		if handled {
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.content.Width, m.content.Height = m.contentSize()
		cmds = append(cmds, m.resizeCmd())

	case startMsg:
		ctrl := m.ctrl
		cmds = append(cmds, m.run("load databases", func(ctx context.Context) error {
			_, err := ctrl.LoadDatabases(ctx)
			return err
		}))

	case opDoneMsg:
		if m.inflight > 0 {
			m.inflight--
		}
		cmds = append(cmds, m.finish(msg))

	case alertMsg:
		m.alert = msg.text

	case settingsMsg:
		ctrl, s := m.ctrl, msg.settings
		cmds = append(cmds, m.run("apply settings", func(context.Context) error {
			ctrl.SetSettings(s)
			return nil
		}))

	case resizedMsg:
		// Redrawn gauges are picked up by sync below.
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.searching {
			m.search, cmd = m.search.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.alert != "":
		return m.renderAlert()
	case m.showHelp:
		return m.renderHelpOverlay()
	case m.picking:
		return m.renderPicker()
	}
	return m.renderDashboard()
}

// run executes one controller operation off the UI goroutine.
func (m *Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.inflight++
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// finish reacts to a completed operation. Fetch failures were already
// alerted by the controller; anything else lands in the status line.
func (m *Model) finish(msg opDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Debug("%s: %s", msg.op, errors.Summary(msg.err))
		if errors.IsCode(msg.err, errors.ErrState) {
			m.status = errors.Summary(msg.err)
		}
		return nil
	}
	if msg.op != "load databases" {
		return nil
	}

	snap := m.ctrl.Snapshot()
	if m.initialDB != "" {
		name := m.initialDB
		m.initialDB = ""
		return m.selectDatabase(name)
	}
	if snap.State.Database == "" && len(snap.Databases) > 0 {
		m.snap = snap
		m.openPicker()
	}
	return nil
}

// sync refreshes the snapshot, the loading indicator and the content pane.
func (m *Model) sync() tea.Cmd {
	m.snap = m.ctrl.Snapshot()
	if m.cursor >= len(m.snap.VisibleTables) {
		m.cursor = max(len(m.snap.VisibleTables)-1, 0)
	}
	m.content.SetContent(m.renderContent())
	return m.spinner.SetActive(m.snap.Loading || m.inflight > 0)
}

// contentSize is the inner size of the main pane.
func (m Model) contentSize() (int, int) {
	w := m.width - (sidebarWidth + paneChrome) - paneChrome
	h := m.height - headerLines - footerLines - 2
	return max(w, 10), max(h, 3)
}

// gaugeBox is the cell size of one gauge.
func (m Model) gaugeBox() (int, int) {
	w, _ := m.contentSize()
	per := w / 4
	if w < 72 {
		per = w / 2
	}
	return max(min(per-2, 30), 12), gaugeHeight
}

func (m Model) resizeCmd() tea.Cmd {
	ctrl := m.ctrl
	w, h := m.contentSize()
	gw, gh := m.gaugeBox()
	return func() tea.Msg {
		ctrl.Resize(w, h, gw*cellPixelsW, gh*cellPixelsH)
		return resizedMsg{}
	}
}
