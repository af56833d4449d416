package tui

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/api/apitest"
	"github.com/rileyhilliard/dbdash/internal/chart"
	"github.com/rileyhilliard/dbdash/internal/dashboard"
	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
	"github.com/rileyhilliard/dbdash/internal/state"
	"github.com/rileyhilliard/dbdash/internal/view"
)

func newTestModel(t *testing.T, database string) (Model, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(apitest.Sample())
	t.Cleanup(srv.Close)

	alerts := NewAlertQueue()
	ctrl := dashboard.New(dashboard.Options{
		Backend:  api.New(api.Options{BaseURL: srv.BaseURL(), Logger: logger.Noop()}),
		Notifier: alerts,
		Logger:   logger.Noop(),
	})
	m := NewModel(context.Background(), ctrl, alerts, database, logger.Noop())
	m = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 60})
	m = send(t, m, startMsg{})
	return m, srv
}

// send delivers msg and runs the resulting controller operations to
// completion.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	tm, cmd := m.Update(msg)
	return settle(t, tm.(Model), cmd)
}

// settle runs cmd and feeds operation results back into the model until no
// operation is left. Spinner ticks and other UI messages are dropped.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 20; i++ {
		var next []tea.Cmd
		for _, msg := range collect(cmd, 3*time.Second) {
			switch msg.(type) {
			case opDoneMsg, startMsg, resizedMsg:
				tm, c := m.Update(msg)
				m = tm.(Model)
				next = append(next, c)
			}
		}
		cmd = tea.Batch(next...)
	}
	return m
}

// collect runs cmd and every command in its batches concurrently, returning
// the messages produced before timeout.
func collect(cmd tea.Cmd, timeout time.Duration) []tea.Msg {
	out := make(chan tea.Msg, 128)
	var wg sync.WaitGroup
	var launch func(c tea.Cmd)
	launch = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					launch(sub)
				}
				return
			}
			out <- msg
		}()
	}
	launch(cmd)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}

	var msgs []tea.Msg
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	return send(t, m, k)
}

func pendingAlerts(m Model) int {
	return len(m.alerts.ch)
}

func TestStartup_OpensPicker(t *testing.T) {
	m, _ := newTestModel(t, "")

	require.Len(t, m.snap.Databases, 3)
	assert.True(t, m.picking)

	out := m.View()
	assert.Contains(t, out, "Select database")
	assert.Contains(t, out, "monitor ✓")
	assert.Contains(t, out, "archive ✗")
}

func TestStartup_InitialDatabase(t *testing.T) {
	m, _ := newTestModel(t, "monitor")

	assert.False(t, m.picking)
	assert.Equal(t, "monitor", m.snap.State.Database)
	require.NotNil(t, m.snap.Stats)
	assert.Equal(t, "40", m.snap.Stats.TotalRows)

	out := m.View()
	assert.Contains(t, out, "Database: monitor")
	assert.Contains(t, out, "Total rows")
	assert.Contains(t, out, "Current metrics")
	assert.Contains(t, out, "Metrics comparison")
	assert.Contains(t, out, "Tables (3)")
	assert.Equal(t, 0, pendingAlerts(m))
}

func TestPicker_SelectsDatabase(t *testing.T) {
	m, _ := newTestModel(t, "")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.dbCursor)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.picking)
	assert.Equal(t, "inventory", m.snap.State.Database)
	assert.Equal(t, []string{"empty", "items"}, m.snap.Tables)
}

func TestPicker_DisabledDatabaseIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, "")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, m.dbCursor)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.picking, "archive is missing and cannot be picked")
	assert.Empty(t, m.snap.State.Database)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.picking)
}

func TestSelectTable_PagesThroughData(t *testing.T) {
	m, srv := newTestModel(t, "inventory")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, state.TabData, m.snap.State.ActiveTab)
	assert.Equal(t, "items", m.snap.State.Table)
	assert.Equal(t, 1, m.snap.State.Page)
	assert.Equal(t, 3, m.snap.State.TotalPages)
	assert.Contains(t, m.View(), "Page 1 of 3")
	assert.Contains(t, m.View(), "120 rows")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(t, m, runes("l"))
	assert.Equal(t, 3, m.snap.State.Page)

	hits := srv.Hits("query")
	m = press(t, m, runes("]"))
	assert.Equal(t, 3, m.snap.State.Page)
	assert.Equal(t, hits, srv.Hits("query"), "next is disabled on the last page")

	m = press(t, m, runes("["))
	assert.Equal(t, 2, m.snap.State.Page)
}

func TestSelectTable_EmptyTable(t *testing.T) {
	m, _ := newTestModel(t, "inventory")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "empty", m.snap.State.Table)
	assert.True(t, m.snap.Grid.Empty)
	assert.Contains(t, m.View(), view.NoDataMessage)
	assert.Contains(t, m.View(), "Page 1 of 1")
}

func TestTabs(t *testing.T) {
	m, _ := newTestModel(t, "monitor")
	assert.Equal(t, state.TabDashboard, m.snap.State.ActiveTab)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, state.TabData, m.snap.State.ActiveTab)
	assert.Contains(t, m.View(), "Select a table")

	m = press(t, m, runes("1"))
	assert.Equal(t, state.TabDashboard, m.snap.State.ActiveTab)
	m = press(t, m, runes("2"))
	assert.Equal(t, state.TabData, m.snap.State.ActiveTab)
}

func TestSearch_FiltersTables(t *testing.T) {
	m, _ := newTestModel(t, "monitor")

	m = press(t, m, runes("/"))
	require.True(t, m.searching)
	m = press(t, m, runes("ev"))
	assert.Equal(t, []string{"eventos"}, m.snap.VisibleTables)

	// Keys go to the search box while it has focus.
	m = press(t, m, runes("q"))
	assert.False(t, m.quitting)
	assert.Empty(t, m.snap.VisibleTables)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.searching)
	assert.Len(t, m.snap.VisibleTables, 3)
}

func TestFetchFailure_ShowsAlert(t *testing.T) {
	m, srv := newTestModel(t, "monitor")
	srv.Fail("tables", http.StatusInternalServerError, "boom")

	m = press(t, m, runes("r"))
	require.Equal(t, 1, pendingAlerts(m))

	msg := m.alerts.wait()()
	m = send(t, m, msg)
	out := m.View()
	assert.Contains(t, out, alertPrefix)
	assert.Contains(t, out, "Press Enter or Esc to dismiss")
	assert.Len(t, m.snap.Tables, 3, "prior state is kept")

	// Everything but the dismiss keys is swallowed.
	m = press(t, m, runes("q"))
	assert.False(t, m.quitting)
	assert.NotEmpty(t, m.alert)

	tm, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = tm.(Model)
	assert.Empty(t, m.alert)
	assert.NotContains(t, m.View(), alertPrefix)
}

func TestCtrlCQuitsThroughAlert(t *testing.T) {
	m, _ := newTestModel(t, "monitor")
	m = send(t, m, alertMsg{text: alertPrefix + "x"})

	tm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = tm.(Model)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestUnavailableMetrics_HidePanelsSilently(t *testing.T) {
	m, _ := newTestModel(t, "inventory")

	out := m.View()
	assert.NotContains(t, out, "Current metrics")
	assert.NotContains(t, out, "Metrics comparison")
	assert.Contains(t, out, "Database: inventory")
	assert.Equal(t, 0, pendingAlerts(m))
}

func TestRefreshGauges_KeepsOneInstancePerSlot(t *testing.T) {
	m, srv := newTestModel(t, "monitor")
	reg := m.ctrl.Registry()
	live := reg.Live()

	m = press(t, m, runes("g"))
	m = press(t, m, runes("g"))
	m = press(t, m, runes("m"))

	assert.Equal(t, live, reg.Live())
	assert.Equal(t, 3, srv.Hits("current-metrics"))
	assert.Equal(t, 2, srv.Hits("metrics-comparison"))
}

func TestSettingsMsg_RedrawsGauges(t *testing.T) {
	m, _ := newTestModel(t, "monitor")
	spec, ok := m.snap.Chart(chart.RAMGauge)
	require.True(t, ok)
	assert.Equal(t, 50.0, spec.(chart.GaugeSpec).Value)

	s := view.DefaultSettings()
	s.RAMCeilingMB = 1000
	m = send(t, m, settingsMsg{settings: s})

	spec, ok = m.snap.Chart(chart.RAMGauge)
	require.True(t, ok)
	assert.Equal(t, 100.0, spec.(chart.GaugeSpec).Value)
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, "monitor")

	m = press(t, m, runes("?"))
	assert.True(t, m.showHelp)
	out := m.View()
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "refresh gauges")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestStatusLine_ShowsStateErrors(t *testing.T) {
	m, _ := newTestModel(t, "")
	m = send(t, m, opDoneMsg{op: "select table", err: errors.New(errors.ErrState, "Select a database first", "")})
	assert.Equal(t, "Select a database first", m.status)

	m = send(t, m, opDoneMsg{op: "refresh", err: errors.New(errors.ErrFetch, "Request failed", "")})
	assert.Equal(t, "Select a database first", m.status, "fetch failures go to the alert modal")
}

func TestAlertQueue(t *testing.T) {
	q := NewAlertQueue()
	q.Alert(nil)
	assert.Empty(t, q.ch)

	q.Alert(errors.New(errors.ErrFetch, "Request to /tables failed", ""))
	msg := q.wait()().(alertMsg)
	assert.Equal(t, "Error fetching data: Request to /tables failed", msg.text)

	for i := 0; i < alertBacklog+5; i++ {
		q.Alert(errors.New(errors.ErrFetch, "x", ""))
	}
	assert.Len(t, q.ch, alertBacklog, "overflow is dropped")
}
