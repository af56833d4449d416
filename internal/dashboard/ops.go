package dashboard

import (
	"context"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/chart"
	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/state"
	"github.com/rileyhilliard/dbdash/internal/view"
)

// LoadDatabases fetches the database list. Databases whose file is missing
// come back disabled.
func (c *Controller) LoadDatabases(ctx context.Context) ([]view.DatabaseOption, error) {
	defer c.begin()()

	dbs, err := c.backend.Databases(ctx)
	if err != nil {
		return nil, c.fail("load databases", err)
	}
	opts := view.DatabaseOptions(dbs)
	c.update(func(m *Model, _ *state.State) {
		m.Databases = opts
	})
	c.log.Debug("loaded %d databases", len(opts))
	return append([]view.DatabaseOption(nil), opts...), nil
}

// SelectDatabase switches to name, drops every chart of the previous
// database, then loads its tables and its overview in that order. Disabled or unknown databases are rejected when the list has
// been loaded.
func (c *Controller) SelectDatabase(ctx context.Context, name string) error {
	defer c.begin()()

	c.mu.RLock()
	known := c.model.Databases
	c.mu.RUnlock()
	if name == "" {
		return unknownDatabase(name)
	}
	if known != nil {
		ok := false
		for _, o := range known {
			if o.Name == name && !o.Disabled {
				ok = true
				break
			}
		}
		if !ok {
			return unknownDatabase(name)
		}
	}

	c.update(func(m *Model, s *state.State) {
		s.SelectDatabase(name)
		m.Tables, m.VisibleTables, m.TablesMessage = nil, nil, ""
		m.Grid, m.HasGrid = view.Grid{}, false
		m.DataTitle, m.DataRows = "", ""
		m.Pagination = view.Pagination{}
		m.Stats = nil
	})
	c.mu.Lock()
	c.metrics, c.trend = nil, nil
	c.mu.Unlock()
	c.charts.DestroyAll()
	c.log.Info("selected database %s", name)

	tablesErr := c.loadTables(ctx, name)
	statsErr := c.loadDashboardStats(ctx, name)
	if tablesErr != nil {
		return tablesErr
	}
	return statsErr
}

// LoadTables fetches the table names of db.
func (c *Controller) LoadTables(ctx context.Context, db string) error {
	defer c.begin()()
	return c.loadTables(ctx, db)
}

func (c *Controller) loadTables(ctx context.Context, db string) error {
	tables, err := c.backend.Tables(ctx, db)
	if err != nil {
		return c.fail("load tables", err)
	}
	c.update(func(m *Model, s *state.State) {
		m.Tables = tables
		m.VisibleTables = view.FilterTables(tables, s.Filter)
		m.TablesMessage = ""
		if len(tables) == 0 {
			m.TablesMessage = view.NoTablesMessage
		}
	})
	return nil
}

// SelectTable switches to name on the data tab and loads its first page.
func (c *Controller) SelectTable(ctx context.Context, name string) error {
	defer c.begin()()

	st, _ := c.read()
	if st.Database == "" {
		return errors.New(errors.ErrState, "Select a database first", "")
	}
	c.update(func(_ *Model, s *state.State) {
		s.SelectTable(name)
	})
	return c.loadTableData(ctx, name, 1)
}

// LoadTableData loads one page of table. It does nothing unless a database
// and table are selected. On failure the current page is kept.
func (c *Controller) LoadTableData(ctx context.Context, table string, page int) error {
	defer c.begin()()
	return c.loadTableData(ctx, table, page)
}

func (c *Controller) loadTableData(ctx context.Context, table string, page int) error {
	st, _ := c.read()
	if st.Database == "" || table == "" {
		return nil
	}

	p, err := c.backend.Query(ctx, st.Database, table, page)
	if err != nil {
		return c.fail("load table data", err)
	}

	grid := view.BuildGrid(p.Columns, p.Data)
	c.update(func(m *Model, s *state.State) {
		s.SetPage(p.Pagination.Page, p.Pagination.Pages)
		m.DataTitle = table
		m.DataRows = view.RowCount(p.Pagination.Total)
		m.Grid, m.HasGrid = grid, true
		m.Pagination = view.BuildPagination(s.Page, s.TotalPages)
	})
	c.log.Debug("loaded %s page %d/%d", table, p.Pagination.Page, p.Pagination.Pages)

	return c.loadChartData(ctx, st.Database, table)
}

func (c *Controller) loadChartData(ctx context.Context, db, table string) error {
	d, err := c.backend.ChartData(ctx, db, table)
	if err != nil {
		return c.fail("load chart data", err)
	}
	if _, err := c.charts.Replace(chart.DataChart, view.RecordsChart(table, *d)); err != nil {
		c.log.Warn("data chart not drawn: %s", errors.Summary(err))
	}
	return nil
}

// NextPage loads the following page. It does nothing on the last page.
func (c *Controller) NextPage(ctx context.Context) error {
	return c.step(ctx, 1)
}

// PrevPage loads the preceding page. It does nothing on the first page.
func (c *Controller) PrevPage(ctx context.Context) error {
	return c.step(ctx, -1)
}

func (c *Controller) step(ctx context.Context, delta int) error {
	defer c.begin()()

	st, _ := c.read()
	if !st.HasSelection() {
		return nil
	}
	if (delta > 0 && !st.CanNext()) || (delta < 0 && !st.CanPrev()) {
		return nil
	}
	return c.loadTableData(ctx, st.Table, st.Page+delta)
}

// LoadDashboardStats renders the overview of db, then its current metrics,
// then its metrics comparison. A failed overview skips the metric loads; a
// failed gauge load still runs the comparison and its error is returned.
func (c *Controller) LoadDashboardStats(ctx context.Context, db string) error {
	defer c.begin()()
	return c.loadDashboardStats(ctx, db)
}

func (c *Controller) loadDashboardStats(ctx context.Context, db string) error {
	stats, err := c.backend.Dashboard(ctx, db)
	if err != nil {
		return c.fail("load dashboard", err)
	}

	summary := view.BuildStats(*stats)
	c.update(func(m *Model, _ *state.State) {
		m.Stats = &summary
	})
	if _, err := c.charts.Replace(chart.TableStatsChart, view.StatsChart(*stats)); err != nil {
		c.log.Warn("table stats chart not drawn: %s", errors.Summary(err))
	}

	gaugeErr := c.loadCurrentMetrics(ctx, db)
	if err := c.loadMetricsComparison(ctx, db); gaugeErr == nil {
		return err
	}
	return gaugeErr
}

// LoadCurrentMetrics draws the four gauges. A database without metrics hides
// the gauge panel without alerting.
func (c *Controller) LoadCurrentMetrics(ctx context.Context, db string) error {
	defer c.begin()()
	return c.loadCurrentMetrics(ctx, db)
}

func (c *Controller) loadCurrentMetrics(ctx context.Context, db string) error {
	m, err := c.backend.CurrentMetrics(ctx, db)
	if api.IsUnavailable(err) {
		c.log.Debug("gauges hidden for %s: %v", db, err)
		c.update(func(_ *Model, s *state.State) { s.GaugesVisible = false })
		return nil
	}
	if err != nil {
		return c.fail("load current metrics", err)
	}

	c.mu.Lock()
	c.metrics = m
	c.st.GaugesVisible = true
	c.model.MetricsTimestamp = m.Timestamp
	c.mu.Unlock()

	c.redrawGauges()
	return nil
}

// LoadMetricsComparison draws the four trend charts. A database without
// metrics hides the trend panel without alerting.
func (c *Controller) LoadMetricsComparison(ctx context.Context, db string) error {
	defer c.begin()()
	return c.loadMetricsComparison(ctx, db)
}

func (c *Controller) loadMetricsComparison(ctx context.Context, db string) error {
	mc, err := c.backend.MetricsComparison(ctx, db)
	if api.IsUnavailable(err) {
		c.log.Debug("trend hidden for %s: %v", db, err)
		c.update(func(_ *Model, s *state.State) { s.TrendVisible = false })
		return nil
	}
	if err != nil {
		return c.fail("load metrics comparison", err)
	}

	c.mu.Lock()
	c.trend = mc
	c.st.TrendVisible = true
	c.mu.Unlock()

	c.redrawTrends()
	return nil
}

// RefreshGauges re-runs the current metrics load for the selected database.
func (c *Controller) RefreshGauges(ctx context.Context) error {
	defer c.begin()()
	st, _ := c.read()
	if st.Database == "" {
		return nil
	}
	return c.loadCurrentMetrics(ctx, st.Database)
}

// RefreshMetrics re-runs the metrics comparison for the selected database.
func (c *Controller) RefreshMetrics(ctx context.Context) error {
	defer c.begin()()
	st, _ := c.read()
	if st.Database == "" {
		return nil
	}
	return c.loadMetricsComparison(ctx, st.Database)
}

// Refresh reloads tables, the overview and, when a table is selected, the
// current page.
func (c *Controller) Refresh(ctx context.Context) error {
	defer c.begin()()
	st, _ := c.read()
	if st.Database == "" {
		return nil
	}

	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}
	keep(c.loadTables(ctx, st.Database))
	keep(c.loadDashboardStats(ctx, st.Database))
	if st.Table != "" {
		keep(c.loadTableData(ctx, st.Table, st.Page))
	}
	return first
}
