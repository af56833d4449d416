// Package dashboard owns the dashboard state and runs its operations: loading
// databases, tables, table pages, the overview and the metric panels.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/chart"
	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
	"github.com/rileyhilliard/dbdash/internal/state"
	"github.com/rileyhilliard/dbdash/internal/view"
)

// Backend is the subset of the API client the controller needs.
type Backend interface {
	Databases(ctx context.Context) ([]api.Database, error)
	Tables(ctx context.Context, db string) ([]string, error)
	Query(ctx context.Context, db, table string, page int) (*api.TablePage, error)
	Dashboard(ctx context.Context, db string) (*api.DashboardStats, error)
	ChartData(ctx context.Context, db, table string) (*api.ChartData, error)
	CurrentMetrics(ctx context.Context, db string) (*api.CurrentMetrics, error)
	MetricsComparison(ctx context.Context, db string) (*api.MetricsComparison, error)
}

// Notifier reports fetch failures to the user.
type Notifier interface {
	Alert(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

// Alert calls f(err).
func (f NotifierFunc) Alert(err error) { f(err) }

// Default pixel box used to size gauge text before the first resize.
const (
	DefaultGaugeWidth  = 200
	DefaultGaugeHeight = 120
)

// Options configures a Controller.
type Options struct {
	Backend  Backend
	Notifier Notifier
	Registry *chart.Registry
	Settings view.Settings
	Logger   logger.Logger
}

// Controller runs dashboard operations. Operations are serialized: each holds
// the operation lock for its whole duration, so the fetches inside one action
// run sequentially. Snapshot may be called at any time.
type Controller struct {
	backend  Backend
	notifier Notifier
	charts   *chart.Registry
	log      logger.Logger
	loading  state.Loading

	op sync.Mutex

	mu       sync.RWMutex
	model    Model
	st       *state.State
	settings view.Settings
	gaugeW   int
	gaugeH   int
	metrics  *api.CurrentMetrics
	trend    *api.MetricsComparison
}

// New creates a Controller. A nil Notifier drops alerts; a zero Settings uses
// the defaults.
func New(opts Options) *Controller {
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(error) {})
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Registry == nil {
		opts.Registry = chart.NewRegistry(opts.Logger)
	}
	if opts.Settings.RAMCeilingMB <= 0 {
		opts.Settings = view.DefaultSettings()
	}
	return &Controller{
		backend:  opts.Backend,
		notifier: opts.Notifier,
		charts:   opts.Registry,
		log:      opts.Logger,
		st:       state.New(),
		settings: opts.Settings,
		gaugeW:   DefaultGaugeWidth,
		gaugeH:   DefaultGaugeHeight,
	}
}

// Registry returns the chart registry the controller binds charts into.
func (c *Controller) Registry() *chart.Registry {
	return c.charts
}

// Snapshot returns a deep copy of the current view model.
func (c *Controller) Snapshot() Model {
	c.mu.RLock()
	m := c.model.clone()
	m.State = *c.st
	c.mu.RUnlock()

	m.Loading = c.loading.Active()
	m.Charts = make(map[string]chart.Spec)
	for _, id := range c.charts.IDs() {
		if inst, ok := c.charts.Get(id); ok {
			m.Charts[id] = inst.Spec()
		}
	}
	return m
}

// begin takes the operation lock and marks the loading indicator.
func (c *Controller) begin() func() {
	done := c.loading.Begin()
	c.op.Lock()
	return func() {
		c.op.Unlock()
		done()
	}
}

// update mutates the model and state under the model lock.
func (c *Controller) update(fn func(m *Model, s *state.State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.model, c.st)
}

func (c *Controller) read() (state.State, view.Settings) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.st, c.settings
}

// fail alerts the user about a fetch failure and returns it.
func (c *Controller) fail(op string, err error) error {
	c.log.Warn("%s failed: %s", op, errors.Summary(err))
	c.notifier.Alert(err)
	return err
}

// SwitchTab activates a tab. It has no data side effects.
func (c *Controller) SwitchTab(name string) error {
	var err error
	c.update(func(_ *Model, s *state.State) {
		err = s.SwitchTab(name)
	})
	return err
}

// NextTab cycles to the following tab.
func (c *Controller) NextTab() {
	c.update(func(_ *Model, s *state.State) { s.NextTab() })
}

// FilterTables narrows the visible table list by a case-insensitive substring.
func (c *Controller) FilterTables(term string) {
	c.update(func(m *Model, s *state.State) {
		s.Filter = term
		m.VisibleTables = view.FilterTables(m.Tables, term)
	})
}

// SetSettings applies new gauge thresholds, RAM ceiling and trend bounds, and
// redraws the metric panels from the last payloads.
func (c *Controller) SetSettings(s view.Settings) {
	defer c.begin()()

	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()

	c.redrawMetrics()
}

// Resize records the pixel box of one gauge and forwards the terminal size to
// every live chart.
func (c *Controller) Resize(width, height, gaugeW, gaugeH int) {
	c.charts.Resize(width, height)
	c.mu.Lock()
	changed := gaugeW != c.gaugeW || gaugeH != c.gaugeH
	if gaugeW > 0 && gaugeH > 0 {
		c.gaugeW, c.gaugeH = gaugeW, gaugeH
	}
	c.mu.Unlock()
	if changed {
		c.op.Lock()
		c.redrawGauges()
		c.op.Unlock()
	}
}

func (c *Controller) redrawMetrics() {
	c.redrawGauges()
	c.redrawTrends()
}

func (c *Controller) redrawGauges() {
	c.mu.RLock()
	m, s, w, h := c.metrics, c.settings, c.gaugeW, c.gaugeH
	c.mu.RUnlock()
	if m == nil {
		return
	}
	for _, g := range view.BuildGauges(*m, s, w, h) {
		if _, err := c.charts.Replace(g.ID, g.Spec); err != nil {
			c.log.Warn("gauge %s not drawn: %s", g.ID, errors.Summary(err))
		}
	}
}

func (c *Controller) redrawTrends() {
	c.mu.RLock()
	mc, s := c.trend, c.settings
	c.mu.RUnlock()
	if mc == nil {
		return
	}
	for _, tr := range view.BuildTrends(*mc, s) {
		if _, err := c.charts.Replace(tr.ID, tr.Spec); err != nil {
			c.log.Warn("trend %s not drawn: %s", tr.ID, errors.Summary(err))
		}
	}
}

func unknownDatabase(name string) error {
	return errors.New(errors.ErrState,
		fmt.Sprintf("Database %q is not available", name),
		"Pick a database marked ✓ (run 'dbdash databases' to list them)")
}
