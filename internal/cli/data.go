package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/state"
	"github.com/rileyhilliard/dbdash/internal/tui"
	"github.com/rileyhilliard/dbdash/internal/ui"
	"github.com/rileyhilliard/dbdash/internal/view"
)

const (
	barWidth       = 30
	sparklineWidth = 40
	chartHeight    = 8
	gaugeCols      = 22
	gaugeRows      = 8
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	okStyle    = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	failStyle  = lipgloss.NewStyle().Foreground(ui.ColorError)
)

// TablesOutput is the --json form of the tables command.
type TablesOutput struct {
	Database string   `json:"database"`
	Tables   []string `json:"tables"`
}

// QueryOutput is the --json form of the query command.
type QueryOutput struct {
	Database string `json:"database"`
	Table    string `json:"table"`
	*api.TablePage
}

// InfoOutput is the --json form of the info command.
type InfoOutput struct {
	Database string `json:"database"`
	Table    string `json:"table"`
	*api.TableInfo
}

// StatsOutput is the --json form of the stats command.
type StatsOutput struct {
	*api.DashboardStats
	TotalRows int64 `json:"total_rows"`
}

// GaugeOutput is one gauge in the --json form of the gauges command.
type GaugeOutput struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Max     float64 `json:"max"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
}

// GaugesOutput is the --json form of the gauges command.
type GaugesOutput struct {
	Database  string              `json:"database"`
	Timestamp string              `json:"timestamp"`
	Raw       *api.CurrentMetrics `json:"raw"`
	Gauges    []GaugeOutput       `json:"gauges"`
}

// ChartOutput is the --json form of the chart command.
type ChartOutput struct {
	Database string `json:"database"`
	Table    string `json:"table"`
	*api.ChartData
}

func databasesCommand(ctx context.Context, out io.Writer) error {
	s, err := newSession(0)
	if err != nil {
		return err
	}
	dbs, err := fetch("Loading databases", func() ([]api.Database, error) {
		return s.client.Databases(ctx)
	})
	if err != nil {
		return err
	}
	if machineMode {
		if dbs == nil {
			dbs = []api.Database{}
		}
		return WriteJSONSuccess(out, dbs)
	}

	if len(dbs) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No databases configured"))
		return nil
	}
	rows := make([][]string, 0, len(dbs))
	for _, db := range dbs {
		mark := okStyle.Render(ui.SymbolSuccess)
		if !db.Exists {
			mark = failStyle.Render(ui.SymbolFail)
		}
		rows = append(rows, []string{mark, db.Name, db.Path})
	}
	headers := []string{"", "DATABASE", "PATH"}
	fmt.Fprintln(out, ui.RenderSimpleTable(ui.FitColumns(headers, rows), rows))
	return nil
}

func tablesCommand(ctx context.Context, out io.Writer, args []string) error {
	s, err := newSession(0)
	if err != nil {
		return err
	}
	db, _, err := s.splitDatabase(ctx, args, 0)
	if err != nil {
		return err
	}
	tables, err := fetch("Loading tables", func() ([]string, error) {
		return s.client.Tables(ctx, db)
	})
	if err != nil {
		return err
	}
	if machineMode {
		if tables == nil {
			tables = []string{}
		}
		return WriteJSONSuccess(out, TablesOutput{Database: db, Tables: tables})
	}

	if len(tables) == 0 {
		fmt.Fprintln(out, mutedStyle.Render(view.NoTablesMessage))
		return nil
	}
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%d tables)", db, len(tables))))
	for _, t := range tables {
		fmt.Fprintln(out, "  "+t)
	}
	return nil
}

func queryCommand(ctx context.Context, out io.Writer, args []string, flags PageFlags) error {
	if err := flags.Validate(); err != nil {
		return err
	}
	s, err := newSession(flags.PerPage)
	if err != nil {
		return err
	}
	db, rest, err := s.splitDatabase(ctx, args, 1)
	if err != nil {
		return err
	}
	table := rest[0]

	page, err := fetch("Loading "+table, func() (*api.TablePage, error) {
		return s.client.Query(ctx, db, table, flags.Page)
	})
	if err != nil {
		return err
	}
	if machineMode {
		return WriteJSONSuccess(out, QueryOutput{Database: db, Table: table, TablePage: page})
	}

	grid := view.BuildGrid(page.Columns, page.Data)
	var bounds state.State
	bounds.SetPage(page.Pagination.Page, page.Pagination.Pages)
	p := view.BuildPagination(bounds.Page, bounds.TotalPages)
	fmt.Fprintln(out, titleStyle.Render(table)+"  "+mutedStyle.Render(view.RowCount(page.Pagination.Total)))
	fmt.Fprintln(out, ui.RenderGrid(grid.Headers, grid.Rows, grid.Empty))
	fmt.Fprintln(out, mutedStyle.Render(p.Text))
	return nil
}

func infoCommand(ctx context.Context, out io.Writer, args []string) error {
	s, err := newSession(0)
	if err != nil {
		return err
	}
	db, rest, err := s.splitDatabase(ctx, args, 1)
	if err != nil {
		return err
	}
	table := rest[0]

	info, err := fetch("Loading "+table, func() (*api.TableInfo, error) {
		return s.client.TableInfo(ctx, db, table)
	})
	if err != nil {
		return err
	}
	if machineMode {
		return WriteJSONSuccess(out, InfoOutput{Database: db, Table: table, TableInfo: info})
	}

	fmt.Fprintln(out, titleStyle.Render(table)+"  "+mutedStyle.Render(view.RowCount(info.RowCount)))
	headers := []string{"#", "COLUMN", "TYPE", "NOT NULL", "DEFAULT", "PK"}
	rows := make([][]string, 0, len(info.Columns))
	for _, c := range info.Columns {
		def := ""
		if c.Default != nil {
			def = view.FormatCell(c.Default)
		}
		rows = append(rows, []string{
			strconv.Itoa(c.CID),
			c.Name,
			c.Type,
			yesMark(c.NotNull),
			def,
			yesMark(c.PK),
		})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No columns"))
		return nil
	}
	fmt.Fprintln(out, ui.RenderSimpleTable(ui.FitColumns(headers, rows), rows))
	return nil
}

func yesMark(v int) string {
	if v != 0 {
		return ui.SymbolSuccess
	}
	return ""
}

func statsCommand(ctx context.Context, out io.Writer, args []string) error {
	s, err := newSession(0)
	if err != nil {
		return err
	}
	db, _, err := s.splitDatabase(ctx, args, 0)
	if err != nil {
		return err
	}
	stats, err := fetch("Loading dashboard", func() (*api.DashboardStats, error) {
		return s.client.Dashboard(ctx, db)
	})
	if err != nil {
		return err
	}
	if machineMode {
		return WriteJSONSuccess(out, StatsOutput{DashboardStats: stats, TotalRows: stats.TotalRows()})
	}

	v := view.BuildStats(*stats)
	fmt.Fprint(out, ui.KeyValue([][2]string{
		{"Database", v.Database},
		{"Tables", v.TableCount},
		{"Total rows", v.TotalRows},
	}))
	if len(v.Cards) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(v.Cards))
	for _, c := range v.Cards {
		rows = append(rows, []string{c.Name, c.Rows, c.Columns})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderSimpleTable(ui.FitColumns([]string{"TABLE", "ROWS", "COLUMNS"}, rows), rows))
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.RenderBarChart(view.StatsChart(*stats), outputWidth()))
	return nil
}

func gaugesCommand(ctx context.Context, out io.Writer, args []string, arcs bool) error {
	s, err := newSession(0)
	if err != nil {
		return err
	}
	db, _, err := s.splitDatabase(ctx, args, 0)
	if err != nil {
		return err
	}
	m, err := fetch("Loading metrics", func() (*api.CurrentMetrics, error) {
		return s.client.CurrentMetrics(ctx, db)
	})
	if err != nil {
		return unavailable(err, "Metrics", db)
	}

	slots := view.BuildGauges(*m, s.cfg.Settings(), gaugeCols*8, gaugeRows*16)
	if machineMode {
		g := GaugesOutput{Database: db, Timestamp: m.Timestamp, Raw: m}
		for _, slot := range slots {
			g.Gauges = append(g.Gauges, GaugeOutput{
				Label:   slot.Spec.Label,
				Value:   slot.Spec.Value,
				Unit:    slot.Spec.Unit,
				Max:     slot.Spec.Max,
				Color:   slot.Spec.Color,
				Tooltip: slot.Spec.Tooltip,
			})
		}
		return WriteJSONSuccess(out, g)
	}

	fmt.Fprintln(out, titleStyle.Render("Current metrics")+"  "+mutedStyle.Render(m.Timestamp))
	if arcs {
		boxes := make([]string, 0, len(slots))
		for _, slot := range slots {
			boxes = append(boxes, tui.RenderGauge(slot.Spec, gaugeCols, gaugeRows)+"\n"+
				lipgloss.PlaceHorizontal(gaugeCols, lipgloss.Center, mutedStyle.Render(slot.Spec.Tooltip)))
		}
		fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		return nil
	}

	width := 0
	for _, slot := range slots {
		width = max(width, lipgloss.Width(slot.Spec.Label))
	}
	for _, slot := range slots {
		g := slot.Spec
		label := g.Label + strings.Repeat(" ", width-lipgloss.Width(g.Label))
		fmt.Fprintf(out, "%s  %s  %s\n", label, ui.RenderBar(g.Value, g.Max, barWidth, ui.Hex(g.Color)), g.Tooltip)
	}
	return nil
}

func trendCommand(ctx context.Context, out io.Writer, args []string, compact bool) error {
	s, err := newSession(0)
	if err != nil {
		return err
	}
	db, _, err := s.splitDatabase(ctx, args, 0)
	if err != nil {
		return err
	}
	mc, err := fetch("Loading metrics", func() (*api.MetricsComparison, error) {
		return s.client.MetricsComparison(ctx, db)
	})
	if err != nil {
		return unavailable(err, "Metrics", db)
	}
	if machineMode {
		return WriteJSONSuccess(out, mc)
	}

	trends := view.BuildTrends(*mc, s.cfg.Settings())
	if compact {
		width := 0
		for _, t := range trends {
			width = max(width, lipgloss.Width(t.Spec.Title))
		}
		for _, t := range trends {
			spec := t.Spec
			label := spec.Title + strings.Repeat(" ", width-lipgloss.Width(spec.Title))
			latest := ""
			if n := len(spec.Values); n > 0 {
				latest = view.PointTooltip(spec, n-1)
			}
			fmt.Fprintf(out, "%s  %s  %s\n", label,
				ui.RenderSparkline(spec.Values, sparklineWidth, spec.Max, ui.Hex(spec.Color)),
				mutedStyle.Render(latest))
		}
		return nil
	}

	width := outputWidth()
	for i, t := range trends {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, titleStyle.Render(t.Spec.Title))
		if len(t.Spec.Values) == 0 {
			fmt.Fprintln(out, mutedStyle.Render(view.NoDataMessage))
			continue
		}
		fmt.Fprintln(out, tui.RenderLineChart(t.Spec, width, chartHeight))
	}
	return nil
}

func chartCommand(ctx context.Context, out io.Writer, args []string) error {
	s, err := newSession(0)
	if err != nil {
		return err
	}
	db, rest, err := s.splitDatabase(ctx, args, 1)
	if err != nil {
		return err
	}
	table := rest[0]

	data, err := fetch("Loading "+table, func() (*api.ChartData, error) {
		return s.client.ChartData(ctx, db, table)
	})
	if err != nil {
		return err
	}
	if machineMode {
		return WriteJSONSuccess(out, ChartOutput{Database: db, Table: table, ChartData: data})
	}

	spec := view.RecordsChart(table, *data)
	fmt.Fprintln(out, titleStyle.Render(spec.Title))
	if len(spec.Values) == 0 {
		fmt.Fprintln(out, mutedStyle.Render(view.NoDataMessage))
		return nil
	}
	fmt.Fprintln(out, tui.RenderLineChart(spec, outputWidth(), chartHeight))
	return nil
}
