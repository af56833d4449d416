package view

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/chart"
)

// StatCard is one per-table detail card on the dashboard.
type StatCard struct {
	Name    string
	Rows    string
	Columns string
}

// Stats is the dashboard summary.
type Stats struct {
	Database   string
	TableCount string
	TotalRows  string
	Cards      []StatCard
}

// BuildStats sums rows client-side and formats every count.
func BuildStats(s api.DashboardStats) Stats {
	out := Stats{
		Database:   s.Database,
		TableCount: strconv.Itoa(s.TableCount),
		TotalRows:  humanize.Comma(s.TotalRows()),
		Cards:      make([]StatCard, 0, len(s.Tables)),
	}
	for _, t := range s.Tables {
		out.Cards = append(out.Cards, StatCard{
			Name:    t.Name,
			Rows:    humanize.Comma(t.Rows),
			Columns: strconv.Itoa(t.Columns),
		})
	}
	return out
}

// StatsChart is the row-count bar chart, one bar per table.
func StatsChart(s api.DashboardStats) chart.BarSpec {
	spec := chart.BarSpec{
		Label:  "Row Count",
		Color:  ColorBar,
		Labels: make([]string, 0, len(s.Tables)),
		Values: make([]float64, 0, len(s.Tables)),
	}
	for _, t := range s.Tables {
		spec.Labels = append(spec.Labels, t.Name)
		spec.Values = append(spec.Values, float64(t.Rows))
	}
	return spec
}

// RecordsChart is the per-table record trend shown under the grid.
func RecordsChart(table string, d api.ChartData) chart.LineSpec {
	return chart.LineSpec{
		Title:  table + " records",
		Labels: append([]string(nil), d.Labels...),
		Values: append([]float64(nil), d.Values...),
		Color:  ColorBar,
	}
}
