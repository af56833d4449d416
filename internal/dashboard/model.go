package dashboard

import (
	"github.com/rileyhilliard/dbdash/internal/chart"
	"github.com/rileyhilliard/dbdash/internal/state"
	"github.com/rileyhilliard/dbdash/internal/view"
)

// Model is a render-ready copy of everything the dashboard shows.
type Model struct {
	State   state.State
	Loading bool

	Databases []view.DatabaseOption

	// Tables are all loaded names; VisibleTables passes the search filter.
	Tables        []string
	VisibleTables []string
	// TablesMessage is the empty-state text of the table list.
	TablesMessage string

	// DataTitle and DataRows head the data tab, e.g. "items" / "1,234 rows".
	DataTitle  string
	DataRows   string
	Grid       view.Grid
	HasGrid    bool
	Pagination view.Pagination

	Stats *view.Stats

	// MetricsTimestamp is the sample time of the gauges.
	MetricsTimestamp string

	// Charts maps every occupied slot to its spec.
	Charts map[string]chart.Spec
}

// Chart returns the spec bound to slot id.
func (m Model) Chart(id string) (chart.Spec, bool) {
	s, ok := m.Charts[id]
	return s, ok
}

func (m Model) clone() Model {
	out := m
	out.Databases = append([]view.DatabaseOption(nil), m.Databases...)
	out.Tables = append([]string(nil), m.Tables...)
	out.VisibleTables = append([]string(nil), m.VisibleTables...)
	out.Grid.Headers = append([]string(nil), m.Grid.Headers...)
	out.Grid.Rows = make([][]string, len(m.Grid.Rows))
	for i, r := range m.Grid.Rows {
		out.Grid.Rows[i] = append([]string(nil), r...)
	}
	if m.Stats != nil {
		s := *m.Stats
		s.Cards = append([]view.StatCard(nil), m.Stats.Cards...)
		out.Stats = &s
	}
	return out
}
