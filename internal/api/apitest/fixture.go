package apitest

import (
	"fmt"

	"github.com/rileyhilliard/dbdash/internal/api"
)

// Rows builds n rows for columns, filling id with the 1-based index and every
// other column with "<col>-<i>".
func Rows(n int, columns ...string) []api.Row {
	rows := make([]api.Row, 0, n)
	for i := 1; i <= n; i++ {
		row := api.Row{}
		for j, c := range columns {
			if j == 0 {
				row[c] = i
				continue
			}
			row[c] = fmt.Sprintf("%s-%d", c, i)
		}
		rows = append(rows, row)
	}
	return rows
}

// Sample returns a fixture with a metrics database ("monitor"), a plain
// database without metrics ("inventory") and a missing one ("archive").
func Sample() Fixture {
	return Fixture{
		Order: []string{"monitor", "inventory", "archive"},
		DBs: map[string]DB{
			"monitor": {
				Path: "/data/monitor.db",
				Tables: map[string]Table{
					"sistema_info":       {Columns: []string{"id", "cpu", "ram"}, Rows: Rows(10, "id", "cpu", "ram")},
					"sistema_info_media": {Columns: []string{"id", "timestamp"}, Rows: Rows(25, "id", "timestamp")},
					"eventos":            {Columns: []string{"id", "tipo", "detalhe"}, Rows: Rows(5, "id", "tipo", "detalhe")},
				},
				Metrics: &api.CurrentMetrics{
					CPU: 42.5, RAM: 1000, Temperatura: 55, Potencia: 7.25,
					Timestamp: "2024-05-01T12:00:00",
				},
				Comparison: &api.MetricsComparison{
					Labels: []string{"11:50", "12:00"},
					Datasets: api.Datasets{
						CPU:         []float64{40, 42.5},
						RAM:         []float64{1000, 1333},
						Temperatura: []float64{54, 55},
						Potencia:    []float64{7, 7.25},
					},
				},
			},
			"inventory": {
				Path: "/data/inventory.db",
				Tables: map[string]Table{
					"items": {Columns: []string{"id", "name", "sku"}, Rows: Rows(120, "id", "name", "sku")},
					"empty": {Columns: []string{"id", "note"}},
				},
			},
			"archive": {Path: "/data/archive.db", Missing: true},
		},
	}
}
