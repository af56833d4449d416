package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/chart"
)

func TestStats_TotalRows(t *testing.T) {
	s := api.DashboardStats{
		Database:   "monitor",
		TableCount: 3,
		Tables: []api.TableStat{
			{Name: "a", Rows: 10, Columns: 2},
			{Name: "b", Rows: 25, Columns: 3},
			{Name: "c", Rows: 5, Columns: 4},
		},
	}

	v := BuildStats(s)
	assert.Equal(t, "40", v.TotalRows)
	assert.Equal(t, "3", v.TableCount)
	require.Len(t, v.Cards, 3)
	assert.Equal(t, StatCard{Name: "b", Rows: "25", Columns: "3"}, v.Cards[1])

	bar := StatsChart(s)
	assert.Equal(t, []string{"a", "b", "c"}, bar.Labels)
	assert.Equal(t, []float64{10, 25, 5}, bar.Values)
	assert.NoError(t, bar.Validate())
}

func TestStats_ThousandsSeparators(t *testing.T) {
	v := BuildStats(api.DashboardStats{Tables: []api.TableStat{{Name: "big", Rows: 1234567}}})
	assert.Equal(t, "1,234,567", v.TotalRows)
	assert.Equal(t, "1,234,567", v.Cards[0].Rows)
}

func TestGaugeColor(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, ColorGreen},
		{69.99, ColorGreen},
		{70, ColorAmber},
		{89.99, ColorAmber},
		{90, ColorRed},
		{150, ColorRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GaugeColor(tt.value, 70, 90), "value %v", tt.value)
	}
}

func TestRAMPercent(t *testing.T) {
	assert.InDelta(t, 50.0, RAMPercent(1000, 2000), 1e-9)
	assert.InDelta(t, 66.65, RAMPercent(1333, 2000), 1e-9)
	assert.InDelta(t, 12.35, RAMPercent(247, 2000), 1e-9)
	assert.InDelta(t, 25.0, RAMPercent(1000, 4000), 1e-9)
	assert.InDelta(t, 50.0, RAMPercent(1000, 0), 1e-9, "non-positive ceiling falls back to the default")
}

func TestFontSizes(t *testing.T) {
	tests := []struct {
		w, h       int
		font, unit int
	}{
		{200, 100, 22, 13},
		{40, 40, 12, 10},
		{400, 300, 66, 39},
		{0, 0, 12, 10},
	}
	for _, tt := range tests {
		font, unit := FontSizes(tt.w, tt.h)
		assert.Equal(t, tt.font, font, "font for %dx%d", tt.w, tt.h)
		assert.Equal(t, tt.unit, unit, "unit for %dx%d", tt.w, tt.h)
	}
}

func TestTooltip(t *testing.T) {
	assert.Equal(t, "42.50%", Tooltip(42.5, "%", nil, ""))
	mb := 1000.0
	assert.Equal(t, "50.00% (1000.00MB)", Tooltip(50, "%", &mb, "MB"))
}

func TestBuildGauges(t *testing.T) {
	m := api.CurrentMetrics{CPU: 92.4, RAM: 1300, Temperatura: 50, Potencia: 3.6}

	gauges := BuildGauges(m, DefaultSettings(), 200, 100)
	require.Len(t, gauges, 4)

	ids := []string{gauges[0].ID, gauges[1].ID, gauges[2].ID, gauges[3].ID}
	assert.Equal(t, chart.GaugeSlots, ids)

	cpu := gauges[0].Spec
	assert.Equal(t, ColorRed, cpu.Color)
	assert.Equal(t, ColorBlue, cpu.TextColor)
	assert.Equal(t, "92", cpu.Text)
	assert.Equal(t, "%", cpu.UnitText)
	assert.Equal(t, 22, cpu.FontSize)
	assert.Equal(t, "92.40%", cpu.Tooltip)

	ram := gauges[1].Spec
	assert.InDelta(t, 65.0, ram.Value, 1e-9)
	assert.Equal(t, ColorAmber, ram.Color, "65 is on the inclusive warning boundary")
	assert.Equal(t, "65.00% (1300.00MB)", ram.Tooltip)

	temp := gauges[2].Spec
	assert.Equal(t, ColorAmber, temp.Color)
	assert.Equal(t, 65.0, temp.Max)
	assert.Equal(t, "°C", temp.Unit)

	power := gauges[3].Spec
	assert.Equal(t, ColorGreen, power.Color)
	assert.Equal(t, "4", power.Text)
	assert.Equal(t, 15.0, power.Max)

	for _, g := range gauges {
		assert.NoError(t, g.Spec.Validate())
	}
}

func TestBuildGauges_CustomSettings(t *testing.T) {
	s := DefaultSettings()
	s.RAMCeilingMB = 4000
	s.CPU.Warning, s.CPU.Danger = 20, 30

	gauges := BuildGauges(api.CurrentMetrics{CPU: 25, RAM: 1000}, s, 100, 100)
	assert.Equal(t, ColorAmber, gauges[0].Spec.Color)
	assert.InDelta(t, 25.0, gauges[1].Spec.Value, 1e-9)
}

func TestBuildTrends(t *testing.T) {
	mc := api.MetricsComparison{
		Labels: []string{"11:50", "12:00"},
		Datasets: api.Datasets{
			CPU:         []float64{40, 42.5},
			RAM:         []float64{1000, 1333},
			Temperatura: []float64{54, 55},
			Potencia:    []float64{7, 7.25},
		},
	}

	trends := BuildTrends(mc, DefaultSettings())
	require.Len(t, trends, 4)

	wantIDs := chart.TrendSlots
	wantMax := []float64{100, 100, 70, 15}
	for i, tr := range trends {
		assert.Equal(t, wantIDs[i], tr.ID)
		assert.Equal(t, wantMax[i], tr.Spec.Max)
		assert.True(t, tr.Spec.Points)
		assert.NoError(t, tr.Spec.Validate())
	}

	ram := trends[1].Spec
	require.Len(t, ram.Values, 2)
	assert.InDelta(t, 50.0, ram.Values[0], 1e-9)
	assert.InDelta(t, 66.65, ram.Values[1], 1e-9)
	assert.Equal(t, []float64{1000, 1333}, ram.Original)
	assert.Equal(t, "12:00: 66.65% (1333.00MB)", PointTooltip(ram, 1))

	assert.Equal(t, "11:50: 40.00%", PointTooltip(trends[0].Spec, 0))
	assert.Empty(t, PointTooltip(trends[0].Spec, 5))
	assert.Nil(t, trends[0].Spec.Original)
}

func TestBuildTrends_RaggedLabels(t *testing.T) {
	mc := api.MetricsComparison{
		Labels:   []string{"a"},
		Datasets: api.Datasets{CPU: []float64{1, 2}},
	}
	trends := BuildTrends(mc, DefaultSettings())
	assert.Equal(t, []string{"a", ""}, trends[0].Spec.Labels)
	assert.NoError(t, trends[0].Spec.Validate())
	assert.Empty(t, trends[1].Spec.Labels)
}

func TestRecordsChart(t *testing.T) {
	spec := RecordsChart("items", api.ChartData{Labels: []string{"items"}, Values: []float64{120}})
	assert.Equal(t, "items records", spec.Title)
	assert.Equal(t, []float64{120}, spec.Values)
	assert.NoError(t, spec.Validate())
}
