package view

import (
	"fmt"
	"math"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/chart"
)

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RAMPercent converts MB into a percentage of ceiling, rounded to 2 decimals.
func RAMPercent(mb, ceiling float64) float64 {
	if ceiling <= 0 {
		ceiling = DefaultRAMCeilingMB
	}
	return Round2(mb / ceiling * 100)
}

// FontSizes sizes the gauge overlay for a w x h pixel box.
func FontSizes(w, h int) (font, unit int) {
	font = int(math.Floor(float64(min(w, h)) * 0.22))
	font = max(12, font)
	unit = max(10, int(math.Floor(float64(font)*0.6)))
	return font, unit
}

// Tooltip formats value with two decimals. A non-nil original is appended
// in parentheses.
func Tooltip(value float64, unit string, original *float64, originalUnit string) string {
	s := fmt.Sprintf("%.2f%s", value, unit)
	if original != nil {
		s += fmt.Sprintf(" (%.2f%s)", *original, originalUnit)
	}
	return s
}

type metricDef struct {
	gaugeID string
	trendID string
	label   string
	unit    string
	color   string
	pick    func(Settings) Metric
}

var metricDefs = []metricDef{
	{chart.CPUGauge, chart.CPUMetricChart, "CPU", "%", ColorBlue, func(s Settings) Metric { return s.CPU }},
	{chart.RAMGauge, chart.RAMMetricChart, "RAM", "%", ColorGreen, func(s Settings) Metric { return s.RAM }},
	{chart.TempGauge, chart.TempMetricChart, "Temperature", "°C", ColorAmber, func(s Settings) Metric { return s.Temperature }},
	{chart.PowerGauge, chart.PowerMetricChart, "Power", "W", ColorRed, func(s Settings) Metric { return s.Power }},
}

// GaugeSlot pairs a gauge slot id with its spec.
type GaugeSlot struct {
	ID   string
	Spec chart.GaugeSpec
}

// TrendSlot pairs a trend chart slot id with its spec.
type TrendSlot struct {
	ID   string
	Spec chart.LineSpec
}

// BuildGauge builds one gauge for a w x h pixel box.
func BuildGauge(label, unit, textColor string, value float64, m Metric, w, h int, original *float64, originalUnit string) chart.GaugeSpec {
	font, unitSize := FontSizes(w, h)
	return chart.GaugeSpec{
		Label:     label,
		Unit:      unit,
		Value:     value,
		Max:       m.Max,
		Color:     GaugeColor(value, m.Warning, m.Danger),
		TextColor: textColor,
		Text:      fmt.Sprintf("%d", int64(math.Round(value))),
		UnitText:  unit,
		FontSize:  font,
		UnitSize:  unitSize,
		Tooltip:   Tooltip(value, unit, original, originalUnit),
	}
}

// BuildGauges returns the CPU, RAM, temperature and power gauges in that order.
// RAM is shown as a percentage of the configured ceiling.
func BuildGauges(m api.CurrentMetrics, s Settings, w, h int) []GaugeSlot {
	values := []float64{m.CPU, RAMPercent(m.RAM, s.RAMCeilingMB), m.Temperatura, m.Potencia}
	out := make([]GaugeSlot, 0, len(metricDefs))
	for i, d := range metricDefs {
		var original *float64
		originalUnit := ""
		if d.gaugeID == chart.RAMGauge {
			mb := m.RAM
			original, originalUnit = &mb, "MB"
		}
		out = append(out, GaugeSlot{
			ID:   d.gaugeID,
			Spec: BuildGauge(d.label, d.unit, d.color, values[i], d.pick(s), w, h, original, originalUnit),
		})
	}
	return out
}

// BuildTrends returns one line chart per metric. The RAM series is converted
// to percent and keeps the MB values for tooltips.
func BuildTrends(mc api.MetricsComparison, s Settings) []TrendSlot {
	ram := make([]float64, len(mc.Datasets.RAM))
	for i, v := range mc.Datasets.RAM {
		ram[i] = RAMPercent(v, s.RAMCeilingMB)
	}
	series := [][]float64{mc.Datasets.CPU, ram, mc.Datasets.Temperatura, mc.Datasets.Potencia}

	out := make([]TrendSlot, 0, len(metricDefs))
	for i, d := range metricDefs {
		spec := chart.LineSpec{
			Title:  d.label,
			Labels: alignLabels(mc.Labels, len(series[i])),
			Values: append([]float64(nil), series[i]...),
			Color:  d.color,
			Unit:   d.unit,
			Max:    d.pick(s).TrendMax,
			Points: true,
		}
		if d.trendID == chart.RAMMetricChart {
			spec.Original = append([]float64(nil), mc.Datasets.RAM...)
			spec.OriginalUnit = "MB"
		}
		out = append(out, TrendSlot{ID: d.trendID, Spec: spec})
	}
	return out
}

// PointTooltip formats the tooltip of point i of a line chart.
func PointTooltip(spec chart.LineSpec, i int) string {
	if i < 0 || i >= len(spec.Values) {
		return ""
	}
	var original *float64
	if i < len(spec.Original) {
		original = &spec.Original[i]
	}
	label := ""
	if i < len(spec.Labels) {
		label = spec.Labels[i] + ": "
	}
	return label + Tooltip(spec.Values[i], spec.Unit, original, spec.OriginalUnit)
}

// alignLabels pads or trims labels to n entries so a ragged payload still
// validates as a chart.
func alignLabels(labels []string, n int) []string {
	out := make([]string, n)
	copy(out, labels)
	return out
}
