// Package chart tracks the chart instances bound to the dashboard's slots.
// Rendering lives in the tui package; this package owns lifecycle only.
package chart

import (
	"fmt"

	"github.com/rileyhilliard/dbdash/internal/errors"
)

// Slot ids. Each slot holds at most one live instance.
const (
	TableStatsChart  = "tableStatsChart"
	DataChart        = "dataChart"
	CPUGauge         = "cpuGauge"
	RAMGauge         = "ramGauge"
	TempGauge        = "tempGauge"
	PowerGauge       = "powerGauge"
	CPUMetricChart   = "cpuMetricChart"
	RAMMetricChart   = "ramMetricChart"
	TempMetricChart  = "tempMetricChart"
	PowerMetricChart = "powerMetricChart"
)

// GaugeSlots and TrendSlots group the slots of the two metric panels.
var (
	GaugeSlots = []string{CPUGauge, RAMGauge, TempGauge, PowerGauge}
	TrendSlots = []string{CPUMetricChart, RAMMetricChart, TempMetricChart, PowerMetricChart}
)

// Kind is the chart type of a Spec.
type Kind string

const (
	KindBar   Kind = "bar"
	KindLine  Kind = "line"
	KindGauge Kind = "gauge"
)

// Spec describes what an instance draws.
type Spec interface {
	Kind() Kind
	Validate() error
}

// BarSpec is a zero-based bar chart, one bar per label.
type BarSpec struct {
	Labels []string
	Values []float64
	Label  string
	Color  string
}

func (BarSpec) Kind() Kind { return KindBar }

func (s BarSpec) Validate() error {
	return sameLen("bar", len(s.Labels), len(s.Values))
}

// LineSpec is a zero-based line chart with optional fixed maximum.
type LineSpec struct {
	Title  string
	Labels []string
	Values []float64
	Color  string
	Unit   string
	// Max fixes the top of the y axis; zero means auto.
	Max    float64
	Points bool
	// Original holds the unconverted series shown in tooltips (RAM in MB).
	Original     []float64
	OriginalUnit string
}

func (LineSpec) Kind() Kind { return KindLine }

func (s LineSpec) Validate() error {
	if err := sameLen("line", len(s.Labels), len(s.Values)); err != nil {
		return err
	}
	if s.Original != nil {
		if err := sameLen("line original", len(s.Labels), len(s.Original)); err != nil {
			return err
		}
	}
	if s.Max < 0 {
		return errors.New(errors.ErrUI, fmt.Sprintf("line %q has negative max %g", s.Title, s.Max), "")
	}
	return nil
}

// GaugeSpec is a half-donut gauge with segments [Value, Max-Value].
type GaugeSpec struct {
	Label string
	Unit  string
	Value float64
	Max   float64
	// Color fills the value segment; TextColor draws the overlay.
	Color     string
	TextColor string

	// Text and UnitText form the centered overlay; FontSize and UnitSize size it.
	Text     string
	UnitText string
	FontSize int
	UnitSize int
	Tooltip  string
}

func (GaugeSpec) Kind() Kind { return KindGauge }

func (s GaugeSpec) Validate() error {
	if s.Max <= 0 {
		return errors.New(errors.ErrUI, fmt.Sprintf("gauge %q needs a positive max, got %g", s.Label, s.Max), "")
	}
	return nil
}

// Segments returns the filled and remaining parts of the gauge. The value is
// clamped into [0, Max] so out-of-range samples still draw.
func (s GaugeSpec) Segments() (filled, rest float64) {
	v := s.Value
	if v < 0 {
		v = 0
	}
	if v > s.Max {
		v = s.Max
	}
	return v, s.Max - v
}

func sameLen(what string, labels, values int) error {
	if labels != values {
		return errors.New(errors.ErrUI,
			fmt.Sprintf("%s chart has %d labels but %d values", what, labels, values), "")
	}
	return nil
}
