package view

// Metric bounds one hardware metric: gauge range, thresholds and trend axis.
type Metric struct {
	Max      float64
	Warning  float64
	Danger   float64
	TrendMax float64
}

// Settings carries the configurable parts of the metric panels.
type Settings struct {
	RAMCeilingMB float64
	CPU          Metric
	RAM          Metric
	Temperature  Metric
	Power        Metric
}

// DefaultRAMCeilingMB is the RAM that maps to 100%.
const DefaultRAMCeilingMB = 2000

// DefaultSettings matches the reference dashboard.
func DefaultSettings() Settings {
	return Settings{
		RAMCeilingMB: DefaultRAMCeilingMB,
		CPU:          Metric{Max: 100, Warning: 70, Danger: 90, TrendMax: 100},
		RAM:          Metric{Max: 100, Warning: 65, Danger: 90, TrendMax: 100},
		Temperature:  Metric{Max: 65, Warning: 50, Danger: 60, TrendMax: 70},
		Power:        Metric{Max: 15, Warning: 9, Danger: 13, TrendMax: 15},
	}
}
