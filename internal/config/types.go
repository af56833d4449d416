package config

import (
	"time"

	"github.com/rileyhilliard/dbdash/internal/view"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete dbdash configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// APIConfig controls how the backend is reached.
type APIConfig struct {
	// BaseURL is the API root, e.g. http://localhost:7050/api.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each request. Zero disables the timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// PerPage is sent as per_page on table queries. Zero uses the backend default.
	PerPage int `yaml:"per_page" mapstructure:"per_page"`
}

// Threshold bounds one gauge.
type Threshold struct {
	Max     float64 `yaml:"max" mapstructure:"max"`
	Warning float64 `yaml:"warning" mapstructure:"warning"`
	Danger  float64 `yaml:"danger" mapstructure:"danger"`
}

// Gauges holds the per-metric gauge thresholds.
type Gauges struct {
	CPU         Threshold `yaml:"cpu" mapstructure:"cpu"`
	RAM         Threshold `yaml:"ram" mapstructure:"ram"`
	Temperature Threshold `yaml:"temperature" mapstructure:"temperature"`
	Power       Threshold `yaml:"power" mapstructure:"power"`
}

// TrendMax fixes the y axis top of each metric trend chart.
type TrendMax struct {
	CPU         float64 `yaml:"cpu" mapstructure:"cpu"`
	RAM         float64 `yaml:"ram" mapstructure:"ram"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	Power       float64 `yaml:"power" mapstructure:"power"`
}

// DashboardConfig controls the metric panels.
type DashboardConfig struct {
	// RAMCeilingMB is the memory that maps to 100% on the RAM gauge and trend.
	RAMCeilingMB float64  `yaml:"ram_ceiling_mb" mapstructure:"ram_ceiling_mb"`
	Gauges       Gauges   `yaml:"gauges" mapstructure:"gauges"`
	TrendMax     TrendMax `yaml:"trend_max" mapstructure:"trend_max"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	s := view.DefaultSettings()
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: "http://localhost:7050/api",
		},
		Dashboard: DashboardConfig{
			RAMCeilingMB: s.RAMCeilingMB,
			Gauges: Gauges{
				CPU:         threshold(s.CPU),
				RAM:         threshold(s.RAM),
				Temperature: threshold(s.Temperature),
				Power:       threshold(s.Power),
			},
			TrendMax: TrendMax{
				CPU:         s.CPU.TrendMax,
				RAM:         s.RAM.TrendMax,
				Temperature: s.Temperature.TrendMax,
				Power:       s.Power.TrendMax,
			},
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

func threshold(m view.Metric) Threshold {
	return Threshold{Max: m.Max, Warning: m.Warning, Danger: m.Danger}
}

func metric(t Threshold, trendMax float64) view.Metric {
	return view.Metric{Max: t.Max, Warning: t.Warning, Danger: t.Danger, TrendMax: trendMax}
}

// Settings converts the dashboard section into view settings.
func (c *Config) Settings() view.Settings {
	d := c.Dashboard
	return view.Settings{
		RAMCeilingMB: d.RAMCeilingMB,
		CPU:          metric(d.Gauges.CPU, d.TrendMax.CPU),
		RAM:          metric(d.Gauges.RAM, d.TrendMax.RAM),
		Temperature:  metric(d.Gauges.Temperature, d.TrendMax.Temperature),
		Power:        metric(d.Gauges.Power, d.TrendMax.Power),
	}
}
