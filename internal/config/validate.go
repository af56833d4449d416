package config

import (
	"fmt"
	"net/url"

	"github.com/rileyhilliard/dbdash/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but dbdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest dbdash release")
	}

	if err := validateAPI(cfg.API); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'api' section in your .dbdash.yaml.")
	}

	if err := validateDashboard(cfg.Dashboard); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'dashboard' section in your .dbdash.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .dbdash.yaml.")
	}

	return nil
}

// validateAPI checks the backend connection settings.
func validateAPI(a APIConfig) error {
	u, err := url.Parse(a.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api.base_url '%s' needs to be an absolute http(s) URL, like http://localhost:7050/api", a.BaseURL)
	}
	if a.Timeout < 0 {
		return fmt.Errorf("api.timeout can't be negative - use 0s for no timeout")
	}
	if a.PerPage < 0 {
		return fmt.Errorf("api.per_page can't be negative - use 0 for the backend default")
	}
	return nil
}

// validateDashboard checks the gauge thresholds and chart bounds.
func validateDashboard(d DashboardConfig) error {
	if d.RAMCeilingMB <= 0 {
		return fmt.Errorf("dashboard.ram_ceiling_mb must be positive, got %g", d.RAMCeilingMB)
	}

	gauges := []struct {
		name string
		t    Threshold
	}{
		{"cpu", d.Gauges.CPU},
		{"ram", d.Gauges.RAM},
		{"temperature", d.Gauges.Temperature},
		{"power", d.Gauges.Power},
	}
	for _, g := range gauges {
		if err := validateThreshold(g.name, g.t); err != nil {
			return err
		}
	}

	trends := []struct {
		name string
		max  float64
	}{
		{"cpu", d.TrendMax.CPU},
		{"ram", d.TrendMax.RAM},
		{"temperature", d.TrendMax.Temperature},
		{"power", d.TrendMax.Power},
	}
	for _, tr := range trends {
		if tr.max <= 0 {
			return fmt.Errorf("dashboard.trend_max.%s must be positive, got %g", tr.name, tr.max)
		}
	}
	return nil
}

func validateThreshold(name string, t Threshold) error {
	if t.Max <= 0 {
		return fmt.Errorf("dashboard.gauges.%s.max must be positive, got %g", name, t.Max)
	}
	if t.Warning < 0 {
		return fmt.Errorf("dashboard.gauges.%s.warning can't be negative", name)
	}
	if t.Warning > t.Danger {
		return fmt.Errorf("dashboard.gauges.%s.warning (%g) can't be above danger (%g)", name, t.Warning, t.Danger)
	}
	return nil
}

func validateOutput(out OutputConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[out.Color] {
		return fmt.Errorf("output.color '%s' isn't valid - use 'auto', 'always', or 'never'", out.Color)
	}
	return nil
}
