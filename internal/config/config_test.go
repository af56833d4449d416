package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/view"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "http://localhost:7050/api", cfg.API.BaseURL)
	assert.Zero(t, cfg.API.Timeout)
	assert.Zero(t, cfg.API.PerPage)
	assert.Equal(t, 2000.0, cfg.Dashboard.RAMCeilingMB)
	assert.Equal(t, Threshold{Max: 100, Warning: 70, Danger: 90}, cfg.Dashboard.Gauges.CPU)
	assert.Equal(t, Threshold{Max: 100, Warning: 65, Danger: 90}, cfg.Dashboard.Gauges.RAM)
	assert.Equal(t, Threshold{Max: 65, Warning: 50, Danger: 60}, cfg.Dashboard.Gauges.Temperature)
	assert.Equal(t, Threshold{Max: 15, Warning: 9, Danger: 13}, cfg.Dashboard.Gauges.Power)
	assert.Equal(t, TrendMax{CPU: 100, RAM: 100, Temperature: 70, Power: 15}, cfg.Dashboard.TrendMax)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.NoError(t, Validate(cfg))
}

func TestSettings_RoundTripsDefaults(t *testing.T) {
	assert.Equal(t, view.DefaultSettings(), DefaultConfig().Settings())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ConfigFileName, `
version: 1
api:
  base_url: http://metrics.local:8080/api/
  timeout: 5s
  per_page: 25
dashboard:
  ram_ceiling_mb: 4096
  gauges:
    cpu: {max: 100, warning: 50, danger: 80}
output:
  color: never
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://metrics.local:8080/api", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 25, cfg.API.PerPage)
	assert.Equal(t, 4096.0, cfg.Dashboard.RAMCeilingMB)
	assert.Equal(t, Threshold{Max: 100, Warning: 50, Danger: 80}, cfg.Dashboard.Gauges.CPU)
	assert.Equal(t, Threshold{Max: 15, Warning: 9, Danger: 13}, cfg.Dashboard.Gauges.Power, "unset keys keep defaults")
	assert.Equal(t, 70.0, cfg.Dashboard.TrendMax.Temperature)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ConfigFileName, "api:\n  base_url: http://file.local/api\n")
	t.Setenv("DBDASH_API_BASE_URL", "http://env.local/api")
	t.Setenv("DBDASH_DASHBOARD_RAM_CEILING_MB", "8000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.local/api", cfg.API.BaseURL)
	assert.Equal(t, 8000.0, cfg.Dashboard.RAMCeilingMB)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	bad := writeFile(t, dir, "bad.yaml", "api: [unclosed\n")
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	wrongType := writeFile(t, dir, "wrong.yaml", "api:\n  per_page: lots\n")
	_, err = Load(wrongType)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid config format")
}

func TestFind(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "custom.yaml", "version: 1\n")

		got, err := Find(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Specified config file not found")
	})

	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, ConfigFileName, "version: 1\n")
		chdir(t, dir)

		got, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, resolve(t, path), resolve(t, got))
	})

	t.Run("parent directory", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, ConfigFileName, "version: 1\n")
		nested := filepath.Join(dir, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		chdir(t, nested)

		got, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, resolve(t, path), resolve(t, got))
	})

	t.Run("stops at git root", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, ConfigFileName, "version: 1\n")
		repo := filepath.Join(dir, "repo")
		require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
		chdir(t, repo)
		t.Setenv("HOME", t.TempDir())

		got, err := Find("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("global config", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		global := writeFile(t, home, filepath.Join(GlobalConfigDir, GlobalConfigFile), "version: 1\n")

		work := filepath.Join(t.TempDir(), "work")
		require.NoError(t, os.MkdirAll(filepath.Join(work, ".git"), 0o755))
		chdir(t, work)

		got, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, global, got)
	})
}

func resolve(t *testing.T, p string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return r
}

func TestLoadOrDefault_NoFile(t *testing.T) {
	work := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(work, ".git"), 0o755))
	chdir(t, work)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DBDASH_API_PER_PAGE", "10")

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, 10, cfg.API.PerPage)
	assert.Equal(t, "http://localhost:7050/api", cfg.API.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "future version", mutate: func(c *Config) { c.Version = 99 }, wantErr: "from the future"},
		{name: "relative url", mutate: func(c *Config) { c.API.BaseURL = "/api" }, wantErr: "api.base_url"},
		{name: "ftp url", mutate: func(c *Config) { c.API.BaseURL = "ftp://host/api" }, wantErr: "api.base_url"},
		{name: "https url", mutate: func(c *Config) { c.API.BaseURL = "https://host/api" }},
		{name: "negative timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, wantErr: "api.timeout"},
		{name: "negative per_page", mutate: func(c *Config) { c.API.PerPage = -1 }, wantErr: "api.per_page"},
		{name: "zero ceiling", mutate: func(c *Config) { c.Dashboard.RAMCeilingMB = 0 }, wantErr: "ram_ceiling_mb"},
		{name: "zero gauge max", mutate: func(c *Config) { c.Dashboard.Gauges.Power.Max = 0 }, wantErr: "gauges.power.max"},
		{name: "negative warning", mutate: func(c *Config) { c.Dashboard.Gauges.CPU.Warning = -1 }, wantErr: "gauges.cpu.warning"},
		{name: "warning above danger", mutate: func(c *Config) { c.Dashboard.Gauges.RAM.Warning = 95 }, wantErr: "above danger"},
		{name: "warning equals danger", mutate: func(c *Config) { c.Dashboard.Gauges.RAM.Warning = 90 }},
		{name: "zero trend max", mutate: func(c *Config) { c.Dashboard.TrendMax.Temperature = 0 }, wantErr: "trend_max.temperature"},
		{name: "bad color", mutate: func(c *Config) { c.Output.Color = "rainbow" }, wantErr: "output.color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.API.Timeout = 3 * time.Second
	require.NoError(t, Write(path, cfg, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# dbdash configuration"))
	assert.Contains(t, string(data), "base_url: http://localhost:7050/api")
	assert.Contains(t, string(data), "ram_ceiling_mb: 2000")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	err = Write(path, cfg, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, Write(path, cfg, true))
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandTilde(""))
	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, "x.yaml"), ExpandTilde("~/x.yaml"))
	assert.Equal(t, "/abs/x.yaml", ExpandTilde("/abs/x.yaml"))
	assert.Equal(t, "~other/x", ExpandTilde("~other/x"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stands in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
