package tui

import (
	"context"
	stderrors "errors"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/dbdash/internal/config"
	"github.com/rileyhilliard/dbdash/internal/dashboard"
	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
)

// LogFileEnv names a file that receives log output while the TUI runs.
const LogFileEnv = "DBDASH_LOG_FILE"

// Options configures Run.
type Options struct {
	Backend dashboard.Backend
	Config  *config.Config
	Logger  logger.Logger

	// ConfigPath is watched for changes when set.
	ConfigPath string

	// Database is selected once the database list loads.
	Database string
}

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	restore, err := redirectLog()
	if err != nil {
		return err
	}
	defer restore()

	lg := opts.Logger
	if lg == nil {
		lg = logger.NewEnvLogger("[tui]")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	alerts := NewAlertQueue()
	ctrl := dashboard.New(dashboard.Options{
		Backend:  opts.Backend,
		Notifier: alerts,
		Settings: cfg.Settings(),
		Logger:   lg,
	})

	model := NewModel(ctx, ctrl, alerts, opts.Database, lg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.ConfigPath != "" {
		w, err := config.Watch(opts.ConfigPath,
			func(c *config.Config) { p.Send(settingsMsg{settings: c.Settings()}) },
			func(err error) { lg.Warn("config reload: %s", errors.Summary(err)) },
			lg)
		if err != nil {
			lg.Warn("not watching %s: %s", opts.ConfigPath, errors.Summary(err))
		} else {
			defer w.Close()
		}
	}

	_, err = p.Run()
	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrUI, "Dashboard stopped unexpectedly", "")
	}
	return nil
}

// redirectLog sends the standard logger to LogFileEnv, or discards it, so
// log lines never land on the alternate screen.
func redirectLog() (func(), error) {
	prev := log.Writer()
	if path := os.Getenv(LogFileEnv); path != "" {
		f, err := tea.LogToFile(path, "dbdash")
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open log file "+path, "Unset "+LogFileEnv+" or point it at a writable file")
		}
		return func() {
			f.Close()
			log.SetOutput(prev)
		}, nil
	}
	log.SetOutput(io.Discard)
	return func() { log.SetOutput(prev) }, nil
}
