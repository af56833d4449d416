package cli

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/rileyhilliard/dbdash/internal/api"
	"github.com/rileyhilliard/dbdash/internal/config"
	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
	"github.com/rileyhilliard/dbdash/internal/ui"
	"github.com/rileyhilliard/dbdash/internal/view"
)

// isTerminal is swapped out by tests.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// pickDatabase is swapped out by tests.
var pickDatabase = ui.PickDatabase

// defaultWidth is used when stdout isn't a terminal.
const defaultWidth = 80

// session is the resolved config plus a client for one command.
type session struct {
	cfg    *config.Config
	path   string
	client *api.Client
	log    logger.Logger
}

// loadConfig resolves the config file, applies flag overrides and validates
// the result. path is "" when only defaults and the environment apply.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}

	if apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	}
	if timeoutFlag != "" {
		d, err := ParseTimeout(timeoutFlag)
		if err != nil {
			return nil, "", err
		}
		cfg.API.Timeout = d
	}

	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	applyColor(cfg.Output.Color)
	return cfg, path, nil
}

// applyColor honors output.color. --no-color always wins.
func applyColor(mode string) {
	switch {
	case noColor || mode == "never":
		ui.DisableColors()
	case mode == "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// newSession loads config and builds a client. A positive perPage overrides
// api.per_page.
func newSession(perPage int) (*session, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if perPage > 0 {
		cfg.API.PerPage = perPage
	}

	log := logger.NewEnvLogger("[dbdash]")
	if path != "" {
		log.Debug("using config %s", path)
	}
	return &session{
		cfg:  cfg,
		path: path,
		client: api.New(api.Options{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
			PerPage: cfg.API.PerPage,
			Logger:  logger.NewEnvLogger("[api]"),
		}),
		log: log,
	}, nil
}

// splitDatabase separates the optional leading database argument from the
// rest positional arguments. Without it, the database is picked
// interactively when stdin is a terminal.
func (s *session) splitDatabase(ctx context.Context, args []string, rest int) (string, []string, error) {
	if len(args) > rest {
		return args[0], args[1:], nil
	}
	if machineMode || !isTerminal(os.Stdin.Fd()) {
		return "", nil, errors.New(errors.ErrState,
			"Database name required",
			"Pass it as the first argument, e.g. 'dbdash tables monitor'. Run 'dbdash databases' to list them.")
	}

	dbs, err := fetch("Loading databases", func() ([]api.Database, error) {
		return s.client.Databases(ctx)
	})
	if err != nil {
		return "", nil, err
	}
	name, err := pickDatabase(view.DatabaseOptions(dbs))
	if err != nil {
		return "", nil, err
	}
	return name, args, nil
}

// fetch runs fn with a spinner on stderr when stderr is a terminal.
func fetch[T any](label string, fn func() (T, error)) (T, error) {
	if machineMode || !isTerminal(os.Stderr.Fd()) {
		return fn()
	}
	sp := ui.NewSpinner(label, os.Stderr)
	sp.Start()
	v, err := fn()
	if err != nil {
		sp.Fail()
	} else {
		sp.Success()
	}
	return v, err
}

// outputWidth is the terminal width, or defaultWidth when piped.
func outputWidth() int {
	fd := os.Stdout.Fd()
	if !isTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(fd))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// unavailable turns a domain "no data" answer into a user-facing error.
func unavailable(err error, what, db string) error {
	if !api.IsUnavailable(err) {
		return err
	}
	return errors.WrapWithCode(err, errors.ErrFetch,
		what+" aren't available for "+db,
		"Only databases with a sistema_info_media table report hardware metrics.")
}
