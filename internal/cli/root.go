package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
	"github.com/rileyhilliard/dbdash/internal/tui"
	"github.com/rileyhilliard/dbdash/internal/ui"
)

// Global flags
var (
	cfgFile     string
	apiURL      string
	timeoutFlag string
	verbose     bool
	noColor     bool
	databaseArg string
)

var rootCmd = &cobra.Command{
	Use:   "dbdash",
	Short: "Terminal dashboard for a database metrics backend",
	Long: `dbdash browses the databases served by a metrics backend: tables, paged
rows, row-count charts and live hardware gauges.

Run without a subcommand to open the interactive dashboard.

Examples:
  dbdash                          # open the dashboard
  dbdash -d monitor               # open it with a database selected
  dbdash tables monitor           # list tables
  dbdash query monitor eventos    # print the first page of a table
  dbdash gauges monitor --json    # current metrics as JSON`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		if noColor {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context(), databaseArg)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .dbdash.yaml, then ~/.config/dbdash/config.yaml)")
	pf.StringVar(&apiURL, "api", "", "backend API root, overrides api.base_url")
	pf.StringVar(&timeoutFlag, "timeout", "", "per-request timeout, overrides api.timeout (e.g. 5s)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&machineMode, "json", false, "machine-readable JSON output")

	rootCmd.Flags().StringVarP(&databaseArg, "database", "d", "", "database to open the dashboard on")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := interrupted(ctx, rootCmd.ExecuteContext(ctx))
	stop()
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stdout, os.Stderr, err))
}

// exitInterrupted is the shell convention for a run ended by SIGINT.
const exitInterrupted = 130

// interrupted replaces the outcome of a run cut short by a signal with a
// silent exit code. ctx must be checked before its stop func is called.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		return err
	}
	return errors.NewExitError(exitInterrupted)
}

// reportError prints err the way the current output mode expects and
// returns the process exit code.
func reportError(stdout, stderr io.Writer, err error) int {
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	if machineMode {
		_ = WriteJSONFromError(stdout, err)
		return 1
	}

	if isUnknownCommandError(err) {
		msg := err.Error()
		if name := extractUnknownCommand(err); name != "" {
			msg = fmt.Sprintf("'%s' isn't a dbdash command", name)
		}
		err = errors.New(errors.ErrConfig, msg, "Run 'dbdash --help' to see what's available.")
	}
	fmt.Fprint(stderr, ensureNewline(err.Error()))
	return 1
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of
// `unknown command "foo" for "dbdash"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.IndexByte(msg, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '"')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// dashboardCommand starts the interactive dashboard.
func dashboardCommand(ctx context.Context, database string) error {
	if machineMode {
		return errors.New(errors.ErrUI,
			"The dashboard doesn't support --json",
			"Use a subcommand such as 'dbdash stats <db> --json' for machine output.")
	}
	if !isTerminal(os.Stdout.Fd()) {
		return errors.New(errors.ErrUI,
			"The dashboard needs an interactive terminal",
			"Run dbdash in a terminal, or use a subcommand such as 'dbdash stats' when piping output.")
	}

	s, err := newSession(0)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Backend:    s.client,
		Config:     s.cfg,
		Logger:     logger.NewEnvLogger("[tui]"),
		ConfigPath: s.path,
		Database:   database,
	})
}
