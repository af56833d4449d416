package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/dbdash/internal/errors"
)

// Per-command flags
var (
	queryFlags   PageFlags
	gaugesArcs   bool
	trendCompact bool
)

var databasesCmd = &cobra.Command{
	Use:     "databases",
	Aliases: []string{"dbs"},
	Short:   "List the backend's databases",
	Long: `List every database the backend knows about. Databases whose file is
missing are marked with ✗ and can't be opened.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return databasesCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables [db]",
	Short: "List the tables of a database",
	Long: `List the tables of a database.

Examples:
  dbdash tables monitor
  dbdash tables            # pick the database interactively`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDatabase,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tablesCommand(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query [db] <table>",
	Short: "Print one page of a table",
	Long: `Print one page of a table's rows. NULL values are shown as NULL.

Examples:
  dbdash query monitor eventos
  dbdash query monitor eventos --page 3 --per-page 20`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeDatabase,
	RunE: func(cmd *cobra.Command, args []string) error {
		return queryCommand(cmd.Context(), cmd.OutOrStdout(), args, queryFlags)
	},
}

var infoCmd = &cobra.Command{
	Use:               "info [db] <table>",
	Short:             "Show a table's columns and row count",
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeDatabase,
	RunE: func(cmd *cobra.Command, args []string) error {
		return infoCommand(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [db]",
	Short: "Summarize a database",
	Long: `Show the table count, the total number of rows and per-table row and
column counts, followed by a row-count bar chart.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDatabase,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statsCommand(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

var gaugesCmd = &cobra.Command{
	Use:   "gauges [db]",
	Short: "Show the current hardware metrics",
	Long: `Show the latest CPU, RAM, temperature and power sample as gauges. RAM is
a percentage of dashboard.ram_ceiling_mb. Colors follow the thresholds in
dashboard.gauges.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDatabase,
	RunE: func(cmd *cobra.Command, args []string) error {
		return gaugesCommand(cmd.Context(), cmd.OutOrStdout(), args, gaugesArcs)
	},
}

var trendCmd = &cobra.Command{
	Use:               "trend [db]",
	Short:             "Show the recent history of the hardware metrics",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDatabase,
	RunE: func(cmd *cobra.Command, args []string) error {
		return trendCommand(cmd.Context(), cmd.OutOrStdout(), args, trendCompact)
	},
}

var chartCmd = &cobra.Command{
	Use:               "chart [db] <table>",
	Short:             "Show the record trend of a table",
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeDatabase,
	RunE: func(cmd *cobra.Command, args []string) error {
		return chartCommand(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for dbdash.

Examples:
  # Bash
  dbdash completion bash > /etc/bash_completion.d/dbdash

  # Zsh
  dbdash completion zsh > "${fpath[1]}/_dbdash"

  # Fish
  dbdash completion fish > ~/.config/fish/completions/dbdash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

// completeDatabase offers the openable databases for the first argument.
func completeDatabase(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s, err := newSession(0)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	dbs, err := s.client.Databases(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, db := range dbs {
		if db.Exists {
			names = append(names, db.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	AddPageFlags(queryCmd, &queryFlags)
	gaugesCmd.Flags().BoolVar(&gaugesArcs, "arcs", false, "draw half-donut gauges instead of bars")
	trendCmd.Flags().BoolVar(&trendCompact, "compact", false, "one sparkline per metric instead of charts")

	rootCmd.AddCommand(databasesCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(gaugesCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(completionCmd)
}
