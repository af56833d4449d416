// Package cli implements the dbdash command-line interface.
//
// The package is organized around Cobra commands. Running "dbdash" with no
// subcommand starts the interactive dashboard; every other command fetches
// one view from the backend and prints it.
//
// # Command Structure
//
//	dbdash                      - Interactive dashboard (TUI)
//	dbdash databases            - List databases
//	dbdash tables [db]          - List tables
//	dbdash query [db] <table>   - Print one page of a table
//	dbdash info [db] <table>    - Column schema and row count
//	dbdash stats [db]           - Dashboard summary
//	dbdash gauges [db]          - Current hardware metrics
//	dbdash trend [db]           - Metrics comparison series
//	dbdash chart [db] <table>   - Record trend of one table
//	dbdash config [init|show]   - Manage the config file
//
// # Database Argument
//
// Commands that take an optional database prompt for one with a huh select
// when it is omitted and stdin is a terminal. Otherwise the name is required.
//
// # Flag Handling
//
// Global flags (--config, --api, --verbose, --no-color, --json) are defined on
// the root command and available to all subcommands. With --json every
// command writes a JSONEnvelope instead of styled text, errors included.
package cli
