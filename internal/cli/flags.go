package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/dbdash/internal/errors"
)

// PageFlags holds the paging flags of the query command.
type PageFlags struct {
	Page    int
	PerPage int
}

// AddPageFlags registers --page and --per-page on a command.
func AddPageFlags(cmd *cobra.Command, flags *PageFlags) {
	cmd.Flags().IntVarP(&flags.Page, "page", "p", 1, "page to fetch (1-based)")
	cmd.Flags().IntVar(&flags.PerPage, "per-page", 0, "rows per page (0 uses api.per_page or the backend default)")
}

// Validate checks the page is 1-based and the page size isn't negative.
func (f PageFlags) Validate() error {
	if f.Page < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--page %d is out of range", f.Page),
			"Pages start at 1.")
	}
	if f.PerPage < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--per-page %d is out of range", f.PerPage),
			"Use 0 for the default page size, or a positive number.")
	}
	return nil
}

// ParseTimeout parses a request timeout string into a duration.
// Returns zero duration if the flag is empty.
func ParseTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	if duration < 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' is a negative timeout", flag),
			"Use 0 to disable the timeout, or a positive duration.")
	}
	return duration, nil
}
