package ui

import (
	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/view"
)

// DatabaseChoices returns the selectable databases as huh options. Missing
// databases are left out since they cannot be opened.
func DatabaseChoices(opts []view.DatabaseOption) []huh.Option[string] {
	choices := make([]huh.Option[string], 0, len(opts))
	for _, o := range opts {
		if o.Disabled {
			continue
		}
		choices = append(choices, huh.NewOption(o.Label, o.Name))
	}
	return choices
}

// PickDatabase asks the user to choose a database.
func PickDatabase(opts []view.DatabaseOption) (string, error) {
	choices := DatabaseChoices(opts)
	if len(choices) == 0 {
		return "", errors.New(errors.ErrState,
			"No databases available",
			"Check the backend's database registry: every entry is marked missing")
	}

	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select database").
				Options(choices...).
				Value(&name),
		),
	)
	if err := form.Run(); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrUI,
			"Couldn't get your selection",
			"Try again or pass the database name as an argument")
	}
	return name, nil
}
