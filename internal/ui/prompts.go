package ui

import (
	"github.com/charmbracelet/huh"

	"github.com/calderanet/caldera-cli/internal/templates"
)

// Confirm displays a yes/no confirmation prompt and returns the user's choice.
func Confirm(title, description string) (bool, error) {
	var result bool
	confirm := huh.NewConfirm().
		Title(title).
		Value(&result)

	if description != "" {
		confirm = confirm.Description(description)
	}

	form := huh.NewForm(
		huh.NewGroup(confirm),
	).WithTheme(CalderaTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return result, nil
}

// Input displays a single text input prompt and returns the entered value.
func Input(title, placeholder string) (string, error) {
	var result string
	input := huh.NewInput().
		Title(title).
		Value(&result)

	if placeholder != "" {
		input = input.Placeholder(placeholder)
	}

	form := huh.NewForm(
		huh.NewGroup(input),
	).WithTheme(CalderaTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return result, nil
}

// SelectTemplate prompts the user to pick one template from the catalog.
func SelectTemplate(title string, catalog []templates.Template) (templates.Template, error) {
	options := make([]huh.Option[int], 0, len(catalog))
	for i, t := range catalog {
		options = append(options, huh.NewOption(t.String(), i))
	}

	var chosen int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(options...).
				Value(&chosen),
		),
	).WithTheme(CalderaTheme())

	if err := form.Run(); err != nil {
		return templates.Template{}, err
	}

	return catalog[chosen], nil
}
