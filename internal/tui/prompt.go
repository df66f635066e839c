// Package tui holds the interactive prompts used for disambiguation.
// Every prompt is bypassable through the --yes flag at the call site; the
// helpers here assume the caller already decided interaction is wanted.
package tui

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/hoardpkg/hoard/util/common/errors"
)

// IsInteractive reports whether stdin is attached to a terminal. Prompts in
// non-interactive contexts are a caller error and surface as ErrAmbiguous.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// SelectOption shows a selection prompt and returns the index of the chosen
// option.
func SelectOption(title string, options []string) (int, error) {
	var value int

	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(opts...).
				Value(&value),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0, errors.ErrUserAborted
		}
		return 0, err
	}

	return value, nil
}

// Confirm shows a yes/no prompt. Returns true only on explicit confirmation.
func Confirm(title, description string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, errors.ErrUserAborted
		}
		return false, err
	}

	return confirmed, nil
}

// PromptInput shows a text input prompt and returns the value.
func PromptInput(title, placeholder string) (string, error) {
	var value string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(&value),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errors.ErrUserAborted
		}
		return "", err
	}

	return value, nil
}
