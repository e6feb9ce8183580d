// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a rich prompt.
var ErrAborted = errors.New("prompt aborted")

// Rich shows huh forms on the terminal.
type Rich struct {
	theme      *huh.Theme
	accessible bool
}

// NewRich creates a rich prompter. Accessible mode replaces the full screen
// forms with plain questions.
func NewRich(accessible bool) *Rich {
	return &Rich{theme: huh.ThemeCharm(), accessible: accessible}
}

// MultiSelect lets the user pick any number of options. The result keeps the
// order of options.
func (r *Rich) MultiSelect(title string, options []string) ([]string, error) {
	var selected []string
	sel := huh.NewMultiSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&selected)

	if err := r.run(huh.NewGroup(sel)); err != nil {
		return nil, err
	}
	return selected, nil
}

// Confirm asks a yes/no question that defaults to no.
func (r *Rich) Confirm(title string) (bool, error) {
	var ok bool
	c := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)

	if err := r.run(huh.NewGroup(c)); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *Rich) run(group *huh.Group) error {
	err := huh.NewForm(group).
		WithTheme(r.theme).
		WithAccessible(r.accessible).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
