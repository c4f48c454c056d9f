// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection gates actions on the number of selected papers.
package selection

import (
	"fmt"

	"github.com/pdiddy/paperwiz/pkg/types"
)

// Rejection is returned when a selection is too small for an action. Message
// is shown to the user verbatim.
type Rejection struct {
	Minimum int
	Got     int
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// Unwrap makes errors.Is(err, types.ErrSelectionInvalid) hold.
func (r *Rejection) Unwrap() error { return types.ErrSelectionInvalid }

// Validate returns nil when selected holds at least minimum titles. An empty
// selection is always rejected.
func Validate(selected []string, minimum int) error {
	if minimum < 1 {
		minimum = 1
	}
	if len(selected) >= minimum {
		return nil
	}
	return &Rejection{
		Minimum: minimum,
		Got:     len(selected),
		Message: fmt.Sprintf("Please select at least %d paper(s).", minimum),
	}
}

// MinimumFor returns the selection size an action on view requires.
func MinimumFor(view types.ViewKind) int {
	if view == types.ViewCompare {
		return 2
	}
	return 1
}

// ValidateFor is Validate with the minimum taken from view.
func ValidateFor(view types.ViewKind, selected []string) error {
	return Validate(selected, MinimumFor(view))
}
