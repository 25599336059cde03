// Package screen defines the contract between the router and the screens
// of the terminal UI.
package screen

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/profiler/internal/apperr"
	"github.com/abhisek/profiler/internal/ui/layout"
)

// Screen is one full-page view of the terminal UI.
type Screen interface {
	// Init returns the command to run when the screen becomes active.
	Init() tea.Cmd

	// Update handles a message and returns the screen to keep.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content between header and footer.
	View(width, height int) string

	// Title names the screen in the header. Empty hides the chrome.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen put short context, such as the registered
// email or quiz progress, on the right side of the header.
type StatusProvider interface {
	Status() string
}

// ErrorMessage returns the text to show the respondent for err: the
// message of a coded error, or a generic line for anything else.
func ErrorMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" {
		if e.Code == apperr.CodePersistenceFailure {
			return "Could not " + e.Message + ". Please try again."
		}
		return e.Message
	}
	return "Something went wrong. Please try again."
}
