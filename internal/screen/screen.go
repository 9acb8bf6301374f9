package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/grecsai/grecs/internal/ui/layout"
)

// Screen is one page of the study app: the menu, an ask form, the
// history list or an answer.
type Screen interface {
	Init() tea.Cmd

	// Update handles messages and returns the updated screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between the header and the footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the footer's default key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Busy is implemented by screens waiting on a generation request. Back
// navigation is held while Busy reports true so the answer is not lost.
type Busy interface {
	Busy() bool
}
