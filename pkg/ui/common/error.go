package common

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoTeam is shown when a page needs a team and there is none.
var ErrNoTeam = errors.New("no team")

// ErrorMsg is a Bubble Tea message that represents an error.
type ErrorMsg error

// ErrorCmd returns an ErrorMsg from error.
func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg(err)
	}
}
