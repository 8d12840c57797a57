// Package copy copies text to the user's clipboard.
package copy

import (
	"io"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	tea "github.com/charmbracelet/bubbletea"
)

// CopyMsg is a message to indicate copied text.
type CopyMsg struct {
	Text    string
	Message string
	Err     error
}

// Copy writes text to the terminal clipboard through an OSC 52 sequence
// and to the system clipboard when one is available.
func Copy(out io.Writer, text string) error {
	var err error
	if out != nil {
		_, err = osc52.New(text).WriteTo(out)
	}
	if !clipboard.Unsupported {
		// Headless sessions have no system clipboard, OSC 52 still works.
		_ = clipboard.WriteAll(text)
	}
	return err
}

// CopyCmd copies text and reports it with msg.
func CopyCmd(out io.Writer, text, msg string) tea.Cmd {
	return func() tea.Msg {
		return CopyMsg{
			Text:    text,
			Message: msg,
			Err:     Copy(out, text),
		}
	}
}
