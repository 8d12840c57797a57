// Package toast shows transient notifications.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/upac/pokerbots/pkg/ui/common"
)

// DefaultTimeout is how long a toast stays up.
const DefaultTimeout = 4 * time.Second

// Level is the severity of a toast.
type Level int

// Toast levels.
const (
	Info Level = iota
	Success
	Error
)

// Notification is a message on display.
type Notification struct {
	Level   Level
	Message string
}

// ShowMsg shows a notification.
type ShowMsg Notification

type expireMsg struct {
	id int
}

// ShowCmd returns a command that shows a notification.
func ShowCmd(level Level, message string) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Level: level, Message: message}
	}
}

// Toast displays the latest notification until it expires.
type Toast struct {
	common  common.Common
	current *Notification
	id      int
	Timeout time.Duration
}

// New returns a new Toast.
func New(c common.Common) *Toast {
	return &Toast{
		common:  c,
		Timeout: DefaultTimeout,
	}
}

// SetSize implements common.Component.
func (t *Toast) SetSize(width, height int) {
	t.common.SetSize(width, height)
}

// Current returns the notification on display, if any.
func (t *Toast) Current() *Notification {
	return t.current
}

// Init implements tea.Model.
func (t *Toast) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (t *Toast) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowMsg:
		if msg.Message == "" {
			return t, nil
		}
		n := Notification(msg)
		t.current = &n
		t.id++
		id := t.id
		return t, tea.Tick(t.Timeout, func(time.Time) tea.Msg {
			return expireMsg{id}
		})
	case expireMsg:
		// Only the latest toast expires its own timer.
		if msg.id == t.id {
			t.current = nil
		}
	}
	return t, nil
}

// View implements tea.Model.
func (t *Toast) View() string {
	if t.current == nil {
		return ""
	}
	st := t.common.Styles
	style := st.ToastInfo
	switch t.current.Level {
	case Success:
		style = st.ToastSuccess
	case Error:
		style = st.ToastError
	}
	return style.Render(common.TruncateString(t.current.Message, t.common.Width))
}
