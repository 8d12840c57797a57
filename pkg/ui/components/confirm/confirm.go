// Package confirm implements a yes/no modal that answers confirmation
// requests coming from outside the Bubble Tea loop.
package confirm

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/ui/common"
)

// Zone ids of the modal buttons.
const (
	YesZone = "confirm-yes"
	NoZone  = "confirm-no"
)

// ErrClosed is returned by Confirm once the bridge is closed.
var ErrClosed = errors.New("confirmation closed")

// Request is a pending confirmation.
type Request struct {
	Prompt string
	reply  chan bool
}

// RequestMsg carries a confirmation request into the program.
type RequestMsg Request

// AnswerMsg is sent once the user answered.
type AnswerMsg struct {
	Prompt string
	OK     bool
}

// Bridge hands confirmation requests from mutation goroutines to the modal.
// It implements team.Confirmer.
type Bridge struct {
	requests chan Request
	done     chan struct{}
	once     sync.Once
}

// NewBridge returns a new Bridge.
func NewBridge() *Bridge {
	return &Bridge{
		requests: make(chan Request),
		done:     make(chan struct{}),
	}
}

// Confirm blocks until the user answers, ctx is done or the bridge closes.
func (b *Bridge) Confirm(ctx context.Context, prompt string) (bool, error) {
	r := Request{Prompt: prompt, reply: make(chan bool, 1)}
	select {
	case b.requests <- r:
	case <-ctx.Done():
		return false, ctx.Err()
	case <-b.done:
		return false, ErrClosed
	}
	select {
	case ok := <-r.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-b.done:
		return false, ErrClosed
	}
}

// Wait returns a command that waits for the next request.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-b.requests:
			return RequestMsg(r)
		case <-b.done:
			return nil
		}
	}
}

// Close declines every pending and future request.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

// Confirm is the modal.
type Confirm struct {
	common  common.Common
	bridge  *Bridge
	pending *Request
}

// New returns a new Confirm modal bound to a bridge.
func New(c common.Common, b *Bridge) *Confirm {
	return &Confirm{
		common: c,
		bridge: b,
	}
}

// SetSize implements common.Component.
func (c *Confirm) SetSize(width, height int) {
	c.common.SetSize(width, height)
}

// Active reports whether the modal is waiting for an answer.
func (c *Confirm) Active() bool {
	return c.pending != nil
}

// Prompt returns the pending question.
func (c *Confirm) Prompt() string {
	if c.pending == nil {
		return ""
	}
	return c.pending.Prompt
}

// Init implements tea.Model.
func (c *Confirm) Init() tea.Cmd {
	return c.bridge.Wait()
}

// Update implements tea.Model.
func (c *Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RequestMsg:
		r := Request(msg)
		c.pending = &r
	case tea.KeyMsg:
		if c.pending == nil {
			break
		}
		switch {
		case key.Matches(msg, c.common.KeyMap.Yes):
			return c, c.answer(true)
		case key.Matches(msg, c.common.KeyMap.No):
			return c, c.answer(false)
		}
	case tea.MouseMsg:
		if c.pending == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			break
		}
		switch {
		case c.common.Zone.Get(YesZone).InBounds(msg):
			return c, c.answer(true)
		case c.common.Zone.Get(NoZone).InBounds(msg):
			return c, c.answer(false)
		}
	}
	return c, nil
}

func (c *Confirm) answer(ok bool) tea.Cmd {
	r := c.pending
	c.pending = nil
	r.reply <- ok
	return tea.Batch(
		func() tea.Msg { return AnswerMsg{Prompt: r.Prompt, OK: ok} },
		c.bridge.Wait(),
	)
}

// View implements tea.Model.
func (c *Confirm) View() string {
	if c.pending == nil {
		return ""
	}
	st := c.common.Styles
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		c.common.Zone.Mark(YesZone, st.ButtonActive.Render("Yes")),
		" ",
		c.common.Zone.Mark(NoZone, st.Button.Render("No")),
	)
	return st.Modal.Render(lipgloss.JoinVertical(lipgloss.Left,
		st.ModalPrompt.Render(c.pending.Prompt),
		st.ModalHint.Render(buttons+"  y/n"),
	))
}
