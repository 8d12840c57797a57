// Package uitest wires UI components to a fake platform for tests.
package uitest

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/apitest"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/ui/common"
)

// Width and Height are the terminal size of test UIs.
const (
	Width  = 120
	Height = 40
)

// New returns a Common bound to srv and a store showing the selected team,
// or the logged in user's team when selected is nil. The store isn't
// loaded.
func New(tb testing.TB, srv *apitest.Server, selected *int64) (common.Common, *store.Store) {
	tb.Helper()
	client := srv.Client(tb)
	st := store.New(client, store.WithSelectedTeam(selected))
	tb.Cleanup(func() { st.Close() }) // nolint: errcheck
	ctx := api.WithContext(context.Background(), client)
	ctx = store.WithContext(ctx, st)
	r := lipgloss.NewRenderer(io.Discard)
	return common.NewCommon(ctx, r, Width, Height), st
}

// Load loads the store and fails the test on error.
func Load(tb testing.TB, st *store.Store) {
	tb.Helper()
	if err := st.Init(context.Background()); err != nil {
		tb.Fatalf("load store: %v", err)
	}
}

// Run executes cmd and returns the messages it produced, flattening
// batches. Commands must not block.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, Run(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Key returns the key message of a key name such as "enter" or "x".
func Key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
