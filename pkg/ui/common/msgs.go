package common

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/team"
)

// StoreMsg is sent when a store slot changed.
type StoreMsg store.Event

// ResultMsg reports a finished team or bot mutation.
type ResultMsg team.Result

// WatchStoreCmd waits for the next store event. It returns nil once the
// subscription is closed.
func WatchStoreCmd(events <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return StoreMsg(ev)
	}
}

// MutateCmd runs a mutation off the event loop. Mutations may block on a
// confirmation, which the UI answers.
func MutateCmd(f func() team.Result) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg(f())
	}
}
