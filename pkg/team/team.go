// Package team performs team and bot mutations and keeps the store in sync
// with their outcome.
package team

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/store"
)

var (
	// ErrCancelled is returned when the user declined a confirmation.
	ErrCancelled = errors.New("cancelled")

	// ErrEmptyName is returned when renaming a team to a blank name.
	ErrEmptyName = errors.New("team name cannot be empty")
)

// Client is the subset of the API used for mutations.
type Client interface {
	RenameTeam(ctx context.Context, to string) error
	KickMember(ctx context.Context, email string) error
	LeaveTeam(ctx context.Context) error
	DeleteTeam(ctx context.Context) error
	CreateInvite(ctx context.Context) error
	CancelInvite(ctx context.Context, code string) error
	CreateTeam(ctx context.Context, name string) error
	JoinTeam(ctx context.Context, code string) error
	SetActiveBot(ctx context.Context, id int64) error
	DeleteBot(ctx context.Context, id int64) error
}

// Refresher refetches store slots after a mutation.
type Refresher interface {
	RefreshTeam(ctx context.Context) error
	RefreshUser(ctx context.Context) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc is a function Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm confirms everything.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) {
	return true, nil
})

// Result is the outcome of a mutation.
type Result struct {
	Action Action

	// Err is the mutation error. ErrCancelled when the user declined.
	Err error

	// Refreshed reports whether the store was refetched after the call.
	Refreshed bool

	// Revert holds the value an optimistic edit must be restored to when
	// the mutation failed.
	Revert string
}

// OK reports whether the mutation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Cancelled reports whether the user declined the confirmation.
func (r Result) Cancelled() bool {
	return errors.Is(r.Err, ErrCancelled)
}

// Message returns a notification message for a failed mutation. Server
// messages and local validation errors are shown as is. Network failures,
// rejected sessions and cancelled contexts get a generic message.
func (r Result) Message() string {
	if r.Err == nil || r.Cancelled() {
		return ""
	}
	fallback := "Error: " + strings.ToLower(r.Action.String()) + " failed"
	switch {
	case api.IsDomainError(r.Err):
		return api.Message(r.Err, fallback)
	case api.IsTransportError(r.Err),
		errors.Is(r.Err, api.ErrUnauthorized),
		errors.Is(r.Err, context.Canceled),
		errors.Is(r.Err, context.DeadlineExceeded):
		return fallback
	}
	return r.Err.Error()
}

// Manager performs mutations, asking for confirmation first when they are
// destructive, and refreshes the store once the call settles.
type Manager struct {
	client    Client
	store     Refresher
	confirmer Confirmer
}

// NewManager returns a new Manager. A nil confirmer declines every
// destructive action.
func NewManager(client Client, st Refresher, confirmer Confirmer) *Manager {
	return &Manager{
		client:    client,
		store:     st,
		confirmer: confirmer,
	}
}

func (m *Manager) confirm(ctx context.Context, a Action) error {
	if !a.Destructive() {
		return nil
	}
	if m.confirmer == nil {
		return ErrCancelled
	}
	ok, err := m.confirmer.Confirm(ctx, Prompt(a))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// mutate runs call and then refreshes the store whether or not the call
// succeeded.
func (m *Manager) mutate(ctx context.Context, a Action, call func(context.Context) error) Result {
	logger := log.FromContext(ctx).WithPrefix("team")
	if err := m.confirm(ctx, a); err != nil {
		logger.Debug("not confirmed", "action", a, "err", err)
		return Result{Action: a, Err: err}
	}

	err := call(ctx)
	if err != nil {
		logger.Info("mutation failed", "action", a, "err", err)
	}

	var rerr error
	switch a {
	case Leave, Delete, CreateTeam, JoinTeam:
		// Membership changed: identity and team are refetched together.
		rerr = m.store.RefreshUser(ctx)
	default:
		rerr = m.store.RefreshTeam(ctx)
	}
	if errors.Is(rerr, store.ErrStale) {
		rerr = nil
	}
	if rerr != nil {
		logger.Debug("refresh after mutation failed", "action", a, "err", rerr)
	}

	return Result{Action: a, Err: err, Refreshed: rerr == nil}
}

// Rename renames the team. On failure the result's Revert holds the name
// to restore. Blank names are rejected without a call.
func (m *Manager) Rename(ctx context.Context, t *api.Team, name string) Result {
	prev := ""
	if t != nil {
		prev = t.Name
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{Action: Rename, Err: ErrEmptyName, Revert: prev}
	}
	if name == prev {
		return Result{Action: Rename}
	}
	res := m.mutate(ctx, Rename, func(ctx context.Context) error {
		return m.client.RenameTeam(ctx, name)
	})
	if res.Err != nil {
		res.Revert = prev
	}
	return res
}

// Kick removes a member from the team.
func (m *Manager) Kick(ctx context.Context, email string) Result {
	return m.mutate(ctx, Kick, func(ctx context.Context) error {
		return m.client.KickMember(ctx, email)
	})
}

// Leave leaves the team.
func (m *Manager) Leave(ctx context.Context) Result {
	return m.mutate(ctx, Leave, m.client.LeaveTeam)
}

// Delete deletes the team.
func (m *Manager) Delete(ctx context.Context) Result {
	return m.mutate(ctx, Delete, m.client.DeleteTeam)
}

// RemoveMember runs the action MemberAction allows the viewer on member.
func (m *Manager) RemoveMember(ctx context.Context, t *api.Team, viewer *api.User, member api.User) Result {
	switch a := MemberAction(t, viewer, member); a {
	case Kick:
		return m.Kick(ctx, member.Email)
	case Leave:
		return m.Leave(ctx)
	case Delete:
		return m.Delete(ctx)
	}
	return Result{Action: None}
}

// CreateInvite adds an invite to the team.
func (m *Manager) CreateInvite(ctx context.Context) Result {
	return m.mutate(ctx, CreateInvite, m.client.CreateInvite)
}

// CancelInvite revokes an invite.
func (m *Manager) CancelInvite(ctx context.Context, code string) Result {
	return m.mutate(ctx, CancelInvite, func(ctx context.Context) error {
		return m.client.CancelInvite(ctx, code)
	})
}

// CreateTeam creates a new team owned by the logged in user.
func (m *Manager) CreateTeam(ctx context.Context, name string) Result {
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{Action: CreateTeam, Err: ErrEmptyName}
	}
	return m.mutate(ctx, CreateTeam, func(ctx context.Context) error {
		return m.client.CreateTeam(ctx, name)
	})
}

// JoinTeam redeems an invite code. Full invite links are accepted too.
func (m *Manager) JoinTeam(ctx context.Context, code string) Result {
	code = InviteCode(code)
	return m.mutate(ctx, JoinTeam, func(ctx context.Context) error {
		return m.client.JoinTeam(ctx, code)
	})
}

// SetActiveBot makes a bot the team's active bot.
func (m *Manager) SetActiveBot(ctx context.Context, id int64) Result {
	return m.mutate(ctx, SetActiveBot, func(ctx context.Context) error {
		return m.client.SetActiveBot(ctx, id)
	})
}

// DeleteBot deletes a bot.
func (m *Manager) DeleteBot(ctx context.Context, id int64) Result {
	return m.mutate(ctx, DeleteBot, func(ctx context.Context) error {
		return m.client.DeleteBot(ctx, id)
	})
}
