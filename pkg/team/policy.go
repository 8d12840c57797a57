package team

import (
	"fmt"

	"github.com/upac/pokerbots/pkg/api"
)

// Action is a team or bot mutation.
type Action int

// Actions.
const (
	None Action = iota
	Rename
	Kick
	Leave
	Delete
	CreateInvite
	CancelInvite
	CreateTeam
	JoinTeam
	SetActiveBot
	DeleteBot
)

var actionLabels = map[Action]string{
	None:         "",
	Rename:       "Rename",
	Kick:         "Kick",
	Leave:        "Leave",
	Delete:       "Delete team",
	CreateInvite: "Add a member",
	CancelInvite: "Cancel invitation",
	CreateTeam:   "Create team",
	JoinTeam:     "Join team",
	SetActiveBot: "Set active",
	DeleteBot:    "Delete bot",
}

// String returns the button label of the action.
func (a Action) String() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Destructive reports whether the action needs a confirmation.
func (a Action) Destructive() bool {
	switch a {
	case Kick, Leave, Delete, DeleteBot:
		return true
	}
	return false
}

// MemberAction returns the action the viewer can take on a member row of a
// team: owners kick others and delete the team from their own row, other
// members can only leave. The server enforces the real policy.
func MemberAction(team *api.Team, viewer *api.User, member api.User) Action {
	if team == nil || viewer == nil || viewer.Email == "" {
		return None
	}
	owner := team.IsOwner(viewer.Email)
	switch {
	case member.Email == viewer.Email && owner:
		return Delete
	case member.Email == viewer.Email:
		return Leave
	case owner:
		return Kick
	}
	return None
}

// CanAddMember reports whether the "Add a member" affordance is shown.
func CanAddMember(team *api.Team, readonly bool) bool {
	return !readonly && team != nil && !team.IsFull()
}

// CanRename reports whether the rename affordance is shown.
func CanRename(readonly bool) bool {
	return !readonly
}

// CanCancelInvite reports whether invites can be cancelled.
func CanCancelInvite(readonly bool) bool {
	return !readonly
}

// Prompt returns the confirmation question for a destructive action.
func Prompt(a Action) string {
	switch a {
	case Kick:
		return "Are you sure you want to kick this member?"
	case Leave:
		return "Are you sure you want to leave the team?"
	case Delete:
		return "Are you sure you want to delete the team?"
	case DeleteBot:
		return "Are you sure you want to delete this bot?"
	}
	return ""
}
