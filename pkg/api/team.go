package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type teamsQuery struct {
	IDs         []int64 `url:"ids,comma"`
	FillMembers bool    `url:"fill_members,omitempty"`
}

type renameQuery struct {
	To string `url:"to"`
}

type emailQuery struct {
	Email string `url:"email"`
}

type inviteQuery struct {
	InviteCode string `url:"invite_code"`
}

type createTeamQuery struct {
	TeamName string `url:"team_name"`
}

type idQuery struct {
	ID int64 `url:"id"`
}

// MyTeam returns the team of the logged in user, or nil when the user has
// no team.
func (c *Client) MyTeam(ctx context.Context) (*Team, error) {
	var t *Team
	if err := c.call(ctx, http.MethodGet, "/my-team", nil, &t); err != nil {
		return nil, loggedOut(ctx, err)
	}
	if t != nil {
		c.forget(ctx, teamKey(t.ID))
	}
	return t, nil
}

// Teams returns the teams with the given ids. Unknown ids are skipped.
// When fillMembers is set, members are returned as full users.
func (c *Client) Teams(ctx context.Context, ids []int64, fillMembers bool) ([]Team, error) {
	var teams []Team
	if err := c.call(ctx, http.MethodGet, "/teams", teamsQuery{IDs: ids, FillMembers: fillMembers}, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Team returns a single team with its members filled in, or nil when no
// team has that id.
func (c *Client) Team(ctx context.Context, id int64) (*Team, error) {
	teams, err := c.Teams(ctx, []int64{id}, true)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, nil
	}
	c.forget(ctx, teamKey(id))
	return &teams[0], nil
}

// RenameTeam renames the team of the logged in user.
func (c *Client) RenameTeam(ctx context.Context, to string) error {
	return c.call(ctx, http.MethodGet, "/rename-team", renameQuery{To: to}, nil)
}

// KickMember removes a member from the team of the logged in user.
func (c *Client) KickMember(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodGet, "/kick-member", emailQuery{Email: email}, nil)
}

// LeaveTeam removes the logged in user from their team.
func (c *Client) LeaveTeam(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/leave-team", nil, nil)
}

// DeleteTeam deletes the team owned by the logged in user.
func (c *Client) DeleteTeam(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/delete-team", nil, nil)
}

// CreateInvite creates a new single-use invite code for the team.
func (c *Client) CreateInvite(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/create-invite", nil, nil)
}

// CancelInvite revokes an invite code.
func (c *Client) CancelInvite(ctx context.Context, code string) error {
	return c.call(ctx, http.MethodGet, "/cancel-invite", inviteQuery{InviteCode: code}, nil)
}

// CreateTeam creates a team owned by the logged in user.
func (c *Client) CreateTeam(ctx context.Context, name string) error {
	return c.call(ctx, http.MethodGet, "/create-team", createTeamQuery{TeamName: name}, nil)
}

// JoinTeam redeems an invite code.
func (c *Client) JoinTeam(ctx context.Context, code string) error {
	return c.call(ctx, http.MethodGet, "/join-team", inviteQuery{InviteCode: code}, nil)
}

// PfpURL returns the URL of a team's profile picture.
func (c *Client) PfpURL(teamID int64) string {
	u, _ := c.endpointURL("/pfp", idQuery{ID: teamID})
	return u
}

// InviteURL returns the link that redeems an invite code.
func (c *Client) InviteURL(code string) string {
	u := *c.origin
	u.Path = "/join-team"
	u.RawQuery = url.Values{"invite_code": {code}}.Encode()
	return u.String()
}

// TeamURL returns the public page of a team.
func (c *Client) TeamURL(teamID int64) string {
	u := *c.origin
	u.Path = fmt.Sprintf("/team/%d", teamID)
	return u.String()
}
