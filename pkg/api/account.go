package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
)

// MyAccount returns the logged in user, or nil when logged out. A rejected
// session counts as logged out.
func (c *Client) MyAccount(ctx context.Context) (*User, error) {
	var u *User
	if err := c.call(ctx, http.MethodGet, "/my-account", nil, &u); err != nil {
		return nil, loggedOut(ctx, err)
	}
	return u, nil
}

// loggedOut swallows ErrUnauthorized for endpoints where a rejected session
// just means there is nobody to return.
func loggedOut(ctx context.Context, err error) error {
	if errors.Is(err, ErrUnauthorized) {
		log.FromContext(ctx).WithPrefix("api").Debug("session rejected, treating as logged out", "err", err)
		return nil
	}
	return err
}

// SignOut ends the current session.
func (c *Client) SignOut(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/signout", nil, nil)
}

// ServerMessage returns the platform announcement banner, in markdown.
// An empty string means there is nothing to announce.
func (c *Client) ServerMessage(ctx context.Context) (string, error) {
	var msg *string
	if err := c.call(ctx, http.MethodGet, "/server-message", nil, &msg); err != nil {
		return "", err
	}
	if msg == nil {
		return "", nil
	}
	return *msg, nil
}
