package api

import (
	"context"
	"io"
	"net/http"
)

type botsQuery struct {
	IDs  []int64 `url:"ids,comma,omitempty"`
	Team *int64  `url:"team,omitempty"`
}

// Bots returns the bots with the given ids. Their teams are bare ids.
func (c *Client) Bots(ctx context.Context, ids []int64) ([]Bot, error) {
	var bots []Bot
	if err := c.call(ctx, http.MethodGet, "/bots", botsQuery{IDs: ids}, &bots); err != nil {
		return nil, err
	}
	return bots, nil
}

// TeamBots returns every bot uploaded by a team.
func (c *Client) TeamBots(ctx context.Context, teamID int64) ([]Bot, error) {
	var bots []Bot
	if err := c.call(ctx, http.MethodGet, "/bots", botsQuery{Team: &teamID}, &bots); err != nil {
		return nil, err
	}
	return bots, nil
}

// UploadBot uploads a zipped bot. size may be -1 when unknown.
func (c *Client) UploadBot(ctx context.Context, r io.Reader, size int64) (*UploadResult, error) {
	return c.upload(ctx, http.MethodPost, "/upload-bot", r, size)
}

// UploadPfp uploads the team profile picture. size may be -1 when unknown.
func (c *Client) UploadPfp(ctx context.Context, r io.Reader, size int64) (*UploadResult, error) {
	return c.upload(ctx, http.MethodPut, "/upload-pfp", r, size)
}

// SetActiveBot makes a bot the one that plays for the team.
func (c *Client) SetActiveBot(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodGet, "/set-active-bot", idQuery{ID: id}, nil)
}

// DeleteBot deletes a bot.
func (c *Client) DeleteBot(ctx context.Context, id int64) error {
	if err := c.call(ctx, http.MethodGet, "/delete-bot", idQuery{ID: id}, nil); err != nil {
		return err
	}
	c.forget(ctx, botKey(id))
	return nil
}
