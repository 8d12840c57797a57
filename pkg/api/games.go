package api

import (
	"context"
	"net/http"
)

// DefaultGamesPageSize is the number of games requested per page.
const DefaultGamesPageSize = 10

// GamesQuery selects a page of games.
type GamesQuery struct {
	// Team restricts the games to those a team played in.
	Team *int64 `url:"team,omitempty"`

	// Page is the zero based page number.
	Page int `url:"page"`

	// Count is the page size.
	Count int `url:"count"`
}

// Games returns a page of games with bots as bare ids. Use Fill to resolve
// them.
func (c *Client) Games(ctx context.Context, q GamesQuery) ([]RawGame, error) {
	if q.Count <= 0 {
		q.Count = DefaultGamesPageSize
	}
	var games []RawGame
	if err := c.call(ctx, http.MethodGet, "/games", q, &games); err != nil {
		return nil, err
	}
	return games, nil
}
