package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/upac/pokerbots/pkg/cache"
)

func botKey(id int64) string {
	return "bot:" + strconv.FormatInt(id, 10)
}

func teamKey(id int64) string {
	return "team:" + strconv.FormatInt(id, 10)
}

func (c *Client) remember(ctx context.Context, key string, v any) {
	if c.cache == nil {
		return
	}
	var opts []cache.ItemOption
	if c.ttl > 0 {
		opts = append(opts, cache.WithTTL(c.ttl))
	}
	c.cache.Set(ctx, key, v, opts...)
}

func (c *Client) forget(ctx context.Context, key string) {
	if c.cache != nil {
		c.cache.Delete(ctx, key)
	}
}

// Forget drops a team from the lookup cache so the next Fill fetches it
// again.
func (c *Client) Forget(ctx context.Context, teamID int64) {
	c.forget(ctx, teamKey(teamID))
}

// Fill replaces the bot ids of each game with the bot, and each bot's team
// id with the team. Games whose bots or teams can't all be resolved are
// dropped; a returned game is always fully resolved. Lookups are batched:
// one request for the missing bots and one for the missing teams.
func (c *Client) Fill(ctx context.Context, games []RawGame) ([]Game, error) {
	logger := log.FromContext(ctx).WithPrefix("api")
	if len(games) == 0 {
		return []Game{}, nil
	}

	botIDs := make([]int64, 0, len(games)*2)
	seen := make(map[int64]struct{}, len(games)*2)
	for _, g := range games {
		for _, id := range []int64{g.BotA, g.BotB} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				botIDs = append(botIDs, id)
			}
		}
	}

	bots, err := c.lookupBots(ctx, botIDs)
	if err != nil {
		return nil, fmt.Errorf("fill bots: %w", err)
	}

	teamIDs := make([]int64, 0, len(bots))
	seenTeams := make(map[int64]struct{}, len(bots))
	for _, id := range botIDs {
		b, ok := bots[id]
		if !ok {
			continue
		}
		if _, ok := seenTeams[b.TeamID]; !ok {
			seenTeams[b.TeamID] = struct{}{}
			teamIDs = append(teamIDs, b.TeamID)
		}
	}

	teams, err := c.lookupTeams(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("fill teams: %w", err)
	}

	resolve := func(id int64) (*Bot, bool) {
		b, ok := bots[id]
		if !ok {
			return nil, false
		}
		t, ok := teams[b.TeamID]
		if !ok {
			return nil, false
		}
		b.Team = &t
		return &b, true
	}

	filled := make([]Game, 0, len(games))
	for _, g := range games {
		a, okA := resolve(g.BotA)
		b, okB := resolve(g.BotB)
		if !okA || !okB {
			logger.Debug("dropping unresolved game", "game", g.ID, "bot_a", g.BotA, "bot_b", g.BotB)
			continue
		}
		filled = append(filled, Game{
			ID:          g.ID,
			BotA:        a,
			BotB:        b,
			ScoreChange: g.ScoreChange,
			Time:        g.Time,
			ErrorType:   g.ErrorType,
		})
	}

	return filled, nil
}

func (c *Client) lookupBots(ctx context.Context, ids []int64) (map[int64]Bot, error) {
	found := make(map[int64]Bot, len(ids))
	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if c.cache != nil {
			if v, ok := c.cache.Get(ctx, botKey(id)); ok {
				if b, ok := v.(Bot); ok {
					found[id] = b
					continue
				}
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return found, nil
	}

	bots, err := c.Bots(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, b := range bots {
		b.Team = nil
		found[b.ID] = b
		c.remember(ctx, botKey(b.ID), b)
	}

	return found, nil
}

func (c *Client) lookupTeams(ctx context.Context, ids []int64) (map[int64]Team, error) {
	found := make(map[int64]Team, len(ids))
	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if c.cache != nil {
			if v, ok := c.cache.Get(ctx, teamKey(id)); ok {
				if t, ok := v.(Team); ok {
					found[id] = t
					continue
				}
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return found, nil
	}

	teams, err := c.Teams(ctx, missing, false)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		found[t.ID] = t
		c.remember(ctx, teamKey(t.ID), t)
	}

	return found, nil
}
