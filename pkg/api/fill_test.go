package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/apitest"
	"github.com/upac/pokerbots/pkg/cache"
	"github.com/upac/pokerbots/pkg/cache/lru"
)

type fillFixture struct {
	srv          *apitest.Server
	aces, kings  int64
	acesBot      int64
	kingsBot     int64
	orphanBot    int64
	acesVsKings  api.RawGame
	kingsVsAces  api.RawGame
	withOrphan   api.RawGame
	withNoSuchID api.RawGame
}

func newFillFixture(t *testing.T) *fillFixture {
	f := &fillFixture{srv: apitest.New(t)}
	f.aces = f.srv.AddTeam("aces", "ada@example.com")
	f.kings = f.srv.AddTeam("kings", "kim@example.com")
	f.acesBot = f.srv.AddBot(f.aces, "ace-bot", "ada@example.com", api.TestGameSucceeded)
	f.kingsBot = f.srv.AddBot(f.kings, "king-bot", "kim@example.com", api.TestGameSucceeded)
	f.orphanBot = f.srv.AddBot(999, "orphan", "x@example.com", api.TestGameSucceeded)
	f.acesVsKings = api.RawGame{ID: "g1", BotA: f.acesBot, BotB: f.kingsBot, ScoreChange: 12.5, Time: 100}
	f.kingsVsAces = api.RawGame{ID: "g2", BotA: f.kingsBot, BotB: f.acesBot, ScoreChange: -3, Time: 200}
	f.withOrphan = api.RawGame{ID: "g3", BotA: f.acesBot, BotB: f.orphanBot}
	f.withNoSuchID = api.RawGame{ID: "g4", BotA: 12345, BotB: f.kingsBot}
	return f
}

func TestFillEmpty(t *testing.T) {
	is := is.New(t)
	f := newFillFixture(t)
	c := f.srv.Client(t)

	games, err := c.Fill(context.Background(), nil)
	is.NoErr(err)
	is.True(games != nil)
	is.Equal(len(games), 0)
	is.Equal(len(f.srv.Calls()), 0)
}

func TestFillResolves(t *testing.T) {
	is := is.New(t)
	f := newFillFixture(t)
	c := f.srv.Client(t)

	games, err := c.Fill(context.Background(), []api.RawGame{f.acesVsKings, f.kingsVsAces})
	is.NoErr(err)
	is.Equal(len(games), 2)

	g := games[0]
	is.Equal(g.ID, "g1")
	is.Equal(g.ScoreChange, 12.5)
	is.Equal(g.BotA.Name, "ace-bot")
	is.Equal(g.BotA.Team.Name, "aces")
	is.Equal(g.BotB.Team.Name, "kings")
	is.True(g.Involves(f.aces))
	is.True(g.BotA.Team != games[1].BotB.Team)

	// One batched request per entity kind.
	is.Equal(f.srv.CallsTo("/bots"), 1)
	is.Equal(f.srv.CallsTo("/teams"), 1)
	for _, call := range f.srv.Calls() {
		if call.Path == "/teams" {
			is.Equal(call.Query.Get("fill_members"), "")
		}
	}
}

func TestFillDropsUnresolved(t *testing.T) {
	is := is.New(t)
	f := newFillFixture(t)
	c := f.srv.Client(t)

	games, err := c.Fill(context.Background(), []api.RawGame{f.withOrphan, f.acesVsKings, f.withNoSuchID})
	is.NoErr(err)
	is.Equal(len(games), 1)
	is.Equal(games[0].ID, "g1")
	for _, g := range games {
		is.True(g.BotA != nil && g.BotA.Team != nil)
		is.True(g.BotB != nil && g.BotB.Team != nil)
	}
}

func TestFillLookupFailure(t *testing.T) {
	for _, endpoint := range []string{"/bots", "/teams"} {
		t.Run(endpoint, func(t *testing.T) {
			is := is.New(t)
			f := newFillFixture(t)
			c := f.srv.Client(t)
			f.srv.Fail(endpoint, apitest.Failure{Status: http.StatusBadGateway})

			games, err := c.Fill(context.Background(), []api.RawGame{f.acesVsKings})
			is.True(err != nil)
			is.True(games == nil)
		})
	}
}

func TestFillCache(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFillFixture(t)
	ca, err := cache.New(ctx, "lru", lru.WithSize(100))
	is.NoErr(err)
	c := f.srv.Client(t, api.WithCache(ca))

	_, err = c.Fill(ctx, []api.RawGame{f.acesVsKings})
	is.NoErr(err)
	is.Equal(len(f.srv.Calls()), 2)

	games, err := c.Fill(ctx, []api.RawGame{f.kingsVsAces})
	is.NoErr(err)
	is.Equal(len(games), 1)
	is.Equal(len(f.srv.Calls()), 2) // served from cache

	// A renamed team shows up once forgotten.
	f.srv.Login("ada@example.com")
	is.NoErr(c.RenameTeam(ctx, "jokers"))
	c.Forget(ctx, f.aces)
	f.srv.ResetCalls()

	games, err = c.Fill(ctx, []api.RawGame{f.acesVsKings})
	is.NoErr(err)
	is.Equal(games[0].BotA.Team.Name, "jokers")
	is.Equal(f.srv.CallsTo("/bots"), 0)
	is.Equal(f.srv.CallsTo("/teams"), 1)
	is.Equal(f.srv.Calls()[0].Query.Get("ids"), "1")
}

func TestFillCacheExpires(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := newFillFixture(t)
	now := time.Unix(1000, 0)
	ca, err := cache.New(ctx, "lru", lru.WithSize(100), lru.WithClock(func() time.Time { return now }))
	is.NoErr(err)
	c := f.srv.Client(t, api.WithCache(ca), api.WithCacheTTL(time.Minute))

	_, err = c.Fill(ctx, []api.RawGame{f.acesVsKings})
	is.NoErr(err)

	// Renamed by someone else: the cached team is used until it expires.
	f.srv.Login("ada@example.com")
	is.NoErr(c.RenameTeam(ctx, "jokers"))
	f.srv.ResetCalls()

	games, err := c.Fill(ctx, []api.RawGame{f.acesVsKings})
	is.NoErr(err)
	is.Equal(games[0].BotA.Team.Name, "aces")
	is.Equal(len(f.srv.Calls()), 0)

	now = now.Add(2 * time.Minute)
	games, err = c.Fill(ctx, []api.RawGame{f.acesVsKings})
	is.NoErr(err)
	is.Equal(games[0].BotA.Team.Name, "jokers")
	is.Equal(f.srv.CallsTo("/bots"), 1)
	is.Equal(f.srv.CallsTo("/teams"), 1)
}
