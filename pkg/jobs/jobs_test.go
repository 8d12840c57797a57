package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/apitest"
	"github.com/upac/pokerbots/pkg/config"
	"github.com/upac/pokerbots/pkg/cron"
	"github.com/upac/pokerbots/pkg/jobs"
	"github.com/upac/pokerbots/pkg/store"
)

type refresher struct {
	calls int
	err   error
}

func (r *refresher) RefreshTeam(context.Context) error {
	r.calls++
	return r.err
}

func TestRefreshSpec(t *testing.T) {
	is := is.New(t)
	j := jobs.NewRefreshTeam(&refresher{})
	is.Equal(j.Spec(context.Background()), config.DefaultConfig().Jobs.Refresh)

	cfg := config.DefaultConfig()
	cfg.Jobs.Refresh = "@every 5m"
	ctx := config.WithContext(context.Background(), cfg)
	is.Equal(j.Spec(ctx), "@every 5m")
}

func TestRefreshRuns(t *testing.T) {
	is := is.New(t)
	r := &refresher{err: errors.New("boom")}
	f := jobs.NewRefreshTeam(r).Func(context.Background())
	f()
	r.err = store.ErrStale
	f()
	is.Equal(r.calls, 2)
}

func TestSchedule(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	reg := jobs.NewRegistry()
	reg.Register(jobs.RefreshName, jobs.NewRefreshTeam(&refresher{}))
	reg.Register(jobs.WatchName, jobs.NewWatchGames(nil, nil, "@every 1m", nil))

	s := cron.NewScheduler(ctx)
	is.NoErr(reg.Schedule(ctx, s))
	for _, j := range reg.List() {
		is.True(j.ID != 0) // job scheduled
	}
	is.Equal(len(reg.List()), 2)

	bad := jobs.NewRegistry()
	bad.Register("bad", jobs.NewWatchGames(nil, nil, "not a spec", nil))
	is.True(bad.Schedule(ctx, s) != nil)
}

func TestWatchGames(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	srv.AddUser("ada@example.com", "Ada")
	srv.AddUser("bob@example.com", "Bob")
	aces := srv.AddTeam("aces", "ada@example.com")
	kings := srv.AddTeam("kings", "bob@example.com")
	a := srv.AddBot(aces, "a1", "ada@example.com", api.BuildSucceeded)
	b := srv.AddBot(kings, "k1", "bob@example.com", api.BuildSucceeded)
	srv.AddGame(api.RawGame{ID: "g1", BotA: a, BotB: b, ScoreChange: 1, Time: 100})
	srv.AddGame(api.RawGame{ID: "g2", BotA: b, BotB: a, ScoreChange: 2, Time: 200})

	var got []string
	w := jobs.NewWatchGames(srv.Client(t), &aces, "@every 1m", func(g api.Game) {
		got = append(got, g.ID)
	})

	ctx := context.Background()
	n, err := w.Poll(ctx)
	is.NoErr(err)
	is.Equal(n, 2)
	is.Equal(got, []string{"g1", "g2"}) // oldest first

	n, err = w.Poll(ctx)
	is.NoErr(err)
	is.Equal(n, 0)

	srv.AddGame(api.RawGame{ID: "g3", BotA: a, BotB: b, ScoreChange: -1, Time: 300})
	w.Func(ctx)()
	is.Equal(got, []string{"g1", "g2", "g3"})
}

func TestWatchGamesError(t *testing.T) {
	is := is.New(t)
	srv := apitest.New(t)
	srv.Fail("/games", apitest.Failure{Error: "nope"})
	w := jobs.NewWatchGames(srv.Client(t), nil, "@every 1m", nil)
	_, err := w.Poll(context.Background())
	is.True(err != nil)
}
