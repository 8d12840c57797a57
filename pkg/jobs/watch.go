package jobs

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/upac/pokerbots/pkg/api"
)

// WatchName is the name of the game feed job.
const WatchName = "watch-games"

// GamesClient fetches and resolves games.
type GamesClient interface {
	Games(ctx context.Context, q api.GamesQuery) ([]api.RawGame, error)
	Fill(ctx context.Context, games []api.RawGame) ([]api.Game, error)
}

// WatchGames polls the newest page of games and reports each game once,
// oldest first.
type WatchGames struct {
	client GamesClient
	team   *int64
	spec   string
	onGame func(api.Game)

	mu     sync.Mutex
	seen   map[string]struct{}
	primed bool
}

var _ Runner = (*WatchGames)(nil)

// NewWatchGames returns a new WatchGames job. team restricts the feed to a
// team's games. Games already played at the first poll are reported too.
func NewWatchGames(client GamesClient, team *int64, spec string, onGame func(api.Game)) *WatchGames {
	return &WatchGames{
		client: client,
		team:   team,
		spec:   spec,
		onGame: onGame,
		seen:   make(map[string]struct{}),
	}
}

// Spec implements Runner.
func (w *WatchGames) Spec(context.Context) string {
	return w.spec
}

// Func implements Runner.
func (w *WatchGames) Func(ctx context.Context) func() {
	logger := log.FromContext(ctx).WithPrefix("jobs.watch")
	return func() {
		n, err := w.Poll(ctx)
		record(WatchName, err)
		if err != nil {
			logger.Error("poll games", "err", err)
			return
		}
		logger.Debug("polled games", "new", n)
	}
}

// Poll fetches the newest games and reports the unseen ones. It returns
// the number of reported games.
func (w *WatchGames) Poll(ctx context.Context) (int, error) {
	raw, err := w.client.Games(ctx, api.GamesQuery{Team: w.team, Count: api.DefaultGamesPageSize})
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	fresh := make([]api.RawGame, 0, len(raw))
	for _, g := range raw {
		if _, ok := w.seen[g.ID]; !ok {
			fresh = append(fresh, g)
		}
	}
	w.mu.Unlock()
	if len(fresh) == 0 {
		return 0, nil
	}

	games, err := w.client.Fill(ctx, fresh)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	// Pages are newest first.
	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		if _, ok := w.seen[g.ID]; ok {
			continue
		}
		w.seen[g.ID] = struct{}{}
		n++
		if w.onGame != nil {
			w.onGame(g)
		}
	}
	return n, nil
}
