package games_test

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/apitest"
	"github.com/upac/pokerbots/pkg/ui/pages/games"
	"github.com/upac/pokerbots/pkg/ui/uitest"
)

func setup(t *testing.T, n int) (*apitest.Server, *games.Games) {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("ada@example.com", "Ada")
	srv.AddUser("cy@example.com", "Cy")
	aces := srv.AddTeam("aces", "ada@example.com")
	kings := srv.AddTeam("kings", "cy@example.com")
	a := srv.AddBot(aces, "alpha", "ada@example.com", api.TestGameSucceeded)
	k := srv.AddBot(kings, "king", "cy@example.com", api.TestGameSucceeded)
	timeout := api.GameErrorTimeout
	for i := 0; i < n; i++ {
		g := api.RawGame{
			ID:          fmt.Sprintf("g%d", i),
			BotA:        a,
			BotB:        k,
			ScoreChange: float64(i) + 0.5,
			Time:        1700000000 + int64(i),
		}
		if i == n-1 {
			g.ErrorType = &timeout
		}
		srv.AddGame(g)
	}
	srv.Login("ada@example.com")

	c, st := uitest.New(t, srv, nil)
	uitest.Load(t, st)
	p := games.New(c, c.Client())
	p.SetSize(uitest.Width, 30)
	deliver(p, p.Init())
	return srv, p
}

func deliver(p *games.Games, cmd tea.Cmd) {
	for _, m := range uitest.Run(cmd) {
		p.Update(m)
	}
}

func TestList(t *testing.T) {
	is := is.New(t)
	_, p := setup(t, 3)

	gs := p.Games()
	is.Equal(len(gs), 3)
	is.Equal(gs[0].ID, "g2") // newest first
	is.Equal(gs[0].BotA.Name, "alpha")
	is.Equal(gs[0].BotB.Team.Name, "kings")

	v := p.View()
	is.True(strings.Contains(v, "aces/alpha"))
	is.True(strings.Contains(v, "kings/king"))
	is.True(strings.Contains(v, "+2.5"))
	is.True(strings.Contains(v, "timeout"))
	is.True(strings.Contains(v, "page 1"))
}

func TestEmpty(t *testing.T) {
	is := is.New(t)
	_, p := setup(t, 0)
	is.Equal(len(p.Games()), 0)
	is.True(strings.Contains(p.View(), "No games played yet."))
}

func TestPagination(t *testing.T) {
	is := is.New(t)
	_, p := setup(t, 12)
	is.Equal(len(p.Games()), api.DefaultGamesPageSize)

	// No previous page on the first one.
	_, cmd := p.Update(uitest.Key("p"))
	is.True(cmd == nil)

	_, cmd = p.Update(uitest.Key("n"))
	deliver(p, cmd)
	is.Equal(p.Page(), 1)
	is.Equal(len(p.Games()), 2)
	is.Equal(p.Games()[1].ID, "g0")

	// A short page is the last one.
	_, cmd = p.Update(uitest.Key("n"))
	is.True(cmd == nil)
	is.Equal(p.Page(), 1)

	_, cmd = p.Update(uitest.Key("p"))
	deliver(p, cmd)
	is.Equal(p.Page(), 0)
	is.Equal(p.Games()[0].ID, "g11")
}

func TestLoadError(t *testing.T) {
	is := is.New(t)
	srv, p := setup(t, 2)
	srv.Fail("/games", apitest.Failure{Status: 500})
	_, cmd := p.Update(uitest.Key("R"))
	deliver(p, cmd)
	is.Equal(len(p.Games()), 0)
	is.True(strings.Contains(p.View(), "Error loading games"))
}

func TestScoreChange(t *testing.T) {
	is := is.New(t)
	g := api.Game{
		BotA:        &api.Bot{TeamID: 1},
		BotB:        &api.Bot{TeamID: 2},
		ScoreChange: 3,
	}
	is.Equal(games.ScoreChange(g, 1), 3.0)
	is.Equal(games.ScoreChange(g, 2), -3.0)
	is.Equal(games.ScoreChange(g, 3), 3.0)
}
