// Package games lists the games a team played, newest first.
package games

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/ui/common"
)

// Client fetches and resolves games.
type Client interface {
	Games(ctx context.Context, q api.GamesQuery) ([]api.RawGame, error)
	Fill(ctx context.Context, games []api.RawGame) ([]api.Game, error)
}

// LoadedMsg carries a page of games.
type LoadedMsg struct {
	TeamID int64
	Page   int
	Games  []api.Game
	Err    error
}

// Games is the games page.
type Games struct {
	common   common.Common
	client   Client
	pageSize int
	page     int
	teamID   *int64
	games    []api.Game
	loading  bool
	err      error
}

// New returns a new games page.
func New(c common.Common, client Client) *Games {
	return &Games{
		common:   c,
		client:   client,
		pageSize: api.DefaultGamesPageSize,
	}
}

// SetSize implements common.Component.
func (g *Games) SetSize(width, height int) {
	g.common.SetSize(width, height)
}

// TabName implements common.Page.
func (g *Games) TabName() string {
	return "Games"
}

// StatusBarValue implements common.Page.
func (g *Games) StatusBarValue() string {
	return ""
}

// StatusBarInfo implements common.Page.
func (g *Games) StatusBarInfo() string {
	return fmt.Sprintf("page %d", g.page+1)
}

// ShortHelp implements help.KeyMap.
func (g *Games) ShortHelp() []key.Binding {
	km := g.common.KeyMap
	return []key.Binding{km.PrevPage, km.NextPage, km.Refresh}
}

// FullHelp implements help.KeyMap.
func (g *Games) FullHelp() [][]key.Binding {
	return [][]key.Binding{g.ShortHelp()}
}

// Page returns the zero based page number.
func (g *Games) Page() int {
	return g.page
}

// Games returns the listed games.
func (g *Games) Games() []api.Game {
	return g.games
}

func (g *Games) team() *api.Team {
	if s := g.common.Store(); s != nil {
		return s.Team().Value
	}
	return nil
}

// Init implements tea.Model.
func (g *Games) Init() tea.Cmd {
	g.page = 0
	return g.fetch()
}

func (g *Games) fetch() tea.Cmd {
	t := g.team()
	if t == nil || g.client == nil {
		g.teamID = nil
		g.games = nil
		return nil
	}
	id := t.ID
	g.teamID = &id
	g.loading = true
	page, size := g.page, g.pageSize
	ctx := g.common.Context()
	return func() tea.Msg {
		raw, err := g.client.Games(ctx, api.GamesQuery{Team: &id, Page: page, Count: size})
		if err != nil {
			return LoadedMsg{TeamID: id, Page: page, Err: err}
		}
		games, err := g.client.Fill(ctx, raw)
		return LoadedMsg{TeamID: id, Page: page, Games: games, Err: err}
	}
}

// Update implements tea.Model.
func (g *Games) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if g.teamID == nil || msg.TeamID != *g.teamID || msg.Page != g.page {
			return g, nil
		}
		g.loading = false
		g.err = msg.Err
		if msg.Err != nil {
			g.common.Logger.Debug("list games", "team", msg.TeamID, "page", msg.Page, "err", msg.Err)
			g.games = nil
			return g, nil
		}
		g.games = msg.Games
	case common.StoreMsg:
		if msg.State != store.Ready {
			return g, nil
		}
		if t := g.team(); t == nil || g.teamID == nil || t.ID != *g.teamID {
			g.page = 0
			return g, g.fetch()
		}
	case tea.KeyMsg:
		km := g.common.KeyMap
		switch {
		case key.Matches(msg, km.Refresh):
			return g, g.fetch()
		case key.Matches(msg, km.NextPage):
			if g.loading || len(g.games) < g.pageSize {
				return g, nil
			}
			g.page++
			return g, g.fetch()
		case key.Matches(msg, km.PrevPage):
			if g.page == 0 {
				return g, nil
			}
			g.page--
			return g, g.fetch()
		}
	}
	return g, nil
}

// ScoreChange returns the score change of a game from a team's side.
func ScoreChange(game api.Game, teamID int64) float64 {
	if game.BotB != nil && game.BotB.TeamID == teamID &&
		(game.BotA == nil || game.BotA.TeamID != teamID) {
		return -game.ScoreChange
	}
	return game.ScoreChange
}

func botLabel(b *api.Bot) string {
	if b == nil {
		return "?"
	}
	if b.Team != nil {
		return b.Team.Name + "/" + b.Name
	}
	return b.Name
}

// View implements tea.Model.
func (g *Games) View() string {
	st := g.common.Styles
	switch {
	case g.err != nil:
		return st.GameError.Render("Error loading games: " + api.Message(g.err, g.err.Error()))
	case g.loading && len(g.games) == 0:
		return st.NoContent.Render("Loading…")
	case len(g.games) == 0:
		return st.NoContent.Render("No games played yet.")
	}

	var teamID int64
	if g.teamID != nil {
		teamID = *g.teamID
	}
	side := (g.common.Width - 10 - 14 - 12) / 2
	if side < 10 {
		side = 10
	}
	rows := make([]string, 0, len(g.games)+2)
	for _, game := range g.games {
		delta := ScoreChange(game, teamID)
		score := st.ScoreUp.Render(fmt.Sprintf("%+8.1f", delta))
		if delta < 0 {
			score = st.ScoreDown.Render(fmt.Sprintf("%+8.1f", delta))
		}
		row := []string{
			score,
			"  ",
			lipgloss.NewStyle().Width(side).Render(common.TruncateString(botLabel(game.BotA), side-1)),
			lipgloss.NewStyle().Width(4).Render("vs"),
			lipgloss.NewStyle().Width(side).Render(common.TruncateString(botLabel(game.BotB), side-1)),
			lipgloss.NewStyle().Width(14).Render(common.Ago(game.Played())),
		}
		if game.ErrorType != nil {
			row = append(row, st.GameError.Render(strings.ToLower(string(*game.ErrorType))))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	rows = append(rows, st.Paginator.Render(fmt.Sprintf("page %d", g.page+1)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
