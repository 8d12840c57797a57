package main

import (
	"fmt"
	"strings"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/cmd"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/ui/pages/games"
)

var (
	gamesTeam int64
	gamesPage int
	gamesAll  bool
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List games",
	Long:  "List your team's most recent games. Use --team for another team or --all for every game.",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		client := api.FromContext(ctx)

		var team *int64
		switch {
		case c.Flags().Changed("team"):
			team = &gamesTeam
		case !gamesAll:
			t, err := cmd.MyTeam(ctx)
			if err != nil {
				return err
			}
			team = &t.ID
		}

		if gamesPage < 0 {
			return fmt.Errorf("invalid page %d", gamesPage)
		}
		raw, err := client.Games(ctx, api.GamesQuery{Team: team, Page: gamesPage})
		if err != nil {
			return err
		}
		filled, err := client.Fill(ctx, raw)
		if err != nil {
			return err
		}

		if cmd.IsJSON(c) {
			return cmd.WriteJSON(c.OutOrStdout(), filled)
		}
		if len(filled) == 0 {
			c.Println("No games found")
			return nil
		}

		return tablewriter.Render(
			c.OutOrStdout(),
			filled,
			[]string{"Played", "Bot A", "Bot B", "Score", "Error"},
			func(g api.Game) ([]string, error) {
				return gameRow(g, team), nil
			},
		)
	},
}

func init() {
	gamesCmd.Flags().Int64Var(&gamesTeam, "team", 0, "list the games of another team")
	gamesCmd.Flags().IntVarP(&gamesPage, "page", "p", 0, "page number, starting at 0")
	gamesCmd.Flags().BoolVarP(&gamesAll, "all", "a", false, "list every team's games")
}

func botLabel(b *api.Bot) string {
	if b == nil {
		return "-"
	}
	if b.Team != nil {
		return b.Team.Name + "/" + b.Name
	}
	return b.Name
}

// gameRow renders a game. With a team, the score change is from that
// team's side.
func gameRow(g api.Game, team *int64) []string {
	score := g.ScoreChange
	if team != nil {
		score = games.ScoreChange(g, *team)
	}
	errType := ""
	if g.ErrorType != nil {
		errType = strings.ToLower(string(*g.ErrorType))
	}
	return []string{
		humanize.Time(g.Played()),
		botLabel(g.BotA),
		botLabel(g.BotB),
		fmt.Sprintf("%+.1f", score),
		errType,
	}
}
