package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/caarlos0/duration"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/cmd"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/cron"
	"github.com/upac/pokerbots/pkg/jobs"
	"github.com/upac/pokerbots/pkg/stats"
)

var (
	watchEvery string
	watchTeam  int64
	watchAll   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print games as they are played",
	Long:  "Poll the platform and print every new game. Stops on interrupt.",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		logger := log.FromContext(ctx).WithPrefix("watch")

		d, err := duration.Parse(watchEvery)
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", watchEvery, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid interval %q", watchEvery)
		}

		var team *int64
		switch {
		case c.Flags().Changed("team"):
			team = &watchTeam
		case !watchAll:
			t, err := cmd.MyTeam(ctx)
			if err != nil {
				return err
			}
			team = &t.ID
		}

		out := c.OutOrStdout()
		asJSON := cmd.IsJSON(c)
		feed := jobs.NewWatchGames(api.FromContext(ctx), team, "@every "+d.String(), func(g api.Game) {
			if asJSON {
				cmd.WriteJSON(out, g) // nolint: errcheck
				return
			}
			fmt.Fprintln(out, strings.Join(gameRow(g, team), "  ")) // nolint: errcheck
		})

		if _, err := feed.Poll(ctx); err != nil {
			return err
		}

		srv, err := stats.NewStatsServer(ctx)
		switch {
		case err == nil:
			srv.Serve(ctx)
		case errors.Is(err, stats.ErrDisabled):
		default:
			return err
		}

		reg := jobs.NewRegistry()
		reg.Register(jobs.WatchName, feed)
		sched := cron.NewScheduler(ctx)
		if err := reg.Schedule(ctx, sched); err != nil {
			return err
		}
		sched.Start()
		defer sched.Shutdown()

		<-ctx.Done()
		logger.Debug("stopping")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchEvery, "every", "e", "30s", "polling interval (e.g. 30s, 5m, 1h)")
	watchCmd.Flags().Int64Var(&watchTeam, "team", 0, "watch the games of another team")
	watchCmd.Flags().BoolVarP(&watchAll, "all", "a", false, "watch every team's games")
}
