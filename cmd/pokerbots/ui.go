package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/upac/pokerbots/pkg/api"
	"github.com/upac/pokerbots/pkg/config"
	"github.com/upac/pokerbots/pkg/cron"
	"github.com/upac/pokerbots/pkg/jobs"
	plog "github.com/upac/pokerbots/pkg/log"
	"github.com/upac/pokerbots/pkg/stats"
	"github.com/upac/pokerbots/pkg/store"
	"github.com/upac/pokerbots/pkg/ui"
	"github.com/upac/pokerbots/pkg/ui/common"
)

var uiCmd = &cobra.Command{
	Use:   "ui [/team/ID]",
	Short: "Open the team dashboard",
	Long:  "Open the team dashboard. With a /team/ID route, show that team read-only.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromContext(ctx)

		var selected *int64
		if len(args) == 1 {
			if selected = store.ParseTeamRoute(args[0]); selected == nil {
				return fmt.Errorf("unknown route %q: expected /team/ID", args[0])
			}
		}

		// The screen belongs to the program, so logs go to a file.
		logPath := cfg.Log.Path
		if logPath == "" {
			logPath = filepath.Join(cfg.DataPath, "log", "ui.log")
		}
		f, err := plog.OpenFile(logPath)
		if err != nil {
			return err
		}

		defer f.Close() // nolint:errcheck

		logger := log.FromContext(ctx).WithPrefix("ui")
		logger.SetOutput(f)
		ctx = log.WithContext(ctx, logger)

		if old := store.FromContext(ctx); old != nil {
			old.Close() // nolint: errcheck
		}
		st := store.New(api.FromContext(ctx), store.WithSelectedTeam(selected))
		ctx = store.WithContext(ctx, st)
		cmd.SetContext(ctx)

		srv, err := stats.NewStatsServer(ctx)
		switch {
		case err == nil:
			srv.Serve(ctx)
		case errors.Is(err, stats.ErrDisabled):
		default:
			return err
		}

		if cfg.UI.AutoRefresh {
			reg := jobs.NewRegistry()
			reg.Register(jobs.RefreshName, jobs.NewRefreshTeam(st))
			sched := cron.NewScheduler(ctx)
			if err := reg.Schedule(ctx, sched); err != nil {
				return err
			}
			sched.Start()
			defer sched.Shutdown()
		}

		re := lipgloss.NewRenderer(os.Stdout)
		c := common.NewCommon(ctx, re, 0, 0)
		m := ui.New(c)
		defer m.Close()

		p := tea.NewProgram(m,
			tea.WithContext(ctx),
			tea.WithOutput(re.Output()),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)

		logger.Info("starting ui", "route", args)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}

		return nil
	},
}
