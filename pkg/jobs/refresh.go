package jobs

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/upac/pokerbots/pkg/config"
	"github.com/upac/pokerbots/pkg/store"
)

// RefreshName is the name of the team refresh job.
const RefreshName = "refresh-team"

// TeamRefresher refetches the displayed team.
type TeamRefresher interface {
	RefreshTeam(ctx context.Context) error
}

// RefreshTeam periodically refetches the displayed team so bot build
// statuses and scores stay current.
type RefreshTeam struct {
	store TeamRefresher
}

var _ Runner = (*RefreshTeam)(nil)

// NewRefreshTeam returns a new RefreshTeam job.
func NewRefreshTeam(st TeamRefresher) *RefreshTeam {
	return &RefreshTeam{store: st}
}

// Spec implements Runner.
func (j *RefreshTeam) Spec(ctx context.Context) string {
	if cfg := config.FromContext(ctx); cfg != nil && cfg.Jobs.Refresh != "" {
		return cfg.Jobs.Refresh
	}
	return config.DefaultConfig().Jobs.Refresh
}

// Func implements Runner.
func (j *RefreshTeam) Func(ctx context.Context) func() {
	logger := log.FromContext(ctx).WithPrefix("jobs.refresh")
	return func() {
		err := j.store.RefreshTeam(ctx)
		if errors.Is(err, store.ErrStale) {
			err = nil
		}
		record(RefreshName, err)
		if err != nil {
			logger.Debug("refresh failed", "err", err)
		}
	}
}
