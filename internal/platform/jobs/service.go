package jobs

import (
	"context"
	"log/slog"
	"time"

	"timetrack/internal/domain/worklog"
)

// Refresher periodically recomputes the derived duration strings stored on
// each active employee so reads that never go through a mutation still see
// fresh values.
type Refresher struct {
	Worklogs *worklog.Service
	Interval time.Duration
}

func NewRefresher(worklogs *worklog.Service, interval time.Duration) *Refresher {
	return &Refresher{Worklogs: worklogs, Interval: interval}
}

// Run blocks until ctx is cancelled. An Interval of zero or less disables
// the refresher.
func (r *Refresher) Run(ctx context.Context) {
	if r.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	started := time.Now()
	count, err := r.Worklogs.RefreshDurations(ctx)
	if err != nil {
		slog.Warn("duration refresh failed", "err", err, "refreshed", count)
		return
	}
	slog.Info("durations refreshed", "count", count, "took", time.Since(started).String())
}
