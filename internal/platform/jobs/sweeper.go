package jobs

import (
	"context"
	"log/slog"
	"time"

	"hrportal/internal/platform/sessionstore"
)

// Sweeper periodically removes expired sessions from the configured
// backend. Redis expires sessions itself; its Sweep is a no-op.
type Sweeper struct {
	Store    sessionstore.Storage
	Interval time.Duration
}

func NewSweeper(store sessionstore.Storage, interval time.Duration) *Sweeper {
	return &Sweeper{Store: store, Interval: interval}
}

func (s *Sweeper) Start(ctx context.Context) {
	if s.Interval <= 0 {
		return
	}
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Store.Sweep(ctx)
			if err != nil {
				slog.Warn("session sweep failed", "err", err)
				continue
			}
			if removed > 0 {
				slog.Info("session sweep", "removed", removed)
			}
		}
	}
}
