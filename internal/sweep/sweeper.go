// Package sweep periodically purges expired secrets. It is a cleanup
// mechanism only; consumption checks expiry itself and never depends on
// the sweeper having run.
package sweep

import (
	"context"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/weedz/secrets/internal/store"
)

type Sweeper struct {
	store    store.SecretStore
	interval time.Duration
}

func New(st store.SecretStore, interval time.Duration) *Sweeper {
	return &Sweeper{store: st, interval: interval}
}

// Sweep removes every record expired as of now and returns the count.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	return s.store.DeleteExpired(ctx, now)
}

// Run sweeps on the configured interval until ctx is cancelled. Store
// failures are logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			log := clog.FromContext(ctx)
			removed, err := s.Sweep(ctx, now)
			if err != nil {
				log.Errorf("expiry sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Infof("expiry sweep removed %d secrets", removed)
			}
		}
	}
}
