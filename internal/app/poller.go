package app

import (
	"context"
	"time"

	"github.com/mcpdash/mcpdash/internal/refresh"
)

const defaultPollInterval = 5 * time.Second

// StartPoller launches a background goroutine that runs one refresh cycle
// (status plus the active tab) per tick. It returns immediately and stops
// when ctx is cancelled. Failures are recorded in the store by the
// refresher, so the loop never stops on them.
func StartPoller(ctx context.Context, refresher *refresh.Refresher, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				_ = refresher.Cycle(ctx)
			}
		}
	}()
}
