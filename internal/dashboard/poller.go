package dashboard

import (
	"context"
	"time"
)

// Poll runs fn once immediately and then on every tick until ctx is done.
// A non-positive interval runs fn exactly once. A slow fn delays the next
// tick rather than overlapping with it.
func Poll(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	if ctx.Err() != nil {
		return
	}
	fn(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
