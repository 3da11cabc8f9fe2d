package tide

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// Every returns a subscription that yields fn(t) each time interval d
// elapses on clock. The schedule is kept by a ticker, so a slow consumer
// delays delivery but not the next tick.
//
// Use clockz.RealClock in programs and clockz.NewFakeClock() in tests.
// Combine with Until to stop the ticks when a scope is released.
func Every[Msg any](clock clockz.Clock, d time.Duration, fn func(time.Time) Msg) Sub[Msg] {
	return func(ctx context.Context) <-chan Msg {
		out := make(chan Msg)
		ticker := clock.NewTicker(d)
		go func() {
			defer close(out)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case t := <-ticker.C():
					select {
					case out <- fn(t):
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out
	}
}
