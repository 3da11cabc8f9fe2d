package tide

import (
	"context"

	"github.com/zoobzio/capitan"
)

// merger interleaves the program subscription with the receive side of the
// bus. Whichever source is ready first wins; when both are ready the choice
// is left to select, which is uniformly random. Order within one source is
// preserved because each source is a single channel.
type merger[Msg any] struct {
	sub <-chan Msg
	bus *Bus[Msg]
}

// next returns the next message from either source. It returns false when
// the subscription has ended and the bus has no live senders and no
// buffered messages, or when the bus is closed or ctx is done.
func (m *merger[Msg]) next(ctx context.Context) (Msg, bool) {
	var zero Msg
	for {
		m.bus.collect()
		if m.sub == nil && m.bus.senders == 0 {
			return m.bus.drain()
		}

		select {
		case msg, ok := <-m.sub:
			if !ok {
				m.sub = nil
				capitan.Emit(context.WithoutCancel(ctx), SubscriptionEnded)
				continue
			}
			return msg, true

		case msg := <-m.bus.messages:
			return msg, true

		case <-m.bus.wake:

		case <-m.bus.done:
			return zero, false

		case <-ctx.Done():
			return zero, false
		}
	}
}
