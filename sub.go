package tide

import (
	"context"
	"sync"
)

// Sub is a long-lived, possibly infinite source of messages. Calling it
// starts production; the returned channel yields messages in order and is
// closed when the source is exhausted or ctx is done.
//
// Implementations must stop promptly once ctx is done. A send on the
// returned channel should always be raced against ctx:
//
//	select {
//	case out <- msg:
//	case <-ctx.Done():
//	    return
//	}
type Sub[Msg any] func(ctx context.Context) <-chan Msg

// Items returns a subscription that yields msgs in order and then ends.
func Items[Msg any](msgs ...Msg) Sub[Msg] {
	return func(ctx context.Context) <-chan Msg {
		out := make(chan Msg)
		go func() {
			defer close(out)
			for _, msg := range msgs {
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}
}

// FromChannel wraps an existing channel as a subscription. The
// subscription ends when ch is closed or ctx is done. Only one caller
// should consume a given channel.
func FromChannel[Msg any](ch <-chan Msg) Sub[Msg] {
	return func(ctx context.Context) <-chan Msg {
		out := make(chan Msg)
		go func() {
			defer close(out)
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- msg:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out
	}
}

// Map transforms every message of sub with fn.
func Map[A, B any](sub Sub[A], fn func(A) B) Sub[B] {
	return func(ctx context.Context) <-chan B {
		out := make(chan B)
		go func() {
			defer close(out)
			for v := range sub(ctx) {
				select {
				case out <- fn(v):
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	}
}

// Batch merges several subscriptions into one. Messages are yielded as
// each source produces them; order is kept within a source but not across
// sources. The merged subscription ends when every source has ended. Nil
// subscriptions are skipped.
func Batch[Msg any](subs ...Sub[Msg]) Sub[Msg] {
	return func(ctx context.Context) <-chan Msg {
		out := make(chan Msg)
		var wg sync.WaitGroup
		for _, sub := range subs {
			if sub == nil {
				continue
			}
			wg.Add(1)
			go func(in <-chan Msg) {
				defer wg.Done()
				for msg := range in {
					select {
					case out <- msg:
					case <-ctx.Done():
						return
					}
				}
			}(sub(ctx))
		}
		go func() {
			wg.Wait()
			close(out)
		}()
		return out
	}
}

// Until returns a subscription that ends as soon as token is cancelled.
// Each wait for the next message, and each delivery, is raced against the
// token, so no message is yielded after cancellation even if one was about
// to be ready.
func Until[Msg any](sub Sub[Msg], token *Token) Sub[Msg] {
	return func(ctx context.Context) <-chan Msg {
		out := make(chan Msg)
		go func() {
			defer close(out)
			if token.Canceled() {
				return
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			in := sub(ctx)

			for {
				select {
				case <-token.Done():
					return
				case <-ctx.Done():
					return
				case msg, ok := <-in:
					if !ok || token.Canceled() {
						return
					}
					select {
					case out <- msg:
					case <-token.Done():
						return
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out
	}
}
