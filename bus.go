package tide

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the default number of messages the Bus buffers before
// senders suspend.
const DefaultCapacity = 1

// ErrBusClosed is returned by Sender.Send once the consumer has gone away.
var ErrBusClosed = errors.New("bus closed")

// ErrScopeReleased is returned by Sender.Send once the sender's scope has
// been released.
var ErrScopeReleased = errors.New("scope released")

// Bus is the bounded channel connecting producer tasks to the program loop.
// It accepts many producers and exactly one consumer.
//
// Producers are tracked through Sender handles. Handles are created, and
// their releases accounted, only by the consumer goroutine, so the consumer
// alone decides when the stream has ended: every sender released and the
// buffer drained. A dispatch made while handling a message can therefore
// never race with end-of-stream detection.
type Bus[Msg any] struct {
	messages chan Msg
	wake     chan struct{}
	released atomic.Int64
	done     chan struct{}
	once     sync.Once

	// consumer-owned
	senders int
}

// NewBus creates a Bus that buffers up to capacity messages. A capacity of
// zero gives a synchronous handoff. Negative values are treated as zero.
func NewBus[Msg any](capacity int) *Bus[Msg] {
	if capacity < 0 {
		capacity = 0
	}
	return &Bus[Msg]{
		messages: make(chan Msg, capacity),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Cap returns the buffer capacity of the bus.
func (b *Bus[Msg]) Cap() int {
	return cap(b.messages)
}

// Sender registers a new producer and returns its handle. It must only be
// called from the consumer goroutine.
func (b *Bus[Msg]) Sender() *Sender[Msg] {
	b.senders++
	return &Sender[Msg]{bus: b}
}

// ScopedSender is like Sender, but the handle stops sending as soon as the
// token's scope is released. A send parked on a full bus is abandoned by
// the release itself, so the consumer cannot accept it afterwards.
func (b *Bus[Msg]) ScopedSender(token *Token) *Sender[Msg] {
	s := b.Sender()
	s.token = token
	return s
}

// Receive waits for the next message. It returns false once every sender
// has been released and the buffer is empty, when the bus is closed, or
// when ctx is done. It must only be called from the consumer goroutine.
func (b *Bus[Msg]) Receive(ctx context.Context) (Msg, bool) {
	m := merger[Msg]{bus: b}
	return m.next(ctx)
}

// Close marks the consumer as gone. Pending and future sends fail with
// ErrBusClosed. Close is idempotent.
func (b *Bus[Msg]) Close() {
	b.once.Do(func() {
		close(b.done)
	})
}

// Closed reports whether Close has been called.
func (b *Bus[Msg]) Closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// collect folds releases reported since the last call into the sender
// count. Consumer only.
func (b *Bus[Msg]) collect() {
	b.senders -= int(b.released.Swap(0))
}

// drain returns a buffered message if one is available without blocking.
func (b *Bus[Msg]) drain() (Msg, bool) {
	select {
	case msg := <-b.messages:
		return msg, true
	default:
		var zero Msg
		return zero, false
	}
}

// Sender is a producer's handle on a Bus.
type Sender[Msg any] struct {
	bus      *Bus[Msg]
	token    *Token
	released atomic.Bool
	once     sync.Once
}

// Send suspends until the message is accepted into the bus buffer, the
// consumer has gone away, ctx is done, or the sender's scope is released.
// A released sender can no longer send. When several of these already
// hold, the scope is reported first, then ctx, then the bus.
func (s *Sender[Msg]) Send(ctx context.Context, msg Msg) error {
	if s.released.Load() {
		return ErrBusClosed
	}
	var scopeDone <-chan struct{}
	if s.token != nil {
		if s.token.Canceled() {
			return ErrScopeReleased
		}
		scopeDone = s.token.Done()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.bus.Closed() {
		return ErrBusClosed
	}

	select {
	case s.bus.messages <- msg:
		return nil
	case <-scopeDone:
		return ErrScopeReleased
	case <-s.bus.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release tells the consumer this producer is finished. It never blocks.
// Only the first call has an effect.
func (s *Sender[Msg]) Release() {
	s.once.Do(func() {
		s.released.Store(true)
		s.bus.released.Add(1)
		select {
		case s.bus.wake <- struct{}{}:
		default:
		}
	})
}
