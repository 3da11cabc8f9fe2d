package tide

import (
	"context"
	"runtime"
	"sync"

	"github.com/zoobzio/capitan"
)

// Token is the observing half of a cancellation pair. Any number of
// goroutines may watch it; only the matching Scope can trigger it.
type Token struct {
	state *scopeState
}

// Done returns a channel that is closed when the scope is released.
func (t *Token) Done() <-chan struct{} {
	return t.state.done
}

// Canceled reports whether the scope has been released.
func (t *Token) Canceled() bool {
	select {
	case <-t.state.done:
		return true
	default:
		return false
	}
}

// Scope is the owning half of a cancellation pair. Releasing it cancels the
// token exactly once; the cancellation cannot be undone, so restarting work
// requires a new pair.
//
// Hold a Scope in the model for as long as the work should run and release
// it on every exit path, usually with defer. A Scope that becomes
// unreachable without being released is released by the garbage collector.
type Scope struct {
	state *scopeState
}

type scopeState struct {
	done chan struct{}
	once sync.Once
}

// release closes the done channel and reports whether this call did it.
func (s *scopeState) release() bool {
	released := false
	s.once.Do(func() {
		close(s.done)
		released = true
	})
	return released
}

// NewScope returns a connected token and scope.
func NewScope() (*Token, *Scope) {
	state := &scopeState{done: make(chan struct{})}
	scope := &Scope{state: state}
	runtime.AddCleanup(scope, func(s *scopeState) {
		s.release()
	}, state)
	return &Token{state: state}, scope
}

// Token returns the token observing this scope.
func (s *Scope) Token() *Token {
	return &Token{state: s.state}
}

// Release cancels the token. Subsequent calls are no-ops, as is calling
// Release on a nil Scope.
func (s *Scope) Release() {
	if s == nil {
		return
	}
	if s.state.release() {
		capitan.Emit(context.Background(), ScopeReleased)
	}
}

// Released reports whether the scope has been released.
func (s *Scope) Released() bool {
	return s.Token().Canceled()
}

// WithScope returns a copy of ctx that is cancelled when the token's scope
// is released. Calling the returned cancel function frees the resources
// associated with the watch.
func WithScope(ctx context.Context, token *Token) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	if token.Canceled() {
		cancel()
		return ctx, cancel
	}
	go func() {
		select {
		case <-token.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
