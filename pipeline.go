package tide

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

var (
	retryID   = pipz.NewIdentity("tide:retry", "Retries a failed effect immediately")
	backoffID = pipz.NewIdentity("tide:backoff", "Retries a failed effect with exponential backoff")
	timeoutID = pipz.NewIdentity("tide:timeout", "Bounds the duration of an effect")
)

// Stage wraps a pipeline with extra behaviour, such as retries or a
// timeout.
type Stage[T any] func(pipz.Chainable[T]) pipz.Chainable[T]

// Build wraps terminal with each stage in order. The last stage is the
// outermost.
func Build[T any](terminal pipz.Chainable[T], stages ...Stage[T]) pipz.Chainable[T] {
	p := terminal
	for _, stage := range stages {
		p = stage(p)
	}
	return p
}

// WithRetry retries failed processing immediately, up to maxAttempts times.
func WithRetry[T any](maxAttempts int) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		return pipz.NewRetry(retryID, p, maxAttempts)
	}
}

// WithBackoff retries failed processing with increasing delays: baseDelay,
// 2*baseDelay, 4*baseDelay, and so on.
func WithBackoff[T any](maxAttempts int, baseDelay time.Duration) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		return pipz.NewBackoff(backoffID, p, maxAttempts, baseDelay)
	}
}

// WithTimeout fails processing that takes longer than d.
func WithTimeout[T any](d time.Duration) Stage[T] {
	return func(p pipz.Chainable[T]) pipz.Chainable[T] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}

// Pipeline returns an effect that runs input through p and converts the
// outcome into a message. The pipeline sees the effect's context, so it
// stops when the program stops or the command's scope is released.
//
// Example:
//
//	fetch := tide.Build(pipz.Apply(fetchID, get),
//	    tide.WithBackoff[*Request](3, time.Second),
//	    tide.WithTimeout[*Request](10*time.Second),
//	)
//	return m, tide.Pipeline(fetch, req, func(r *Request, err error) Msg {
//	    return Fetched{Body: r.Body, Err: err}
//	})
//
// A nil pipeline or result function yields None.
func Pipeline[T, Msg any](p pipz.Chainable[T], input T, result func(T, error) Msg) Cmd[Msg] {
	if p == nil || result == nil {
		return Cmd[Msg]{}
	}
	return Effect(func(ctx context.Context) Msg {
		return result(p.Process(ctx, input))
	})
}
