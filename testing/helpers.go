// Package testing provides test utilities for tide programs.
package testing

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/tide"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// Recorder captures every message passed to an update function and detects
// overlapping update calls.
type Recorder[Msg any] struct {
	mu       sync.Mutex
	messages []Msg
	active   atomic.Int32
	overlaps atomic.Int32
}

// NewRecorder creates an empty Recorder.
func NewRecorder[Msg any]() *Recorder[Msg] {
	return &Recorder[Msg]{}
}

// Wrap returns update instrumented to record into r.
func Wrap[M, Msg any](r *Recorder[Msg], update func(M, Msg) (M, tide.Cmd[Msg])) func(M, Msg) (M, tide.Cmd[Msg]) {
	return func(model M, msg Msg) (M, tide.Cmd[Msg]) {
		if r.active.Add(1) > 1 {
			r.overlaps.Add(1)
		}
		defer r.active.Add(-1)

		r.mu.Lock()
		r.messages = append(r.messages, msg)
		r.mu.Unlock()

		return update(model, msg)
	}
}

// Messages returns a copy of the recorded messages in delivery order.
func (r *Recorder[Msg]) Messages() []Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Msg, len(r.messages))
	copy(out, r.messages)
	return out
}

// Count returns the number of recorded update calls.
func (r *Recorder[Msg]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// Overlaps returns how many update calls started while another was running.
func (r *Recorder[Msg]) Overlaps() int {
	return int(r.overlaps.Load())
}

// Output is a goroutine-safe writer for capturing rendered views.
type Output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

// Lines returns the rendered lines written so far.
func (o *Output) Lines() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := strings.TrimSuffix(o.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// RunFinite runs p to termination and fails the test if it does not
// terminate within timeout.
func RunFinite[M, Msg any](t *testing.T, p *tide.Program[M, Msg], timeout time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

// RunAsync starts p in a goroutine and returns a function that cancels it
// and waits for Run to return. stop may be called more than once; every
// call returns the error from Run.
func RunAsync[M, Msg any](t *testing.T, p *tide.Program[M, Msg]) (stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(ctx)
	}()
	var (
		once sync.Once
		err  error
	)
	return func() error {
		once.Do(func() {
			cancel()
			select {
			case err = <-errCh:
			case <-time.After(5 * time.Second):
				t.Error("program did not stop within 5s")
			}
		})
		return err
	}
}
