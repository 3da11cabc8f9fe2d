package tide

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// ErrAlreadyRunning is returned when Run is called more than once.
var ErrAlreadyRunning = errors.New("program already started")

// Program drives a pure update function from commands and subscriptions.
//
// The model is owned by the loop goroutine. It is handed to initialize,
// subscriptions, update and view synchronously and is never shared with the
// producer goroutines spawned for commands, so it needs no locking.
type Program[M, Msg any] struct {
	initialize    func() (M, Cmd[Msg])
	view          func(*M) string
	update        func(M, Msg) (M, Cmd[Msg])
	subscriptions func(M) (M, Sub[Msg])

	capacity      int
	out           io.Writer
	quiet         bool
	renderInitial bool
	clock         clockz.Clock
	metrics       MetricsProvider
	onStop        func(State)
	drops         *dropRing

	state   atomic.Int32
	updates atomic.Int64

	mu      sync.Mutex
	started bool
}

// New creates a Program from its four application functions.
//
// initialize builds the initial model and an optional command.
// subscriptions is called once, after the initial command has been
// dispatched, and returns the long-lived subscription; it may also adjust
// the model, for example to store an outbound channel used by later
// commands. A nil subscriptions
// function means the program has no subscription. update computes the next
// model and command for each message, and view renders the model after
// every update.
//
// Example:
//
//	program := tide.New(
//	    func() (Model, tide.Cmd[Msg]) { return Model{}, tide.None[Msg]() },
//	    func(m *Model) string { return fmt.Sprintf("%+v", *m) },
//	    update,
//	    func(m Model) (Model, tide.Sub[Msg]) {
//	        return m, tide.Map(tide.Lines(os.Stdin), func(string) Msg { return Roll{} })
//	    },
//	).Capacity(0)
//
//	if err := program.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
func New[M, Msg any](
	initialize func() (M, Cmd[Msg]),
	view func(*M) string,
	update func(M, Msg) (M, Cmd[Msg]),
	subscriptions func(M) (M, Sub[Msg]),
) *Program[M, Msg] {
	p := &Program[M, Msg]{
		initialize:    initialize,
		view:          view,
		update:        update,
		subscriptions: subscriptions,
		capacity:      DefaultCapacity,
		out:           os.Stdout,
		clock:         clockz.RealClock,
	}
	p.state.Store(int32(StateInitializing))
	return p
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Capacity sets the bus buffer size. Default: 1. Must be called before Run().
func (p *Program[M, Msg]) Capacity(n int) *Program[M, Msg] {
	p.capacity = n
	return p
}

// Output sets where views are written. Default: os.Stdout.
// Must be called before Run().
func (p *Program[M, Msg]) Output(w io.Writer) *Program[M, Msg] {
	p.out = w
	return p
}

// RenderInitial renders the model once before the first message arrives.
// By default the view is rendered only after each update.
// Must be called before Run().
func (p *Program[M, Msg]) RenderInitial() *Program[M, Msg] {
	p.renderInitial = true
	return p
}

// Quiet disables rendering. view is never called. Must be called before Run().
func (p *Program[M, Msg]) Quiet() *Program[M, Msg] {
	p.quiet = true
	return p
}

// Clock sets a custom clock used to time updates.
// Must be called before Run().
func (p *Program[M, Msg]) Clock(clock clockz.Clock) *Program[M, Msg] {
	p.clock = clock
	return p
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Run().
func (p *Program[M, Msg]) Metrics(provider MetricsProvider) *Program[M, Msg] {
	p.metrics = provider
	return p
}

// OnStop sets a callback invoked when the loop returns, with the final
// state. Must be called before Run().
func (p *Program[M, Msg]) OnStop(fn func(State)) *Program[M, Msg] {
	p.onStop = fn
	return p
}

// DropHistory keeps the last n dropped commands for inspection with Drops.
// Default: 0 (disabled). Must be called before Run().
func (p *Program[M, Msg]) DropHistory(n int) *Program[M, Msg] {
	p.drops = newDropRing(n)
	return p
}

// Configure applies cfg. Must be called before Run().
func (p *Program[M, Msg]) Configure(cfg Config) *Program[M, Msg] {
	p.capacity = cfg.BusCapacity
	p.renderInitial = cfg.RenderInitial
	p.quiet = cfg.Quiet
	p.drops = newDropRing(cfg.DropHistory)
	return p
}

// State returns the current state of the Program.
func (p *Program[M, Msg]) State() State {
	return State(p.state.Load())
}

// Drops returns the recorded dropped commands, oldest first. It returns nil
// unless DropHistory was set.
func (p *Program[M, Msg]) Drops() []Drop {
	return p.drops.all()
}

// Updates returns the number of update calls made so far.
func (p *Program[M, Msg]) Updates() int64 {
	return p.updates.Load()
}

// Run drives the program until every source is exhausted: the
// subscription has ended, every command task has finished, and no message
// is left on the bus. In an interactive program a subscription such as a
// line reader usually keeps it running until ctx is cancelled.
//
// Run returns nil on natural termination and a wrapped ctx.Err() when ctx
// ends first. Run can only be called once.
func (p *Program[M, Msg]) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	p.started = true
	p.mu.Unlock()

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := NewBus[Msg](p.capacity)
	defer bus.Close()

	d := &dispatcher[Msg]{
		ctx:     ctx,
		bus:     bus,
		metrics: p.metrics,
		drops:   p.drops,
		clock:   p.clock,
	}
	start := p.clock.Now()

	capitan.Emit(context.WithoutCancel(ctx), ProgramStarted,
		KeyCapacity.Field(bus.Cap()),
	)

	defer func() {
		finalState := p.State()
		capitan.Emit(context.WithoutCancel(ctx), ProgramStopped,
			KeyState.Field(finalState.String()),
			KeyUpdates.Field(int(p.updates.Load())),
			KeyDuration.Field(p.clock.Since(start)),
		)
		if p.onStop != nil {
			p.onStop(finalState)
		}
	}()

	// Initializing
	model, cmd := p.initialize()
	d.dispatch(cmd)

	m := &merger[Msg]{bus: bus}
	if p.subscriptions != nil {
		var sub Sub[Msg]
		model, sub = p.subscriptions(model)
		if sub != nil {
			m.sub = sub(ctx)
			capitan.Emit(context.WithoutCancel(ctx), SubscriptionStarted)
		}
	}

	p.transitionState(ctx, StateInitializing, StateRunning)
	if p.renderInitial {
		p.render(&model)
	}

	// Running
	for {
		msg, ok := m.next(ctx)
		if !ok {
			break
		}
		began := p.clock.Now()

		var next Cmd[Msg]
		model, next = p.update(model, msg)
		p.updates.Add(1)
		d.dispatch(next)
		p.render(&model)

		if p.metrics != nil {
			p.metrics.OnUpdate(p.clock.Since(began))
		}
	}

	p.transitionState(ctx, StateRunning, StateTerminated)

	if err := parent.Err(); err != nil {
		return fmt.Errorf("program interrupted: %w", err)
	}
	return nil
}

// render writes the view of model, one line per transition.
func (p *Program[M, Msg]) render(model *M) {
	if p.quiet || p.view == nil {
		return
	}
	fmt.Fprintln(p.out, p.view(model))
}

// transitionState updates the state and emits a state change event if changed.
func (p *Program[M, Msg]) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	p.state.Store(int32(newState))
	capitan.Emit(context.WithoutCancel(ctx), ProgramStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if p.metrics != nil {
		p.metrics.OnStateChange(oldState, newState)
	}
}
