package tide

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus,
// StatsD or OpenTelemetry (see the otel subpackage). Callbacks run on the
// goroutine that observed the event and must not block.
type MetricsProvider interface {
	// OnStateChange is called when the program transitions between states.
	OnStateChange(from, to State)

	// OnDispatch is called when a command spawns a producer task.
	OnDispatch(kind CmdKind)

	// OnDropped is called when a producer task fails to deliver its message.
	OnDropped(kind CmdKind)

	// OnUpdate is called after each update and render with the time taken.
	OnUpdate(duration time.Duration)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State) {}
func (NoOpMetricsProvider) OnDispatch(_ CmdKind)     {}
func (NoOpMetricsProvider) OnDropped(_ CmdKind)      {}
func (NoOpMetricsProvider) OnUpdate(_ time.Duration) {}
