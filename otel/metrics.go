// Package otel reports tide program activity through OpenTelemetry metrics.
package otel

import (
	"context"
	"time"

	"github.com/zoobzio/tide"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	instrumentationName = "github.com/zoobzio/tide"
)

// Metrics implements tide.MetricsProvider using OpenTelemetry instruments.
type Metrics struct {
	meter metric.Meter

	dispatchCounter metric.Int64Counter
	droppedCounter  metric.Int64Counter
	updateCounter   metric.Int64Counter
	updateDuration  metric.Float64Histogram
	stateCounter    metric.Int64Counter
}

// Ensure Metrics implements tide.MetricsProvider.
var _ tide.MetricsProvider = (*Metrics)(nil)

// Option configures Metrics.
type Option func(*Metrics)

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(m *Metrics) {
		m.meter = provider.Meter(instrumentationName)
	}
}

// New creates the instruments. Without options the global meter provider
// is used.
func New(opts ...Option) (*Metrics, error) {
	m := &Metrics{
		meter: otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(m)
	}

	var err error

	m.dispatchCounter, err = m.meter.Int64Counter(
		"tide.command.dispatched",
		metric.WithDescription("Number of command tasks spawned"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, err
	}

	m.droppedCounter, err = m.meter.Int64Counter(
		"tide.command.dropped",
		metric.WithDescription("Number of command messages that could not be delivered"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, err
	}

	m.updateCounter, err = m.meter.Int64Counter(
		"tide.update.count",
		metric.WithDescription("Number of update calls"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, err
	}

	m.updateDuration, err = m.meter.Float64Histogram(
		"tide.update.duration",
		metric.WithDescription("Time spent in update, dispatch and render"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	m.stateCounter, err = m.meter.Int64Counter(
		"tide.program.transitions",
		metric.WithDescription("Number of program state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// OnStateChange counts a transition, labelled with both states.
func (m *Metrics) OnStateChange(from, to tide.State) {
	m.stateCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("state.from", from.String()),
			attribute.String("state.to", to.String()),
		),
	)
}

// OnDispatch counts a spawned command task.
func (m *Metrics) OnDispatch(kind tide.CmdKind) {
	m.dispatchCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("command", kind.String())),
	)
}

// OnDropped counts an undelivered command message.
func (m *Metrics) OnDropped(kind tide.CmdKind) {
	m.droppedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("command", kind.String())),
	)
}

// OnUpdate counts an update and records its duration in milliseconds.
func (m *Metrics) OnUpdate(duration time.Duration) {
	ctx := context.Background()
	m.updateCounter.Add(ctx, 1)
	m.updateDuration.Record(ctx, float64(duration)/float64(time.Millisecond))
}
