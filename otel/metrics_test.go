package otel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/zoobzio/tide"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// errorMeterProvider wraps a real MeterProvider and fails creation of one instrument.
type errorMeterProvider struct {
	metric.MeterProvider
	base   metric.MeterProvider
	failOn string
}

func (e *errorMeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return &errorMeter{Meter: e.base.Meter(name, opts...), failOn: e.failOn}
}

type errorMeter struct {
	metric.Meter
	failOn string
}

func (e *errorMeter) Int64Counter(name string, options ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	if name == e.failOn {
		return nil, fmt.Errorf("failed to create counter: %s", name)
	}
	return e.Meter.Int64Counter(name, options...)
}

func (e *errorMeter) Float64Histogram(name string, options ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	if name == e.failOn {
		return nil, fmt.Errorf("failed to create histogram: %s", name)
	}
	return e.Meter.Float64Histogram(name, options...)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is %T, not Sum[int64]", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_Callbacks(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := New(WithMeterProvider(mp))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	m.OnStateChange(tide.StateInitializing, tide.StateRunning)
	m.OnDispatch(tide.CmdEffect)
	m.OnDispatch(tide.CmdStream)
	m.OnDropped(tide.CmdEffect)
	m.OnUpdate(5 * time.Millisecond)
	m.OnUpdate(7 * time.Millisecond)

	metrics := collect(t, reader)

	expected := map[string]int64{
		"tide.command.dispatched":  2,
		"tide.command.dropped":     1,
		"tide.update.count":        2,
		"tide.program.transitions": 1,
	}
	for name, want := range expected {
		got, ok := metrics[name]
		if !ok {
			t.Errorf("missing metric: %s", name)
			continue
		}
		if v := sumOf(t, got); v != want {
			t.Errorf("%s = %d, want %d", name, v, want)
		}
	}

	hist, ok := metrics["tide.update.duration"]
	if !ok {
		t.Fatal("missing metric: tide.update.duration")
	}
	data, ok := hist.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("tide.update.duration is %T", hist.Data)
	}
	if len(data.DataPoints) != 1 || data.DataPoints[0].Count != 2 {
		t.Errorf("expected 2 duration samples, got %+v", data.DataPoints)
	}
}

func TestNew_InstrumentErrors(t *testing.T) {
	names := []string{
		"tide.command.dispatched",
		"tide.command.dropped",
		"tide.update.count",
		"tide.update.duration",
		"tide.program.transitions",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			provider := &errorMeterProvider{base: sdkmetric.NewMeterProvider(), failOn: name}
			if _, err := New(WithMeterProvider(provider)); err == nil {
				t.Errorf("expected error when %s fails", name)
			}
		})
	}
}

func TestMetrics_WithProgram(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := New(WithMeterProvider(mp))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	program := tide.New(
		func() (int, tide.Cmd[int]) { return 0, tide.Immediate(1) },
		func(n *int) string { return fmt.Sprint(*n) },
		func(n, msg int) (int, tide.Cmd[int]) { return n + msg, tide.None[int]() },
		func(n int) (int, tide.Sub[int]) { return n, tide.Items(2, 3) },
	).Quiet().Metrics(m)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := program.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	metrics := collect(t, reader)
	if v := sumOf(t, metrics["tide.update.count"]); v != 3 {
		t.Errorf("tide.update.count = %d, want 3", v)
	}
	if v := sumOf(t, metrics["tide.command.dispatched"]); v != 1 {
		t.Errorf("tide.command.dispatched = %d, want 1", v)
	}
	if v := sumOf(t, metrics["tide.program.transitions"]); v != 2 {
		t.Errorf("tide.program.transitions = %d, want 2", v)
	}
}
