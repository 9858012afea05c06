package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the OpenTelemetry instruments. It implements the
// scheduler's Observer interface and records lowering passes.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// UnitsTotal counts processed scheduler units by cause and outcome.
	UnitsTotal metric.Int64Counter
	// UnitDuration records unit processing time in seconds.
	UnitDuration metric.Float64Histogram
	// TasksTotal counts finished async tasks by outcome.
	TasksTotal metric.Int64Counter
	// TaskDuration records async task run time in seconds.
	TaskDuration metric.Float64Histogram
	// QueueDepth is the number of queued units.
	QueueDepth metric.Int64Gauge
	// TasksInFlight is the number of running async tasks.
	TasksInFlight metric.Int64Gauge
	// StateTransitions counts scheduler state changes by target state.
	StateTransitions metric.Int64Counter
	// LoweringsTotal counts lowering passes by status.
	LoweringsTotal metric.Int64Counter
	// LoweringDuration records lower-and-interpret time in seconds.
	LoweringDuration metric.Float64Histogram
	// IRNodes records the size of each produced IR tree.
	IRNodes metric.Int64Histogram
}

// NewMetrics registers all instruments with meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.UnitsTotal, err = meter.Int64Counter("ironwood.scheduler.units",
		metric.WithDescription("Processed scheduler units"),
		metric.WithUnit("{unit}"))
	if err != nil {
		return nil, fmt.Errorf("create scheduler.units: %w", err)
	}
	m.UnitDuration, err = meter.Float64Histogram("ironwood.scheduler.unit.duration",
		metric.WithDescription("Scheduler unit processing time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1))
	if err != nil {
		return nil, fmt.Errorf("create scheduler.unit.duration: %w", err)
	}
	m.TasksTotal, err = meter.Int64Counter("ironwood.scheduler.tasks",
		metric.WithDescription("Finished async tasks"),
		metric.WithUnit("{task}"))
	if err != nil {
		return nil, fmt.Errorf("create scheduler.tasks: %w", err)
	}
	m.TaskDuration, err = meter.Float64Histogram("ironwood.scheduler.task.duration",
		metric.WithDescription("Async task run time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1, 5, 30))
	if err != nil {
		return nil, fmt.Errorf("create scheduler.task.duration: %w", err)
	}
	m.QueueDepth, err = meter.Int64Gauge("ironwood.scheduler.queue.depth",
		metric.WithDescription("Queued scheduler units"),
		metric.WithUnit("{unit}"))
	if err != nil {
		return nil, fmt.Errorf("create scheduler.queue.depth: %w", err)
	}
	m.TasksInFlight, err = meter.Int64Gauge("ironwood.scheduler.tasks.in_flight",
		metric.WithDescription("Running async tasks"),
		metric.WithUnit("{task}"))
	if err != nil {
		return nil, fmt.Errorf("create scheduler.tasks.in_flight: %w", err)
	}
	m.StateTransitions, err = meter.Int64Counter("ironwood.scheduler.state.transitions",
		metric.WithDescription("Scheduler state transitions"),
		metric.WithUnit("{transition}"))
	if err != nil {
		return nil, fmt.Errorf("create scheduler.state.transitions: %w", err)
	}
	m.LoweringsTotal, err = meter.Int64Counter("ironwood.render.lowerings",
		metric.WithDescription("Lowering passes"),
		metric.WithUnit("{pass}"))
	if err != nil {
		return nil, fmt.Errorf("create render.lowerings: %w", err)
	}
	m.LoweringDuration, err = meter.Float64Histogram("ironwood.render.duration",
		metric.WithDescription("Lower and interpret time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1))
	if err != nil {
		return nil, fmt.Errorf("create render.duration: %w", err)
	}
	m.IRNodes, err = meter.Int64Histogram("ironwood.render.ir_nodes",
		metric.WithDescription("IR nodes per lowering pass"),
		metric.WithUnit("{node}"),
		metric.WithExplicitBucketBoundaries(1, 10, 100, 1000, 10000))
	if err != nil {
		return nil, fmt.Errorf("create render.ir_nodes: %w", err)
	}
	return m, nil
}

// UnitProcessed records one scheduler unit.
func (m *Metrics) UnitProcessed(cause, outcome string, d time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("cause", cause), attribute.String("outcome", outcome))
	m.UnitsTotal.Add(ctx, 1, attrs)
	m.UnitDuration.Record(ctx, d.Seconds(), attrs)
}

// TaskFinished records one finished async task.
func (m *Metrics) TaskFinished(outcome string, d time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.TasksTotal.Add(ctx, 1, attrs)
	m.TaskDuration.Record(ctx, d.Seconds(), attrs)
}

// QueueDepthChanged records the queue length.
func (m *Metrics) QueueDepthChanged(n int) {
	m.QueueDepth.Record(context.Background(), int64(n))
}

// TasksInFlightChanged records the number of running tasks.
func (m *Metrics) TasksInFlightChanged(n int) {
	m.TasksInFlight.Record(context.Background(), int64(n))
}

// StateChanged records a state transition.
func (m *Metrics) StateChanged(state string) {
	m.StateTransitions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("state", state)))
}

// LoweringCompleted records one lowering pass.
func (m *Metrics) LoweringCompleted(d time.Duration, nodes int, err error) {
	ctx := context.Background()
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LoweringsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.LoweringDuration.Record(ctx, d.Seconds())
	if err == nil {
		m.IRNodes.Record(ctx, int64(nodes))
	}
}
