package telemetry

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
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
	require.True(t, ok, "metric %s is %T", m.Name, m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetricsRecordSchedulerSignals(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	m.UnitProcessed("message", "applied", time.Millisecond)
	m.UnitProcessed("completion", "discarded", time.Millisecond)
	m.TaskFinished("failed", 10*time.Millisecond)
	m.QueueDepthChanged(3)
	m.TasksInFlightChanged(2)
	m.StateChanged("applying")
	m.LoweringCompleted(time.Millisecond, 12, nil)
	m.LoweringCompleted(time.Millisecond, 0, stderrors.New("boom"))

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["ironwood.scheduler.units"]))
	assert.Equal(t, int64(1), sumOf(t, got["ironwood.scheduler.tasks"]))
	assert.Equal(t, int64(1), sumOf(t, got["ironwood.scheduler.state.transitions"]))
	assert.Equal(t, int64(2), sumOf(t, got["ironwood.render.lowerings"]))

	gauge, ok := got["ironwood.scheduler.queue.depth"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)

	nodes, ok := got["ironwood.render.ir_nodes"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, nodes.DataPoints, 1)
	assert.Equal(t, uint64(1), nodes.DataPoints[0].Count)
	assert.Equal(t, int64(12), nodes.DataPoints[0].Sum)
}

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors("ironwood")
	require.NoError(t, c.Register(reg))
	require.Error(t, c.Register(reg), "double registration must fail")

	c.UnitProcessed("message", "applied", time.Millisecond)
	c.UnitProcessed("message", "applied", time.Millisecond)
	c.UnitProcessed("message", "failed", time.Millisecond)
	c.TaskFinished("applied", time.Second)
	c.QueueDepthChanged(4)
	c.TasksInFlightChanged(1)
	c.StateChanged("awaiting_async")
	c.LoweringCompleted(time.Millisecond, 5, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.units.WithLabelValues("message", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.units.WithLabelValues("message", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tasks.WithLabelValues("applied")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.queueDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.state.WithLabelValues("awaiting_async")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.state.WithLabelValues("idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lowerings.WithLabelValues("ok")))
}

func TestRecordErrorIgnoresNil(t *testing.T) {
	_, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "op")
	RecordError(nil, stderrors.New("x"))
	RecordError(span, nil)
	RecordError(span, stderrors.New("x"))
	span.End()
}

func TestSetup(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Exporter: "none"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, err = Setup(context.Background(), Config{Exporter: "jaeger"})
	assert.ErrorIs(t, err, ErrUnknownExporter)

	var buf bytes.Buffer
	shutdown, err = Setup(context.Background(), Config{Exporter: "stdout", Writer: &buf})
	require.NoError(t, err)
	_, span := StartSpan(context.Background(), "test", "Setup.span")
	span.End()
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "Setup.span")
}
