package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// States lists the scheduler states exported by Collectors.
var States = []string{"idle", "applying", "awaiting_async", "shutting_down"}

// Collectors exposes scheduler and render signals as Prometheus
// collectors. Like Metrics it satisfies the scheduler's Observer interface.
type Collectors struct {
	units            *prometheus.CounterVec
	unitDuration     *prometheus.HistogramVec
	tasks            *prometheus.CounterVec
	taskDuration     prometheus.Histogram
	queueDepth       prometheus.Gauge
	inFlight         prometheus.Gauge
	state            *prometheus.GaugeVec
	lowerings        *prometheus.CounterVec
	loweringDuration prometheus.Histogram
}

// NewCollectors creates unregistered collectors under namespace.
func NewCollectors(namespace string) *Collectors {
	return &Collectors{
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "units_total",
			Help:      "Processed scheduler units by cause and outcome.",
		}, []string{"cause", "outcome"}),
		unitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "unit_duration_seconds",
			Help:      "Scheduler unit processing time.",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"cause"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tasks_total",
			Help:      "Finished async tasks by outcome.",
		}, []string{"outcome"}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "task_duration_seconds",
			Help:      "Async task run time.",
			Buckets:   prometheus.DefBuckets,
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "queue_depth",
			Help:      "Queued scheduler units.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tasks_in_flight",
			Help:      "Running async tasks.",
		}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "state",
			Help:      "1 for the current scheduler state, 0 otherwise.",
		}, []string{"state"}),
		lowerings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "lowerings_total",
			Help:      "Lowering passes by status.",
		}, []string{"status"}),
		loweringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Lower and interpret time.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// Register registers every collector with reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.units, c.unitDuration, c.tasks, c.taskDuration,
		c.queueDepth, c.inFlight, c.state, c.lowerings, c.loweringDuration,
	} {
		if err := reg.Register(col); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
	}
	return nil
}

// UnitProcessed counts a scheduler unit and observes its duration.
func (c *Collectors) UnitProcessed(cause, outcome string, d time.Duration) {
	c.units.WithLabelValues(cause, outcome).Inc()
	c.unitDuration.WithLabelValues(cause).Observe(d.Seconds())
}

// TaskFinished counts a finished async task.
func (c *Collectors) TaskFinished(outcome string, d time.Duration) {
	c.tasks.WithLabelValues(outcome).Inc()
	c.taskDuration.Observe(d.Seconds())
}

// QueueDepthChanged sets the queue depth gauge.
func (c *Collectors) QueueDepthChanged(n int) { c.queueDepth.Set(float64(n)) }

// TasksInFlightChanged sets the in-flight gauge.
func (c *Collectors) TasksInFlightChanged(n int) { c.inFlight.Set(float64(n)) }

// StateChanged sets the gauge of state to 1 and every other state to 0.
func (c *Collectors) StateChanged(state string) {
	for _, s := range States {
		v := 0.0
		if s == state {
			v = 1
		}
		c.state.WithLabelValues(s).Set(v)
	}
}

// LoweringCompleted counts a lowering pass by status.
func (c *Collectors) LoweringCompleted(d time.Duration, _ int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.lowerings.WithLabelValues(status).Inc()
	c.loweringDuration.Observe(d.Seconds())
}
