package scheduler

import (
	"io"
	"log/slog"
	"time"

	"github.com/ironwood-ui/ironwood/pkg/message"
)

// DefaultMaxInFlight bounds concurrently running async tasks. Further
// tasks wait in issue order until a slot frees up.
const DefaultMaxInFlight = 64

// Clock provides time to the scheduler.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Executor runs async task bodies.
type Executor interface {
	Go(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Go(fn func()) { f(fn) }

type goroutineExecutor struct{}

func (goroutineExecutor) Go(fn func()) { go fn() }

// Observer receives scheduler measurements. Implementations must be safe
// for concurrent use; TaskFinished is called from executor goroutines.
type Observer interface {
	UnitProcessed(cause, outcome string, d time.Duration)
	TaskFinished(outcome string, d time.Duration)
	QueueDepthChanged(n int)
	TasksInFlightChanged(n int)
	StateChanged(state string)
}

// Outcomes reported to observers.
const (
	OutcomeApplied   = "applied"
	OutcomeFailed    = "failed"
	OutcomeDiscarded = "discarded"
)

type config struct {
	recursionLimit int
	policy         CancelPolicy
	maxInFlight    int
	logger         *slog.Logger
	clock          Clock
	executor       Executor
	observers      []Observer
}

// Option configures a Scheduler.
type Option func(*config)

// WithRecursionLimit sets the transform nesting guard. Values below 1
// select message.DefaultRecursionLimit.
func WithRecursionLimit(n int) Option {
	return func(c *config) { c.recursionLimit = n }
}

// WithCancelPolicy sets the policy for superseded async results.
func WithCancelPolicy(p CancelPolicy) Option {
	return func(c *config) { c.policy = p }
}

// WithMaxInFlight bounds concurrently running tasks. Values below 1 select
// DefaultMaxInFlight.
func WithMaxInFlight(n int) Option {
	return func(c *config) { c.maxInFlight = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithClock sets the time source.
func WithClock(clk Clock) Option {
	return func(c *config) { c.clock = clk }
}

// WithExecutor sets the executor for async tasks.
func WithExecutor(e Executor) Option {
	return func(c *config) { c.executor = e }
}

// WithObserver adds an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

func newConfig(opts []Option) config {
	c := config{policy: ApplyLate}
	for _, opt := range opts {
		opt(&c)
	}
	if c.recursionLimit < 1 {
		c.recursionLimit = message.DefaultRecursionLimit
	}
	if c.maxInFlight < 1 {
		c.maxInFlight = DefaultMaxInFlight
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.clock == nil {
		c.clock = systemClock{}
	}
	if c.executor == nil {
		c.executor = goroutineExecutor{}
	}
	return c
}
