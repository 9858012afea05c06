package scheduler

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/message"
	"github.com/ironwood-ui/ironwood/pkg/telemetry"
)

const tracerName = "ironwood/scheduler"

// Program supplies the initial model and maps messages to transforms.
type Program[M any] interface {
	Init() M
	Update(model M, msg message.Message) message.Transform[M]
}

// TaskErrorMapper is implemented by programs that want failed async tasks
// reported back as messages. Without it failures are only reported to the
// error handler.
type TaskErrorMapper interface {
	OnTaskError(err error) message.Message
}

// Update describes a newly installed model.
type Update[M any] struct {
	Version uint64
	Model   M
	Cause   Cause
}

type unit[M any] struct {
	cause     Cause
	msg       message.Message
	transform message.Transform[M]
	entry     *inflight[M]
	result    M
	err       error
}

type inflight[M any] struct {
	task    *message.Task[M]
	epoch   uint64
	ctx     context.Context
	cancel  context.CancelFunc
	started time.Time
}

// Scheduler owns the live model. Enqueue and Dispatch may be called from
// any goroutine; Step and Run drive the loop and are serialised.
type Scheduler[M any] struct {
	program Program[M]
	engine  *message.Engine[M]
	cfg     config
	logger  *slog.Logger

	mu    sync.Mutex
	queue []unit[M]
	state State
	wake  chan struct{}

	modelMu sync.RWMutex
	model   M
	version uint64

	// Owned by the drive loop.
	driveMu sync.Mutex
	epoch   uint64
	tasks   map[uuid.UUID]*inflight[M]
	backlog []*inflight[M]

	inFlight atomic.Int64

	hooksMu sync.RWMutex
	hooks   []func(Update[M])

	root     context.Context
	cancel   context.CancelFunc
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a scheduler whose model starts at program.Init().
func New[M any](program Program[M], opts ...Option) *Scheduler[M] {
	cfg := newConfig(opts)
	root, cancel := context.WithCancel(context.Background())
	s := &Scheduler[M]{
		program: program,
		cfg:     cfg,
		logger:  cfg.logger.With("component", "scheduler"),
		wake:    make(chan struct{}, 1),
		tasks:   make(map[uuid.UUID]*inflight[M]),
		root:    root,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	s.engine = message.NewEngine(program.Init,
		message.WithRecursionLimit(cfg.recursionLimit),
		message.WithClock(cfg.clock.Now))
	s.model = program.Init()
	return s
}

// Model returns the current model.
func (s *Scheduler[M]) Model() M {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.model
}

// Version counts installed models; the initial model is version 0.
func (s *Scheduler[M]) Version() uint64 {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.version
}

// Current returns the model together with its version.
func (s *Scheduler[M]) Current() (M, uint64) {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.model, s.version
}

// State returns the current state.
func (s *Scheduler[M]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the number of queued units.
func (s *Scheduler[M]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// InFlight returns the number of running async tasks.
func (s *Scheduler[M]) InFlight() int {
	return int(s.inFlight.Load())
}

// Policy returns the configured cancel policy.
func (s *Scheduler[M]) Policy() CancelPolicy { return s.cfg.policy }

// OnUpdate registers fn to be called on the drive goroutine after each
// model is installed. Hooks run in registration order.
func (s *Scheduler[M]) OnUpdate(fn func(Update[M])) {
	if fn == nil {
		return
	}
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Done is closed once the scheduler has stopped.
func (s *Scheduler[M]) Done() <-chan struct{} { return s.stopped }

// Enqueue submits a message.
func (s *Scheduler[M]) Enqueue(msg message.Message) error {
	return s.push(unit[M]{cause: CauseMessage, msg: msg})
}

// Dispatch submits a transform directly, bypassing Update.
func (s *Scheduler[M]) Dispatch(t message.Transform[M]) error {
	return s.push(unit[M]{cause: CauseTransform, transform: t})
}

func (s *Scheduler[M]) push(u unit[M]) error {
	s.mu.Lock()
	if s.state == StateShuttingDown {
		s.mu.Unlock()
		return errors.New("scheduler.Enqueue", errors.KindShutdown, errors.ErrShuttingDown)
	}
	s.queue = append(s.queue, u)
	depth := len(s.queue)
	s.mu.Unlock()

	s.observe(func(o Observer) { o.QueueDepthChanged(depth) })
	s.signal()
	return nil
}

func (s *Scheduler[M]) pop() (unit[M], bool, error) {
	s.mu.Lock()
	if s.state == StateShuttingDown {
		s.mu.Unlock()
		return unit[M]{}, false, errors.New("scheduler.Step", errors.KindShutdown, errors.ErrShuttingDown)
	}
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return unit[M]{}, false, nil
	}
	u := s.queue[0]
	s.queue[0] = unit[M]{}
	s.queue = s.queue[1:]
	depth := len(s.queue)
	s.mu.Unlock()

	s.observe(func(o Observer) { o.QueueDepthChanged(depth) })
	return u, true, nil
}

func (s *Scheduler[M]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler[M]) setState(st State) {
	s.mu.Lock()
	if s.state == StateShuttingDown || s.state == st {
		s.mu.Unlock()
		return
	}
	s.state = st
	s.mu.Unlock()
	s.observe(func(o Observer) { o.StateChanged(st.String()) })
}

func (s *Scheduler[M]) observe(fn func(Observer)) {
	for _, o := range s.cfg.observers {
		fn(o)
	}
}

// Step processes at most one queued unit. It reports whether a unit was
// taken and the error, if any, that unit produced. Errors are also sent to
// the global error handler. After Stop, Step fails with ErrShuttingDown.
func (s *Scheduler[M]) Step() (bool, error) {
	s.driveMu.Lock()
	defer s.driveMu.Unlock()

	u, ok, err := s.pop()
	if err != nil || !ok {
		return false, err
	}
	return true, s.process(u)
}

// Run drives the loop until Stop is called or ctx is done. Errors from
// individual units are reported and do not stop the loop.
func (s *Scheduler[M]) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"policy", s.cfg.policy.String(),
		"recursion_limit", s.cfg.recursionLimit,
		"max_in_flight", s.cfg.maxInFlight)
	defer s.logger.Info("scheduler stopped", "version", s.Version())

	for {
		processed, err := s.Step()
		if stderrors.Is(err, errors.ErrShuttingDown) {
			return nil
		}
		if processed {
			continue
		}
		select {
		case <-s.wake:
		case <-s.stopped:
			return nil
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		}
	}
}

// Wait blocks until work is queued, the scheduler stops, or ctx is done.
// It must not be used while Run is active.
func (s *Scheduler[M]) Wait(ctx context.Context) error {
	for {
		if s.Pending() > 0 {
			return nil
		}
		select {
		case <-s.wake:
		case <-s.stopped:
			return errors.New("scheduler.Wait", errors.KindShutdown, errors.ErrShuttingDown)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Settle steps until the queue is empty and no async task is outstanding.
// Unit errors are reported but do not end settling.
func (s *Scheduler[M]) Settle(ctx context.Context) error {
	for {
		for {
			processed, err := s.Step()
			if stderrors.Is(err, errors.ErrShuttingDown) {
				return err
			}
			if !processed {
				break
			}
		}
		if s.InFlight() == 0 {
			return nil
		}
		if err := s.Wait(ctx); err != nil {
			return err
		}
	}
}

// Stop enters ShuttingDown. Queued units are dropped, outstanding tasks
// are cancelled and their completions are discarded. Stop is idempotent.
func (s *Scheduler[M]) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		dropped := len(s.queue)
		completions := 0
		for _, u := range s.queue {
			if u.cause == CauseCompletion {
				completions++
			}
		}
		s.queue = nil
		s.state = StateShuttingDown
		s.mu.Unlock()

		// Queued completions already left the executor; nothing else will
		// release their in-flight slots.
		n := s.inFlight.Add(-int64(completions))

		s.cancel()
		close(s.stopped)
		s.observe(func(o Observer) {
			o.StateChanged(StateShuttingDown.String())
			o.QueueDepthChanged(0)
			if completions > 0 {
				o.TasksInFlightChanged(int(n))
			}
		})
		s.logger.Info("scheduler shutting down", "dropped_units", dropped, "in_flight", s.InFlight())
	})
}

func (s *Scheduler[M]) process(u unit[M]) (err error) {
	start := s.cfg.clock.Now()
	_, span := telemetry.StartSpan(s.root, tracerName, "Scheduler.process",
		trace.WithAttributes(attribute.String("cause", u.cause.String())))
	defer span.End()

	s.setState(StateApplying)
	outcome := OutcomeApplied
	defer func() {
		if err != nil {
			outcome = OutcomeFailed
			telemetry.RecordError(span, err)
			var e *errors.Error
			if stderrors.As(err, &e) {
				errors.Report(e)
			}
		}
		d := s.cfg.clock.Now().Sub(start)
		s.observe(func(o Observer) { o.UnitProcessed(u.cause.String(), outcome, d) })
		if s.InFlight() > 0 {
			s.setState(StateAwaitingAsync)
		} else {
			s.setState(StateIdle)
		}
	}()

	switch u.cause {
	case CauseMessage:
		t, err := s.update(u.msg)
		if err != nil {
			return err
		}
		return s.apply(t, u.cause)
	case CauseTransform:
		return s.apply(u.transform, u.cause)
	default:
		applied, err := s.complete(u)
		if err == nil && !applied {
			outcome = OutcomeDiscarded
		}
		return err
	}
}

func (s *Scheduler[M]) update(msg message.Message) (t message.Transform[M], err error) {
	defer errors.RecoverError("scheduler.Update", &err)
	return s.program.Update(s.Model(), msg), nil
}

func (s *Scheduler[M]) apply(t message.Transform[M], cause Cause) error {
	out, err := s.engine.Apply(s.Model(), t)
	if err != nil {
		s.logger.Warn("transform failed", "cause", cause.String(), "error", err)
		return err
	}
	if out.Replaced && cause != CauseCompletion {
		s.supersede()
	}
	for _, task := range out.Tasks {
		s.issue(task)
	}
	s.install(out.Model, cause)
	return nil
}

func (s *Scheduler[M]) install(model M, cause Cause) {
	s.modelMu.Lock()
	s.model = model
	s.version++
	u := Update[M]{Version: s.version, Model: model, Cause: cause}
	s.modelMu.Unlock()

	s.logger.Debug("model installed", "version", u.Version, "cause", cause.String())

	s.hooksMu.RLock()
	hooks := append([]func(Update[M]){}, s.hooks...)
	s.hooksMu.RUnlock()
	for _, h := range hooks {
		func() {
			defer errors.Recover("scheduler.OnUpdate")
			h(u)
		}()
	}
}
