package app

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ironwood-ui/ironwood/pkg/backend"
	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/extract"
	"github.com/ironwood-ui/ironwood/pkg/ir"
	"github.com/ironwood-ui/ironwood/pkg/message"
	"github.com/ironwood-ui/ironwood/pkg/scheduler"
	"github.com/ironwood-ui/ironwood/pkg/telemetry"
	"github.com/ironwood-ui/ironwood/pkg/view"
)

const tracerName = "ironwood/app"

// Frame is the result of rendering one model version.
type Frame[O any] struct {
	Version uint64
	IR      *ir.Node
	Output  O
	// Changes lists the keys that differ from the previous frame. The
	// first frame reports every key as added.
	Changes ir.Changes
}

// Runtime connects a program, a scheduler and a backend.
type Runtime[M, O any] struct {
	program  Program[M]
	backend  backend.Backend[O]
	sched    *scheduler.Scheduler[M]
	ctx      *extract.Context
	logger   *slog.Logger
	observer []LoweringObserver

	mu    sync.Mutex
	last  *Frame[O]
	sinks []func(Frame[O])
}

// New builds a runtime. It fails if b cannot interpret the current IR
// version.
func New[M, O any](program Program[M], b backend.Backend[O], opts ...Option) (*Runtime[M, O], error) {
	if err := backend.CheckCompatible(b.Name(), b.IRVersion()); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.ctx == nil {
		o.ctx = extract.NewContext(extract.WithLogger(o.logger))
	}

	r := &Runtime[M, O]{
		program:  program,
		backend:  b,
		sched:    scheduler.New[M](program, o.schedOpts...),
		ctx:      o.ctx,
		logger:   o.logger.With("component", "runtime", "backend", b.Name()),
		observer: o.observers,
	}
	if !o.manualDraw {
		r.sched.OnUpdate(func(u scheduler.Update[M]) {
			if _, err := r.render(u.Version, u.Model); err != nil {
				r.logger.Warn("render failed", "version", u.Version, "error", err)
			}
		})
	}
	return r, nil
}

// Scheduler returns the underlying scheduler.
func (r *Runtime[M, O]) Scheduler() *scheduler.Scheduler[M] { return r.sched }

// Context returns the lowering context.
func (r *Runtime[M, O]) Context() *extract.Context { return r.ctx }

// OnFrame registers fn to receive every rendered frame.
func (r *Runtime[M, O]) OnFrame(fn func(Frame[O])) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, fn)
}

// Last returns the most recent frame.
func (r *Runtime[M, O]) Last() (Frame[O], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return Frame[O]{}, false
	}
	return *r.last, true
}

// Render renders the current model. If a newer frame was installed while
// rendering, the result is returned but does not replace it.
func (r *Runtime[M, O]) Render() (Frame[O], error) {
	model, version := r.sched.Current()
	return r.render(version, model)
}

func (r *Runtime[M, O]) render(version uint64, model M) (f Frame[O], err error) {
	_, span := telemetry.StartSpan(context.Background(), tracerName, "Runtime.render",
		trace.WithAttributes(attribute.Int64("version", int64(version))))
	defer span.End()

	start := time.Now()
	nodes := 0
	defer func() {
		d := time.Since(start)
		for _, obs := range r.observer {
			obs.LoweringCompleted(d, nodes, err)
		}
		if err != nil {
			telemetry.RecordError(span, err)
		}
	}()

	root, err := r.lower(model)
	if err != nil {
		return Frame[O]{}, err
	}
	nodes = ir.Count(root)
	span.SetAttributes(attribute.Int("nodes", nodes))

	out, err := r.backend.Interpret(root)
	if err != nil {
		return Frame[O]{}, err
	}

	r.mu.Lock()
	var prev *ir.Node
	if r.last != nil {
		if last := r.last.Version; last > version {
			r.mu.Unlock()
			r.logger.Debug("stale frame not installed", "version", version, "last", last)
			return Frame[O]{Version: version, IR: root, Output: out}, nil
		}
		prev = r.last.IR
	}
	f = Frame[O]{Version: version, IR: root, Output: out, Changes: ir.Diff(prev, root)}
	r.last = &f
	sinks := append([]func(Frame[O]){}, r.sinks...)
	r.mu.Unlock()

	r.logger.Debug("frame rendered", "version", version, "nodes", nodes,
		"added", len(f.Changes.Added), "removed", len(f.Changes.Removed), "changed", len(f.Changes.Changed))
	for _, sink := range sinks {
		func() {
			defer errors.Recover("app.OnFrame")
			sink(f)
		}()
	}
	return f, nil
}

func (r *Runtime[M, O]) lower(model M) (root *ir.Node, err error) {
	defer errors.RecoverError("app.View", &err)
	return view.Lower(r.program.View(model), r.ctx)
}

// Send enqueues msg.
func (r *Runtime[M, O]) Send(msg message.Message) error {
	return r.sched.Enqueue(msg)
}

// Activate enqueues the activation message of the interactive node at key
// in the last frame. The node must exist and be an enabled interaction.
func (r *Runtime[M, O]) Activate(key ir.Key) error {
	f, ok := r.Last()
	if !ok {
		return errors.Newf("app.Activate", errors.KindExtraction, "no frame rendered")
	}
	var found *ir.Node
	ir.Walk(f.IR, func(n *ir.Node) bool {
		if n.Key == key {
			found = n
		}
		return found == nil
	})
	fail := func(reason string) error {
		return &errors.Error{Op: "app.Activate", Kind: errors.KindExtraction, Key: string(key), Err: stderrors.New(reason)}
	}
	switch {
	case found == nil:
		return fail("no node with this key")
	case found.Kind != ir.KindInteraction:
		return fail("node is not interactive")
	case !found.Interaction.Enabled():
		return fail("node is disabled")
	case found.Interaction.Message == nil:
		return fail("node has no activation message")
	}
	return r.sched.Enqueue(found.Interaction.Message)
}

// Run renders the initial frame if none exists and drives the scheduler
// until ctx is done or Stop is called.
func (r *Runtime[M, O]) Run(ctx context.Context) error {
	if _, ok := r.Last(); !ok {
		if _, err := r.Render(); err != nil {
			return err
		}
	}
	return r.sched.Run(ctx)
}

// Stop stops the scheduler.
func (r *Runtime[M, O]) Stop() { r.sched.Stop() }
