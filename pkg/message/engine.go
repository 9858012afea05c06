package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/ironwood-ui/ironwood/pkg/errors"
)

// DefaultRecursionLimit is the default maximum nesting depth of Batch and
// Conditional nodes.
const DefaultRecursionLimit = 256

// Outcome is the result of applying a transform tree.
type Outcome[M any] struct {
	// Model is the resulting model. On error it is the input model.
	Model M
	// Tasks are the async tasks issued while applying, in the order their
	// nodes were reached.
	Tasks []*Task[M]
	// Replaced reports whether a Set or Reset node was applied.
	Replaced bool
	// Steps counts the leaf transforms that took effect.
	Steps int
}

// Pending reports whether the outcome issued async work.
func (o Outcome[M]) Pending() bool { return len(o.Tasks) > 0 }

// Engine applies transforms to models of type M.
// An Engine holds no model state and is safe for concurrent use.
type Engine[M any] struct {
	init  func() M
	limit int
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	limit int
	now   func() time.Time
}

// WithRecursionLimit sets the maximum Batch/Conditional nesting depth.
// Values below 1 select DefaultRecursionLimit.
func WithRecursionLimit(n int) Option {
	return func(o *engineOptions) { o.limit = n }
}

// WithClock sets the time source used to stamp issued tasks.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// NewEngine creates an engine. init produces the model used by Reset; it is
// called only when a Reset node is applied.
func NewEngine[M any](init func() M, opts ...Option) *Engine[M] {
	o := engineOptions{limit: DefaultRecursionLimit, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.limit < 1 {
		o.limit = DefaultRecursionLimit
	}
	if o.now == nil {
		o.now = time.Now
	}
	return &Engine[M]{init: init, limit: o.limit, now: o.now}
}

// RecursionLimit returns the configured nesting guard.
func (e *Engine[M]) RecursionLimit() int { return e.limit }

// Initial returns a fresh initial model.
func (e *Engine[M]) Initial() M {
	if e.init == nil {
		var zero M
		return zero
	}
	return e.init()
}

// Apply applies t to model. It never blocks: Async nodes yield tasks in the
// outcome instead of running. On error the outcome carries the input model
// unchanged and no tasks; a message is never partially applied.
func (e *Engine[M]) Apply(model M, t Transform[M]) (out Outcome[M], err error) {
	defer func() {
		if err != nil {
			out = Outcome[M]{Model: model}
		}
	}()
	defer errors.RecoverError("message.Apply", &err)

	a := &applier[M]{engine: e}
	result, err := a.apply(model, t, 0)
	if err != nil {
		return Outcome[M]{Model: model}, err
	}
	return Outcome[M]{
		Model:    result,
		Tasks:    a.tasks,
		Replaced: a.replaced,
		Steps:    a.steps,
	}, nil
}

type applier[M any] struct {
	engine   *Engine[M]
	tasks    []*Task[M]
	replaced bool
	steps    int
}

func (a *applier[M]) apply(model M, t Transform[M], depth int) (M, error) {
	if t == nil {
		return model, nil
	}
	switch n := t.(type) {
	case noopT[M]:
		return model, nil
	case setT[M]:
		a.replace()
		return n.value, nil
	case resetT[M]:
		a.replace()
		return a.engine.Initial(), nil
	case pureT[M]:
		if n.fn == nil {
			return model, nil
		}
		a.steps++
		return n.fn(model), nil
	case closureT[M]:
		if n.fn == nil {
			return model, nil
		}
		a.steps++
		return n.fn(model), nil
	case conditionalT[M]:
		if err := a.enter(depth); err != nil {
			return model, err
		}
		if n.pred == nil || !n.pred(model) {
			return model, nil
		}
		return a.apply(model, n.inner, depth+1)
	case batchT[M]:
		if err := a.enter(depth); err != nil {
			return model, err
		}
		current := model
		for _, item := range n.items {
			next, err := a.apply(current, item, depth+1)
			if err != nil {
				return model, err
			}
			current = next
		}
		return current, nil
	case asyncT[M]:
		a.tasks = append(a.tasks, &Task[M]{
			ID:       uuid.New(),
			Label:    n.label,
			Snapshot: model,
			IssuedAt: a.engine.now(),
			run:      n.fn,
		})
		return model, nil
	default:
		return model, errors.Newf("message.Apply", errors.KindUnknown, "unknown transform %T", t)
	}
}

// replace records a Set or Reset. Tasks issued earlier in the same tree
// now belong to a replaced model.
func (a *applier[M]) replace() {
	a.steps++
	a.replaced = true
	for _, t := range a.tasks {
		t.Superseded = true
	}
}

func (a *applier[M]) enter(depth int) error {
	if depth+1 > a.engine.limit {
		return errors.Newf("message.Apply", errors.KindRecursionLimit,
			"nesting depth %d exceeds limit %d", depth+1, a.engine.limit)
	}
	return nil
}
