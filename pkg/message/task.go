package message

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ironwood-ui/ironwood/pkg/errors"
)

// Task is a pending asynchronous transform produced by Engine.Apply.
// It holds the model snapshot taken when its Async node was reached.
type Task[M any] struct {
	// ID uniquely identifies the task for logging and cancellation.
	ID uuid.UUID
	// Label is the name given with AsyncNamed, if any.
	Label string
	// Snapshot is the model the task computes from.
	Snapshot M
	// IssuedAt is when the Async node was reached.
	IssuedAt time.Time
	// Superseded is set when a Set or Reset node was applied after the
	// Async node within the same transform tree.
	Superseded bool

	run TaskFunc[M]
}

// Run executes the task body. Failures and panics are returned as errors of
// kind errors.KindAsyncTask; a nil task body fails immediately.
func (t *Task[M]) Run(ctx context.Context) (result M, err error) {
	if t.run == nil {
		return result, errors.Newf("message.Task", errors.KindAsyncTask, "task %s has no body", t.ID)
	}
	defer func() {
		if r := recover(); r != nil {
			pe := &errors.PanicError{
				Op:         "message.Task",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			errors.ReportPanic(pe)
			var zero M
			result, err = zero, errors.New("message.Task", errors.KindAsyncTask, pe)
		}
	}()
	result, err = t.run(ctx, t.Snapshot)
	if err != nil {
		var zero M
		return zero, errors.New("message.Task", errors.KindAsyncTask, err)
	}
	return result, nil
}
