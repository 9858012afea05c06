package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/message"
)

type counter struct {
	Count  int
	Errors int
}

func inc() message.Transform[counter] {
	return message.Pure(func(m counter) counter {
		m.Count++
		return m
	})
}

func double() message.Transform[counter] {
	return message.Pure(func(m counter) counter {
		m.Count *= 2
		return m
	})
}

// gated returns an async transform that applies fn once gate is closed.
// When honourCancel is set the task returns ctx.Err() on cancellation.
func gated(gate <-chan struct{}, honourCancel bool, fn func(counter) counter) message.Transform[counter] {
	return message.Async(func(ctx context.Context, m counter) (counter, error) {
		if honourCancel {
			select {
			case <-gate:
			case <-ctx.Done():
				return m, ctx.Err()
			}
		} else {
			<-gate
		}
		return fn(m), nil
	})
}

type counterProgram struct{ start int }

func (p counterProgram) Init() counter { return counter{Count: p.start} }

func (p counterProgram) Update(m counter, msg message.Message) message.Transform[counter] {
	switch msg {
	case "inc":
		return inc()
	case "double":
		return double()
	case "reset":
		return message.Reset[counter]()
	case "task-failed":
		return message.Pure(func(m counter) counter {
			m.Errors++
			return m
		})
	case "panic":
		panic("update exploded")
	default:
		return message.Noop[counter]()
	}
}

// mappingProgram turns task failures into messages.
type mappingProgram struct{ counterProgram }

func (mappingProgram) OnTaskError(error) message.Message { return "task-failed" }

type recordingObserver struct {
	mu       sync.Mutex
	units    []string
	tasks    []string
	states   []string
	depth    int
	inFlight int
}

func (r *recordingObserver) UnitProcessed(cause, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = append(r.units, cause+":"+outcome)
}

func (r *recordingObserver) TaskFinished(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, outcome)
}

func (r *recordingObserver) QueueDepthChanged(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depth = n
}

func (r *recordingObserver) TasksInFlightChanged(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight = n
}

func (r *recordingObserver) StateChanged(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordingObserver) snapshot() (units, tasks, states []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.units...), append([]string{}, r.tasks...), append([]string{}, r.states...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func quietErrors(t *testing.T) {
	t.Helper()
	errors.SetHandler(&errors.LogHandler{Logger: discardLogger()})
	t.Cleanup(func() { errors.SetHandler(nil) })
}

func timeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
