package ironwoodtest

import (
	"context"
	"testing"
	"time"

	"github.com/ironwood-ui/ironwood/pkg/app"
	"github.com/ironwood-ui/ironwood/pkg/backend/mock"
	"github.com/ironwood-ui/ironwood/pkg/ir"
	"github.com/ironwood-ui/ironwood/pkg/message"
	"github.com/ironwood-ui/ironwood/pkg/scheduler"
)

// DefaultSettleTimeout bounds Settle.
const DefaultSettleTimeout = 5 * time.Second

// Harness runs a program against the mock backend. Failures are reported
// through t and stop the test.
type Harness[M any] struct {
	t     testing.TB
	rt    *app.Runtime[M, mock.Node]
	clock *FakeClock
}

// New builds a harness, renders the initial frame and stops the scheduler
// when the test ends.
func New[M any](t testing.TB, program app.Program[M], opts ...app.Option) *Harness[M] {
	t.Helper()
	clk := NewFakeClock()
	opts = append([]app.Option{app.WithSchedulerOptions(scheduler.WithClock(clk))}, opts...)
	rt, err := app.New[M, mock.Node](program, mock.New(), opts...)
	if err != nil {
		t.Fatalf("ironwoodtest: %v", err)
	}
	t.Cleanup(rt.Stop)
	h := &Harness[M]{t: t, rt: rt, clock: clk}
	if _, err := rt.Render(); err != nil {
		t.Fatalf("ironwoodtest: initial render: %v", err)
	}
	return h
}

// Runtime returns the runtime under test.
func (h *Harness[M]) Runtime() *app.Runtime[M, mock.Node] { return h.rt }

// Scheduler returns the runtime's scheduler.
func (h *Harness[M]) Scheduler() *scheduler.Scheduler[M] { return h.rt.Scheduler() }

// Clock returns the fake clock stamped on tasks and durations.
func (h *Harness[M]) Clock() *FakeClock { return h.clock }

// Model returns the live model.
func (h *Harness[M]) Model() M { return h.rt.Scheduler().Model() }

// Version returns the live model's version.
func (h *Harness[M]) Version() uint64 { return h.rt.Scheduler().Version() }

// Pending returns the number of queued units.
func (h *Harness[M]) Pending() int { return h.rt.Scheduler().Pending() }

// Dispatch queues t, failing the test if the scheduler rejects it.
func (h *Harness[M]) Dispatch(t message.Transform[M]) { h.check(h.rt.Scheduler().Dispatch(t)) }

// Send queues msg, failing the test if the scheduler rejects it.
func (h *Harness[M]) Send(msg message.Message) { h.check(h.rt.Send(msg)) }

// Step processes one unit and reports whether one was queued. Unit errors
// fail the test; use Scheduler().Step to inspect them.
func (h *Harness[M]) Step() bool {
	h.t.Helper()
	processed, err := h.rt.Scheduler().Step()
	h.check(err)
	return processed
}

// Settle processes work until the queue is empty and no task is running.
func (h *Harness[M]) Settle() {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultSettleTimeout)
	defer cancel()
	h.check(h.rt.Scheduler().Settle(ctx))
}

// Frame returns the last rendered frame.
func (h *Harness[M]) Frame() app.Frame[mock.Node] {
	h.t.Helper()
	f, ok := h.rt.Last()
	if !ok {
		h.t.Fatalf("ironwoodtest: no frame rendered")
	}
	return f
}

// Render renders the current model and returns the frame.
func (h *Harness[M]) Render() app.Frame[mock.Node] {
	h.t.Helper()
	f, err := h.rt.Render()
	h.check(err)
	return f
}

// Activate enqueues the message of the interactive node at key.
func (h *Harness[M]) Activate(key ir.Key) {
	h.t.Helper()
	h.check(h.rt.Activate(key))
}

// Tap activates the single interactive node labelled text.
func (h *Harness[M]) Tap(text string) {
	h.t.Helper()
	keys := FindInteractive(h.Frame().IR, ByText(text))
	if len(keys) != 1 {
		h.t.Fatalf("ironwoodtest: expected one interactive node labelled %q, found %d", text, len(keys))
	}
	h.Activate(keys[0])
}

// Find returns the rendered mock node at key.
func (h *Harness[M]) Find(key ir.Key) mock.Node {
	h.t.Helper()
	n, ok := mock.Find(h.Frame().Output, key)
	if !ok {
		h.t.Fatalf("ironwoodtest: no node at %s", key)
	}
	return n
}

// Texts returns every text and button label of the last frame.
func (h *Harness[M]) Texts() []string {
	return mock.Texts(h.Frame().Output)
}

// Snapshot captures the last frame.
func (h *Harness[M]) Snapshot() *Snapshot {
	f := h.Frame()
	return Capture(f.Version, f.IR)
}

func (h *Harness[M]) check(err error) {
	h.t.Helper()
	if err != nil {
		h.t.Fatalf("ironwoodtest: %v", err)
	}
}
