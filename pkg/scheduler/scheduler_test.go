package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/message"
)

func step(t *testing.T, s *Scheduler[counter]) error {
	t.Helper()
	processed, err := s.Step()
	require.True(t, processed, "expected a queued unit")
	return err
}

func TestMessagesApplyInEnqueueOrder(t *testing.T) {
	s := New[counter](counterProgram{})
	var versions []uint64
	s.OnUpdate(func(u Update[counter]) { versions = append(versions, u.Version) })

	for _, msg := range []string{"inc", "inc", "double"} {
		require.NoError(t, s.Enqueue(msg))
	}
	assert.Equal(t, 3, s.Pending())
	for range 3 {
		require.NoError(t, step(t, s))
	}

	assert.Equal(t, 4, s.Model().Count)
	assert.Equal(t, uint64(3), s.Version())
	assert.Equal(t, []uint64{1, 2, 3}, versions)
	assert.Equal(t, StateIdle, s.State())

	processed, err := s.Step()
	assert.False(t, processed)
	assert.NoError(t, err)
}

func TestAsyncCompletionAppliedAfterLaterSyncIncrement(t *testing.T) {
	s := New[counter](counterProgram{start: 1})
	release := make(chan struct{})

	require.NoError(t, s.Dispatch(gated(release, true, func(m counter) counter {
		m.Count *= 2
		return m
	})))
	require.NoError(t, step(t, s))
	assert.Equal(t, StateAwaitingAsync, s.State())
	assert.Equal(t, 1, s.InFlight())
	assert.Equal(t, 1, s.Model().Count)

	// The increment is issued after the async double but completes first.
	require.NoError(t, s.Dispatch(inc()))
	require.NoError(t, step(t, s))
	assert.Equal(t, 2, s.Model().Count)
	assert.Equal(t, StateAwaitingAsync, s.State())

	close(release)
	require.NoError(t, s.Wait(timeout(t)))
	require.NoError(t, step(t, s))

	// The task doubled its snapshot (1) and its completion is applied as
	// a Set after the increment.
	assert.Equal(t, 2, s.Model().Count)
	assert.Equal(t, 0, s.InFlight())
	assert.Equal(t, StateIdle, s.State())
}

func TestCompletionsApplyInCompletionOrder(t *testing.T) {
	s := New[counter](counterProgram{})
	first, second := make(chan struct{}), make(chan struct{})
	set := func(n int) func(counter) counter {
		return func(m counter) counter {
			m.Count = n
			return m
		}
	}

	require.NoError(t, s.Dispatch(message.Batch(gated(first, true, set(10)), gated(second, true, set(20)))))
	require.NoError(t, step(t, s))
	assert.Equal(t, 2, s.InFlight())

	close(second)
	require.NoError(t, s.Wait(timeout(t)))
	require.NoError(t, step(t, s))
	assert.Equal(t, 20, s.Model().Count)

	close(first)
	require.NoError(t, s.Wait(timeout(t)))
	require.NoError(t, step(t, s))
	assert.Equal(t, 10, s.Model().Count)
}

func TestUserSetCancelsOutstandingTasks(t *testing.T) {
	obs := &recordingObserver{}
	s := New[counter](counterProgram{}, WithObserver(obs))
	never := make(chan struct{})

	require.NoError(t, s.Dispatch(gated(never, true, func(m counter) counter {
		m.Count = 99
		return m
	})))
	require.NoError(t, step(t, s))

	require.NoError(t, s.Dispatch(message.Set(counter{Count: 5})))
	require.NoError(t, step(t, s))

	require.NoError(t, s.Wait(timeout(t)))
	require.NoError(t, step(t, s))

	assert.Equal(t, 5, s.Model().Count)
	assert.Equal(t, 0, s.InFlight())
	units, _, _ := obs.snapshot()
	assert.Equal(t, []string{"transform:applied", "transform:applied", "completion:discarded"}, units)
}

func TestCancelPolicies(t *testing.T) {
	tests := []struct {
		policy CancelPolicy
		want   int
	}{
		{ApplyLate, 2},
		{DiscardSuperseded, 5},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			s := New[counter](counterProgram{start: 1}, WithCancelPolicy(tt.policy))
			release := make(chan struct{})

			// The task ignores cancellation and always produces a result.
			require.NoError(t, s.Dispatch(gated(release, false, func(m counter) counter {
				m.Count *= 2
				return m
			})))
			require.NoError(t, step(t, s))
			require.NoError(t, s.Dispatch(message.Set(counter{Count: 5})))
			require.NoError(t, step(t, s))

			close(release)
			require.NoError(t, s.Wait(timeout(t)))
			require.NoError(t, step(t, s))
			assert.Equal(t, tt.want, s.Model().Count)
			assert.Equal(t, tt.policy, s.Policy())
		})
	}
}

func TestTaskIssuedBeforeSetInSameBatch(t *testing.T) {
	tests := []struct {
		policy CancelPolicy
		want   int
	}{
		{ApplyLate, 99},
		{DiscardSuperseded, 5},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			s := New[counter](counterProgram{}, WithCancelPolicy(tt.policy))
			release := make(chan struct{})

			require.NoError(t, s.Dispatch(message.Batch(
				gated(release, false, func(m counter) counter {
					m.Count = 99
					return m
				}),
				message.Set(counter{Count: 5}),
			)))
			require.NoError(t, step(t, s))
			assert.Equal(t, 5, s.Model().Count)

			close(release)
			require.NoError(t, s.Settle(timeout(t)))
			assert.Equal(t, tt.want, s.Model().Count)
			assert.Equal(t, 0, s.InFlight())
		})
	}
}

func TestCompletionDoesNotSupersedeSiblingTasks(t *testing.T) {
	s := New[counter](counterProgram{}, WithCancelPolicy(DiscardSuperseded))
	a, b := make(chan struct{}), make(chan struct{})

	require.NoError(t, s.Dispatch(message.Batch(
		gated(a, true, func(m counter) counter { m.Count += 1; return m }),
		gated(b, true, func(m counter) counter { m.Count += 100; return m }),
	)))
	require.NoError(t, step(t, s))

	close(a)
	require.NoError(t, s.Wait(timeout(t)))
	require.NoError(t, step(t, s))
	assert.Equal(t, 1, s.Model().Count)

	close(b)
	require.NoError(t, s.Wait(timeout(t)))
	require.NoError(t, step(t, s))
	assert.Equal(t, 100, s.Model().Count)
}

func TestResetRestoresInitialModel(t *testing.T) {
	s := New[counter](counterProgram{start: 7})
	require.NoError(t, s.Enqueue("inc"))
	require.NoError(t, s.Enqueue("reset"))
	require.NoError(t, step(t, s))
	assert.Equal(t, 8, s.Model().Count)
	require.NoError(t, step(t, s))
	assert.Equal(t, 7, s.Model().Count)
}

func TestFailedTaskLeavesModelAndMapsToMessage(t *testing.T) {
	quietErrors(t)
	s := New[counter](mappingProgram{counterProgram{start: 3}})

	require.NoError(t, s.Dispatch(message.Async(func(context.Context, counter) (counter, error) {
		return counter{}, context.DeadlineExceeded
	})))
	require.NoError(t, step(t, s))
	require.NoError(t, s.Wait(timeout(t)))

	err := step(t, s)
	require.ErrorIs(t, err, errors.ErrAsyncTaskFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 3, s.Model().Count)
	assert.Equal(t, uint64(1), s.Version())

	require.Equal(t, 1, s.Pending())
	require.NoError(t, step(t, s))
	assert.Equal(t, 1, s.Model().Errors)
}

func TestRecursionLimitLeavesModelUnchanged(t *testing.T) {
	quietErrors(t)
	s := New[counter](counterProgram{}, WithRecursionLimit(2))

	nested := message.Batch(inc(), message.Batch(inc(), message.Batch(inc())))
	require.NoError(t, s.Dispatch(nested))
	err := step(t, s)
	require.ErrorIs(t, err, errors.ErrRecursionLimitExceeded)
	assert.Equal(t, 0, s.Model().Count)
	assert.Equal(t, uint64(0), s.Version())
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Dispatch(message.Batch(inc(), message.Batch(inc()))))
	require.NoError(t, step(t, s))
	assert.Equal(t, 2, s.Model().Count)
}

func TestUpdatePanicIsRecovered(t *testing.T) {
	quietErrors(t)
	s := New[counter](counterProgram{})
	require.NoError(t, s.Enqueue("panic"))
	require.NoError(t, s.Enqueue("inc"))

	err := step(t, s)
	require.Error(t, err)
	assert.Equal(t, errors.KindPanic, errors.KindOf(err))

	require.NoError(t, step(t, s))
	assert.Equal(t, 1, s.Model().Count)
}

func TestHookPanicDoesNotStopScheduler(t *testing.T) {
	quietErrors(t)
	s := New[counter](counterProgram{})
	s.OnUpdate(func(Update[counter]) { panic("hook") })
	var seen atomic.Int32
	s.OnUpdate(func(Update[counter]) { seen.Add(1) })

	require.NoError(t, s.Enqueue("inc"))
	require.NoError(t, step(t, s))
	assert.Equal(t, 1, s.Model().Count)
	assert.Equal(t, int32(1), seen.Load())
}

func TestStopCancelsTasksAndRejectsWork(t *testing.T) {
	s := New[counter](counterProgram{})
	cancelled := make(chan struct{})
	require.NoError(t, s.Dispatch(message.Async(func(ctx context.Context, m counter) (counter, error) {
		<-ctx.Done()
		close(cancelled)
		return m, ctx.Err()
	})))
	require.NoError(t, step(t, s))
	require.NoError(t, s.Enqueue("inc"))

	s.Stop()
	s.Stop()

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("task was not cancelled")
	}
	assert.Eventually(t, func() bool { return s.InFlight() == 0 }, 5*time.Second, time.Millisecond)

	assert.Equal(t, StateShuttingDown, s.State())
	assert.Equal(t, 0, s.Pending())
	assert.ErrorIs(t, s.Enqueue("inc"), errors.ErrShuttingDown)
	assert.ErrorIs(t, s.Dispatch(inc()), errors.ErrShuttingDown)
	_, err := s.Step()
	assert.ErrorIs(t, err, errors.ErrShuttingDown)
	assert.Equal(t, 0, s.Model().Count)

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestStopReleasesQueuedCompletions(t *testing.T) {
	obs := &recordingObserver{}
	s := New[counter](counterProgram{}, WithObserver(obs))
	release := make(chan struct{})
	require.NoError(t, s.Dispatch(gated(release, false, func(m counter) counter {
		m.Count = 7
		return m
	})))
	require.NoError(t, step(t, s))
	require.Equal(t, 1, s.InFlight())

	close(release)
	require.NoError(t, s.Wait(timeout(t)))
	require.Equal(t, 1, s.Pending())

	s.Stop()
	assert.Equal(t, 0, s.InFlight())
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 0, s.Model().Count)
	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 0, obs.inFlight)
}

func TestRunDrivesUntilContextDone(t *testing.T) {
	s := New[counter](counterProgram{}, WithLogger(discardLogger()))
	updates := make(chan Update[counter], 8)
	s.OnUpdate(func(u Update[counter]) { updates <- u })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for range 3 {
		require.NoError(t, s.Enqueue("inc"))
	}
	var last Update[counter]
	for range 3 {
		select {
		case last = <-updates:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for update")
		}
	}
	assert.Equal(t, 3, last.Model.Count)
	assert.Equal(t, uint64(3), last.Version)
	assert.Equal(t, CauseMessage, last.Cause)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, StateShuttingDown, s.State())
}

func TestRunReturnsNilOnStop(t *testing.T) {
	s := New[counter](counterProgram{})
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	s.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestMaxInFlightParksTasks(t *testing.T) {
	s := New[counter](counterProgram{}, WithMaxInFlight(1))
	a, b := make(chan struct{}), make(chan struct{})
	var started atomic.Int32
	track := func(gate chan struct{}, n int) message.Transform[counter] {
		return message.Async(func(ctx context.Context, m counter) (counter, error) {
			started.Add(1)
			<-gate
			m.Count += n
			return m, nil
		})
	}

	require.NoError(t, s.Dispatch(message.Batch(track(a, 1), track(b, 10))))
	require.NoError(t, step(t, s))
	assert.Equal(t, 1, s.InFlight())

	close(a)
	require.NoError(t, s.Wait(timeout(t)))
	require.NoError(t, step(t, s))
	assert.Equal(t, 1, s.Model().Count)
	assert.Equal(t, 1, s.InFlight(), "parked task starts when a slot frees")

	close(b)
	require.NoError(t, s.Settle(timeout(t)))
	// The parked task snapshotted the model when its node was reached.
	assert.Equal(t, 10, s.Model().Count)
	assert.Equal(t, int32(2), started.Load())
}

func TestSupersedeDropsParkedTasks(t *testing.T) {
	s := New[counter](counterProgram{}, WithMaxInFlight(1))
	gate := make(chan struct{})
	var ran atomic.Int32
	body := func(ctx context.Context, m counter) (counter, error) {
		ran.Add(1)
		select {
		case <-gate:
		case <-ctx.Done():
			return m, ctx.Err()
		}
		return m, nil
	}

	require.NoError(t, s.Dispatch(message.Batch(message.Async(body), message.Async(body))))
	require.NoError(t, step(t, s))
	require.NoError(t, s.Dispatch(message.Set(counter{Count: 1})))
	require.NoError(t, s.Settle(timeout(t)))

	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, 1, s.Model().Count)
}

func TestSettleRunsTasksToCompletion(t *testing.T) {
	s := New[counter](counterProgram{start: 2})
	require.NoError(t, s.Dispatch(message.Batch(inc(), message.Async(func(_ context.Context, m counter) (counter, error) {
		m.Count *= 10
		return m, nil
	}))))
	require.NoError(t, s.Settle(timeout(t)))
	assert.Equal(t, 30, s.Model().Count)
	assert.Equal(t, StateIdle, s.State())
}

func TestExecutorAndObserver(t *testing.T) {
	var launched atomic.Int32
	exec := ExecutorFunc(func(fn func()) {
		launched.Add(1)
		go fn()
	})
	obs := &recordingObserver{}
	s := New[counter](counterProgram{}, WithExecutor(exec), WithObserver(obs), WithObserver(nil))

	require.NoError(t, s.Dispatch(message.Async(func(_ context.Context, m counter) (counter, error) {
		m.Count = 42
		return m, nil
	})))
	require.NoError(t, s.Settle(timeout(t)))

	assert.Equal(t, int32(1), launched.Load())
	assert.Eventually(t, func() bool {
		_, tasks, _ := obs.snapshot()
		return len(tasks) == 1 && tasks[0] == OutcomeApplied
	}, 5*time.Second, time.Millisecond)
	units, _, states := obs.snapshot()
	assert.Equal(t, []string{"transform:applied", "completion:applied"}, units)
	assert.Contains(t, states, "awaiting_async")
	assert.Equal(t, "idle", states[len(states)-1])
}

func TestCurrentPairsModelWithVersion(t *testing.T) {
	s := New[counter](counterProgram{start: 2})
	m, v := s.Current()
	assert.Equal(t, 2, m.Count)
	assert.Zero(t, v)

	require.NoError(t, s.Enqueue("inc"))
	require.NoError(t, step(t, s))
	m, v = s.Current()
	assert.Equal(t, 3, m.Count)
	assert.Equal(t, uint64(1), v)
}

func TestParseCancelPolicy(t *testing.T) {
	p, err := ParseCancelPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ApplyLate, p)

	p, err = ParseCancelPolicy("Discard-Superseded")
	require.NoError(t, err)
	assert.Equal(t, DiscardSuperseded, p)

	_, err = ParseCancelPolicy("drop")
	assert.Error(t, err)
}

func TestSynchronousExecutor(t *testing.T) {
	s := New[counter](counterProgram{}, WithExecutor(ExecutorFunc(func(fn func()) { fn() })))
	require.NoError(t, s.Dispatch(message.Async(func(_ context.Context, m counter) (counter, error) {
		m.Count = 7
		return m, nil
	})))
	require.NoError(t, step(t, s))
	// The task already finished inside Step; its completion is queued.
	assert.Equal(t, 1, s.Pending())
	require.NoError(t, s.Settle(timeout(t)))
	assert.Equal(t, 7, s.Model().Count)
	assert.Equal(t, uint64(2), s.Version())
}
