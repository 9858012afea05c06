package scheduler

import (
	"context"
	stderrors "errors"

	"github.com/ironwood-ui/ironwood/pkg/message"
)

// issue starts task, or parks it when the in-flight bound is reached.
// A task followed by a Set or Reset in its own transform tree belongs to the
// epoch before that replacement and is treated like any older task.
func (s *Scheduler[M]) issue(task *message.Task[M]) {
	entry := &inflight[M]{task: task, epoch: s.epoch}
	if task.Superseded && s.epoch > 0 {
		entry.epoch--
		if s.cfg.policy == DiscardSuperseded || len(s.tasks) >= s.cfg.maxInFlight {
			s.logger.Debug("superseded task dropped", "task", task.ID, "label", task.Label)
			return
		}
		s.start(entry)
		entry.cancel()
		return
	}
	if len(s.tasks) >= s.cfg.maxInFlight {
		s.backlog = append(s.backlog, entry)
		s.logger.Debug("task parked", "task", task.ID, "label", task.Label, "backlog", len(s.backlog))
		return
	}
	s.start(entry)
}

func (s *Scheduler[M]) start(entry *inflight[M]) {
	entry.ctx, entry.cancel = context.WithCancel(s.root)
	entry.started = s.cfg.clock.Now()
	s.tasks[entry.task.ID] = entry
	n := s.inFlight.Add(1)
	s.observe(func(o Observer) { o.TasksInFlightChanged(int(n)) })
	s.logger.Debug("task started", "task", entry.task.ID, "label", entry.task.Label, "epoch", entry.epoch)

	s.cfg.executor.Go(func() {
		result, err := entry.task.Run(entry.ctx)
		s.finish(entry, result, err)
	})
}

// finish runs on the executor goroutine and hands the result back to the
// drive loop.
func (s *Scheduler[M]) finish(entry *inflight[M], result M, err error) {
	d := s.cfg.clock.Now().Sub(entry.started)
	s.mu.Lock()
	if s.state == StateShuttingDown {
		s.mu.Unlock()
		entry.cancel()
		s.inFlight.Add(-1)
		s.observe(func(o Observer) { o.TaskFinished(OutcomeDiscarded, d) })
		s.logger.Debug("task completed after shutdown", "task", entry.task.ID)
		return
	}
	s.queue = append(s.queue, unit[M]{cause: CauseCompletion, entry: entry, result: result, err: err})
	depth := len(s.queue)
	s.mu.Unlock()

	outcome := OutcomeApplied
	if err != nil {
		outcome = OutcomeFailed
	}
	s.observe(func(o Observer) {
		o.TaskFinished(outcome, d)
		o.QueueDepthChanged(depth)
	})
	s.signal()
}

// complete applies a task result. It reports whether the result changed
// the model.
func (s *Scheduler[M]) complete(u unit[M]) (bool, error) {
	entry := u.entry
	cancelled := entry.ctx.Err() != nil
	entry.cancel()
	delete(s.tasks, entry.task.ID)
	n := s.inFlight.Add(-1)
	s.observe(func(o Observer) { o.TasksInFlightChanged(int(n)) })
	s.drainBacklog()

	log := s.logger.With("task", entry.task.ID, "label", entry.task.Label)
	switch {
	case u.err != nil && cancelled && stderrors.Is(u.err, context.Canceled):
		log.Debug("cancelled task result dropped")
		return false, nil
	case u.err != nil:
		log.Warn("async task failed", "error", u.err)
		if mapper, ok := s.program.(TaskErrorMapper); ok {
			if msg := mapper.OnTaskError(u.err); msg != nil {
				if err := s.Enqueue(msg); err != nil {
					log.Debug("task error message dropped", "error", err)
				}
			}
		}
		return false, u.err
	case s.cfg.policy == DiscardSuperseded && entry.epoch != s.epoch:
		log.Debug("superseded task result dropped", "task_epoch", entry.epoch, "epoch", s.epoch)
		return false, nil
	}
	if err := s.apply(message.Set(u.result), CauseCompletion); err != nil {
		return false, err
	}
	return true, nil
}

// supersede records a user Set or Reset. Running tasks are cancelled
// best-effort and parked tasks are dropped without running.
func (s *Scheduler[M]) supersede() {
	s.epoch++
	for _, entry := range s.tasks {
		entry.cancel()
	}
	if len(s.backlog) > 0 {
		s.logger.Debug("parked tasks dropped", "count", len(s.backlog))
		s.backlog = nil
	}
}

func (s *Scheduler[M]) drainBacklog() {
	for len(s.backlog) > 0 && len(s.tasks) < s.cfg.maxInFlight {
		entry := s.backlog[0]
		s.backlog[0] = nil
		s.backlog = s.backlog[1:]
		s.start(entry)
	}
}
