package scheduler

import (
	"fmt"
	"strings"
)

// State is the scheduler's position in its state machine.
type State int32

const (
	StateIdle State = iota
	StateApplying
	StateAwaitingAsync
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApplying:
		return "applying"
	case StateAwaitingAsync:
		return "awaiting_async"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CancelPolicy decides what happens to results of async tasks that were
// issued before a user Set or Reset replaced the model.
type CancelPolicy int

const (
	// ApplyLate applies results that arrive despite cancellation. Tasks
	// that observe cancellation and return context.Canceled are dropped.
	ApplyLate CancelPolicy = iota
	// DiscardSuperseded drops every result from a superseded task.
	DiscardSuperseded
)

func (p CancelPolicy) String() string {
	switch p {
	case ApplyLate:
		return "apply-late"
	case DiscardSuperseded:
		return "discard-superseded"
	default:
		return fmt.Sprintf("CancelPolicy(%d)", int(p))
	}
}

// ParseCancelPolicy parses "apply-late" or "discard-superseded". The empty
// string selects ApplyLate.
func ParseCancelPolicy(s string) (CancelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "apply-late":
		return ApplyLate, nil
	case "discard-superseded":
		return DiscardSuperseded, nil
	default:
		return ApplyLate, fmt.Errorf("unknown cancel policy %q", s)
	}
}

// Cause identifies what produced a unit of work.
type Cause int

const (
	// CauseMessage is a message mapped through Update.
	CauseMessage Cause = iota
	// CauseTransform is a transform dispatched directly.
	CauseTransform
	// CauseCompletion is the result of an async task.
	CauseCompletion
)

func (c Cause) String() string {
	switch c {
	case CauseMessage:
		return "message"
	case CauseTransform:
		return "transform"
	case CauseCompletion:
		return "completion"
	default:
		return fmt.Sprintf("Cause(%d)", int(c))
	}
}
