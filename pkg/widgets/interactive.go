package widgets

import (
	"fmt"

	"github.com/ironwood-ui/ironwood/pkg/ir"
)

// InteractionKind names the flag an InteractionMessage changes.
type InteractionKind uint8

// Interaction kinds.
const (
	EnabledChanged InteractionKind = iota
	PressChanged
	FocusChanged
	HoverChanged
)

// String returns the kind's name.
func (k InteractionKind) String() string {
	switch k {
	case EnabledChanged:
		return "enabled"
	case PressChanged:
		return "press"
	case FocusChanged:
		return "focus"
	case HoverChanged:
		return "hover"
	default:
		return fmt.Sprintf("InteractionKind(%d)", int(k))
	}
}

func (k InteractionKind) flag() ir.InteractionState {
	switch k {
	case EnabledChanged:
		return ir.StateEnabled
	case PressChanged:
		return ir.StatePressed
	case FocusChanged:
		return ir.StateFocused
	case HoverChanged:
		return ir.StateHovered
	default:
		return 0
	}
}

// InteractionMessage sets or clears one interaction flag.
type InteractionMessage struct {
	Kind  InteractionKind
	Value bool
}

// SetEnabled enables or disables a control.
func SetEnabled(v bool) InteractionMessage { return InteractionMessage{EnabledChanged, v} }

// SetPressed reports a pointer or touch going down or up.
func SetPressed(v bool) InteractionMessage { return InteractionMessage{PressChanged, v} }

// SetFocused reports keyboard focus being gained or lost.
func SetFocused(v bool) InteractionMessage { return InteractionMessage{FocusChanged, v} }

// SetHovered reports a pointer entering or leaving.
func SetHovered(v bool) InteractionMessage { return InteractionMessage{HoverChanged, v} }

// Interactive tracks the interaction flags of a single control.
type Interactive struct {
	State ir.InteractionState
}

// NewInteractive returns an enabled control.
func NewInteractive() Interactive {
	return Interactive{State: ir.StateEnabled}
}

// Update sets or clears the flag named by msg. Flags are independent:
// disabling a control leaves its press, focus and hover flags as they are,
// and Enabled decides whether those flags take effect.
func (i Interactive) Update(msg InteractionMessage) Interactive {
	f := msg.Kind.flag()
	if f == 0 {
		return i
	}
	i.State = i.State.Set(f, msg.Value)
	return i
}

// Enabled reports whether the control accepts input.
func (i Interactive) Enabled() bool { return i.State.Has(ir.StateEnabled) }

// Pressed reports whether the control is held down.
func (i Interactive) Pressed() bool { return i.State.Has(ir.StatePressed) }

// Focused reports whether the control has keyboard focus.
func (i Interactive) Focused() bool { return i.State.Has(ir.StateFocused) }

// Hovered reports whether a pointer is over the control.
func (i Interactive) Hovered() bool { return i.State.Has(ir.StateHovered) }

// CanReceiveFocus reports whether focus may move to the control. Only
// enabled controls can be focused.
func (i Interactive) CanReceiveFocus() bool { return i.Enabled() }
