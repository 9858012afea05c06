package ir

import (
	"fmt"
	"strings"
)

// Axis is the direction along which a container lays out its children.
type Axis uint8

const (
	// AxisNone groups children without imposing a direction.
	AxisNone Axis = iota
	AxisVertical
	AxisHorizontal
)

func (a Axis) String() string {
	switch a {
	case AxisNone:
		return "none"
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// MarshalText encodes the axis by name.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Alignment positions children on the cross axis.
type Alignment uint8

const (
	AlignLeading Alignment = iota
	AlignCenter
	AlignTrailing
)

func (a Alignment) String() string {
	switch a {
	case AlignLeading:
		return "leading"
	case AlignCenter:
		return "center"
	case AlignTrailing:
		return "trailing"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// MarshalText encodes the alignment by name.
func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// InteractionState is a set of flags describing an interactive node.
type InteractionState uint8

const (
	StateEnabled InteractionState = 1 << iota
	StatePressed
	StateFocused
	StateHovered
)

// Has reports whether all flags in f are set.
func (s InteractionState) Has(f InteractionState) bool { return s&f == f }

// With returns s with f set.
func (s InteractionState) With(f InteractionState) InteractionState { return s | f }

// Without returns s with f cleared.
func (s InteractionState) Without(f InteractionState) InteractionState { return s &^ f }

// Set returns s with f set or cleared according to on.
func (s InteractionState) Set(f InteractionState, on bool) InteractionState {
	if on {
		return s.With(f)
	}
	return s.Without(f)
}

// String lists the set flags, e.g. "enabled|focused", or "none".
func (s InteractionState) String() string {
	var parts []string
	for _, f := range []struct {
		flag InteractionState
		name string
	}{
		{StateEnabled, "enabled"},
		{StatePressed, "pressed"},
		{StateFocused, "focused"},
		{StateHovered, "hovered"},
	} {
		if s.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// MarshalText encodes the state as its flag list.
func (s InteractionState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
