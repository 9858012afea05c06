package widgets

import "github.com/ironwood-ui/ironwood/pkg/view"

// Toggled flips a Toggle.
type Toggled struct{}

// Toggle is an on/off switch rendered as a button with a check mark.
type Toggle struct {
	Label string
	Value bool
	Interactive
}

// NewToggle returns an enabled toggle.
func NewToggle(label string, value bool) Toggle {
	return Toggle{Label: label, Value: value, Interactive: NewInteractive()}
}

// Update flips the value when enabled.
func (t Toggle) Update(Toggled) Toggle {
	if t.Enabled() {
		t.Value = !t.Value
	}
	return t
}

// View returns a button whose label shows the current value.
func (t Toggle) View(onActivate any) view.Button {
	mark := "[ ]"
	if t.Value {
		mark = "[x]"
	}
	return view.Button{
		Label:      mark + " " + t.Label,
		State:      t.State,
		Disabled:   !t.Enabled(),
		OnActivate: onActivate,
	}
}
