package widgets

import (
	"github.com/ironwood-ui/ironwood/pkg/style"
	"github.com/ironwood-ui/ironwood/pkg/view"
)

// ButtonMessage is handled by Button.Update.
type ButtonMessage interface {
	buttonMessage()
}

// Clicked reports an activation.
type Clicked struct{}

// ButtonInteraction changes a button's interaction flags.
type ButtonInteraction struct {
	InteractionMessage
}

func (Clicked) buttonMessage()           {}
func (ButtonInteraction) buttonMessage() {}

// Button is the model of a push button.
type Button struct {
	Label      string
	Style      style.TextStyle
	Background style.Color
	Interactive
}

// NewButton returns an enabled button model.
func NewButton(label string) Button {
	return Button{Label: label, Interactive: NewInteractive()}
}

// Update applies msg and reports whether it was an accepted click. Clicks
// on a disabled button are ignored.
func (b Button) Update(msg ButtonMessage) (Button, bool) {
	switch msg := msg.(type) {
	case Clicked:
		return b, b.Enabled()
	case ButtonInteraction:
		b.Interactive = b.Interactive.Update(msg.InteractionMessage)
	}
	return b, false
}

// View returns a button view that dispatches onActivate when activated.
func (b Button) View(onActivate any) view.Button {
	return view.Button{
		Label:      b.Label,
		Style:      b.Style,
		Background: b.Background,
		State:      b.State,
		Disabled:   !b.Enabled(),
		OnActivate: onActivate,
	}
}
