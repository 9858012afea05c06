package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironwood-ui/ironwood/pkg/ir"
	"github.com/ironwood-ui/ironwood/pkg/style"
	"github.com/ironwood-ui/ironwood/pkg/view"
)

func TestInteractiveUpdate(t *testing.T) {
	tests := []struct {
		name  string
		start ir.InteractionState
		msgs  []InteractionMessage
		want  ir.InteractionState
	}{
		{"press", ir.StateEnabled, []InteractionMessage{SetPressed(true)}, ir.StateEnabled | ir.StatePressed},
		{"release", ir.StateEnabled | ir.StatePressed, []InteractionMessage{SetPressed(false)}, ir.StateEnabled},
		{"focus and hover", ir.StateEnabled, []InteractionMessage{SetFocused(true), SetHovered(true)}, ir.StateEnabled | ir.StateFocused | ir.StateHovered},
		{"disable keeps other flags", ir.StateEnabled | ir.StatePressed | ir.StateFocused, []InteractionMessage{SetEnabled(false)}, ir.StatePressed | ir.StateFocused},
		{"disabled still records press and hover", 0, []InteractionMessage{SetPressed(true), SetHovered(true)}, ir.StatePressed | ir.StateHovered},
		{"disabled records focus", 0, []InteractionMessage{SetFocused(true)}, ir.StateFocused},
		{"unhover", ir.StateEnabled | ir.StateHovered, []InteractionMessage{SetHovered(false)}, ir.StateEnabled},
		{"re-enable", 0, []InteractionMessage{SetEnabled(true)}, ir.StateEnabled},
		{"unknown kind", ir.StateEnabled, []InteractionMessage{{Kind: 99, Value: true}}, ir.StateEnabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := Interactive{State: tt.start}
			for _, m := range tt.msgs {
				i = i.Update(m)
			}
			assert.Equal(t, tt.want, i.State)
		})
	}
}

func TestInteractiveAccessors(t *testing.T) {
	i := NewInteractive().Update(SetPressed(true)).Update(SetFocused(true))
	assert.True(t, i.Enabled())
	assert.True(t, i.Pressed())
	assert.True(t, i.Focused())
	assert.False(t, i.Hovered())
	assert.True(t, i.CanReceiveFocus())
	assert.False(t, i.Update(SetEnabled(false)).CanReceiveFocus())
	assert.Equal(t, "hover", HoverChanged.String())
}

func TestButtonUpdate(t *testing.T) {
	b := NewButton("Save")

	b, clicked := b.Update(Clicked{})
	assert.True(t, clicked)

	b, clicked = b.Update(ButtonInteraction{SetEnabled(false)})
	assert.False(t, clicked)
	assert.False(t, b.Enabled())

	_, clicked = b.Update(Clicked{})
	assert.False(t, clicked, "disabled button must ignore clicks")
}

func TestButtonViewLowers(t *testing.T) {
	b := NewButton("Save")
	b.Background = style.Blue
	b, _ = b.Update(ButtonInteraction{SetFocused(true)})

	n, err := view.Lower(b.View("save"), nil)
	require.NoError(t, err)
	assert.Equal(t, ir.KindInteraction, n.Kind)
	assert.Equal(t, "Save", n.Content.Text)
	assert.Equal(t, "save", n.Interaction.Message)
	assert.Equal(t, ir.StateEnabled|ir.StateFocused, n.Interaction.State)
	assert.Equal(t, style.Blue, n.Interaction.Background)

	b, _ = b.Update(ButtonInteraction{SetEnabled(false)})
	n, err = view.Lower(b.View("save"), nil)
	require.NoError(t, err)
	assert.False(t, n.Interaction.Enabled())
}

func TestToggle(t *testing.T) {
	tg := NewToggle("Dark mode", false)
	tg = tg.Update(Toggled{})
	assert.True(t, tg.Value)
	assert.Equal(t, "[x] Dark mode", tg.View(nil).Label)

	tg.Interactive = tg.Interactive.Update(SetEnabled(false))
	tg = tg.Update(Toggled{})
	assert.True(t, tg.Value, "disabled toggle keeps its value")
	assert.True(t, tg.View(nil).Disabled)
}
