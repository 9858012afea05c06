package view

import (
	"fmt"

	"github.com/ironwood-ui/ironwood/pkg/ir"
	"github.com/ironwood-ui/ironwood/pkg/style"
)

// Text displays a string.
type Text struct {
	Content string
	Style   style.TextStyle
}

// NewText returns a text view with the theme's body style.
func NewText(content string) Text { return Text{Content: content} }

// Textf returns a text view with formatted content.
func Textf(format string, args ...any) Text {
	return Text{Content: fmt.Sprintf(format, args...)}
}

// FontSize returns a copy with the given font size.
func (t Text) FontSize(size float64) Text {
	t.Style.FontSize = size
	return t
}

// Color returns a copy with the given text color.
func (t Text) Color(c style.Color) Text {
	t.Style.Color = c
	return t
}

// Weight returns a copy with the given font weight.
func (t Text) Weight(w style.FontWeight) Text {
	t.Style.Weight = w
	return t
}

// ViewKind reports "text".
func (Text) ViewKind() string { return "text" }

// Lower resolves the style against the theme and measures the advance.
func (t Text) Lower(s *Scope) (*ir.Node, error) {
	st := s.Context().Theme().BodyStyle(t.Style)
	return ir.NewLeaf("text", ir.Content{
		Kind:    ir.ContentText,
		Text:    t.Content,
		Style:   st,
		Advance: s.Context().Measure(t.Content, st),
	}), nil
}

// Image displays an image located by Source. Width and Height are hints.
type Image struct {
	Source string
	Width  float64
	Height float64
}

// ViewKind reports "image".
func (Image) ViewKind() string { return "image" }

// Lower fails for an image without a source.
func (i Image) Lower(*Scope) (*ir.Node, error) {
	if i.Source == "" {
		return nil, fmt.Errorf("image has no source")
	}
	return ir.NewLeaf("image", ir.Content{
		Kind:   ir.ContentImage,
		Source: i.Source,
		Width:  i.Width,
		Height: i.Height,
	}), nil
}

// Spacer takes up space along its parent's axis.
type Spacer struct {
	MinSize float64
}

// ViewKind reports "spacer".
func (Spacer) ViewKind() string { return "spacer" }

// Lower clamps negative sizes to zero.
func (sp Spacer) Lower(*Scope) (*ir.Node, error) {
	return ir.NewLeaf("spacer", ir.Content{Kind: ir.ContentSpacer, MinSize: max(sp.MinSize, 0)}), nil
}

// Button is an activatable view. Activating an enabled button dispatches
// OnActivate to the scheduler.
type Button struct {
	Label      string
	Style      style.TextStyle
	Background style.Color
	// State carries the pressed, focused and hovered flags. The enabled
	// flag is derived from Disabled.
	State      ir.InteractionState
	Disabled   bool
	OnActivate any
}

// NewButton returns an enabled button.
func NewButton(label string, onActivate any) Button {
	return Button{Label: label, OnActivate: onActivate}
}

// WithBackground returns a copy with the given background color.
func (b Button) WithBackground(c style.Color) Button {
	b.Background = c
	return b
}

// WithStyle returns a copy with the given label style.
func (b Button) WithStyle(st style.TextStyle) Button {
	b.Style = st
	return b
}

// WithDisabled returns a copy with the disabled flag set.
func (b Button) WithDisabled(disabled bool) Button {
	b.Disabled = disabled
	return b
}

// ViewKind reports "button".
func (Button) ViewKind() string { return "button" }

// Lower produces an interaction node carrying OnActivate.
func (b Button) Lower(s *Scope) (*ir.Node, error) {
	th := s.Context().Theme()
	st := th.ButtonStyle(b.Style)
	return ir.NewInteraction("button",
		ir.Content{
			Kind:    ir.ContentText,
			Text:    b.Label,
			Style:   st,
			Advance: s.Context().Measure(b.Label, st),
		},
		ir.Interaction{
			Message:    b.OnActivate,
			State:      b.State.Set(ir.StateEnabled, !b.Disabled),
			Background: b.Background.Or(th.Colors.ButtonBackground),
		}), nil
}
