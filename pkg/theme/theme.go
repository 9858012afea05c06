// Package theme provides the ambient visual defaults that lowering applies
// to views which leave style fields unset.
package theme

import (
	"fmt"
	"strings"

	"github.com/ironwood-ui/ironwood/pkg/style"
)

// Brightness indicates if a theme is light or dark.
type Brightness int

const (
	BrightnessLight Brightness = iota
	BrightnessDark
)

func (b Brightness) String() string {
	switch b {
	case BrightnessLight:
		return "light"
	case BrightnessDark:
		return "dark"
	default:
		return fmt.Sprintf("Brightness(%d)", int(b))
	}
}

// ParseBrightness parses "light" or "dark". The empty string is light.
func ParseBrightness(s string) (Brightness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return BrightnessLight, nil
	case "dark":
		return BrightnessDark, nil
	default:
		return BrightnessLight, fmt.Errorf("unknown brightness %q", s)
	}
}

// ColorScheme is the theme palette.
type ColorScheme struct {
	Background       style.Color
	OnBackground     style.Color
	Primary          style.Color
	OnPrimary        style.Color
	ButtonBackground style.Color
	OnButton         style.Color
}

// LightColorScheme returns the default light palette.
func LightColorScheme() ColorScheme {
	return ColorScheme{
		Background:       style.White,
		OnBackground:     style.Black,
		Primary:          style.RGB(0x1E, 0x6F, 0xD9),
		OnPrimary:        style.White,
		ButtonBackground: style.LightGray,
		OnButton:         style.Black,
	}
}

// DarkColorScheme returns the default dark palette.
func DarkColorScheme() ColorScheme {
	return ColorScheme{
		Background:       style.RGB(0x12, 0x12, 0x12),
		OnBackground:     style.RGB(0xEE, 0xEE, 0xEE),
		Primary:          style.RGB(0x8A, 0xB4, 0xF8),
		OnPrimary:        style.Black,
		ButtonBackground: style.DarkGray,
		OnButton:         style.RGB(0xEE, 0xEE, 0xEE),
	}
}

// TextTheme holds the base text styles.
type TextTheme struct {
	Body   style.TextStyle
	Button style.TextStyle
}

// DefaultTextTheme derives text styles from a palette.
func DefaultTextTheme(colors ColorScheme) TextTheme {
	return TextTheme{
		Body:   style.TextStyle{FontSize: style.DefaultFontSize, Color: colors.OnBackground, Weight: style.FontWeightNormal},
		Button: style.TextStyle{FontSize: style.DefaultFontSize, Color: colors.OnButton, Weight: style.FontWeightMedium},
	}
}

// Theme contains the visual defaults used during lowering.
// A Theme is treated as immutable once handed to an extraction context.
type Theme struct {
	Brightness Brightness
	Colors     ColorScheme
	Text       TextTheme
}

// DefaultLight returns the default light theme.
func DefaultLight() *Theme {
	colors := LightColorScheme()
	return &Theme{Brightness: BrightnessLight, Colors: colors, Text: DefaultTextTheme(colors)}
}

// DefaultDark returns the default dark theme.
func DefaultDark() *Theme {
	colors := DarkColorScheme()
	return &Theme{Brightness: BrightnessDark, Colors: colors, Text: DefaultTextTheme(colors)}
}

// For returns the default theme for b.
func For(b Brightness) *Theme {
	if b == BrightnessDark {
		return DefaultDark()
	}
	return DefaultLight()
}

// CopyWith returns a new Theme with the specified fields overridden.
func (t *Theme) CopyWith(colors *ColorScheme, text *TextTheme) *Theme {
	result := *t
	if colors != nil {
		result.Colors = *colors
	}
	if text != nil {
		result.Text = *text
	}
	return &result
}

// BodyStyle resolves s against the body text style.
func (t *Theme) BodyStyle(s style.TextStyle) style.TextStyle {
	return s.Merge(t.Text.Body).Resolved()
}

// ButtonStyle resolves s against the button text style.
func (t *Theme) ButtonStyle(s style.TextStyle) style.TextStyle {
	return s.Merge(t.Text.Button).Resolved()
}
