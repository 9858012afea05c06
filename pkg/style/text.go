package style

import "fmt"

// DefaultFontSize is the font size used when neither a view nor the theme
// specifies one.
const DefaultFontSize = 16.0

// FontWeight represents a numeric font weight. Zero means unset.
type FontWeight int

const (
	FontWeightThin     FontWeight = 100
	FontWeightLight    FontWeight = 300
	FontWeightNormal   FontWeight = 400
	FontWeightMedium   FontWeight = 500
	FontWeightSemibold FontWeight = 600
	FontWeightBold     FontWeight = 700
	FontWeightBlack    FontWeight = 900
)

// String returns a human-readable representation of the font weight.
func (w FontWeight) String() string {
	switch w {
	case 0:
		return "unset"
	case FontWeightThin:
		return "thin"
	case FontWeightLight:
		return "light"
	case FontWeightNormal:
		return "normal"
	case FontWeightMedium:
		return "medium"
	case FontWeightSemibold:
		return "semibold"
	case FontWeightBold:
		return "bold"
	case FontWeightBlack:
		return "black"
	default:
		return fmt.Sprintf("FontWeight(%d)", int(w))
	}
}

// TextStyle describes how text is drawn. Zero fields are unset and are
// filled from the theme during lowering.
type TextStyle struct {
	FontFamily string     `json:"font_family,omitempty"`
	FontSize   float64    `json:"font_size,omitempty"`
	Color      Color      `json:"color,omitempty"`
	Weight     FontWeight `json:"weight,omitempty"`
}

// WithColor returns a copy of the style with the given color.
func (s TextStyle) WithColor(c Color) TextStyle {
	s.Color = c
	return s
}

// WithSize returns a copy of the style with the given font size.
func (s TextStyle) WithSize(size float64) TextStyle {
	s.FontSize = size
	return s
}

// WithWeight returns a copy of the style with the given weight.
func (s TextStyle) WithWeight(w FontWeight) TextStyle {
	s.Weight = w
	return s
}

// Merge fills unset fields of s from base.
func (s TextStyle) Merge(base TextStyle) TextStyle {
	if s.FontFamily == "" {
		s.FontFamily = base.FontFamily
	}
	if s.FontSize <= 0 {
		s.FontSize = base.FontSize
	}
	if s.Color.IsZero() {
		s.Color = base.Color
	}
	if s.Weight == 0 {
		s.Weight = base.Weight
	}
	return s
}

// Resolved returns s with any remaining unset fields filled from the
// built-in defaults (16px, black, normal weight).
func (s TextStyle) Resolved() TextStyle {
	return s.Merge(TextStyle{FontSize: DefaultFontSize, Color: Black, Weight: FontWeightNormal})
}
