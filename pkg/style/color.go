// Package style holds the visual value types shared by views, the IR and
// backends: colors, font weights and text styles.
package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const maxByte = 255.0

// Color is stored as ARGB (0xAARRGGBB). The zero value is fully transparent
// and is treated as "unset" wherever a style inherits from the theme.
type Color uint32

// RGBA constructs a Color from red, green, blue bytes and alpha (0-1).
func RGBA(r, g, b uint8, a float64) Color {
	return Color(uint32(alphaByte(a))<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB constructs an opaque Color from red, green, blue bytes.
func RGB(r, g, b uint8) Color {
	return Color(0xFF<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGBF constructs an opaque Color from normalized components (0.0 to 1.0).
func RGBF(r, g, b float64) Color {
	return RGB(alphaByte(r), alphaByte(g), alphaByte(b))
}

// RGBAF returns normalized color components (0.0 to 1.0).
func (c Color) RGBAF() (r, g, b, a float64) {
	return float64(uint8(c>>16)) / maxByte,
		float64(uint8(c>>8)) / maxByte,
		float64(uint8(c)) / maxByte,
		float64(uint8(c>>24)) / maxByte
}

// Alpha returns the alpha component from 0.0 (transparent) to 1.0 (opaque).
func (c Color) Alpha() float64 {
	return float64(uint8(c>>24)) / maxByte
}

// WithAlpha returns a copy of the color with the given alpha (0-1).
func (c Color) WithAlpha(a float64) Color {
	return Color(uint32(alphaByte(a))<<24 | uint32(c)&0x00FFFFFF)
}

// IsZero reports whether the color is unset.
func (c Color) IsZero() bool { return c == 0 }

// Or returns c, or fallback when c is unset.
func (c Color) Or(fallback Color) Color {
	if c.IsZero() {
		return fallback
	}
	return c
}

// Hex formats the color as #AARRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

func (c Color) String() string { return c.Hex() }

// MarshalText encodes the color as #AARRGGBB.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText accepts #RRGGBB or #AARRGGBB.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses #RRGGBB (opaque) or #AARRGGBB.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color(0xFF000000 | uint32(v)), nil
	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color(uint32(v)), nil
	default:
		return 0, fmt.Errorf("invalid color %q: want #RRGGBB or #AARRGGBB", s)
	}
}

func alphaByte(a float64) uint8 {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return uint8(math.Round(a * maxByte))
}

// Common colors.
const (
	Transparent = Color(0x00000000)
	Black       = Color(0xFF000000)
	White       = Color(0xFFFFFFFF)
	Red         = Color(0xFFFF0000)
	Green       = Color(0xFF00FF00)
	Blue        = Color(0xFF0000FF)
	LightGray   = Color(0xFFE6E6E6)
	DarkGray    = Color(0xFF333333)
)
