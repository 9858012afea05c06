// Package extract holds the read-only context shared by all lowering
// operations of one pass: theme, font measurement, display scale and the
// parallel lowering policy.
package extract

import (
	"io"
	"log/slog"

	"github.com/ironwood-ui/ironwood/pkg/style"
	"github.com/ironwood-ui/ironwood/pkg/theme"
)

// DefaultParallelThreshold is the minimum number of children a container
// needs before its children are lowered concurrently.
const DefaultParallelThreshold = 8

// Context is shared by every node lowered in a pass. It is never mutated
// after construction, so it may be used from many goroutines.
type Context struct {
	theme     *theme.Theme
	fonts     *FontSet
	scale     float64
	parallel  bool
	threshold int
	logger    *slog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithTheme sets the theme. A nil theme selects the default light theme.
func WithTheme(t *theme.Theme) Option {
	return func(c *Context) { c.theme = t }
}

// WithFonts sets the font set used for text measurement.
func WithFonts(f *FontSet) Option {
	return func(c *Context) { c.fonts = f }
}

// WithScaleFactor sets the display scale. Measured lengths are snapped to
// the physical pixel grid it implies. Values <= 0 select 1.
func WithScaleFactor(s float64) Option {
	return func(c *Context) { c.scale = s }
}

// WithParallel enables concurrent lowering of containers with at least
// threshold children. threshold <= 0 selects DefaultParallelThreshold.
func WithParallel(threshold int) Option {
	return func(c *Context) {
		c.parallel = true
		c.threshold = threshold
	}
}

// WithLogger sets the logger used for debug output during lowering.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// NewContext builds a context.
func NewContext(opts ...Option) *Context {
	c := &Context{}
	for _, opt := range opts {
		opt(c)
	}
	if c.theme == nil {
		c.theme = theme.DefaultLight()
	}
	if c.fonts == nil {
		c.fonts = NewFontSet()
	}
	if c.scale <= 0 {
		c.scale = 1
	}
	if c.threshold <= 0 {
		c.threshold = DefaultParallelThreshold
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Theme returns the theme.
func (c *Context) Theme() *theme.Theme { return c.theme }

// Fonts returns the font set.
func (c *Context) Fonts() *FontSet { return c.fonts }

// ScaleFactor returns the display scale.
func (c *Context) ScaleFactor() float64 { return c.scale }

// Logger returns the lowering logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// ParallelFor reports whether a container with n children should lower
// them concurrently.
func (c *Context) ParallelFor(n int) bool {
	return c.parallel && n >= c.threshold
}

// Measure returns the advance of text in st, snapped to the pixel grid.
func (c *Context) Measure(text string, st style.TextStyle) float64 {
	return snap(c.fonts.Advance(text, st), c.scale)
}
