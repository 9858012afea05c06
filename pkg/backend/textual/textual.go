// Package textual renders IR as plain text for terminals and logs.
//
// Layout is approximate: logical pixels are converted to character cells
// using the configured cell size, stacks are laid out along their axis and
// cross-axis alignment is honoured.
package textual

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ironwood-ui/ironwood/pkg/backend"
	"github.com/ironwood-ui/ironwood/pkg/ir"
)

// Frame is a rendered screen.
type Frame struct {
	Lines []string
}

// String joins the lines with trailing blanks removed.
func (f Frame) String() string {
	lines := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// Options controls the pixel to cell conversion.
type Options struct {
	// CellWidth is the width of one column in logical pixels.
	CellWidth float64
	// LineHeight is the height of one row in logical pixels.
	LineHeight float64
}

// DefaultOptions returns 8x16 cells.
func DefaultOptions() Options {
	return Options{CellWidth: 8, LineHeight: 16}
}

// Backend renders IR into text frames.
type Backend struct {
	opts   Options
	interp backend.Interpreter[block]
}

// New returns a textual backend.
func New(opts Options) *Backend {
	d := DefaultOptions()
	if opts.CellWidth <= 0 {
		opts.CellWidth = d.CellWidth
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = d.LineHeight
	}
	b := &Backend{opts: opts}
	b.interp = backend.Interpreter[block]{
		Leaf:        b.leaf,
		Interaction: b.button,
		Container:   b.container,
	}
	return b
}

// Name returns "textual".
func (*Backend) Name() string { return "textual" }

// IRVersion reports the IR version the backend was written against.
func (*Backend) IRVersion() string { return ir.Version }

// Interpret renders the tree rooted at root.
func (b *Backend) Interpret(root *ir.Node) (Frame, error) {
	out, err := b.interp.Interpret(root)
	if err != nil {
		return Frame{}, err
	}
	if out.spacer {
		return Frame{Lines: make([]string, b.rows(out.minSize))}, nil
	}
	return Frame{Lines: out.lines}, nil
}

type block struct {
	lines   []string
	spacer  bool
	minSize float64
}

func (b block) width() int {
	w := 0
	for _, l := range b.lines {
		w = max(w, utf8.RuneCountInString(l))
	}
	return w
}

func (b *Backend) leaf(n *ir.Node) (block, error) {
	switch n.Content.Kind {
	case ir.ContentText:
		return block{lines: strings.Split(n.Content.Text, "\n")}, nil
	case ir.ContentImage:
		return block{lines: []string{"[img " + n.Content.Source + "]"}}, nil
	case ir.ContentSpacer:
		return block{spacer: true, minSize: n.Content.MinSize}, nil
	default:
		return block{}, backend.Unsupported(n, "content "+n.Content.Kind.String())
	}
}

func (b *Backend) button(n *ir.Node) (block, error) {
	label := n.Content.Text
	var s string
	if n.Interaction.Enabled() {
		s = "[ " + label + " ]"
	} else {
		s = "( " + label + " )"
	}
	if n.Interaction.State.Has(ir.StateFocused) {
		s = ">" + s
	}
	return block{lines: []string{s}}, nil
}

func (b *Backend) container(n *ir.Node, children []block) (block, error) {
	if n.Layout.Axis == ir.AxisHorizontal {
		return b.row(*n.Layout, children), nil
	}
	return b.column(*n.Layout, children), nil
}

func (b *Backend) column(l ir.Layout, children []block) block {
	gap := b.rows(l.Spacing)
	width := 0
	for _, c := range children {
		width = max(width, c.width())
	}
	var lines []string
	for i, c := range children {
		if i > 0 {
			lines = append(lines, make([]string, gap)...)
		}
		if c.spacer {
			lines = append(lines, make([]string, b.rows(c.minSize))...)
			continue
		}
		for _, line := range c.lines {
			lines = append(lines, align(line, width, l.Alignment))
		}
	}
	return block{lines: lines}
}

func (b *Backend) row(l ir.Layout, children []block) block {
	gap := max(1, b.cols(l.Spacing))
	height := 0
	for _, c := range children {
		height = max(height, len(c.lines))
	}
	lines := make([]string, height)
	for i, c := range children {
		if c.spacer {
			pad := strings.Repeat(" ", b.cols(c.minSize))
			for r := range lines {
				lines[r] += pad
			}
			continue
		}
		if i > 0 {
			for r := range lines {
				lines[r] += strings.Repeat(" ", gap)
			}
		}
		w := c.width()
		offset := 0
		switch l.Alignment {
		case ir.AlignCenter:
			offset = (height - len(c.lines)) / 2
		case ir.AlignTrailing:
			offset = height - len(c.lines)
		}
		for r := range lines {
			cell := ""
			if idx := r - offset; idx >= 0 && idx < len(c.lines) {
				cell = c.lines[idx]
			}
			lines[r] += align(cell, w, ir.AlignLeading)
		}
	}
	return block{lines: lines}
}

func (b *Backend) rows(px float64) int {
	return max(0, int(math.Round(px/b.opts.LineHeight)))
}

func (b *Backend) cols(px float64) int {
	return max(0, int(math.Round(px/b.opts.CellWidth)))
}

func align(s string, width int, a ir.Alignment) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	switch a {
	case ir.AlignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	case ir.AlignTrailing:
		return strings.Repeat(" ", pad) + s
	default:
		return s + strings.Repeat(" ", pad)
	}
}
