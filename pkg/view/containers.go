package view

import (
	"github.com/ironwood-ui/ironwood/pkg/ir"
)

// Alignment positions children on a stack's cross axis.
type Alignment = ir.Alignment

const (
	Leading  = ir.AlignLeading
	Center   = ir.AlignCenter
	Trailing = ir.AlignTrailing
)

// VStack arranges its children vertically.
type VStack struct {
	Spacing   float64
	Alignment Alignment
	Children  []View
}

// NewVStack returns a vertical stack of children.
func NewVStack(children ...View) VStack { return VStack{Children: children} }

// WithSpacing returns a copy with the given spacing between children.
func (v VStack) WithSpacing(spacing float64) VStack {
	v.Spacing = spacing
	return v
}

// WithAlignment returns a copy with the given cross-axis alignment.
func (v VStack) WithAlignment(a Alignment) VStack {
	v.Alignment = a
	return v
}

// ViewKind reports "vstack".
func (VStack) ViewKind() string { return "vstack" }

// Lower copies spacing and alignment into a vertical container.
func (v VStack) Lower(s *Scope) (*ir.Node, error) {
	return lowerContainer(s, "vstack", ir.Layout{Axis: ir.AxisVertical, Spacing: v.Spacing, Alignment: v.Alignment}, v.Children)
}

// HStack arranges its children horizontally.
type HStack struct {
	Spacing   float64
	Alignment Alignment
	Children  []View
}

// NewHStack returns a horizontal stack of children.
func NewHStack(children ...View) HStack { return HStack{Children: children} }

// WithSpacing returns a copy with the given spacing between children.
func (h HStack) WithSpacing(spacing float64) HStack {
	h.Spacing = spacing
	return h
}

// WithAlignment returns a copy with the given cross-axis alignment.
func (h HStack) WithAlignment(a Alignment) HStack {
	h.Alignment = a
	return h
}

// ViewKind reports "hstack".
func (HStack) ViewKind() string { return "hstack" }

// Lower copies spacing and alignment into a horizontal container.
func (h HStack) Lower(s *Scope) (*ir.Node, error) {
	return lowerContainer(s, "hstack", ir.Layout{Axis: ir.AxisHorizontal, Spacing: h.Spacing, Alignment: h.Alignment}, h.Children)
}

// Group composes any number of views without rendering of its own.
type Group struct {
	Children []View
}

// NewGroup returns a group of children.
func NewGroup(children ...View) Group { return Group{Children: children} }

// ViewKind reports "group".
func (Group) ViewKind() string { return "group" }

// Lower produces a container with no axis.
func (g Group) Lower(s *Scope) (*ir.Node, error) {
	return lowerContainer(s, "group", ir.Layout{}, g.Children)
}

// Pair composes exactly two views.
type Pair[A, B View] struct {
	First  A
	Second B
}

// NewPair returns a pair of views.
func NewPair[A, B View](first A, second B) Pair[A, B] {
	return Pair[A, B]{First: first, Second: second}
}

// ViewKind reports "pair". Pair and Triple lower into a container with no
// axis, children in field order.
func (Pair[A, B]) ViewKind() string { return "pair" }

// Lower implements Lowerer.
func (p Pair[A, B]) Lower(s *Scope) (*ir.Node, error) {
	return lowerContainer(s, "pair", ir.Layout{}, []View{p.First, p.Second})
}

// Triple composes exactly three views.
type Triple[A, B, C View] struct {
	First  A
	Second B
	Third  C
}

// NewTriple returns a triple of views.
func NewTriple[A, B, C View](first A, second B, third C) Triple[A, B, C] {
	return Triple[A, B, C]{First: first, Second: second, Third: third}
}

// ViewKind reports "triple".
func (Triple[A, B, C]) ViewKind() string { return "triple" }

// Lower implements Lowerer.
func (t Triple[A, B, C]) Lower(s *Scope) (*ir.Node, error) {
	return lowerContainer(s, "triple", ir.Layout{}, []View{t.First, t.Second, t.Third})
}

// Optional renders its view when present and nothing otherwise.
type Optional struct {
	View View
}

// Some wraps v as a present optional.
func Some(v View) Optional { return Optional{View: v} }

// None returns an empty optional.
func None() Optional { return Optional{} }

// When returns Some(v) if cond holds and None otherwise.
func When(cond bool, v View) Optional {
	if !cond {
		return None()
	}
	return Some(v)
}

// ViewKind reports "optional".
func (Optional) ViewKind() string { return "optional" }

// Lower produces an empty container when no view is present.
func (o Optional) Lower(s *Scope) (*ir.Node, error) {
	return lowerContainer(s, "optional", ir.Layout{}, []View{o.View})
}

// List stacks a variable number of rows vertically.
type List struct {
	Spacing float64
	Rows    []View
}

// ViewKind reports "list".
func (List) ViewKind() string { return "list" }

// Lower stacks the rows vertically.
func (l List) Lower(s *Scope) (*ir.Node, error) {
	return lowerContainer(s, "list", ir.Layout{Axis: ir.AxisVertical, Spacing: l.Spacing}, l.Rows)
}

// ForEach builds a List with one row per item. When id is non-nil each row
// is keyed by its item's identity instead of its position.
func ForEach[T any](items []T, id func(T) string, row func(T) View) List {
	rows := make([]View, 0, len(items))
	for _, item := range items {
		v := row(item)
		if v == nil {
			continue
		}
		if id != nil {
			v = Identified{ID: id(item), View: v}
		}
		rows = append(rows, v)
	}
	return List{Rows: rows}
}

// Identified gives a view an explicit identity within its parent.
type Identified struct {
	ID   string
	View View
}

// ViewKind reports the kind of the wrapped view.
func (i Identified) ViewKind() string {
	if i.View == nil {
		return "identified"
	}
	return i.View.ViewKind()
}

// ViewID returns the explicit identity.
func (i Identified) ViewID() string { return i.ID }

// Lower lowers the wrapped view under the key its parent derived from ID.
func (i Identified) Lower(s *Scope) (*ir.Node, error) {
	if i.View == nil {
		return nil, nil
	}
	return lowerAt(i.View, s.key, s.ctx, s.depth+1)
}

func lowerContainer(s *Scope, viewKind string, l ir.Layout, children []View) (*ir.Node, error) {
	nodes, err := s.LowerChildren(children)
	if err != nil {
		return nil, err
	}
	return ir.NewContainer(viewKind, l, nodes), nil
}
