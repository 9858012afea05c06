// Package mock is an inspectable backend for tests. It turns IR into plain
// Go structs that record every descriptor field.
package mock

import (
	"github.com/ironwood-ui/ironwood/pkg/backend"
	"github.com/ironwood-ui/ironwood/pkg/ir"
	"github.com/ironwood-ui/ironwood/pkg/style"
)

// Node is a mock rendering of one IR node.
type Node interface {
	NodeKey() ir.Key
}

// Text is a rendered text leaf.
type Text struct {
	Key      ir.Key
	Content  string
	FontSize float64
	Color    style.Color
	Weight   style.FontWeight
}

// Image is a rendered image leaf.
type Image struct {
	Key    ir.Key
	Source string
	Width  float64
	Height float64
}

// Spacer is a rendered spacer leaf.
type Spacer struct {
	Key     ir.Key
	MinSize float64
}

// Button is a rendered interaction node.
type Button struct {
	Key             ir.Key
	Text            string
	TextStyle       style.TextStyle
	BackgroundColor style.Color
	State           ir.InteractionState
	Message         any
}

// Stack is a rendered container.
type Stack struct {
	Key       ir.Key
	ViewKind  string
	Axis      ir.Axis
	Spacing   float64
	Alignment ir.Alignment
	Children  []Node
}

// NodeKey returns the IR key the node was built from.
func (t Text) NodeKey() ir.Key   { return t.Key }
func (i Image) NodeKey() ir.Key  { return i.Key }
func (s Spacer) NodeKey() ir.Key { return s.Key }
func (b Button) NodeKey() ir.Key { return b.Key }
func (s Stack) NodeKey() ir.Key  { return s.Key }

// Backend renders IR into mock nodes.
type Backend struct {
	interp backend.Interpreter[Node]
}

// New returns a mock backend.
func New() *Backend {
	return &Backend{interp: backend.Interpreter[Node]{
		Leaf:        leaf,
		Interaction: button,
		Container:   stack,
	}}
}

// Name returns "mock".
func (*Backend) Name() string { return "mock" }

// IRVersion reports the IR version the backend was written against.
func (*Backend) IRVersion() string { return ir.Version }

// Interpret renders the tree rooted at root.
func (b *Backend) Interpret(root *ir.Node) (Node, error) {
	return b.interp.Interpret(root)
}

func leaf(n *ir.Node) (Node, error) {
	switch n.Content.Kind {
	case ir.ContentText:
		return Text{
			Key:      n.Key,
			Content:  n.Content.Text,
			FontSize: n.Content.Style.FontSize,
			Color:    n.Content.Style.Color,
			Weight:   n.Content.Style.Weight,
		}, nil
	case ir.ContentImage:
		return Image{Key: n.Key, Source: n.Content.Source, Width: n.Content.Width, Height: n.Content.Height}, nil
	case ir.ContentSpacer:
		return Spacer{Key: n.Key, MinSize: n.Content.MinSize}, nil
	default:
		return nil, backend.Unsupported(n, "content "+n.Content.Kind.String())
	}
}

func button(n *ir.Node) (Node, error) {
	return Button{
		Key:             n.Key,
		Text:            n.Content.Text,
		TextStyle:       n.Content.Style,
		BackgroundColor: n.Interaction.Background,
		State:           n.Interaction.State,
		Message:         n.Interaction.Message,
	}, nil
}

func stack(n *ir.Node, children []Node) (Node, error) {
	return Stack{
		Key:       n.Key,
		ViewKind:  n.ViewKind,
		Axis:      n.Layout.Axis,
		Spacing:   n.Layout.Spacing,
		Alignment: n.Layout.Alignment,
		Children:  children,
	}, nil
}

// Find returns the first rendered node with key, searching depth-first.
func Find(root Node, key ir.Key) (Node, bool) {
	if root == nil {
		return nil, false
	}
	if root.NodeKey() == key {
		return root, true
	}
	if s, ok := root.(Stack); ok {
		for _, c := range s.Children {
			if found, ok := Find(c, key); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// Texts returns the content of every text leaf and button label in order.
func Texts(root Node) []string {
	var out []string
	switch n := root.(type) {
	case Text:
		out = append(out, n.Content)
	case Button:
		out = append(out, n.Text)
	case Stack:
		for _, c := range n.Children {
			out = append(out, Texts(c)...)
		}
	}
	return out
}
