// Package ir defines the backend-agnostic intermediate representation that
// view trees are lowered into. The vocabulary is deliberately small: leaves
// carry content, containers carry layout, and interaction nodes carry the
// message to dispatch on activation. Backends interpret IR trees; they never
// see view types.
package ir

import (
	"fmt"

	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/style"
)

// Version is the semantic version of the IR vocabulary produced by this
// package. Backends declare the version they understand.
const Version = "v1.0.0"

// Kind classifies an IR node.
type Kind uint8

const (
	// KindLeaf is a content-bearing node without children.
	KindLeaf Kind = iota + 1
	// KindContainer groups children with a layout descriptor.
	KindContainer
	// KindInteraction is a leaf that dispatches a message when activated.
	KindInteraction
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindContainer:
		return "container"
	case KindInteraction:
		return "interaction"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ContentKind identifies the payload of a leaf.
type ContentKind uint8

const (
	ContentText ContentKind = iota + 1
	ContentImage
	ContentSpacer
)

func (c ContentKind) String() string {
	switch c {
	case ContentText:
		return "text"
	case ContentImage:
		return "image"
	case ContentSpacer:
		return "spacer"
	default:
		return fmt.Sprintf("ContentKind(%d)", int(c))
	}
}

// MarshalText encodes the content kind by name.
func (c ContentKind) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Content is the payload of a leaf or the label of an interaction node.
type Content struct {
	Kind ContentKind `json:"kind"`
	// Text is the string drawn for text content.
	Text string `json:"text,omitempty"`
	// Style is fully resolved: no field is left for the backend to default.
	Style style.TextStyle `json:"style,omitzero"`
	// Advance is the measured intrinsic width of Text in logical pixels.
	Advance float64 `json:"advance,omitempty"`
	// Source locates image content.
	Source string `json:"source,omitempty"`
	// Width and Height are size hints for images.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// MinSize is the minimum extent of a spacer along its parent's axis.
	MinSize float64 `json:"min_size,omitempty"`
}

// Layout describes how a container arranges its children. Layout is only
// described here; computing geometry is the backend's job.
type Layout struct {
	Axis      Axis      `json:"axis"`
	Spacing   float64   `json:"spacing,omitempty"`
	Alignment Alignment `json:"alignment"`
}

// Interaction describes an activatable node.
type Interaction struct {
	// Message is dispatched to the scheduler when the node is activated.
	Message    any              `json:"-"`
	State      InteractionState `json:"state"`
	Background style.Color      `json:"background"`
}

// Enabled reports whether the node accepts activation.
func (i *Interaction) Enabled() bool {
	return i != nil && i.State.Has(StateEnabled)
}

// Node is one element of an IR tree. Nodes are plain values: they hold no
// references back to views or models and may be shared between goroutines
// once built.
type Node struct {
	Key         Key          `json:"key"`
	Kind        Kind         `json:"kind"`
	ViewKind    string       `json:"view"`
	Content     *Content     `json:"content,omitempty"`
	Layout      *Layout      `json:"layout,omitempty"`
	Interaction *Interaction `json:"interaction,omitempty"`
	Children    []*Node      `json:"children,omitempty"`
}

// NewLeaf returns a leaf node.
func NewLeaf(viewKind string, c Content) *Node {
	return &Node{Kind: KindLeaf, ViewKind: viewKind, Content: &c}
}

// NewContainer returns a container node with the given children.
func NewContainer(viewKind string, l Layout, children []*Node) *Node {
	return &Node{Kind: KindContainer, ViewKind: viewKind, Layout: &l, Children: children}
}

// NewInteraction returns an interaction node labelled by c.
func NewInteraction(viewKind string, c Content, i Interaction) *Node {
	return &Node{Kind: KindInteraction, ViewKind: viewKind, Content: &c, Interaction: &i}
}

// Validate checks that n and its descendants are well formed: every node
// has a known kind with the descriptor that kind requires, and keys are
// unique.
func Validate(n *Node) error {
	seen := make(map[Key]struct{})
	var err error
	Walk(n, func(node *Node) bool {
		if err != nil {
			return false
		}
		err = validateNode(node)
		if err == nil {
			if _, dup := seen[node.Key]; dup {
				err = fmt.Errorf("duplicate key %s", node.Key)
			}
			seen[node.Key] = struct{}{}
		}
		if err != nil {
			err = &errors.Error{Op: "ir.Validate", Kind: errors.KindExtraction, Key: string(node.Key), Err: err}
			return false
		}
		return true
	})
	return err
}

func validateNode(n *Node) error {
	switch n.Kind {
	case KindLeaf:
		if n.Content == nil {
			return fmt.Errorf("leaf %q has no content", n.ViewKind)
		}
		if len(n.Children) > 0 {
			return fmt.Errorf("leaf %q has children", n.ViewKind)
		}
	case KindContainer:
		if n.Layout == nil {
			return fmt.Errorf("container %q has no layout", n.ViewKind)
		}
		for i, c := range n.Children {
			if c == nil {
				return fmt.Errorf("container %q has nil child %d", n.ViewKind, i)
			}
		}
	case KindInteraction:
		if n.Interaction == nil || n.Content == nil {
			return fmt.Errorf("interaction %q is missing its label or descriptor", n.ViewKind)
		}
		if len(n.Children) > 0 {
			return fmt.Errorf("interaction %q has children", n.ViewKind)
		}
	default:
		return fmt.Errorf("%w: node kind %s", errors.ErrExtractionUnsupported, n.Kind)
	}
	return nil
}
