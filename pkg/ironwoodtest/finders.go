package ironwoodtest

import (
	"strings"

	"github.com/ironwood-ui/ironwood/pkg/ir"
)

// Finder matches IR nodes.
type Finder func(*ir.Node) bool

// ByText matches nodes whose text content equals s.
func ByText(s string) Finder {
	return func(n *ir.Node) bool {
		return n.Content != nil && n.Content.Kind == ir.ContentText && n.Content.Text == s
	}
}

// ByTextContaining matches nodes whose text content contains s.
func ByTextContaining(s string) Finder {
	return func(n *ir.Node) bool {
		return n.Content != nil && n.Content.Kind == ir.ContentText && strings.Contains(n.Content.Text, s)
	}
}

// ByViewKind matches nodes lowered from views of the given kind.
func ByViewKind(kind string) Finder {
	return func(n *ir.Node) bool { return n.ViewKind == kind }
}

// FindAll returns the keys of matching nodes in tree order.
func FindAll(root *ir.Node, f Finder) []ir.Key {
	var keys []ir.Key
	ir.Walk(root, func(n *ir.Node) bool {
		if f(n) {
			keys = append(keys, n.Key)
		}
		return true
	})
	return keys
}

// FindInteractive is FindAll restricted to enabled interaction nodes.
func FindInteractive(root *ir.Node, f Finder) []ir.Key {
	return FindAll(root, func(n *ir.Node) bool {
		return n.Kind == ir.KindInteraction && n.Interaction.Enabled() && f(n)
	})
}
