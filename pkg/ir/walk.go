package ir

import (
	"reflect"
	"slices"
)

// Walk visits n and its descendants depth-first in child order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}

// Index maps keys to nodes for a single tree.
type Index map[Key]*Node

// IndexOf builds an index of the tree rooted at n.
func IndexOf(n *Node) Index {
	idx := make(Index)
	Walk(n, func(node *Node) bool {
		idx[node.Key] = node
		return true
	})
	return idx
}

// Interactive returns the keys of enabled interaction nodes in tree order.
func Interactive(n *Node) []Key {
	var keys []Key
	Walk(n, func(node *Node) bool {
		if node.Kind == KindInteraction && node.Interaction.Enabled() {
			keys = append(keys, node.Key)
		}
		return true
	})
	return keys
}

// Equal reports whether two trees are structurally equal. Messages are
// compared with reflect.DeepEqual.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !shallowEqual(a, b) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func shallowEqual(a, b *Node) bool {
	if a.Key != b.Key || a.Kind != b.Kind || a.ViewKind != b.ViewKind {
		return false
	}
	if !ptrEqual(a.Content, b.Content) || !ptrEqual(a.Layout, b.Layout) {
		return false
	}
	switch {
	case a.Interaction == nil || b.Interaction == nil:
		return a.Interaction == b.Interaction
	default:
		return a.Interaction.State == b.Interaction.State &&
			a.Interaction.Background == b.Interaction.Background &&
			reflect.DeepEqual(a.Interaction.Message, b.Interaction.Message)
	}
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Changes lists the keys that differ between two trees.
type Changes struct {
	Added   []Key
	Removed []Key
	Changed []Key
}

// Empty reports whether the trees were identical.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares two trees node by node using their keys. A node is
// Changed when its own descriptors differ; changes in descendants are
// reported against the descendants. Key lists are sorted.
func Diff(old, cur *Node) Changes {
	before, after := IndexOf(old), IndexOf(cur)
	var c Changes
	for k, n := range after {
		prev, ok := before[k]
		switch {
		case !ok:
			c.Added = append(c.Added, k)
		case !shallowEqual(prev, n) || len(prev.Children) != len(n.Children):
			c.Changed = append(c.Changed, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			c.Removed = append(c.Removed, k)
		}
	}
	slices.Sort(c.Added)
	slices.Sort(c.Removed)
	slices.Sort(c.Changed)
	return c
}
