// Package backend defines how IR trees become native output. Each backend
// implements one interpretation of the fixed IR vocabulary and works for
// every view type that lowers to it.
package backend

import (
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/extract"
	"github.com/ironwood-ui/ironwood/pkg/ir"
	"github.com/ironwood-ui/ironwood/pkg/view"
)

// Backend interprets IR into output of type O.
type Backend[O any] interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// IRVersion is the IR vocabulary version the backend understands.
	IRVersion() string
	// Interpret converts a whole IR tree. It must fail, rather than
	// produce partial output, on node kinds it does not support.
	Interpret(root *ir.Node) (O, error)
}

// CheckCompatible reports whether a backend built for backendVersion can
// interpret IR of the current ir.Version: the major versions must match
// and the backend must be at least as new as the IR.
func CheckCompatible(name, backendVersion string) error {
	if !semver.IsValid(backendVersion) {
		return errors.Newf("backend.CheckCompatible", errors.KindConfig,
			"backend %s declares invalid IR version %q", name, backendVersion)
	}
	if semver.Major(backendVersion) != semver.Major(ir.Version) || semver.Compare(backendVersion, ir.Version) < 0 {
		return errors.Newf("backend.CheckCompatible", errors.KindExtraction,
			"backend %s understands IR %s, core produces %s", name, backendVersion, ir.Version)
	}
	return nil
}

// Render lowers v and interprets the result with b.
func Render[O any](b Backend[O], v view.View, ctx *extract.Context) (O, *ir.Node, error) {
	var zero O
	root, err := view.Lower(v, ctx)
	if err != nil {
		return zero, nil, err
	}
	out, err := b.Interpret(root)
	if err != nil {
		return zero, root, err
	}
	return out, root, nil
}

// Interpreter dispatches IR nodes by kind to per-kind functions. Backends
// embed one to get a total, ordered traversal; children are interpreted
// before their container.
type Interpreter[O any] struct {
	Leaf        func(n *ir.Node) (O, error)
	Interaction func(n *ir.Node) (O, error)
	Container   func(n *ir.Node, children []O) (O, error)
}

// Interpret walks the tree rooted at n. Nodes of unknown kind, or kinds
// without a handler, fail with errors.ErrExtractionUnsupported.
func (in Interpreter[O]) Interpret(n *ir.Node) (O, error) {
	var zero O
	if n == nil {
		return zero, errors.Newf("backend.Interpret", errors.KindExtraction, "nil node")
	}
	switch n.Kind {
	case ir.KindLeaf:
		if in.Leaf != nil {
			return in.Leaf(n)
		}
	case ir.KindInteraction:
		if in.Interaction != nil {
			return in.Interaction(n)
		}
	case ir.KindContainer:
		if in.Container != nil {
			children := make([]O, 0, len(n.Children))
			for _, c := range n.Children {
				out, err := in.Interpret(c)
				if err != nil {
					return zero, err
				}
				children = append(children, out)
			}
			return in.Container(n, children)
		}
	}
	return zero, Unsupported(n, fmt.Sprintf("node kind %s", n.Kind))
}

// Unsupported builds the error a backend returns for IR it cannot handle.
func Unsupported(n *ir.Node, what string) error {
	return &errors.Error{
		Op:   "backend.Interpret",
		Kind: errors.KindExtraction,
		Key:  string(n.Key),
		Err:  fmt.Errorf("%s is not supported", what),
	}
}
