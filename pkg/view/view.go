// Package view defines the declarative view vocabulary and lowers view
// trees into IR.
//
// A View is a pure description. Built-in views implement Lowerer and
// produce IR directly. User-defined views usually implement Component and
// describe themselves in terms of other views through Body. Lowering is a
// pure function of the view tree and the extraction context: the same
// inputs always produce structurally equal IR with the same keys.
package view

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/extract"
	"github.com/ironwood-ui/ironwood/pkg/ir"
)

// MaxDepth bounds the nesting of views during lowering. Component bodies
// that recurse without end fail with errors.KindRecursionLimit.
const MaxDepth = 1024

// View is any node of a view tree. ViewKind names the view type; it
// appears in IR keys and must be stable.
type View interface {
	ViewKind() string
}

// Lowerer is implemented by views that produce IR directly.
type Lowerer interface {
	View
	Lower(s *Scope) (*ir.Node, error)
}

// Component is implemented by views composed from other views.
type Component interface {
	View
	Body() View
}

// Identifiable is implemented by views that carry their own identity. Their
// key segment uses the identity instead of the child position, so moving
// them within their parent keeps their key.
type Identifiable interface {
	ViewID() string
}

// Scope is handed to Lowerer implementations. It carries the node's key
// and the shared context.
type Scope struct {
	ctx   *extract.Context
	key   ir.Key
	depth int
}

// Context returns the extraction context of the pass.
func (s *Scope) Context() *extract.Context { return s.ctx }

// Key returns the key the produced node will carry.
func (s *Scope) Key() ir.Key { return s.key }

// LowerChildren lowers children in order. Nil children are skipped and do
// not consume a position. Large child lists are lowered concurrently when
// the context allows it; results and errors are the same either way.
func (s *Scope) LowerChildren(children []View) ([]*ir.Node, error) {
	type job struct {
		view View
		key  ir.Key
	}
	jobs := make([]job, 0, len(children))
	for _, c := range children {
		if c == nil {
			continue
		}
		jobs = append(jobs, job{view: c, key: childKey(s.key, len(jobs), c)})
	}

	nodes := make([]*ir.Node, len(jobs))
	errs := make([]error, len(jobs))
	if s.ctx.ParallelFor(len(jobs)) {
		var g errgroup.Group
		for i, j := range jobs {
			g.Go(func() error {
				nodes[i], errs[i] = lowerAt(j.view, j.key, s.ctx, s.depth+1)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, j := range jobs {
			nodes[i], errs[i] = lowerAt(j.view, j.key, s.ctx, s.depth+1)
			if errs[i] != nil {
				break
			}
		}
	}
	// Report the first failing child in tree order regardless of which
	// goroutine finished first.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// Lower converts a view tree into IR. A nil ctx selects a default context.
// Views that neither implement Lowerer nor Component fail with
// errors.ErrExtractionUnsupported; no partial tree is returned.
func Lower(v View, ctx *extract.Context) (*ir.Node, error) {
	if ctx == nil {
		ctx = extract.NewContext()
	}
	if v == nil {
		return nil, errors.Newf("view.Lower", errors.KindExtraction, "nil root view")
	}
	start := time.Now()
	n, err := lowerAt(v, rootKey(v), ctx, 0)
	if err != nil {
		return nil, err
	}
	if err := ir.Validate(n); err != nil {
		return nil, err
	}
	ctx.Logger().Debug("lowered view tree",
		"root", v.ViewKind(),
		"nodes", ir.Count(n),
		"duration", time.Since(start))
	return n, nil
}

func rootKey(v View) ir.Key {
	if id, ok := v.(Identifiable); ok && id.ViewID() != "" {
		return ir.Key("").Identified(id.ViewID(), v.ViewKind())
	}
	return ir.Root(v.ViewKind())
}

func childKey(parent ir.Key, index int, v View) ir.Key {
	if id, ok := v.(Identifiable); ok && id.ViewID() != "" {
		return parent.Identified(id.ViewID(), v.ViewKind())
	}
	return parent.Child(index, v.ViewKind())
}

func lowerAt(v View, key ir.Key, ctx *extract.Context, depth int) (n *ir.Node, err error) {
	if depth > MaxDepth {
		return nil, &errors.Error{
			Op:   "view.Lower",
			Kind: errors.KindRecursionLimit,
			Key:  string(key),
			Err:  fmt.Errorf("view nesting exceeds %d", MaxDepth),
		}
	}
	defer errors.RecoverError("view.Lower", &err)

	switch t := v.(type) {
	case Lowerer:
		n, err = t.Lower(&Scope{ctx: ctx, key: key, depth: depth})
		if err != nil {
			if errors.KindOf(err) == errors.KindUnknown {
				err = &errors.Error{Op: "view.Lower", Kind: errors.KindExtraction, Key: string(key), Err: err}
			}
			return nil, err
		}
		if n == nil {
			return nil, &errors.Error{Op: "view.Lower", Kind: errors.KindExtraction, Key: string(key),
				Err: fmt.Errorf("%T produced no node", v)}
		}
		n.Key = key
		if n.ViewKind == "" {
			n.ViewKind = v.ViewKind()
		}
		return n, nil
	case Component:
		body := t.Body()
		if body == nil {
			return nil, &errors.Error{Op: "view.Lower", Kind: errors.KindExtraction, Key: string(key),
				Err: fmt.Errorf("component %T has a nil body", v)}
		}
		return lowerAt(body, key.Child(0, body.ViewKind()), ctx, depth+1)
	default:
		return nil, &errors.Error{Op: "view.Lower", Kind: errors.KindExtraction, Key: string(key),
			Err: fmt.Errorf("view type %T is not registered for extraction", v)}
	}
}
