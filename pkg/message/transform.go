package message

import (
	"context"
	"fmt"
	"strings"
)

// Kind discriminates the variants of Transform.
type Kind int

const (
	KindNoop Kind = iota
	KindSet
	KindPure
	KindClosure
	KindConditional
	KindBatch
	KindAsync
	KindReset
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNoop:
		return "noop"
	case KindSet:
		return "set"
	case KindPure:
		return "pure"
	case KindClosure:
		return "closure"
	case KindConditional:
		return "conditional"
	case KindBatch:
		return "batch"
	case KindAsync:
		return "async"
	case KindReset:
		return "reset"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Transform is one node of the algebra over models of type M.
// The set of implementations is closed; use the constructors in this package.
// The unexported of method ties every node to M, so a transform built for
// one model type cannot be applied to another.
type Transform[M any] interface {
	Kind() Kind
	of(M)
}

// TaskFunc is the body of an asynchronous transform. It receives the model
// snapshot taken when the Async node was reached and must honour ctx
// cancellation on a best-effort basis.
type TaskFunc[M any] func(ctx context.Context, snapshot M) (M, error)

type noopT[M any] struct{}

func (noopT[M]) Kind() Kind { return KindNoop }
func (noopT[M]) of(M)       {}

type setT[M any] struct{ value M }

func (setT[M]) Kind() Kind { return KindSet }
func (setT[M]) of(M)       {}

type pureT[M any] struct{ fn func(M) M }

func (pureT[M]) Kind() Kind { return KindPure }
func (pureT[M]) of(M)       {}

type closureT[M any] struct {
	env any
	fn  func(M) M
}

func (closureT[M]) Kind() Kind { return KindClosure }
func (closureT[M]) of(M)       {}

type conditionalT[M any] struct {
	pred  func(M) bool
	inner Transform[M]
}

func (conditionalT[M]) Kind() Kind { return KindConditional }
func (conditionalT[M]) of(M)       {}

type batchT[M any] struct{ items []Transform[M] }

func (batchT[M]) Kind() Kind { return KindBatch }
func (batchT[M]) of(M)       {}

type asyncT[M any] struct {
	label string
	fn    TaskFunc[M]
}

func (asyncT[M]) Kind() Kind { return KindAsync }
func (asyncT[M]) of(M)       {}

type resetT[M any] struct{}

func (resetT[M]) Kind() Kind { return KindReset }
func (resetT[M]) of(M)       {}

// Noop returns the identity transform.
func Noop[M any]() Transform[M] { return noopT[M]{} }

// Set replaces the model unconditionally.
func Set[M any](value M) Transform[M] { return setT[M]{value: value} }

// Pure applies fn to the model. A nil fn behaves as Noop.
func Pure[M any](fn func(M) M) Transform[M] { return pureT[M]{fn: fn} }

// Closure applies fn with env bound as its first argument. The environment
// is kept on the node so it can be inspected by Describe and Env.
func Closure[M, E any](env E, fn func(E, M) M) Transform[M] {
	if fn == nil {
		return closureT[M]{env: env}
	}
	return closureT[M]{env: env, fn: func(m M) M { return fn(env, m) }}
}

// Conditional applies inner only if pred holds for the model current at
// the moment the node is reached. A nil pred never holds.
func Conditional[M any](pred func(M) bool, inner Transform[M]) Transform[M] {
	return conditionalT[M]{pred: pred, inner: inner}
}

// Batch applies ts in order, each seeing the output of the previous.
// An empty batch is equivalent to Noop. The slice is copied.
func Batch[M any](ts ...Transform[M]) Transform[M] {
	items := make([]Transform[M], len(ts))
	copy(items, ts)
	return batchT[M]{items: items}
}

// Async issues a task that computes a new model from a snapshot.
func Async[M any](fn TaskFunc[M]) Transform[M] { return asyncT[M]{fn: fn} }

// AsyncNamed is Async with a label used in logs and task metadata.
func AsyncNamed[M any](label string, fn TaskFunc[M]) Transform[M] {
	return asyncT[M]{label: label, fn: fn}
}

// Reset replaces the model with the engine's initial value.
func Reset[M any]() Transform[M] { return resetT[M]{} }

// Env returns the environment bound to a Closure node, or nil.
func Env[M any](t Transform[M]) any {
	if c, ok := t.(closureT[M]); ok {
		return c.env
	}
	return nil
}

// Children returns the direct sub-transforms of a Batch or Conditional node.
func Children[M any](t Transform[M]) []Transform[M] {
	switch n := t.(type) {
	case batchT[M]:
		out := make([]Transform[M], len(n.items))
		copy(out, n.items)
		return out
	case conditionalT[M]:
		if n.inner == nil {
			return nil
		}
		return []Transform[M]{n.inner}
	default:
		return nil
	}
}

// Describe renders the shape of a transform tree, e.g. "batch(pure,conditional(set))".
func Describe[M any](t Transform[M]) string {
	var sb strings.Builder
	describe[M](&sb, t)
	return sb.String()
}

func describe[M any](sb *strings.Builder, t Transform[M]) {
	if t == nil {
		sb.WriteString("noop")
		return
	}
	switch n := t.(type) {
	case batchT[M]:
		sb.WriteString("batch(")
		for i, item := range n.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			describe[M](sb, item)
		}
		sb.WriteByte(')')
	case conditionalT[M]:
		sb.WriteString("conditional(")
		describe[M](sb, n.inner)
		sb.WriteByte(')')
	case asyncT[M]:
		sb.WriteString("async")
		if n.label != "" {
			sb.WriteString(":" + n.label)
		}
	default:
		sb.WriteString(t.Kind().String())
	}
}

// Message is an application-defined value describing something that
// happened. The update function maps messages to transforms.
type Message = any
