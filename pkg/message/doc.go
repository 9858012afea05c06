// Package message implements the message-application algebra: a closed set
// of model transforms that an Engine applies to a model value.
//
// A Transform is one of
//
//	Set(value)               replace the model
//	Pure(fn)                 synchronous, capture-free transform
//	Closure(env, fn)         synchronous transform with a bound environment
//	Conditional(pred, inner) apply inner only if pred holds at application time
//	Batch(t1, t2, ...)       left-to-right fold, each step sees the previous output
//	Async(fn)                issue a task; the model changes when it completes
//	Reset()                  replace the model with its initial value
//	Noop()                   identity
//
// Applying a transform tree never blocks. Async nodes are not executed by the
// engine: each one yields a Task bound to a snapshot of the model at the
// moment the node was reached. The scheduler runs the task and feeds its
// result back as a fresh Set.
//
// Models are treated as values. Transforms must return a new value rather
// than mutate memory shared with the previous version.
//
// Example:
//
//	type counter struct{ Count int }
//
//	inc := message.Pure(func(m counter) counter { m.Count++; return m })
//	engine := message.NewEngine(func() counter { return counter{} })
//	out, err := engine.Apply(counter{}, message.Batch(inc, inc))
//	// out.Model.Count == 2
package message
