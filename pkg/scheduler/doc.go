// Package scheduler owns the live model of an application and serialises
// every change to it.
//
// Work arrives as messages (mapped to transforms by the program's Update
// function), as transforms dispatched directly, or as completions of async
// tasks. The drive loop takes one unit at a time, applies it through the
// message engine and installs the result, then notifies update hooks so a
// new view tree can be produced. Async tasks run on an Executor; their
// results come back through the same queue and are applied as fresh Set
// transforms in completion order, not issue order. Concurrent async tasks
// therefore only converge when their effects commute.
//
// State machine:
//
//	Idle -> Applying -> Idle
//	Idle -> Applying -> AwaitingAsync (tasks outstanding; still accepts work)
//	any  -> ShuttingDown (terminal)
package scheduler
