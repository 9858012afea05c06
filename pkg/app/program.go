// Package app runs a program: it drives the update scheduler, lowers the
// view of each installed model to IR and hands the IR to a backend.
package app

import (
	"github.com/ironwood-ui/ironwood/pkg/message"
	"github.com/ironwood-ui/ironwood/pkg/scheduler"
	"github.com/ironwood-ui/ironwood/pkg/view"
)

// Program is a scheduler program that can also describe its model as a view.
type Program[M any] interface {
	scheduler.Program[M]
	View(model M) view.View
}

type simpleProgram[M any] struct {
	init   M
	update func(M, message.Message) M
	view   func(M) view.View
}

// Simple builds a Program from plain functions. Each update installs the
// returned model with a Set transform.
func Simple[M any](init M, update func(M, message.Message) M, viewFn func(M) view.View) Program[M] {
	return simpleProgram[M]{init: init, update: update, view: viewFn}
}

func (p simpleProgram[M]) Init() M { return p.init }

func (p simpleProgram[M]) Update(model M, msg message.Message) message.Transform[M] {
	return message.Set(p.update(model, msg))
}

func (p simpleProgram[M]) View(model M) view.View { return p.view(model) }
