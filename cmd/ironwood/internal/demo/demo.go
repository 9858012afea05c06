// Package demo holds the example programs shipped with the ironwood CLI.
package demo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ironwood-ui/ironwood/pkg/app"
	"github.com/ironwood-ui/ironwood/pkg/backend/textual"
	"github.com/ironwood-ui/ironwood/pkg/ir"
	"github.com/ironwood-ui/ironwood/pkg/message"
)

// Frame is a rendered demo frame.
type Frame = app.Frame[textual.Frame]

// Runner is a started demo with its model type erased.
type Runner interface {
	Render() (Frame, error)
	Last() (Frame, bool)
	Activate(key ir.Key) error
	Send(msg message.Message) error
	Settle(ctx context.Context) error
	Stop()
}

type runner[M any] struct {
	*app.Runtime[M, textual.Frame]
}

func (r runner[M]) Settle(ctx context.Context) error {
	return r.Scheduler().Settle(ctx)
}

// Demo describes an example program.
type Demo struct {
	Name        string
	Description string
	start       func(textual.Options, []app.Option) (Runner, error)
}

// Start runs the demo against a textual backend.
func (d Demo) Start(opts textual.Options, appOpts ...app.Option) (Runner, error) {
	return d.start(opts, appOpts)
}

var registry = map[string]Demo{}

func register[M any](name, description string, program func() app.Program[M]) {
	registry[name] = Demo{
		Name:        name,
		Description: description,
		start: func(opts textual.Options, appOpts []app.Option) (Runner, error) {
			rt, err := app.New[M, textual.Frame](program(), textual.New(opts), appOpts...)
			if err != nil {
				return nil, err
			}
			return runner[M]{rt}, nil
		},
	}
}

// Names lists the registered demos in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the demo called name.
func Lookup(name string) (Demo, error) {
	d, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Demo{}, fmt.Errorf("unknown demo %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}
