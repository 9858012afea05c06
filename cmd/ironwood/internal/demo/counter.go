package demo

import (
	"context"
	"time"

	"github.com/ironwood-ui/ironwood/pkg/app"
	"github.com/ironwood-ui/ironwood/pkg/message"
	"github.com/ironwood-ui/ironwood/pkg/style"
	"github.com/ironwood-ui/ironwood/pkg/view"
)

func init() {
	register("counter", "increment, double asynchronously and reset a counter", Counter)
}

// CounterModel is the counter demo model.
type CounterModel struct {
	Count    int
	Doubling bool
}

// CounterMsg is a counter demo message.
type CounterMsg string

const (
	Increment   CounterMsg = "increment"
	Decrement   CounterMsg = "decrement"
	DoubleLater CounterMsg = "double-later"
	BonusIfEven CounterMsg = "bonus-if-even"
	ResetCount  CounterMsg = "reset"
)

// DoubleDelay is how long the asynchronous double takes.
var DoubleDelay = 50 * time.Millisecond

type counterProgram struct{}

// Counter returns the counter program.
func Counter() app.Program[CounterModel] { return counterProgram{} }

func (counterProgram) Init() CounterModel { return CounterModel{} }

func (counterProgram) Update(_ CounterModel, msg message.Message) message.Transform[CounterModel] {
	switch msg {
	case Increment:
		return add(1)
	case Decrement:
		return add(-1)
	case BonusIfEven:
		return message.Conditional(func(m CounterModel) bool { return m.Count%2 == 0 }, add(10))
	case DoubleLater:
		return message.Batch(
			message.Pure(func(m CounterModel) CounterModel {
				m.Doubling = true
				return m
			}),
			message.AsyncNamed("double", func(ctx context.Context, m CounterModel) (CounterModel, error) {
				select {
				case <-time.After(DoubleDelay):
				case <-ctx.Done():
					return m, ctx.Err()
				}
				m.Count *= 2
				m.Doubling = false
				return m, nil
			}),
		)
	case ResetCount:
		return message.Reset[CounterModel]()
	}
	return message.Noop[CounterModel]()
}

func add(n int) message.Transform[CounterModel] {
	return message.Closure(n, func(n int, m CounterModel) CounterModel {
		m.Count += n
		return m
	})
}

func (counterProgram) View(m CounterModel) view.View {
	return view.NewVStack(
		view.Textf("Count: %d", m.Count).Weight(style.FontWeightBold),
		view.When(m.Doubling, view.NewText("doubling...").Color(style.DarkGray)),
		view.NewHStack(
			view.NewButton("-", Decrement),
			view.NewButton("+", Increment),
			view.NewButton("x2", DoubleLater).WithDisabled(m.Doubling),
			view.NewButton("+10 if even", BonusIfEven),
			view.NewButton("reset", ResetCount).WithDisabled(m.Count == 0),
		).WithSpacing(8),
	).WithSpacing(16)
}
