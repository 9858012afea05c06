package demo

import (
	"github.com/ironwood-ui/ironwood/pkg/app"
	"github.com/ironwood-ui/ironwood/pkg/message"
	"github.com/ironwood-ui/ironwood/pkg/style"
	"github.com/ironwood-ui/ironwood/pkg/view"
	"github.com/ironwood-ui/ironwood/pkg/widgets"
)

func init() {
	register("form", "a sign-up form built from widget models", Form)
}

// FormModel is the form demo model.
type FormModel struct {
	Names     []string
	Selected  int
	Subscribe widgets.Toggle
	Submit    widgets.Button
	Submitted string
}

type (
	nextName  struct{}
	toggleMsg struct{ widgets.Toggled }
	submitMsg struct{ widgets.Clicked }
)

// Form messages, exported so tests and the CLI can send them.
var (
	NextName        message.Message = nextName{}
	ToggleSubscribe message.Message = toggleMsg{}
	SubmitForm      message.Message = submitMsg{}
)

type formProgram struct{}

// Form returns the form program.
func Form() app.Program[FormModel] { return formProgram{} }

func (formProgram) Init() FormModel {
	submit := widgets.NewButton("Submit")
	submit.Background = style.Blue
	submit.Style = style.TextStyle{Color: style.White}
	submit.Interactive = submit.Interactive.Update(widgets.SetEnabled(false))
	return FormModel{
		Names:     []string{"Ada", "Grace", "Barbara"},
		Subscribe: widgets.NewToggle("Subscribe to updates", false),
		Submit:    submit,
	}
}

func (formProgram) Update(_ FormModel, msg message.Message) message.Transform[FormModel] {
	switch msg := msg.(type) {
	case nextName:
		return message.Pure(func(m FormModel) FormModel {
			m.Selected = (m.Selected + 1) % len(m.Names)
			return m
		})
	case toggleMsg:
		return message.Batch(
			message.Pure(func(m FormModel) FormModel {
				m.Subscribe = m.Subscribe.Update(msg.Toggled)
				return m
			}),
			message.Pure(syncSubmit),
		)
	case submitMsg:
		return message.Closure(msg.Clicked, func(c widgets.Clicked, m FormModel) FormModel {
			var clicked bool
			m.Submit, clicked = m.Submit.Update(c)
			if clicked {
				m.Submitted = m.Names[m.Selected]
			}
			return m
		})
	}
	return message.Noop[FormModel]()
}

// syncSubmit enables the submit button only while the toggle is on.
func syncSubmit(m FormModel) FormModel {
	m.Submit, _ = m.Submit.Update(widgets.ButtonInteraction{InteractionMessage: widgets.SetEnabled(m.Subscribe.Value)})
	return m
}

func (formProgram) View(m FormModel) view.View {
	var status view.View
	if m.Submitted != "" {
		status = view.Textf("Thanks, %s!", m.Submitted).Color(style.Green)
	}
	return view.NewVStack(
		view.NewText("Sign up").FontSize(20),
		view.NewPair(
			view.Textf("Name: %s", m.Names[m.Selected]),
			view.NewButton("next name", NextName),
		),
		m.Subscribe.View(ToggleSubscribe),
		m.Submit.View(SubmitForm),
		status,
	).WithSpacing(8)
}
