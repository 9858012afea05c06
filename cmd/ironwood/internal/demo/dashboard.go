package demo

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironwood-ui/ironwood/pkg/app"
	"github.com/ironwood-ui/ironwood/pkg/message"
	"github.com/ironwood-ui/ironwood/pkg/style"
	"github.com/ironwood-ui/ironwood/pkg/view"
)

func init() {
	register("dashboard", "service health rows refreshed by a background task", Dashboard)
}

// Service is one dashboard row.
type Service struct {
	Name    string
	Healthy bool
	Latency time.Duration
}

// DashboardModel is the dashboard demo model.
type DashboardModel struct {
	Round      int
	Services   []Service
	Refreshing bool
	Error      string
}

// DashboardMsg is a dashboard demo message.
type DashboardMsg string

const (
	Refresh     DashboardMsg = "refresh"
	RefreshFail DashboardMsg = "refresh-fail"
	ClearError  DashboardMsg = "clear-error"
)

// CheckService checks a service during a refresh round. It is replaceable in
// tests.
var CheckService = func(ctx context.Context, name string, round int) (Service, error) {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s/%d", name, round)
	sum := h.Sum32()
	select {
	case <-time.After(time.Duration(sum%5) * time.Millisecond):
	case <-ctx.Done():
		return Service{}, ctx.Err()
	}
	return Service{Name: name, Healthy: sum%4 != 0, Latency: time.Duration(10+sum%90) * time.Millisecond}, nil
}

type dashboardProgram struct{}

// Dashboard returns the dashboard program.
func Dashboard() app.Program[DashboardModel] { return dashboardProgram{} }

func (dashboardProgram) Init() DashboardModel {
	return DashboardModel{Services: []Service{{Name: "api"}, {Name: "db"}, {Name: "queue"}, {Name: "search"}}}
}

type checkError struct{ err error }

func (dashboardProgram) OnTaskError(err error) message.Message { return checkError{err} }

func (dashboardProgram) Update(_ DashboardModel, msg message.Message) message.Transform[DashboardModel] {
	switch msg := msg.(type) {
	case DashboardMsg:
		switch msg {
		case Refresh, RefreshFail:
			return message.Batch(
				message.Pure(func(m DashboardModel) DashboardModel {
					m.Refreshing = true
					m.Error = ""
					return m
				}),
				message.AsyncNamed("refresh", refresh(msg == RefreshFail)),
			)
		case ClearError:
			return message.Pure(func(m DashboardModel) DashboardModel {
				m.Error = ""
				return m
			})
		}
	case checkError:
		return message.Pure(func(m DashboardModel) DashboardModel {
			m.Refreshing = false
			m.Error = msg.err.Error()
			return m
		})
	}
	return message.Noop[DashboardModel]()
}

// refresh checks every service concurrently and installs the results in
// one model.
func refresh(fail bool) message.TaskFunc[DashboardModel] {
	return func(ctx context.Context, m DashboardModel) (DashboardModel, error) {
		round := m.Round + 1
		results := make([]Service, len(m.Services))
		g, ctx := errgroup.WithContext(ctx)
		for i, svc := range m.Services {
			g.Go(func() error {
				if fail && i == len(m.Services)-1 {
					return fmt.Errorf("check %s: connection refused", svc.Name)
				}
				s, err := CheckService(ctx, svc.Name, round)
				results[i] = s
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return m, err
		}
		m.Round = round
		m.Services = results
		m.Refreshing = false
		return m, nil
	}
}

func (dashboardProgram) View(m DashboardModel) view.View {
	header := view.NewHStack(
		view.Image{Source: "logo.png", Width: 16, Height: 16},
		view.NewText("Service health").Weight(style.FontWeightMedium),
		view.Spacer{MinSize: 8},
		view.NewButton("refresh", Refresh).WithDisabled(m.Refreshing),
		view.NewButton("refresh (failing)", RefreshFail).WithDisabled(m.Refreshing),
	).WithSpacing(8)

	rows := view.ForEach(m.Services,
		func(s Service) string { return s.Name },
		func(s Service) view.View {
			return view.NewTriple(
				view.NewText(s.Name),
				statusText(s, m.Round),
				view.Textf("%dms", s.Latency.Milliseconds()),
			)
		})
	rows.Spacing = 4

	return view.NewVStack(
		header,
		view.Textf("Round %d", m.Round).Color(style.DarkGray),
		rows,
		view.When(m.Error != "", view.NewGroup(
			view.NewText("Error: "+m.Error).Color(style.Red),
			view.NewButton("dismiss", ClearError),
		)),
	).WithSpacing(8)
}

func statusText(s Service, round int) view.Text {
	switch {
	case round == 0:
		return view.NewText("unknown").Color(style.DarkGray)
	case s.Healthy:
		return view.NewText("healthy").Color(style.Green)
	default:
		return view.NewText("degraded").Color(style.Red)
	}
}
