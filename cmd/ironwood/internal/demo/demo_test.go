package demo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironwood-ui/ironwood/pkg/backend/textual"
	"github.com/ironwood-ui/ironwood/pkg/ironwoodtest"
)

func settle(t *testing.T, r Runner) Frame {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Settle(ctx))
	f, ok := r.Last()
	require.True(t, ok)
	return f
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"counter", "dashboard", "form"}, Names())
	d, err := Lookup(" Counter ")
	require.NoError(t, err)
	assert.Equal(t, "counter", d.Name)
	_, err = Lookup("tetris")
	assert.ErrorContains(t, err, "available: counter, dashboard, form")
}

func TestCounterDemo(t *testing.T) {
	h := ironwoodtest.New(t, Counter())

	h.Tap("+")
	h.Tap("+")
	h.Settle()
	assert.Equal(t, 2, h.Model().Count)

	h.Tap("+10 if even")
	h.Settle()
	assert.Equal(t, 12, h.Model().Count)

	h.Tap("-")
	h.Tap("+10 if even")
	h.Settle()
	assert.Equal(t, 11, h.Model().Count, "bonus only applies to even counts")

	h.Tap("x2")
	h.Step()
	assert.True(t, h.Model().Doubling)
	assert.Contains(t, h.Texts(), "doubling...")
	h.Settle()
	assert.Equal(t, CounterModel{Count: 22}, h.Model())

	h.Tap("reset")
	h.Settle()
	assert.Equal(t, CounterModel{}, h.Model())
	assert.Empty(t, ironwoodtest.FindInteractive(h.Frame().IR, ironwoodtest.ByText("reset")))
}

func TestFormDemo(t *testing.T) {
	h := ironwoodtest.New(t, Form())
	assert.Empty(t, ironwoodtest.FindInteractive(h.Frame().IR, ironwoodtest.ByText("Submit")), "submit starts disabled")

	h.Tap("next name")
	h.Tap("[ ] Subscribe to updates")
	h.Settle()
	assert.True(t, h.Model().Subscribe.Value)
	assert.True(t, h.Model().Submit.Enabled())

	h.Tap("Submit")
	h.Settle()
	assert.Equal(t, "Grace", h.Model().Submitted)
	assert.Contains(t, h.Texts(), "Thanks, Grace!")
}

func TestDashboardDemo(t *testing.T) {
	h := ironwoodtest.New(t, Dashboard())
	assert.Contains(t, h.Texts(), "Round 0")

	h.Tap("refresh")
	h.Settle()
	m := h.Model()
	assert.Equal(t, 1, m.Round)
	assert.False(t, m.Refreshing)
	require.Len(t, m.Services, 4)
	assert.Equal(t, "api", m.Services[0].Name)
	assert.NotZero(t, m.Services[0].Latency)

	keys := ironwoodtest.FindAll(h.Frame().IR, ironwoodtest.ByText("db"))
	require.Len(t, keys, 1)
	assert.Contains(t, string(keys[0]), "/#db.triple/")

	h.Tap("refresh (failing)")
	h.Settle()
	m = h.Model()
	assert.Equal(t, 1, m.Round, "failed refresh keeps the previous round")
	assert.Contains(t, m.Error, "connection refused")
	assert.False(t, m.Refreshing)

	h.Tap("dismiss")
	h.Settle()
	assert.Empty(t, h.Model().Error)
}

func TestStartTextual(t *testing.T) {
	d, err := Lookup("counter")
	require.NoError(t, err)
	r, err := d.Start(textual.DefaultOptions())
	require.NoError(t, err)
	defer r.Stop()

	f, err := r.Render()
	require.NoError(t, err)
	out := f.Output.String()
	assert.True(t, strings.HasPrefix(out, "Count: 0"), out)
	assert.Contains(t, out, "[ + ]")
	assert.Contains(t, out, "( reset )")

	require.NoError(t, r.Send(Increment))
	f = settle(t, r)
	assert.Equal(t, uint64(1), f.Version)
	assert.True(t, strings.HasPrefix(f.Output.String(), "Count: 1"))
}
