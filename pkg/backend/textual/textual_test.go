package textual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironwood-ui/ironwood/pkg/backend"
	"github.com/ironwood-ui/ironwood/pkg/view"
)

var _ backend.Backend[Frame] = (*Backend)(nil)

func render(t *testing.T, v view.View) string {
	t.Helper()
	f, _, err := backend.Render[Frame](New(Options{}), v, nil)
	require.NoError(t, err)
	return f.String()
}

func TestTextualLayout(t *testing.T) {
	tests := []struct {
		name string
		view view.View
		want string
	}{
		{
			name: "single text",
			view: view.NewText("hello"),
			want: "hello",
		},
		{
			name: "centered column",
			view: view.NewVStack(
				view.NewText("Count: 3"),
				view.NewHStack(view.NewButton("-", "dec"), view.NewButton("+", "inc")),
			).WithAlignment(view.Center),
			want: " Count: 3\n[ - ] [ + ]",
		},
		{
			name: "trailing column",
			view: view.NewVStack(view.NewText("a"), view.NewText("bbb")).WithAlignment(view.Trailing),
			want: "  a\nbbb",
		},
		{
			name: "vertical spacing in rows",
			view: view.NewVStack(view.NewText("a"), view.NewText("b")).WithSpacing(32),
			want: "a\n\n\nb",
		},
		{
			name: "spacer in column",
			view: view.NewVStack(view.NewText("a"), view.Spacer{MinSize: 16}, view.NewText("b")),
			want: "a\n\nb",
		},
		{
			name: "disabled button",
			view: view.NewButton("Save", nil).WithDisabled(true),
			want: "( Save )",
		},
		{
			name: "image",
			view: view.Image{Source: "logo.png"},
			want: "[img logo.png]",
		},
		{
			name: "row with wide spacing",
			view: view.NewHStack(view.NewText("a"), view.NewText("b")).WithSpacing(24),
			want: "a   b",
		},
		{
			name: "row aligns to bottom",
			view: view.NewHStack(view.NewVStack(view.NewText("1"), view.NewText("2")), view.NewText("x")).WithAlignment(view.Trailing),
			want: "1\n2 x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.view))
		})
	}
}

func TestTopLevelSpacer(t *testing.T) {
	f, _, err := backend.Render[Frame](New(Options{}), view.Spacer{MinSize: 32}, nil)
	require.NoError(t, err)
	assert.Len(t, f.Lines, 2)
}
