package ir

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/style"
)

func sample() *Node {
	root := NewContainer("vstack", Layout{Axis: AxisVertical, Spacing: 8}, nil)
	root.Key = Root("vstack")

	title := NewLeaf("text", Content{Kind: ContentText, Text: "Hello", Style: style.TextStyle{FontSize: 16, Color: style.Black}})
	title.Key = root.Key.Child(0, "text")

	btn := NewInteraction("button", Content{Kind: ContentText, Text: "Go"}, Interaction{Message: "go", State: StateEnabled, Background: style.LightGray})
	btn.Key = root.Key.Child(1, "button")

	root.Children = []*Node{title, btn}
	return root
}

func TestKeys(t *testing.T) {
	root := Root("vstack")
	assert.Equal(t, Key("/vstack"), root)
	child := root.Child(2, "button")
	assert.Equal(t, Key("/vstack/2.button"), child)
	assert.Equal(t, Key("/vstack/2.button/#row-7.text"), child.Identified("row-7", "text"))
	assert.Equal(t, root, child.Parent())
	assert.Equal(t, Key(""), root.Parent())
	assert.Equal(t, 1, root.Depth())
	assert.Equal(t, 2, child.Depth())
}

func TestIdentifiedEscapesSeparators(t *testing.T) {
	root := Root("list")
	tests := []struct {
		id   string
		want Key
	}{
		{"a/b", "/list/#a%2Fb.text"},
		{"v1.2", "/list/#v1%2E2.text"},
		{"50%", "/list/#50%25.text"},
		{"%2F", "/list/#%252F.text"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			k := root.Identified(tt.id, "text")
			assert.Equal(t, tt.want, k)
			assert.Equal(t, root, k.Parent())
			assert.Equal(t, 2, k.Depth())
		})
	}
	assert.NotEqual(t, root.Identified("a/b", "text"), root.Identified("a%2Fb", "text"))
}

func TestInteractionState(t *testing.T) {
	s := StateEnabled.With(StateFocused)
	assert.True(t, s.Has(StateEnabled))
	assert.False(t, s.Has(StatePressed))
	assert.Equal(t, "enabled|focused", s.String())
	assert.Equal(t, "none", InteractionState(0).String())
	assert.Equal(t, StateFocused, s.Set(StateEnabled, false))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(sample()))

	tests := []struct {
		name   string
		mutate func(*Node)
	}{
		{"leaf without content", func(n *Node) { n.Children[0].Content = nil }},
		{"leaf with children", func(n *Node) { n.Children[0].Children = []*Node{NewLeaf("text", Content{})} }},
		{"container without layout", func(n *Node) { n.Layout = nil }},
		{"interaction without descriptor", func(n *Node) { n.Children[1].Interaction = nil }},
		{"unknown kind", func(n *Node) { n.Children[0].Kind = 42 }},
		{"duplicate key", func(n *Node) { n.Children[1].Key = n.Children[0].Key }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := sample()
			tt.mutate(n)
			err := Validate(n)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrExtractionUnsupported)
		})
	}
}

func TestWalkOrderAndIndex(t *testing.T) {
	var keys []Key
	Walk(sample(), func(n *Node) bool {
		keys = append(keys, n.Key)
		return true
	})
	assert.Equal(t, []Key{"/vstack", "/vstack/0.text", "/vstack/1.button"}, keys)

	idx := IndexOf(sample())
	require.Contains(t, idx, Key("/vstack/1.button"))
	assert.Equal(t, "Go", idx["/vstack/1.button"].Content.Text)
	assert.Equal(t, 3, Count(sample()))
	assert.Equal(t, []Key{"/vstack/1.button"}, Interactive(sample()))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(sample(), sample()))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(sample(), nil))

	other := sample()
	other.Children[1].Interaction.Message = "stop"
	assert.False(t, Equal(sample(), other))

	other = sample()
	other.Children[0].Content.Style.FontSize = 18
	assert.False(t, Equal(sample(), other))
}

func TestDiff(t *testing.T) {
	old := sample()
	cur := sample()
	cur.Children[0].Content.Text = "Bye"
	extra := NewLeaf("spacer", Content{Kind: ContentSpacer, MinSize: 4})
	extra.Key = cur.Key.Child(2, "spacer")
	cur.Children = append(cur.Children, extra)

	got := Diff(old, cur)
	want := Changes{
		Added:   []Key{"/vstack/2.spacer"},
		Changed: []Key{"/vstack", "/vstack/0.text"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, Diff(sample(), sample()).Empty())

	removed := Diff(cur, old)
	assert.Equal(t, []Key{"/vstack/2.spacer"}, removed.Removed)
}

func TestNodeJSON(t *testing.T) {
	data, err := json.Marshal(sample())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "container", decoded["kind"])
	assert.Equal(t, "/vstack", decoded["key"])

	children := decoded["children"].([]any)
	btn := children[1].(map[string]any)
	interaction := btn["interaction"].(map[string]any)
	assert.Equal(t, "enabled", interaction["state"])
	assert.Equal(t, "#FFE6E6E6", interaction["background"])
	assert.NotContains(t, interaction, "message")
}
