package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironwood-ui/ironwood/pkg/telemetry"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--config", t.TempDir()))
	err := root.Execute()
	return out.String(), err
}

func TestRunCounter(t *testing.T) {
	out, err := execute(t, "+\n+\nnope\nkeys\nquit\n+\n", "run", "counter")
	require.NoError(t, err)

	assert.Contains(t, out, "--- frame 0 ---\nCount: 0")
	assert.Contains(t, out, "--- frame 2 ---\nCount: 2")
	assert.Contains(t, out, `error: no button labelled "nope"`)
	assert.Contains(t, out, "/vstack/2.hstack/1.button")
	assert.NotContains(t, out, "Count: 3", "input after quit is ignored")
}

func TestRunByKeyAndDisabled(t *testing.T) {
	out, err := execute(t, "/vstack/2.hstack/4.button\n/vstack/2.hstack/1.button\n", "run", "counter")
	require.NoError(t, err)
	assert.Contains(t, out, "node is disabled")
	assert.Contains(t, out, "Count: 1")
}

func TestRunUnknownDemo(t *testing.T) {
	_, err := execute(t, "", "run", "tetris")
	assert.ErrorContains(t, err, "unknown demo")
}

func TestIRCommand(t *testing.T) {
	out, err := execute(t, "", "ir", "counter", "--tap", "+", "--tap", "x2")
	require.NoError(t, err)

	var doc struct {
		IRVersion string   `json:"irVersion"`
		Version   uint64   `json:"version"`
		Changed   []string `json:"changed"`
		Tree      struct {
			Key      string `json:"key"`
			Children []struct {
				Content struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"children"`
		} `json:"tree"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "v1.0.0", doc.IRVersion)
	assert.Equal(t, uint64(3), doc.Version)
	assert.Equal(t, "/vstack", doc.Tree.Key)
	assert.Equal(t, "Count: 2", doc.Tree.Children[0].Content.Text)
	assert.Contains(t, doc.Changed, "/vstack/0.text")
}

func TestIRCommandRejectsBadConfig(t *testing.T) {
	_, err := execute(t, "", "ir", "counter", "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestVersionAndDemos(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ironwood "+Version)
	assert.Contains(t, out, "IR v1.0.0")

	out, err = execute(t, "", "demos")
	require.NoError(t, err)
	for _, name := range []string{"counter", "dashboard", "form"} {
		assert.Contains(t, out, name)
	}
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := telemetry.NewCollectors("ironwood")
	require.NoError(t, c.Register(reg))
	c.QueueDepthChanged(3)

	srv, ln, err := serveMetrics("127.0.0.1:0", reg)
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ironwood_scheduler_queue_depth 3")
}
