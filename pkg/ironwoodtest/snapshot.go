package ironwoodtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/ironwood-ui/ironwood/pkg/ir"
)

// UpdateEnv names the environment variable that rewrites golden files.
const UpdateEnv = "IRONWOOD_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot is the serialized form of one IR frame. Activation messages are
// recorded by their printed value.
type Snapshot struct {
	IRVersion string            `json:"irVersion"`
	Version   uint64            `json:"version"`
	Tree      *ir.Node          `json:"tree"`
	Messages  map[ir.Key]string `json:"messages,omitempty"`
}

// Capture builds a snapshot of root.
func Capture(version uint64, root *ir.Node) *Snapshot {
	s := &Snapshot{IRVersion: ir.Version, Version: version, Tree: root}
	ir.Walk(root, func(n *ir.Node) bool {
		if n.Interaction != nil && n.Interaction.Message != nil {
			if s.Messages == nil {
				s.Messages = make(map[ir.Key]string)
			}
			s.Messages[n.Key] = fmt.Sprintf("%T(%v)", n.Interaction.Message, n.Interaction.Message)
		}
		return true
	})
	return s
}

// JSON returns the canonical encoding used in golden files.
func (s *Snapshot) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When UpdateEnv is set to 1
// the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	diff, err := s.Diff(expected)
	if err != nil {
		t.Fatalf("failed to encode snapshot: %v", err)
		return
	}
	if diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := s.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between expected golden content and this
// snapshot, or "" when they match.
func (s *Snapshot) Diff(expected []byte) (string, error) {
	actual, err := s.JSON()
	if err != nil {
		return "", err
	}
	if bytes.Equal(bytes.TrimSpace(expected), bytes.TrimSpace(actual)) {
		return "", nil
	}
	return cmp.Diff(lines(expected), lines(actual)), nil
}

func lines(b []byte) []string {
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}
