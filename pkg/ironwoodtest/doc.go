// Package ironwoodtest drives programs deterministically in tests.
//
//	func TestCounter(t *testing.T) {
//	    h := ironwoodtest.New(t, counter.Program())
//	    h.Tap("+")
//	    h.Settle()
//	    if got := h.Model().Count; got != 1 {
//	        t.Fatalf("Count = %d, want 1", got)
//	    }
//	}
//
// The harness renders through the mock backend after every installed
// model. Snapshots of the last IR frame can be compared against golden
// files:
//
//	h.Snapshot().MatchesFile(t, "testdata/counter.json")
//
// Update golden files with:
//
//	IRONWOOD_UPDATE_SNAPSHOTS=1 go test ./...
package ironwoodtest
