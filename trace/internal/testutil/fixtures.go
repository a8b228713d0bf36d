// Package testutil provides shared test infrastructure for the trace engine.
// It consolidates log-line builders, fixture loading and assertion helpers
// used across trace/ and its sub-package tests.
package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Peer is a test-side identity. An empty Group renders as a flat identity.
type Peer struct {
	Group string
	Local string
}

func (p Peer) path() string {
	if p.Group == "" {
		return p.Local
	}
	return p.Group + "-" + p.Local
}

// InitLine renders an initialization line.
func InitLine(t float64, p Peer, quota int) string {
	return fmt.Sprintf("%s s:\tPeer /peer%s: ChronoSync Instance Initialized with %d pending messages",
		formatTime(t), p.path(), quota)
}

// SendLine renders a send ("out") line.
func SendLine(t float64, p Peer, content string) string {
	return fmt.Sprintf("%s s:\tPeer /peer%s: Delayed Interest with id: %s", formatTime(t), p.path(), content)
}

// ReceiveLine renders a receive ("in") line. The gateway is the source.
func ReceiveLine(t float64, p, source Peer, content string, total int) string {
	return ReceiveViaLine(t, p, source, source, content, total)
}

// ReceiveViaLine renders a receive line with an explicit gateway peer.
func ReceiveViaLine(t float64, p, gateway, source Peer, content string, total int) string {
	return fmt.Sprintf("%s s:\tPeer /peer%s: Data received from peer%s : [From node /peer%s: %s]; total messages received: %d",
		formatTime(t), p.path(), gateway.path(), source.path(), content, total)
}

func formatTime(t float64) string {
	if t == math.Trunc(t) {
		return fmt.Sprintf("%.1f", t)
	}
	return fmt.Sprintf("%g", t)
}

// LoadFixture reads testdata/<name> and returns its lines.
// The path is resolved relative to this source file: trace/internal/testutil/ → testdata/.
func LoadFixture(t *testing.T, name string) []string {
	t.Helper()
	return strings.Split(string(ReadFixture(t, name)), "\n")
}

// ReadFixture returns the raw bytes of testdata/<name>.
func ReadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(FixturePath(t, name))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	return data
}

// FixturePath returns the absolute path of testdata/<name>.
func FixturePath(t *testing.T, name string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from trace/internal/testutil/ to repo root testdata/
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
