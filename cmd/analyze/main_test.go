package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const analyzeTestPuzzle = `.  .  .  .  .
.  a  m1 g1 .
.  .  .  .  .
`

func TestAnalyzePuzzle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level1.pwp")
	if err := os.WriteFile(path, []byte(analyzeTestPuzzle), 0644); err != nil {
		t.Fatalf("Failed to write puzzle: %v", err)
	}

	var buf bytes.Buffer
	analyzePuzzle(&buf, path, 0)
	out := buf.String()

	for _, want := range []string{
		"Grid: 7 x 5",
		"Movables: 1",
		"Goals: 1",
		"Walls: 20",
		"Agent walls: 0",
		"Initial branching factor: 4/4",
		"Reachable states:",
		"Shortest solution: R (1 actions",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestAnalyzePuzzleUnsolvable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stuck.pwp")
	// The block starts in a corner and can never be pushed to the goal.
	if err := os.WriteFile(path, []byte("m1 .  .\n.  .  .\ng1 .  a\n"), 0644); err != nil {
		t.Fatalf("Failed to write puzzle: %v", err)
	}

	var buf bytes.Buffer
	analyzePuzzle(&buf, path, 0)
	if !strings.Contains(buf.String(), "unsolvable") {
		t.Errorf("Expected unsolvable warning, got:\n%s", buf.String())
	}
}

func TestAnalyzePuzzleLoadError(t *testing.T) {
	var buf bytes.Buffer
	analyzePuzzle(&buf, filepath.Join(t.TempDir(), "missing.pwp"), 0)
	if !strings.Contains(buf.String(), "Error loading puzzle") {
		t.Errorf("Expected load error, got:\n%s", buf.String())
	}
}
