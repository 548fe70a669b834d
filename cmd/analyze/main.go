// Command analyze prints quick, human-readable metrics about puzzle
// files in a directory. For each puzzle it reports dimensions, object
// counts, the branching factor at the initial state, the size of the
// reachable state space, and the shortest solution found by search.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pushworld/pushworld/game/engine"
	"github.com/pushworld/pushworld/solver"
)

func main() {
	puzzleDir := flag.String("puzzles", "puzzles", "directory containing .pwp puzzle files")
	maxStates := flag.Int("max-states", 200000, "state cap for reachability and solving")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*puzzleDir, "*"+engine.PuzzleExtension))
	if err != nil || len(files) == 0 {
		fmt.Printf("No %s files found in %s\n", engine.PuzzleExtension, *puzzleDir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzePuzzle(os.Stdout, file, *maxStates)
	}
}

func analyzePuzzle(w io.Writer, path string, maxStates int) {
	puzzle, err := engine.LoadPuzzle(path)
	if err != nil {
		fmt.Fprintf(w, "Error loading puzzle: %v\n", err)
		return
	}

	width, height := puzzle.Dimensions()
	fmt.Fprintf(w, "Grid: %d x %d (including border walls)\n", width, height)
	fmt.Fprintf(w, "Movables: %d\n", puzzle.NumMovables()-1)
	fmt.Fprintf(w, "Goals: %d\n", len(puzzle.GoalState()))
	fmt.Fprintf(w, "Walls: %d\n", len(puzzle.WallPositions()))
	fmt.Fprintf(w, "Agent walls: %d\n", len(puzzle.AgentWallPositions()))

	// Branching factor: how many of the four actions change the initial
	// state.
	initial := puzzle.InitialState()
	branching := 0
	for _, action := range engine.Actions {
		if !puzzle.NextState(initial, action).Equal(initial) {
			branching++
		}
	}
	fmt.Fprintf(w, "Initial branching factor: %d/4\n", branching)

	reachable, complete := solver.CountReachableStates(puzzle, maxStates)
	if complete {
		fmt.Fprintf(w, "Reachable states: %d\n", reachable)
	} else {
		fmt.Fprintf(w, "Reachable states: >%d (capped)\n", reachable)
	}

	result, err := solver.Solve(puzzle, maxStates)
	switch {
	case err == nil:
		fmt.Fprintf(w, "Shortest solution: %s (%d actions, %d states explored)\n",
			engine.FormatPlan(result.Plan), len(result.Plan), result.StatesExplored)
	case errors.Is(err, solver.ErrNoSolution):
		fmt.Fprintf(w, "WARNING: puzzle is unsolvable (%d states explored)\n", result.StatesExplored)
	case errors.Is(err, solver.ErrLimitExceeded):
		fmt.Fprintf(w, "No solution within %d states\n", maxStates)
	default:
		fmt.Fprintf(w, "Solve error: %v\n", err)
	}
}
