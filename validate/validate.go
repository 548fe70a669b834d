// Command validate checks every puzzle definition in a directory and,
// optionally, the solution plans that go with them. It verifies:
//   - Puzzle text parses (consistent rows, known tokens, exactly one agent)
//   - Every goal label has a matching movable
//   - Solution plans (<name>.plan in the solutions directory) solve their
//     puzzle, reaching the goal exactly at the last action
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pushworld/pushworld/game/engine"
)

// ValidationResult captures the outcome of validating a single puzzle.
// If Valid is true, Notes contains informational messages; otherwise
// Errors accumulates what was found wrong.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

// validatePuzzle loads and validates one puzzle file, checking its
// solution plan when one exists next to it in solutionsDir.
func validatePuzzle(puzzlePath, solutionsDir string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(puzzlePath),
		Valid: true,
	}

	data, err := os.ReadFile(puzzlePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	puzzle, err := engine.ParsePuzzle(string(data))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse: %v", err))
		return result
	}

	width, height := puzzle.Dimensions()
	result.Notes = append(result.Notes, fmt.Sprintf("Grid: %dx%d (including border walls)", width, height))
	result.Notes = append(result.Notes, fmt.Sprintf("Movables: %d", puzzle.NumMovables()-1))
	result.Notes = append(result.Notes, fmt.Sprintf("Goals: %d", len(puzzle.GoalState())))
	result.Notes = append(result.Notes, fmt.Sprintf("Walls: %d", len(puzzle.WallPositions())))
	result.Notes = append(result.Notes, fmt.Sprintf("Agent walls: %d", len(puzzle.AgentWallPositions())))

	if solutionsDir == "" {
		return result
	}

	name := strings.TrimSuffix(filepath.Base(puzzlePath), engine.PuzzleExtension)
	solutionPath := filepath.Join(solutionsDir, name+".plan")
	planText, err := os.ReadFile(solutionPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Notes = append(result.Notes, "No solution plan found")
			return result
		}
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read solution: %v", err))
		return result
	}

	actions, err := engine.ParsePlan(string(planText))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Malformed solution plan: %v", err))
		return result
	}

	if !puzzle.IsValidPlan(actions) {
		result.Valid = false
		result.Errors = append(result.Errors, describeFailure(puzzle, actions))
		return result
	}

	result.Notes = append(result.Notes, fmt.Sprintf("Solution: %s (%d actions)", engine.FormatPlan(actions), len(actions)))
	return result
}

// describeFailure explains why a plan does not solve its puzzle.
func describeFailure(puzzle *engine.Puzzle, actions []engine.Action) string {
	state := puzzle.InitialState()
	for i, action := range actions {
		if puzzle.IsGoalState(state) {
			return fmt.Sprintf("Solution reaches the goal at action %d of %d, then keeps going", i, len(actions))
		}
		state = puzzle.NextState(state, action)
	}
	achieved := puzzle.CountAchievedGoals(state)
	total := len(puzzle.GoalState())
	return fmt.Sprintf("Solution ends with %d of %d goals achieved", achieved, total)
}

// main scans the puzzle directory for *.pwp files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	puzzleDir := flag.String("puzzles", "puzzles", "directory containing .pwp puzzle files")
	solutionsDir := flag.String("solutions", "", "directory containing .plan solution files (optional)")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*puzzleDir, "*"+engine.PuzzleExtension))
	if err != nil {
		fmt.Printf("Error finding puzzle files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No %s files found in %s\n", engine.PuzzleExtension, *puzzleDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validatePuzzle(file, *solutionsDir)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("VALID")
			for _, note := range result.Notes {
				fmt.Println("  " + note)
			}
		} else {
			fmt.Println("INVALID")
			allValid = false
			for _, msg := range result.Errors {
				fmt.Println("  ! " + msg)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("All puzzles are valid")
	} else {
		fmt.Println("Some puzzles have errors")
		os.Exit(1)
	}
}
