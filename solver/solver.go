package solver

import (
	"errors"

	"github.com/pushworld/pushworld/game/engine"
)

// DefaultMaxStates bounds the search when the caller does not.
const DefaultMaxStates = 1_000_000

var (
	ErrNoSolution    = errors.New("puzzle has no solution")
	ErrLimitExceeded = errors.New("state limit exceeded before a solution was found")
)

// Result describes the outcome of a search.
type Result struct {
	// Plan is a shortest action sequence solving the puzzle. Empty when
	// the initial state is already the goal.
	Plan []engine.Action
	// StatesExplored counts the distinct states expanded.
	StatesExplored int
}

// node links a reached state back to the move that produced it.
type node struct {
	state  engine.State
	parent int
	action engine.Action
}

// Solve runs a breadth-first search from the puzzle's initial state and
// returns a shortest plan. maxStates caps the number of distinct states
// visited; zero means DefaultMaxStates.
func Solve(puzzle *engine.Puzzle, maxStates int) (*Result, error) {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	initial := puzzle.InitialState()
	if puzzle.IsGoalState(initial) {
		return &Result{Plan: []engine.Action{}, StatesExplored: 1}, nil
	}

	nodes := []node{{state: initial, parent: -1}}
	visited := map[string]struct{}{initial.Key(): {}}

	for head := 0; head < len(nodes); head++ {
		current := nodes[head].state

		for _, action := range engine.Actions {
			next := puzzle.NextState(current, action)
			key := next.Key()
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}

			nodes = append(nodes, node{state: next, parent: head, action: action})
			if puzzle.IsGoalState(next) {
				return &Result{
					Plan:           reconstruct(nodes, len(nodes)-1),
					StatesExplored: len(visited),
				}, nil
			}
			if len(visited) >= maxStates {
				return &Result{StatesExplored: len(visited)}, ErrLimitExceeded
			}
		}
	}

	return &Result{StatesExplored: len(visited)}, ErrNoSolution
}

// CountReachableStates explores the state space without looking for a
// goal and reports how many distinct states exist, up to maxStates.
func CountReachableStates(puzzle *engine.Puzzle, maxStates int) (int, bool) {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	initial := puzzle.InitialState()
	queue := []engine.State{initial}
	visited := map[string]struct{}{initial.Key(): {}}

	for head := 0; head < len(queue); head++ {
		for _, action := range engine.Actions {
			next := puzzle.NextState(queue[head], action)
			key := next.Key()
			if _, seen := visited[key]; seen {
				continue
			}
			if len(visited) >= maxStates {
				return len(visited), false
			}
			visited[key] = struct{}{}
			queue = append(queue, next)
		}
	}

	return len(visited), true
}

// reconstruct walks parent links from a goal node back to the root.
func reconstruct(nodes []node, idx int) []engine.Action {
	var reversed []engine.Action
	for idx > 0 {
		reversed = append(reversed, nodes[idx].action)
		idx = nodes[idx].parent
	}

	plan := make([]engine.Action, len(reversed))
	for i, action := range reversed {
		plan[len(reversed)-1-i] = action
	}
	return plan
}
