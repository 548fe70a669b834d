// Package engine provides the core simulation logic for PushWorld puzzles.
//
// The engine package implements the puzzle mechanics including:
//   - Parsing textual puzzle definitions into typed objects and shapes
//   - Precomputed offset-collision maps for constant-time contact queries
//   - Single-step state transitions with transitive push chains
//   - Goal counting, goal detection, and plan validation
//   - Rendering puzzle states to RGB images
//
// Core Types:
//
// Puzzle is the simulation instance built once from a definition text.
// State is the ordered tuple of object positions, index 0 always the agent.
// Action is one of the four orthogonal movement directions.
//
// Usage:
//
//	puzzle, err := engine.LoadPuzzle("puzzles/level1.pwp")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state := puzzle.InitialState()
//	state = puzzle.NextState(state, engine.Right)
//	if puzzle.IsGoalState(state) {
//		fmt.Println("solved")
//	}
//
// Puzzle Rules:
//
// The agent moves one cell per step and pushes any movable objects it
// contacts, transitively: a pushed object pushes whatever it contacts in
// turn. If any object in the push chain is blocked by a wall, nothing in
// the chain moves, not even the agent. Walls block everything; agent-walls
// block only the agent. The puzzle is solved when every goal-tracked object
// rests on its goal position.
//
// A Puzzle instance is not safe for concurrent NextState calls because it
// reuses a small internal traversal buffer. Serialize access, or give each
// goroutine its own instance via Clone, which shares the immutable
// collision maps but owns a fresh buffer.
package engine
