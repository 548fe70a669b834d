// Package solver finds shortest plans for puzzles by breadth-first
// search over the engine's state space.
//
// States are deduplicated with a visited set keyed on the packed state
// encoding, so each distinct configuration of the agent and movables is
// expanded at most once. Because the search is breadth-first, the first
// goal state found yields a plan of minimal length.
package solver
