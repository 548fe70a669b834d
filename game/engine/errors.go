package engine

import "errors"

// Loader and render errors. All are detected eagerly at the boundary:
// parsing fails during construction, render parameters fail at call time.
// NextState and the goal predicates have no error conditions for states
// reachable from the initial state.
var (
	// ErrMalformedPuzzle indicates a definition whose rows disagree in
	// length or that contains an unrecognized token.
	ErrMalformedPuzzle = errors.New("malformed puzzle")

	// ErrMissingAgent indicates a definition with no agent ("a") token.
	ErrMissingAgent = errors.New("puzzle has no agent object")

	// ErrDanglingGoal indicates a goal token with no matching movable.
	ErrDanglingGoal = errors.New("goal has no associated movable object")

	// ErrInvalidRenderParams indicates a border width below 1 or a cell
	// size too small to hold a border on both sides.
	ErrInvalidRenderParams = errors.New("invalid render parameters")
)
