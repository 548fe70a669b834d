package engine

import (
	"fmt"
	"image/color"
	"strings"
)

// Action represents one of the four orthogonal movement directions.
type Action int

const (
	Left Action = iota
	Right
	Up
	Down

	// NumActions is the number of distinct actions.
	NumActions = 4

	// AgentIndex is the index of the agent in every State.
	AgentIndex = 0
)

// displacements maps each action to its unit displacement vector.
var displacements = [NumActions]Point{
	{-1, 0}, // Left
	{1, 0},  // Right
	{0, -1}, // Up
	{0, 1},  // Down
}

// Actions lists every action once, in a fixed order.
var Actions = [NumActions]Action{Left, Right, Up, Down}

// Displacement returns the unit displacement vector of the action.
func (a Action) Displacement() Point {
	return displacements[a]
}

// String returns the lowercase direction name, e.g. "left".
func (a Action) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Char returns the single-letter plan encoding of the action: L, R, U or D.
func (a Action) Char() byte {
	return "LRUD"[a]
}

// ParseDirection converts a direction name ("up", "down", "left", "right")
// into an Action.
func ParseDirection(name string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("invalid direction %q: must be up, down, left or right", name)
}

// ParsePlan converts a plan string over the alphabet {L, R, U, D} into a
// sequence of actions. Lowercase letters are accepted; whitespace is ignored.
func ParsePlan(plan string) ([]Action, error) {
	actions := make([]Action, 0, len(plan))
	for i := 0; i < len(plan); i++ {
		switch plan[i] {
		case 'L', 'l':
			actions = append(actions, Left)
		case 'R', 'r':
			actions = append(actions, Right)
		case 'U', 'u':
			actions = append(actions, Up)
		case 'D', 'd':
			actions = append(actions, Down)
		case ' ', '\t', '\n', '\r':
			// ignore
		default:
			return nil, fmt.Errorf("invalid plan character %q at position %d: must be one of L, R, U, D", plan[i], i)
		}
	}
	return actions, nil
}

// FormatPlan converts a sequence of actions into its plan-string encoding.
func FormatPlan(actions []Action) string {
	var b strings.Builder
	b.Grow(len(actions))
	for _, a := range actions {
		b.WriteByte(a.Char())
	}
	return b.String()
}

// Point represents a discrete (column, row) grid position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the point translated by d.
func (p Point) Add(d Point) Point {
	return Point{p.X + d.X, p.Y + d.Y}
}

// Sub returns the point translated by -d.
func (p Point) Sub(d Point) Point {
	return Point{p.X - d.X, p.Y - d.Y}
}

// State is the ordered tuple of absolute object positions at one instant.
// Index 0 is always the agent. States are plain values: transitions return
// a new State and never mutate their input.
type State []Point

// Equal reports whether two states hold identical positions.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i, p := range s {
		if p != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	copy(out, s)
	return out
}

// Key returns a compact string encoding of the state, usable as a map key.
func (s State) Key() string {
	var b strings.Builder
	b.Grow(len(s) * 8)
	for _, p := range s {
		fmt.Fprintf(&b, "%d,%d;", p.X, p.Y)
	}
	return b.String()
}

// RoleKind classifies an object index within a State.
type RoleKind int

const (
	// RoleAgent is the player-controlled object, always index 0.
	RoleAgent RoleKind = iota
	// RoleGoalTracked is a movable whose position is constrained by a goal.
	RoleGoalTracked
	// RolePlain is a movable obstacle with no associated goal.
	RolePlain
)

// String returns a human-readable name for the role kind.
func (k RoleKind) String() string {
	switch k {
	case RoleAgent:
		return "agent"
	case RoleGoalTracked:
		return "goal-tracked"
	case RolePlain:
		return "plain"
	}
	return fmt.Sprintf("role(%d)", int(k))
}

// Role tags an object index with its function in the puzzle, making the
// index-ordering conventions explicit instead of positional.
type Role struct {
	Kind RoleKind `json:"kind"`
	// Goal is the index into the goal state constrained by this object, or
	// -1 when Kind is not RoleGoalTracked.
	Goal int `json:"goal"`
	// Label is the identifier the object carried in the puzzle definition,
	// e.g. "a" or "m1".
	Label string `json:"label"`
}

// Object is a shape placed on the board: a set of cells in the object's own
// local frame plus an anchor position and render colors. The anchor is the
// minimum x and minimum y of the occupied cells, except for walls and
// agent-walls, which are anchored at the origin with cells in the global
// frame.
type Object struct {
	// Position is the anchor in the global frame.
	Position Point
	// Fill is the interior color, or nil for transparent (goal markers).
	Fill *color.RGBA
	// Border is the silhouette color.
	Border color.RGBA
	// Cells are the occupied positions relative to the anchor.
	Cells PointSet
}

// Rendering colors, one fill/border pair per object kind.
var (
	ColorAgent            = color.RGBA{0x00, 0xDC, 0x00, 0xFF}
	ColorAgentBorder      = color.RGBA{0x00, 0x6E, 0x00, 0xFF}
	ColorAgentWall        = color.RGBA{0xFA, 0xC7, 0x1E, 0xFF}
	ColorAgentWallBorder  = color.RGBA{0x7D, 0x64, 0x0F, 0xFF}
	ColorGoalBorder       = color.RGBA{0xB9, 0x00, 0x00, 0xFF}
	ColorGoalObject       = color.RGBA{0xDC, 0x00, 0x00, 0xFF}
	ColorGoalObjectBorder = color.RGBA{0x6E, 0x00, 0x00, 0xFF}
	ColorMovable          = color.RGBA{0x46, 0x9B, 0xFF, 0xFF}
	ColorMovableBorder    = color.RGBA{0x23, 0x48, 0x7F, 0xFF}
	ColorWall             = color.RGBA{0x0A, 0x0A, 0x0A, 0xFF}
	ColorWallBorder       = color.RGBA{0x05, 0x05, 0x05, 0xFF}
	ColorBackground       = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)
