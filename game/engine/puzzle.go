package engine

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strings"
)

// PuzzleExtension is the conventional file suffix for puzzle definitions.
const PuzzleExtension = ".pwp"

// tokenKind classifies one label of a puzzle definition cell.
type tokenKind int

const (
	tokenEmpty tokenKind = iota
	tokenAgent
	tokenWall
	tokenAgentWall
	tokenMovable
	tokenGoal
)

// classifyToken maps a lowercase cell label onto its closed token category.
// Unrecognized labels are a malformed-puzzle error, reported by the caller.
func classifyToken(label string) (tokenKind, bool) {
	switch {
	case label == ".":
		return tokenEmpty, true
	case label == "a":
		return tokenAgent, true
	case label == "w":
		return tokenWall, true
	case label == "aw":
		return tokenAgentWall, true
	case len(label) > 1 && label[0] == 'm':
		return tokenMovable, true
	case len(label) > 1 && label[0] == 'g':
		return tokenGoal, true
	}
	return tokenEmpty, false
}

// Puzzle is a single PushWorld puzzle: the parsed objects, the derived
// initial and goal states, and the precomputed collision maps. All fields
// are immutable after construction except the internal traversal buffer
// used by NextState, which is why one instance serves one simulation
// goroutine at a time (see Clone).
type Puzzle struct {
	width  int
	height int

	initial    State
	goal       []Point
	roles      []Role
	walls      *Object
	agentWalls *Object
	movables   []*Object
	goals      []*Object

	agentBlocked [NumActions]PointSet
	wallBlocked  [NumActions][]PointSet
	pushOffsets  [NumActions][][]PointSet

	// pushed marks the movables swept up by the current push chain. It is
	// scratch state, cleared on every exit path of NextState.
	pushed []bool
}

// LoadPuzzle reads and parses a puzzle definition file.
func LoadPuzzle(path string) (*Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle file: %w", err)
	}
	puzzle, err := ParsePuzzle(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return puzzle, nil
}

// ParsePuzzle parses a textual puzzle definition into a ready-to-simulate
// Puzzle. The definition is a rectangular grid of whitespace-separated
// tokens, one line per row; a cell may stack several labels joined by "+".
// Recognized labels (case-insensitive): "." empty, "a" agent, "w" wall,
// "aw" agent-only wall, "m<id>" movable, "g<id>" goal for movable m<id>.
//
// Parsing is a pure function of the text. It fails with ErrMalformedPuzzle,
// ErrMissingAgent or ErrDanglingGoal; all validation happens here, never
// during simulation.
func ParsePuzzle(text string) (*Puzzle, error) {
	cellsByLabel := make(map[string]PointSet)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	tokensPerRow := -1
	rows := 0
	cols := 0
	for lineIdx, line := range lines {
		y := lineIdx + 1
		tokens := strings.Fields(line)
		if y == 1 {
			tokensPerRow = len(tokens)
		} else if len(tokens) != tokensPerRow {
			return nil, fmt.Errorf("%w: row %d does not have the same number of elements as the first row", ErrMalformedPuzzle, y)
		}

		for x := 1; x <= len(tokens); x++ {
			for _, label := range strings.Split(tokens[x-1], "+") {
				label = strings.ToLower(label)
				kind, ok := classifyToken(label)
				if !ok {
					return nil, fmt.Errorf("%w: unrecognized token %q at row %d, column %d", ErrMalformedPuzzle, label, y, x)
				}
				if kind == tokenEmpty {
					continue
				}
				if cellsByLabel[label] == nil {
					cellsByLabel[label] = make(PointSet)
				}
				cellsByLabel[label].Add(Point{x, y})
			}
		}
		rows = y
		cols = tokensPerRow
	}

	if cellsByLabel["a"] == nil {
		return nil, fmt.Errorf("%w: every puzzle must have an agent object, indicated by 'a'", ErrMissingAgent)
	}

	p := &Puzzle{
		width:  cols + 2,
		height: rows + 2,
	}

	// Surround the grid with a synthetic one-cell wall border.
	if cellsByLabel["w"] == nil {
		cellsByLabel["w"] = make(PointSet)
	}
	for x := 0; x < p.width; x++ {
		cellsByLabel["w"].Add(Point{x, 0})
		cellsByLabel["w"].Add(Point{x, p.height - 1})
	}
	for y := 0; y < p.height; y++ {
		cellsByLabel["w"].Add(Point{0, y})
		cellsByLabel["w"].Add(Point{p.width - 1, y})
	}

	if err := p.buildObjects(cellsByLabel); err != nil {
		return nil, err
	}
	p.buildCollisionMaps()

	p.pushed = make([]bool, len(p.movables))
	p.pushed[AgentIndex] = true

	return p, nil
}

// buildObjects assigns stable indices, anchors every shape, and derives the
// initial and goal states. Index order: the agent is 0; goal-tracked
// movables follow in ascending goal-label order; plain movables follow in
// ascending label order. The k-th goal constrains the movable at index k+1.
func (p *Puzzle) buildObjects(cellsByLabel map[string]PointSet) error {
	// Walls and agent-walls keep their cells in the global frame.
	p.walls = &Object{
		Position: Point{0, 0},
		Fill:     fill(ColorWall),
		Border:   ColorWallBorder,
		Cells:    cellsByLabel["w"],
	}
	if awCells := cellsByLabel["aw"]; awCells != nil {
		p.agentWalls = &Object{
			Position: Point{0, 0},
			Fill:     fill(ColorAgentWall),
			Border:   ColorAgentWallBorder,
			Cells:    awCells,
		}
	}

	var goalLabels, movableLabels []string
	for label := range cellsByLabel {
		switch label[0] {
		case 'g':
			goalLabels = append(goalLabels, label)
		case 'm':
			movableLabels = append(movableLabels, label)
		}
	}
	sort.Strings(goalLabels)
	sort.Strings(movableLabels)

	// Goal-tracked movables come first, in goal-label order.
	order := []string{"a"}
	tracked := make(map[string]bool)
	for _, goalLabel := range goalLabels {
		movableLabel := "m" + goalLabel[1:]
		if cellsByLabel[movableLabel] == nil {
			return fmt.Errorf("%w: %s", ErrDanglingGoal, movableLabel)
		}
		order = append(order, movableLabel)
		tracked[movableLabel] = true
	}
	for _, label := range movableLabels {
		if !tracked[label] {
			order = append(order, label)
		}
	}

	p.initial = make(State, 0, len(order))
	p.roles = make([]Role, 0, len(order))
	for i, label := range order {
		anchor := cellsByLabel[label].anchor()
		obj := &Object{
			Position: anchor,
			Cells:    cellsByLabel[label].translate(Point{-anchor.X, -anchor.Y}),
		}
		role := Role{Goal: -1, Label: label}
		switch {
		case i == AgentIndex:
			role.Kind = RoleAgent
			obj.Fill = fill(ColorAgent)
			obj.Border = ColorAgentBorder
		case i <= len(goalLabels):
			role.Kind = RoleGoalTracked
			role.Goal = i - 1
			obj.Fill = fill(ColorGoalObject)
			obj.Border = ColorGoalObjectBorder
		default:
			role.Kind = RolePlain
			obj.Fill = fill(ColorMovable)
			obj.Border = ColorMovableBorder
		}
		p.movables = append(p.movables, obj)
		p.roles = append(p.roles, role)
		p.initial = append(p.initial, anchor)
	}

	// Goal markers render border-only and constrain the matching movable's
	// anchor position.
	p.goal = make([]Point, 0, len(goalLabels))
	for _, label := range goalLabels {
		anchor := cellsByLabel[label].anchor()
		p.goals = append(p.goals, &Object{
			Position: anchor,
			Fill:     nil, // transparent
			Border:   ColorGoalBorder,
			Cells:    cellsByLabel[label].translate(Point{-anchor.X, -anchor.Y}),
		})
		p.goal = append(p.goal, anchor)
	}

	return nil
}

func fill(c color.RGBA) *color.RGBA {
	out := c
	return &out
}

// InitialState returns the state from which a plan must be found.
func (p *Puzzle) InitialState() State {
	return p.initial.Clone()
}

// GoalState returns the required positions of the goal-tracked movables.
// The k-th entry constrains the movable at state index k+1.
func (p *Puzzle) GoalState() []Point {
	out := make([]Point, len(p.goal))
	copy(out, p.goal)
	return out
}

// Dimensions returns the (width, height) of the grid including the
// synthetic border.
func (p *Puzzle) Dimensions() (width, height int) {
	return p.width, p.height
}

// NumMovables returns the number of movable objects, agent included.
func (p *Puzzle) NumMovables() int {
	return len(p.movables)
}

// Roles returns the role tag of every state index.
func (p *Puzzle) Roles() []Role {
	out := make([]Role, len(p.roles))
	copy(out, p.roles)
	return out
}

// WallPositions returns the global positions of all walls, border included.
func (p *Puzzle) WallPositions() PointSet {
	return p.walls.Cells
}

// AgentWallPositions returns the global positions of all agent-only walls,
// or nil if the puzzle has none.
func (p *Puzzle) AgentWallPositions() PointSet {
	if p.agentWalls == nil {
		return nil
	}
	return p.agentWalls.Cells
}

// MovableObjects returns the movable objects in state-index order.
func (p *Puzzle) MovableObjects() []*Object {
	return p.movables
}

// Clone returns a puzzle instance with its own traversal buffer. The clone
// shares the immutable collision maps and shapes with the receiver, so it
// is cheap; it exists so concurrent simulations can each own an instance.
func (p *Puzzle) Clone() *Puzzle {
	clone := *p
	clone.pushed = make([]bool, len(p.movables))
	clone.pushed[AgentIndex] = true
	return &clone
}
