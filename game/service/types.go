package service

import (
	"sync"
	"time"

	"github.com/pushworld/pushworld/game/engine"
)

// MaxPlanLength bounds the number of actions accepted by a single
// ApplyPlan call.
const MaxPlanLength = 1000

// Session represents one active simulation: a cloned puzzle instance, the
// current state, and the actions applied so far. All mutation goes through
// the Session methods, which serialize access per session as the engine
// requires.
type Session struct {
	ID             string
	PuzzleName     string
	Puzzle         *engine.Puzzle
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu      sync.Mutex
	state   engine.State
	history []MoveHistoryEntry
}

// NewSession creates a session playing its own clone of the given puzzle.
func NewSession(id, puzzleName string, puzzle *engine.Puzzle) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		PuzzleName:     puzzleName,
		Puzzle:         puzzle.Clone(),
		CreatedAt:      now,
		LastAccessedAt: now,
		state:          puzzle.InitialState(),
	}
}

// Step applies one action and records it. The returned entry reports
// whether anything moved.
func (s *Session) Step(action engine.Action) MoveHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state
	after := s.Puzzle.NextState(before, action)

	entry := MoveHistoryEntry{
		MoveNumber:    len(s.history) + 1,
		Action:        action.String(),
		AgentFrom:     before[engine.AgentIndex],
		AgentTo:       after[engine.AgentIndex],
		Moved:         !after.Equal(before),
		AchievedGoals: s.Puzzle.CountAchievedGoals(after),
		Solved:        s.Puzzle.IsGoalState(after),
		Timestamp:     time.Now().Unix(),
	}
	s.state = after
	s.history = append(s.history, entry)
	return entry
}

// Reset returns the session to the puzzle's initial state and clears the
// recorded history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.Puzzle.InitialState()
	s.history = nil
}

// State returns a copy of the current state.
func (s *Session) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// History returns a copy of the recorded moves.
func (s *Session) History() []MoveHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MoveHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Plan returns the L/R/U/D encoding of every action applied since the last
// reset.
func (s *Session) Plan() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]engine.Action, 0, len(s.history))
	for _, entry := range s.history {
		action, err := engine.ParseDirection(entry.Action)
		if err != nil {
			continue
		}
		actions = append(actions, action)
	}
	return engine.FormatPlan(actions)
}

// Snapshot builds the externally visible state of the session.
func (s *Session) Snapshot() *GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height := s.Puzzle.Dimensions()
	return &GameState{
		PuzzleName:    s.PuzzleName,
		Width:         width,
		Height:        height,
		Positions:     s.state.Clone(),
		Goal:          s.Puzzle.GoalState(),
		Roles:         s.Puzzle.Roles(),
		Steps:         len(s.history),
		AchievedGoals: s.Puzzle.CountAchievedGoals(s.state),
		TotalGoals:    len(s.Puzzle.GoalState()),
		Solved:        s.Puzzle.IsGoalState(s.state),
	}
}

// GameState is the wire representation of a session's simulation state.
type GameState struct {
	PuzzleName    string         `json:"puzzle_name"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	Positions     engine.State   `json:"positions"`
	Goal          []engine.Point `json:"goal"`
	Roles         []engine.Role  `json:"roles"`
	Steps         int            `json:"steps"`
	AchievedGoals int            `json:"achieved_goals"`
	TotalGoals    int            `json:"total_goals"`
	Solved        bool           `json:"solved"`
}

// SessionInfo provides information about a session.
type SessionInfo struct {
	ID             string     `json:"id"`
	PuzzleName     string     `json:"puzzle_name"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	GameState      *GameState `json:"game_state"`
}

// MoveHistoryEntry records a single applied action.
type MoveHistoryEntry struct {
	MoveNumber    int          `json:"move_number"`
	Action        string       `json:"action"`
	AgentFrom     engine.Point `json:"agent_from"`
	AgentTo       engine.Point `json:"agent_to"`
	Moved         bool         `json:"moved"`
	AchievedGoals int          `json:"achieved_goals"`
	Solved        bool         `json:"solved"`
	Timestamp     int64        `json:"timestamp"`
}

// MoveResult contains the result of a single move.
type MoveResult struct {
	Moved     bool       `json:"moved"`
	Action    string     `json:"action"`
	Solved    bool       `json:"solved"`
	GameState *GameState `json:"game_state"`
}

// PlanResult contains the result of applying a plan to a session.
type PlanResult struct {
	Requested int    `json:"requested"`
	Executed  int    `json:"executed"`
	Plan      string `json:"plan"`
	// Truncated is set when the plan exceeded MaxPlanLength.
	Truncated bool `json:"truncated,omitempty"`
	// StoppedEarly is set when execution halted because the goal was
	// reached before the last requested action.
	StoppedEarly bool               `json:"stopped_early,omitempty"`
	Solved       bool               `json:"solved"`
	GameState    *GameState         `json:"game_state"`
	Steps        []MoveHistoryEntry `json:"steps,omitempty"`
}

// PlanValidation reports whether a plan solves a puzzle from its initial
// state under the strict rule that the goal holds only at the very end.
type PlanValidation struct {
	PuzzleName string `json:"puzzle_name"`
	Plan       string `json:"plan"`
	Valid      bool   `json:"valid"`
	// Reason explains a negative result.
	Reason string `json:"reason,omitempty"`
}

// HistoryOptions configures move history retrieval.
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history.
type HistoryResponse struct {
	Moves       []MoveHistoryEntry `json:"moves"`
	TotalMoves  int                `json:"total_moves"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	HasNext     bool               `json:"has_next"`
	HasPrevious bool               `json:"has_previous"`
}

// PuzzleInfo provides information about one puzzle in the library.
type PuzzleInfo struct {
	Filename string `json:"filename"`
	PuzzleID string `json:"puzzle_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Movables int    `json:"movables"`
	Goals    int    `json:"goals"`
}
