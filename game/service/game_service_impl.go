package service

import (
	"context"
	"fmt"
	"image"

	"github.com/pushworld/pushworld/game/engine"
)

// gameServiceImpl implements the GameService interface.
type gameServiceImpl struct {
	sessions SessionManager
	puzzles  PuzzleManager
}

// NewGameService creates a new game service instance.
func NewGameService(sessions SessionManager, puzzles PuzzleManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		puzzles:  puzzles,
	}
}

// CreateSession creates a new session playing the named puzzle, or the
// default puzzle when the name is empty.
func (s *gameServiceImpl) CreateSession(ctx context.Context, puzzleName string) (*SessionInfo, error) {
	var puzzle *engine.Puzzle
	if puzzleName != "" {
		var err error
		puzzle, err = s.puzzles.LoadPuzzle(puzzleName)
		if err != nil {
			if infos, listErr := s.puzzles.ListPuzzles(); listErr == nil && len(infos) > 0 {
				ids := make([]string, 0, len(infos))
				for _, info := range infos {
					ids = append(ids, info.PuzzleID)
				}
				return nil, fmt.Errorf("puzzle %q not found. Available puzzles: %v", puzzleName, ids)
			}
			return nil, fmt.Errorf("failed to load puzzle %s: %w", puzzleName, err)
		}
	} else {
		puzzle, puzzleName = s.puzzles.GetDefault()
	}

	session, err := s.sessions.Create("", puzzleName, puzzle)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(session), nil
}

// GetSession retrieves session information.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(session), nil
}

// ListSessions returns all active sessions.
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, sessionInfo(session))
	}
	return result, nil
}

// DeleteSession removes a session.
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// Move applies a single action to a session.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	action, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	entry := session.Step(action)
	s.sessions.UpdateLastAccessed(sessionID)
	s.sessions.Save(sessionID)

	return &MoveResult{
		Moved:     entry.Moved,
		Action:    entry.Action,
		Solved:    entry.Solved,
		GameState: session.Snapshot(),
	}, nil
}

// ApplyPlan applies a plan string to a session, stopping early if the goal
// is reached. Plans longer than MaxPlanLength are truncated.
func (s *gameServiceImpl) ApplyPlan(ctx context.Context, sessionID, plan string) (*PlanResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	actions, err := engine.ParsePlan(plan)
	if err != nil {
		return nil, err
	}

	result := &PlanResult{
		Requested: len(actions),
		Plan:      engine.FormatPlan(actions),
	}
	if len(actions) > MaxPlanLength {
		actions = actions[:MaxPlanLength]
		result.Truncated = true
	}

	for _, action := range actions {
		entry := session.Step(action)
		result.Executed++
		result.Steps = append(result.Steps, entry)
		if entry.Solved {
			result.StoppedEarly = result.Executed < result.Requested
			break
		}
	}

	s.sessions.UpdateLastAccessed(sessionID)
	s.sessions.Save(sessionID)

	state := session.Snapshot()
	result.Solved = state.Solved
	result.GameState = state
	return result, nil
}

// Reset returns a session to its initial state.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*GameState, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	session.Reset()
	s.sessions.UpdateLastAccessed(sessionID)
	s.sessions.Save(sessionID)
	return session.Snapshot(), nil
}

// GetGameState returns the current simulation state of a session.
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameState, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return session.Snapshot(), nil
}

// GetMoveHistory returns the paginated move history of a session.
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	moves := session.History()
	total := len(moves)

	if opts.Order == "desc" {
		reversed := make([]MoveHistoryEntry, total)
		for i, entry := range moves {
			reversed[total-1-i] = entry
		}
		moves = reversed
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 50
	}

	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &HistoryResponse{
		Moves:       moves[start:end],
		TotalMoves:  total,
		Page:        page,
		PageSize:    limit,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}, nil
}

// Render draws the session's current state as an image.
func (s *gameServiceImpl) Render(ctx context.Context, sessionID string, borderWidth, pixelsPerCell int) (image.Image, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if borderWidth == 0 {
		borderWidth = engine.DefaultBorderWidth
	}
	if pixelsPerCell == 0 {
		pixelsPerCell = engine.DefaultPixelsPerCell
	}
	return session.Puzzle.Render(session.State(), borderWidth, pixelsPerCell)
}

// ListPuzzles returns information about every puzzle in the library.
func (s *gameServiceImpl) ListPuzzles(ctx context.Context) ([]*PuzzleInfo, error) {
	return s.puzzles.ListPuzzles()
}

// PuzzleText returns the raw definition text of a puzzle.
func (s *gameServiceImpl) PuzzleText(ctx context.Context, puzzleName string) (string, error) {
	return s.puzzles.PuzzleText(puzzleName)
}

// ValidatePlan checks a plan against a puzzle's initial state without
// touching any session.
func (s *gameServiceImpl) ValidatePlan(ctx context.Context, puzzleName, plan string) (*PlanValidation, error) {
	var puzzle *engine.Puzzle
	var err error
	if puzzleName != "" {
		puzzle, err = s.puzzles.LoadPuzzle(puzzleName)
		if err != nil {
			return nil, fmt.Errorf("failed to load puzzle %s: %w", puzzleName, err)
		}
	} else {
		puzzle, puzzleName = s.puzzles.GetDefault()
	}

	actions, err := engine.ParsePlan(plan)
	if err != nil {
		return &PlanValidation{
			PuzzleName: puzzleName,
			Plan:       plan,
			Valid:      false,
			Reason:     err.Error(),
		}, nil
	}

	validation := &PlanValidation{
		PuzzleName: puzzleName,
		Plan:       engine.FormatPlan(actions),
		Valid:      puzzle.IsValidPlan(actions),
	}
	if !validation.Valid {
		validation.Reason = describePlanFailure(puzzle, actions)
	}
	return validation, nil
}

// describePlanFailure explains why a plan is invalid: either the goal was
// reached before the plan ended, or the final state misses the goal.
func describePlanFailure(puzzle *engine.Puzzle, actions []engine.Action) string {
	state := puzzle.InitialState()
	for i, action := range actions {
		if puzzle.IsGoalState(state) {
			return fmt.Sprintf("goal already achieved before action %d of %d", i+1, len(actions))
		}
		state = puzzle.NextState(state, action)
	}
	achieved := puzzle.CountAchievedGoals(state)
	total := len(puzzle.GoalState())
	return fmt.Sprintf("final state achieves %d of %d goals", achieved, total)
}

// sessionInfo converts a session to its wire representation.
func sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		PuzzleName:     session.PuzzleName,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Snapshot(),
	}
}
