package service

import (
	"context"
	"image"

	"github.com/pushworld/pushworld/game/engine"
)

// GameService defines all game-related operations exposed to transports.
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, puzzleName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	ApplyPlan(ctx context.Context, sessionID, plan string) (*PlanResult, error)
	Reset(ctx context.Context, sessionID string) (*GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	Render(ctx context.Context, sessionID string, borderWidth, pixelsPerCell int) (image.Image, error)

	// Puzzles
	ListPuzzles(ctx context.Context) ([]*PuzzleInfo, error)
	PuzzleText(ctx context.Context, puzzleName string) (string, error)
	ValidatePlan(ctx context.Context, puzzleName, plan string) (*PlanValidation, error)
}

// SessionManager defines session storage operations.
type SessionManager interface {
	Create(id, puzzleName string, puzzle *engine.Puzzle) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// PuzzleManager handles puzzle library access.
type PuzzleManager interface {
	LoadPuzzle(name string) (*engine.Puzzle, error)
	PuzzleText(name string) (string, error)
	ListPuzzles() ([]*PuzzleInfo, error)
	GetDefault() (*engine.Puzzle, string)
	SavePuzzle(name, text string) error
}
