package session

import (
	"time"

	"github.com/pushworld/pushworld/game/service"
)

// SessionPersistence defines the storage contract for sessions.
type SessionPersistence interface {
	// Save writes the session's replayable record.
	Save(session *service.Session) error
	// Load restores a single session by ID.
	Load(id string) (*service.Session, error)
	// LoadAll restores every persisted session.
	LoadAll() ([]*service.Session, error)
	// Delete removes a persisted session.
	Delete(id string) error
	// Exists reports whether a persisted record for the ID is present.
	Exists(id string) bool
}

// PersistedSessionData is the on-disk representation of a session. The
// simulation state is intentionally absent: it is reproduced by replaying
// Plan from the puzzle's initial state.
type PersistedSessionData struct {
	ID             string    `json:"id"`
	PuzzleName     string    `json:"puzzle_name"`
	Plan           string    `json:"plan"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}
