package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pushworld/pushworld/game/engine"
	"github.com/pushworld/pushworld/game/service"
)

// FilePersistence implements SessionPersistence using one JSON file per
// session. Restoring replays the recorded plan through a fresh engine
// instance, which reproduces the exact state the session was saved in.
type FilePersistence struct {
	sessionsDir   string
	puzzleManager service.PuzzleManager
}

// NewFilePersistence creates a file-based session persistence layer.
func NewFilePersistence(sessionsDir string, puzzleManager service.PuzzleManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir:   sessionsDir,
		puzzleManager: puzzleManager,
	}, nil
}

// Save persists a session as a replayable JSON record.
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data := PersistedSessionData{
		ID:             session.ID,
		PuzzleName:     session.PuzzleName,
		Plan:           session.Plan(),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := os.WriteFile(fp.filePath(session.ID), jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load restores a session from its JSON record by replaying the plan.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	jsonData, err := os.ReadFile(fp.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return fp.restore(&data)
}

// LoadAll restores every persisted session in the directory. Unreadable
// records produce an error only if no session restores at all.
func (fp *FilePersistence) LoadAll() ([]*service.Session, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []*service.Session
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		session, err := fp.Load(id)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("session %s: %w", id, err)
			}
			continue
		}
		sessions = append(sessions, session)
	}

	if len(sessions) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return sessions, nil
}

// Delete removes a persisted session file.
func (fp *FilePersistence) Delete(id string) error {
	err := os.Remove(fp.filePath(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Exists reports whether a session file is present on disk.
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.filePath(id))
	return err == nil
}

// restore rebuilds a live session from its persisted record.
func (fp *FilePersistence) restore(data *PersistedSessionData) (*service.Session, error) {
	puzzle, err := fp.puzzleManager.LoadPuzzle(data.PuzzleName)
	if err != nil {
		return nil, fmt.Errorf("failed to load puzzle %s: %w", data.PuzzleName, err)
	}

	actions, err := engine.ParsePlan(data.Plan)
	if err != nil {
		return nil, fmt.Errorf("corrupt plan in session record: %w", err)
	}

	session := service.NewSession(data.ID, data.PuzzleName, puzzle)
	for _, action := range actions {
		session.Step(action)
	}
	session.CreatedAt = data.CreatedAt
	session.LastAccessedAt = data.LastAccessedAt
	return session, nil
}

// filePath resolves a session ID to its JSON file path.
func (fp *FilePersistence) filePath(id string) string {
	return filepath.Join(fp.sessionsDir, strings.ToLower(id)+".json")
}
