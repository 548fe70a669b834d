package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pushworld/pushworld/game/engine"
	"github.com/pushworld/pushworld/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager handles game session lifecycle.
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	mu          sync.RWMutex
}

// NewManager creates a new session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// NewManagerWithPersistence creates a session manager that saves sessions
// through the given persistence layer and restores them on startup.
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	m := &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
	m.restoreAll()
	return m
}

// Create creates a new session playing the given puzzle. An empty id asks
// the manager to generate one.
func (m *Manager) Create(id, puzzleName string, puzzle *engine.Puzzle) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}
	if strings.ContainsAny(id, "/\\ ") {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	session := service.NewSession(id, puzzleName, puzzle)
	m.sessions[key] = session

	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			// A failed save must not fail the creation.
			log.Printf("Warning: failed to persist session %s: %v", id, err)
		}
	}

	return session, nil
}

// Get retrieves a session by ID (case-insensitive).
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// List returns all sessions ordered by creation time.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions
}

// Delete removes a session and its persisted file, if any.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)

	if m.persistence != nil {
		if err := m.persistence.Delete(id); err != nil {
			log.Printf("Warning: failed to delete persisted session %s: %v", id, err)
		}
	}
	return nil
}

// UpdateLastAccessed stamps the session's last-access time.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// Save persists a session if persistence is configured.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	session, err := m.Get(id)
	if err != nil {
		return err
	}
	return m.persistence.Save(session)
}

// CleanupExpiredSessions removes sessions not accessed within maxAge and
// returns how many were removed.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			if m.persistence != nil {
				if err := m.persistence.Delete(session.ID); err != nil {
					log.Printf("Warning: failed to delete persisted session %s: %v", session.ID, err)
				}
			}
			removed++
		}
	}
	return removed
}

// DeleteFromMemory drops a session without touching its persisted record.
// Used when the record was already removed out of band.
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// restoreAll loads every persisted session at startup. Sessions that fail
// to restore are logged and skipped.
func (m *Manager) restoreAll() {
	if m.persistence == nil {
		return
	}

	sessions, err := m.persistence.LoadAll()
	if err != nil {
		log.Printf("Warning: failed to restore sessions: %v", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range sessions {
		m.sessions[strings.ToLower(session.ID)] = session
	}
	if len(sessions) > 0 {
		log.Printf("Restored %d persisted session(s)", len(sessions))
	}
}

// generateSessionID returns a short random hex identifier.
func (m *Manager) generateSessionID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to a time-derived ID; collisions are caught by Create.
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xffffffff)
	}
	return hex.EncodeToString(buf)
}
