package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pushworld/pushworld/game/engine"
)

const managerTestPuzzle = `.  .  .  .  .
.  a  m1 g1 .
.  .  .  .  .
`

func testPuzzle(t *testing.T) *engine.Puzzle {
	t.Helper()
	puzzle, err := engine.ParsePuzzle(managerTestPuzzle)
	if err != nil {
		t.Fatalf("Failed to parse test puzzle: %v", err)
	}
	return puzzle
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "level1", puzzle)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Puzzle == nil {
			t.Error("Expected puzzle to be initialized")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "level1", puzzle)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID == "" {
			t.Error("Expected auto-generated session ID")
		}
		if len(session.ID) != 8 {
			t.Errorf("Expected 8-character session ID, got %d characters", len(session.ID))
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", "level1", puzzle)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "level1", puzzle)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid session ID", func(t *testing.T) {
		_, err := manager.Create("bad id", "level1", puzzle)
		if err != ErrInvalidSessionID {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	created, _ := manager.Create("get-test", "level1", puzzle)

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected session ID '%s', got '%s'", created.ID, session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session.ID != created.ID {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	manager.Create("delete-test", "level1", puzzle)

	t.Run("delete existing session", func(t *testing.T) {
		err := manager.Delete("delete-test")
		if err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}

		_, err = manager.Get("delete-test")
		if err != ErrSessionNotFound {
			t.Error("Expected session to be deleted")
		}
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		err := manager.Delete("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		manager.Create("case-test", "level1", puzzle)
		err := manager.Delete("CASE-TEST")
		if err != nil {
			t.Fatalf("Failed to delete with different case: %v", err)
		}
		_, err = manager.Get("case-test")
		if err != ErrSessionNotFound {
			t.Error("Expected session to be deleted regardless of case")
		}
	})
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	session1, _ := manager.Create("list-1", "level1", puzzle)
	session2, _ := manager.Create("list-2", "level1", puzzle)
	session3, _ := manager.Create("list-3", "level1", puzzle)

	sessions := manager.List()

	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}

	found := make(map[string]bool)
	for _, s := range sessions {
		found[s.ID] = true
	}
	if !found[session1.ID] || !found[session2.ID] || !found[session3.ID] {
		t.Error("Created sessions not found in list")
	}

	for i := 1; i < len(sessions); i++ {
		if sessions[i].CreatedAt.Before(sessions[i-1].CreatedAt) {
			t.Error("Expected sessions ordered by creation time")
		}
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	session, _ := manager.Create("access-test", "level1", puzzle)
	originalTime := session.LastAccessedAt

	time.Sleep(10 * time.Millisecond)

	err := manager.UpdateLastAccessed("access-test")
	if err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	updated, _ := manager.Get("access-test")
	if !updated.LastAccessedAt.After(originalTime) {
		t.Error("Expected LastAccessedAt to be updated")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	var wg sync.WaitGroup
	errors := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := manager.Create(fmt.Sprintf("concurrent-%d", id), "level1", puzzle)
			if err != nil && err != ErrSessionAlreadyExists {
				errors <- err
			}
		}(i)
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if len(manager.List()) != 100 {
		t.Errorf("Expected 100 sessions, got %d", len(manager.List()))
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	session1, _ := manager.Create("iso-1", "level1", puzzle)
	session2, _ := manager.Create("iso-2", "level1", puzzle)

	session1.Step(engine.Right)

	if session2.State()[engine.AgentIndex] != puzzle.InitialState()[engine.AgentIndex] {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if session1.State()[engine.AgentIndex] == session2.State()[engine.AgentIndex] {
		t.Error("Sessions should have independent simulation state")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", "level1", puzzle)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 8 {
			t.Errorf("Expected 8-character ID, got %d", len(session.ID))
		}
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	stale, err := manager.Create("stale", "level1", puzzle)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if _, err := manager.Create("fresh", "level1", puzzle); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	removed := manager.CleanupExpiredSessions(1 * time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, err := manager.Get("stale"); err != ErrSessionNotFound {
		t.Errorf("Expected stale session to be gone, got %v", err)
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Errorf("Expected fresh session to survive: %v", err)
	}
}

func TestManager_DeleteFromMemory(t *testing.T) {
	manager := NewManager()
	puzzle := testPuzzle(t)

	if _, err := manager.Create("mem-only", "level1", puzzle); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := manager.DeleteFromMemory("mem-only"); err != nil {
		t.Fatalf("Failed to delete from memory: %v", err)
	}
	if _, err := manager.Get("mem-only"); err != ErrSessionNotFound {
		t.Errorf("Expected session to be gone, got %v", err)
	}
	if err := manager.DeleteFromMemory("mem-only"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}
