package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pushworld/pushworld/game/config"
	"github.com/pushworld/pushworld/game/engine"
	"github.com/pushworld/pushworld/game/service"
)

func testPuzzleManager(t *testing.T) *config.Manager {
	t.Helper()

	puzzleDir := t.TempDir()
	err := os.WriteFile(filepath.Join(puzzleDir, "level1.pwp"), []byte(managerTestPuzzle), 0644)
	if err != nil {
		t.Fatalf("Failed to write test puzzle: %v", err)
	}

	manager, err := config.NewManager(puzzleDir)
	if err != nil {
		t.Fatalf("Failed to create puzzle manager: %v", err)
	}
	return manager
}

func TestFilePersistence(t *testing.T) {
	tempDir := t.TempDir()
	puzzles := testPuzzleManager(t)

	persistence, err := NewFilePersistence(tempDir, puzzles)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	puzzle, _ := puzzles.LoadPuzzle("level1")
	session := service.NewSession("test1", "level1", puzzle)

	t.Run("save and load session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}

		if loaded.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loaded.ID)
		}
		if loaded.PuzzleName != session.PuzzleName {
			t.Errorf("Expected puzzle name %s, got %s", session.PuzzleName, loaded.PuzzleName)
		}
		if !loaded.State().Equal(session.State()) {
			t.Error("Expected restored state to match saved state")
		}
	})

	t.Run("state restored by replay", func(t *testing.T) {
		session.Step(engine.Right)
		session.Step(engine.Up)

		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}

		if !loaded.State().Equal(session.State()) {
			t.Errorf("Replayed state %v does not match saved state %v", loaded.State(), session.State())
		}
		if loaded.Plan() != session.Plan() {
			t.Errorf("Expected plan %q, got %q", session.Plan(), loaded.Plan())
		}
		if len(loaded.History()) != len(session.History()) {
			t.Error("Move history not restored correctly")
		}
	})

	t.Run("load all sessions", func(t *testing.T) {
		session2 := service.NewSession("test2", "level1", puzzle)
		if err := persistence.Save(session2); err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}

		sessions, err := persistence.LoadAll()
		if err != nil {
			t.Fatalf("Failed to load all sessions: %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("Expected 2 sessions, got %d", len(sessions))
		}

		found := make(map[string]bool)
		for _, s := range sessions {
			found[s.ID] = true
		}
		if !found["test1"] || !found["test2"] {
			t.Error("Expected sessions not found")
		}
	})

	t.Run("delete session", func(t *testing.T) {
		if err := persistence.Delete("test2"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}

		if _, err := persistence.Load("test2"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
		}
	})

	t.Run("error cases", func(t *testing.T) {
		if _, err := persistence.Load("nonexistent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}

		// Deleting a session that was never saved is not an error.
		if err := persistence.Delete("nonexistent"); err != nil {
			t.Errorf("Expected nil deleting missing session, got %v", err)
		}

		if err := persistence.Save(nil); err == nil {
			t.Error("Should get error when saving nil session")
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	tempDir := t.TempDir()
	puzzles := testPuzzleManager(t)

	persistence, err := NewFilePersistence(tempDir, puzzles)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	puzzle, _ := puzzles.LoadPuzzle("level1")
	session := service.NewSession("file_test", "level1", puzzle)
	session.Step(engine.Right)

	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	expectedFile := filepath.Join(tempDir, "file_test.json")
	data, err := os.ReadFile(expectedFile)
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	content := string(data)
	for _, field := range []string{`"id"`, `"puzzle_name"`, `"plan"`, `"created_at"`} {
		if !strings.Contains(content, field) {
			t.Errorf("Session file should contain field %s", field)
		}
	}
	if !strings.Contains(content, `"plan": "R"`) {
		t.Errorf("Expected plan encoding in session file, got:\n%s", content)
	}
	if strings.Contains(content, `"positions"`) {
		t.Error("Session file should not contain raw positions")
	}
}

func TestManagerWithPersistence(t *testing.T) {
	tempDir := t.TempDir()
	puzzles := testPuzzleManager(t)

	persistence, err := NewFilePersistence(tempDir, puzzles)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	puzzle, _ := puzzles.LoadPuzzle("level1")

	manager := NewManagerWithPersistence(persistence)
	session, err := manager.Create("restore-test", "level1", puzzle)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	session.Step(engine.Right)
	if err := manager.Save("restore-test"); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// A fresh manager sharing the same persistence sees the session.
	restored := NewManagerWithPersistence(persistence)
	loaded, err := restored.Get("restore-test")
	if err != nil {
		t.Fatalf("Expected session to be restored: %v", err)
	}
	if !loaded.State().Equal(session.State()) {
		t.Error("Restored session state does not match original")
	}

	// Deleting through the manager removes the persisted file too.
	if err := restored.Delete("restore-test"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	again := NewManagerWithPersistence(persistence)
	if _, err := again.Get("restore-test"); err != ErrSessionNotFound {
		t.Errorf("Expected deleted session to stay deleted, got %v", err)
	}
}

func TestFilePersistenceExists(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir(), testPuzzleManager(t))
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	if persistence.Exists("ghost") {
		t.Error("Expected Exists to be false before save")
	}

	puzzle, _ := persistence.puzzleManager.LoadPuzzle("level1")
	session := service.NewSession("ghost", "level1", puzzle)
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	if !persistence.Exists("ghost") {
		t.Error("Expected Exists to be true after save")
	}
	if !persistence.Exists("GHOST") {
		t.Error("Expected Exists to be case-insensitive")
	}

	if err := persistence.Delete("ghost"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if persistence.Exists("ghost") {
		t.Error("Expected Exists to be false after delete")
	}
}
