package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pushworld/pushworld/game/engine"
	"github.com/pushworld/pushworld/game/service"
)

var (
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrInvalidPuzzle  = errors.New("invalid puzzle")
)

// defaultPuzzleName is the puzzle used when no name is given.
const defaultPuzzleName = "level1"

// minimalPuzzle is the built-in fallback used when the puzzle directory is
// empty: push the block one cell right onto its goal.
const minimalPuzzle = `.  .  .  .  .
.  a  m1 g1 .
.  .  .  .  .
`

// Manager handles puzzle loading and caching. Parsed puzzles are immutable
// and shared; sessions that need independent simulation state clone them.
type Manager struct {
	puzzleDir     string
	defaultName   string
	defaultPuzzle *engine.Puzzle
	puzzles       map[string]*engine.Puzzle
	texts         map[string]string
	mu            sync.RWMutex
}

// NewManager creates a new puzzle manager rooted at the given directory.
func NewManager(puzzleDir string) (*Manager, error) {
	if _, err := os.Stat(puzzleDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("puzzle directory does not exist: %s", puzzleDir)
	}

	m := &Manager{
		puzzleDir: puzzleDir,
		puzzles:   make(map[string]*engine.Puzzle),
		texts:     make(map[string]string),
	}

	if err := m.loadDefaultPuzzle(); err != nil {
		return nil, fmt.Errorf("failed to load default puzzle: %w", err)
	}

	return m, nil
}

// LoadPuzzle loads a puzzle by name, from cache when possible.
func (m *Manager) LoadPuzzle(name string) (*engine.Puzzle, error) {
	m.mu.RLock()
	if puzzle, exists := m.puzzles[name]; exists {
		m.mu.RUnlock()
		return puzzle, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if puzzle, exists := m.puzzles[name]; exists {
		return puzzle, nil
	}

	data, err := os.ReadFile(m.puzzlePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPuzzleNotFound
		}
		return nil, fmt.Errorf("failed to read puzzle file: %w", err)
	}

	puzzle, err := engine.ParsePuzzle(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}

	m.puzzles[name] = puzzle
	m.texts[name] = string(data)
	return puzzle, nil
}

// PuzzleText returns the raw definition text of a puzzle.
func (m *Manager) PuzzleText(name string) (string, error) {
	if _, err := m.LoadPuzzle(name); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.texts[name], nil
}

// ListPuzzles returns information about every puzzle in the directory.
// Files that fail to parse are skipped.
func (m *Manager) ListPuzzles() ([]*service.PuzzleInfo, error) {
	entries, err := os.ReadDir(m.puzzleDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle directory: %w", err)
	}

	var infos []*service.PuzzleInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), engine.PuzzleExtension) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), engine.PuzzleExtension)
		puzzle, err := m.LoadPuzzle(name)
		if err != nil {
			continue
		}

		width, height := puzzle.Dimensions()
		infos = append(infos, &service.PuzzleInfo{
			Filename: entry.Name(),
			PuzzleID: name,
			Width:    width,
			Height:   height,
			Movables: puzzle.NumMovables() - 1,
			Goals:    len(puzzle.GoalState()),
		})
	}

	return infos, nil
}

// GetDefault returns the default puzzle and its name.
func (m *Manager) GetDefault() (*engine.Puzzle, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPuzzle, m.defaultName
}

// SetDefault sets the default puzzle by name.
func (m *Manager) SetDefault(name string) error {
	puzzle, err := m.LoadPuzzle(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultPuzzle = puzzle
	m.defaultName = name
	return nil
}

// RefreshCache drops all cached puzzles and reloads the default.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.puzzles = make(map[string]*engine.Puzzle)
	m.texts = make(map[string]string)
	m.mu.Unlock()

	return m.loadDefaultPuzzle()
}

// SavePuzzle validates a definition text by parsing it, then writes it to
// the puzzle directory and caches the result.
func (m *Manager) SavePuzzle(name, text string) error {
	puzzle, err := engine.ParsePuzzle(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}

	if err := os.WriteFile(m.puzzlePath(name), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write puzzle file: %w", err)
	}

	m.mu.Lock()
	m.puzzles[name] = puzzle
	m.texts[name] = text
	m.mu.Unlock()

	return nil
}

// loadDefaultPuzzle picks level1, then any parseable puzzle in the
// directory, then the built-in minimal puzzle.
func (m *Manager) loadDefaultPuzzle() error {
	if puzzle, err := m.LoadPuzzle(defaultPuzzleName); err == nil {
		m.mu.Lock()
		m.defaultPuzzle = puzzle
		m.defaultName = defaultPuzzleName
		m.mu.Unlock()
		return nil
	}

	infos, err := m.ListPuzzles()
	if err == nil && len(infos) > 0 {
		if puzzle, err := m.LoadPuzzle(infos[0].PuzzleID); err == nil {
			m.mu.Lock()
			m.defaultPuzzle = puzzle
			m.defaultName = infos[0].PuzzleID
			m.mu.Unlock()
			return nil
		}
	}

	puzzle, err := engine.ParsePuzzle(minimalPuzzle)
	if err != nil {
		return fmt.Errorf("built-in default puzzle failed to parse: %w", err)
	}
	m.mu.Lock()
	m.defaultPuzzle = puzzle
	m.defaultName = "builtin"
	m.mu.Unlock()
	return nil
}

// puzzlePath resolves a puzzle name to its file path, appending the .pwp
// extension when missing.
func (m *Manager) puzzlePath(name string) string {
	filename := name
	if !strings.HasSuffix(filename, engine.PuzzleExtension) {
		filename = name + engine.PuzzleExtension
	}
	return filepath.Join(m.puzzleDir, filename)
}
