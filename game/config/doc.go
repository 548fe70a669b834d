// Package config provides puzzle library management for the PushWorld
// server and tools.
//
// The config package handles:
//   - Loading puzzle definitions from .pwp files
//   - Parse-time validation via the engine loader
//   - Default puzzle management
//   - Puzzle discovery and listing
//
// Puzzle Format:
//
// Puzzles are stored as whitespace-tokenized text grids, one line per row.
// A cell holds one or more "+"-joined labels: "." empty, "a" agent, "w"
// wall, "aw" agent-only wall, "m<id>" movable object, "g<id>" goal for
// movable m<id>. See the engine package for the full format contract.
//
// Usage:
//
//	manager, err := config.NewManager("puzzles")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	puzzle, err := manager.LoadPuzzle("level1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	infos, err := manager.ListPuzzles()
//
// Parsed puzzles are cached; the expensive collision-map construction runs
// once per definition no matter how many sessions play it.
package config
