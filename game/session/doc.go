// Package session provides lifecycle management for PushWorld game
// sessions.
//
// The session package handles:
//   - Session creation with generated or caller-supplied IDs
//   - Thread-safe session storage and lookup
//   - Optional file persistence that survives server restarts
//
// Persistence stores only the puzzle name and the plan applied so far:
// because the engine is deterministic, replaying the plan from the initial
// state restores the exact session state, so no positions are ever written
// to disk.
package session
