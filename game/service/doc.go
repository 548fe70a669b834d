// Package service defines the application-level operations of the
// PushWorld server: session management, single moves and plan application,
// goal progress reporting, plan validation, and puzzle discovery.
//
// The GameService interface is the single surface consumed by every
// transport (REST API, WebSocket hub, MCP tools). It is deliberately thin:
// all simulation semantics live in the engine package; this layer adds
// sessions, bookkeeping, and DTOs.
//
// Concurrency:
//
// An engine.Puzzle instance is not safe for concurrent transitions, so each
// session owns a cloned instance plus a mutex; the service serializes all
// mutating operations per session while leaving distinct sessions fully
// parallel.
package service
