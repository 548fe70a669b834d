// Package mcp exposes the PushWorld engine to MCP (Model Context
// Protocol) clients.
//
// The package implements a thin MCP server that proxies every tool call
// to the REST API, so MCP clients and HTTP clients always observe the
// same sessions and the same state. Tools cover session management
// (create_session, get_session, list_sessions), play (move, apply_plan,
// reset_game, game_state, move_history) and the puzzle library
// (list_puzzles, puzzle_text, validate_plan).
//
// Tool results are plain text: compact state summaries with the agent
// and movable positions, goal progress, and the plan applied so far.
package mcp
