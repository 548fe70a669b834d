// Package api provides the HTTP REST interface to the PushWorld engine.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions                  - Create new session
//   - GET    /api/sessions                  - List all sessions
//   - GET    /api/sessions/{id}             - Get specific session
//   - DELETE /api/sessions/{id}             - Delete session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state         - Get current game state
//   - POST /api/sessions/{id}/move          - Apply one action
//   - POST /api/sessions/{id}/plan          - Apply a plan string (L/R/U/D)
//   - POST /api/sessions/{id}/reset         - Reset to the initial state
//   - GET  /api/sessions/{id}/history       - Paginated move history
//   - GET  /api/sessions/{id}/render        - Current state as a PNG image
//
// Puzzles:
//   - GET  /api/puzzles                     - List available puzzles
//   - GET  /api/puzzles/{name}              - Raw puzzle definition text
//   - POST /api/puzzles                     - Save a puzzle definition
//   - POST /api/puzzles/{name}/validate     - Validate a plan against a puzzle
//
// WebSocket:
//   - GET /ws?session={id}                  - Subscribe to state updates
//
// All endpoints accept and return JSON, except /render which returns
// image/png. Errors are returned as {"error": "message"} with an
// appropriate HTTP status code. State-changing operations are broadcast
// to WebSocket subscribers of the affected session.
package api
