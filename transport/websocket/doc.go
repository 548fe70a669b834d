// Package websocket provides real-time game state updates over WebSocket
// connections.
//
// Clients subscribe to a session via /ws?session={id}. Every state change
// made through the REST API is broadcast to all subscribers of that
// session as a state_update message carrying the full game state, so
// viewers never need to poll.
package websocket
