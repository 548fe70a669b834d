package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pushworld/pushworld/game/engine"
	"github.com/pushworld/pushworld/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":     "test-session",
		"solved": false,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall("GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/sessions/x", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 404 response")
	}
	if err.Error() != "session not found" {
		t.Errorf("Expected server error message, got: %v", err)
	}
}

func toolResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.SessionInfo{
			ID:         "test-session-123",
			PuzzleName: "level1",
			GameState: &service.GameState{
				PuzzleName: "level1",
				Width:      7,
				Height:     5,
				Positions:  engine.State{{X: 2, Y: 2}, {X: 3, Y: 2}},
				Goal:       []engine.Point{{X: 4, Y: 2}},
				TotalGoals: 1,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), toolRequest("create_session", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := toolResultText(t, result)
	if !strings.Contains(text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if !strings.Contains(text, "level1") {
		t.Errorf("Expected puzzle name in result, got: %s", text)
	}
}

func TestClient_validatePlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/puzzles/level1/validate" {
			t.Errorf("Expected POST /api/puzzles/level1/validate, got %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.PlanValidation{
			PuzzleName: "level1",
			Plan:       "RDRU",
			Valid:      true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleValidatePlan(context.Background(), toolRequest("validate_plan", map[string]interface{}{
		"puzzle_name": "level1",
		"plan":        "RDRU",
	}))
	if err != nil {
		t.Fatalf("validatePlan failed: %v", err)
	}

	text := toolResultText(t, result)
	if !strings.Contains(text, "solves puzzle level1") {
		t.Errorf("Expected success message, got: %s", text)
	}
}

func TestFormatGameState(t *testing.T) {
	state := &service.GameState{
		PuzzleName:    "level1",
		Width:         7,
		Height:        5,
		Positions:     engine.State{{X: 2, Y: 2}, {X: 3, Y: 2}},
		Goal:          []engine.Point{{X: 4, Y: 2}},
		Roles:         []engine.Role{{Kind: engine.RoleAgent, Label: "a"}, {Kind: engine.RoleGoalTracked, Goal: 1, Label: "m1"}},
		Steps:         2,
		AchievedGoals: 0,
		TotalGoals:    1,
	}

	result := formatGameState(state)

	expectedFields := []string{
		"Puzzle: level1",
		"Grid: 7x5",
		"Steps: 2",
		"Goals: 0/1",
		"a at (2,2)",
		"m1 at (3,2) [goal (4,2)]",
	}
	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
	if strings.Contains(result, "SOLVED") {
		t.Error("Unsolved state must not report SOLVED")
	}
}

func TestFormatGameState_Solved(t *testing.T) {
	state := &service.GameState{
		PuzzleName:    "level1",
		Width:         7,
		Height:        5,
		Positions:     engine.State{{X: 3, Y: 2}, {X: 4, Y: 2}},
		Goal:          []engine.Point{{X: 4, Y: 2}},
		Roles:         []engine.Role{{Kind: engine.RoleAgent, Label: "a"}, {Kind: engine.RoleGoalTracked, Goal: 1, Label: "m1"}},
		Steps:         1,
		AchievedGoals: 1,
		TotalGoals:    1,
		Solved:        true,
	}

	result := formatGameState(state)

	if !strings.Contains(result, "SOLVED") {
		t.Errorf("Expected 'SOLVED' in result, got: %s", result)
	}
	if !strings.Contains(result, "m1 at (4,2) [on goal (4,2)]") {
		t.Errorf("Expected on-goal marker, got: %s", result)
	}
}

func TestFormatGameState_Nil(t *testing.T) {
	if got := formatGameState(nil); got != "No game state available" {
		t.Errorf("Unexpected nil formatting: %s", got)
	}
}

func TestFormatHistory(t *testing.T) {
	history := &service.HistoryResponse{
		Moves: []service.MoveHistoryEntry{
			{MoveNumber: 1, Action: "right", Moved: true, AgentFrom: engine.Point{X: 2, Y: 2}, AgentTo: engine.Point{X: 3, Y: 2}, AchievedGoals: 1, Solved: true},
			{MoveNumber: 2, Action: "up", Moved: false, AgentFrom: engine.Point{X: 3, Y: 2}, AgentTo: engine.Point{X: 3, Y: 2}},
		},
		TotalMoves: 2,
		Page:       1,
		PageSize:   20,
		TotalPages: 1,
	}

	result := formatHistory(history)

	if !strings.Contains(result, "1. right solved agent (2,2)->(3,2)") {
		t.Errorf("Expected solved move line, got: %s", result)
	}
	if !strings.Contains(result, "2. up blocked agent (3,2)->(3,2)") {
		t.Errorf("Expected blocked move line, got: %s", result)
	}
}

func TestClient_Integration(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Failed to create client")
	}
	if client.mcpServer == nil {
		t.Fatal("MCP server not initialized")
	}
	if client.baseURL == "" {
		t.Error("Base URL not set")
	}
	if client.httpClient == nil {
		t.Error("HTTP client not initialized")
	}
}
