package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pushworld/pushworld/game/engine"
	"github.com/pushworld/pushworld/game/service"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"PushWorld",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`PushWorld - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Push every goal-tracked movable object onto its goal position. The agent
(a) moves one cell at a time in the four cardinal directions and pushes
any movable objects in its way. Pushing is transitive: a pushed object
pushes the objects it runs into. If anything in the chain is blocked by
a wall, nothing moves at all.

RULES:
- Walls (w) block the agent and all movable objects.
- Agent walls (aw) block only the agent; movables pass over them freely.
- A move that is blocked leaves the state exactly as it was.
- The puzzle is solved when every goal object sits on its goal position.

PLANS:
A plan is a string of L, R, U and D characters, one per move
(Left, Right, Up, Down).

AVAILABLE TOOLS:
- create_session: Create a new game session
- get_session: Get session details
- list_sessions: List all active sessions
- game_state: Get current game state
- move: Single move (up/down/left/right)
- apply_plan: Apply a whole plan string at once
- reset_game: Reset to the initial state
- move_history: View past moves
- list_puzzles: List available puzzles
- puzzle_text: Get the raw grid definition of a puzzle
- validate_plan: Check whether a plan solves a puzzle`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional puzzle selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"puzzle_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the puzzle to play (optional, defaults to the server default)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the agent one cell in a direction, pushing any movables in the way",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "apply_plan",
		Description: "Apply a plan string (L/R/U/D characters) to a session, stopping early if the puzzle is solved",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"plan": map[string]interface{}{
					"type":        "string",
					"description": "Plan string, e.g. RDRU",
				},
			},
			Required: []string{"session_id", "plan"},
		},
	}, c.handleApplyPlan)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to the puzzle's initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Puzzle library
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_puzzles",
		Description: "List available puzzles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPuzzles)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "puzzle_text",
		Description: "Get the raw grid definition text of a puzzle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"puzzle_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the puzzle",
				},
			},
			Required: []string{"puzzle_name"},
		},
	}, c.handlePuzzleText)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "validate_plan",
		Description: "Check whether a plan solves a puzzle from its initial state. A valid plan reaches the goal exactly at its last action.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"puzzle_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the puzzle (optional, defaults to the server default)",
				},
				"plan": map[string]interface{}{
					"type":        "string",
					"description": "Plan string, e.g. RDRU",
				},
			},
			Required: []string{"plan"},
		},
	}, c.handleValidatePlan)
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	puzzleName, _ := args["puzzle_name"].(string)

	body := map[string]string{}
	if puzzleName != "" {
		body["puzzle_name"] = puzzleName
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nPuzzle: %s\n\n%s",
		session.ID, session.PuzzleName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "unsolved"
		if s.GameState != nil && s.GameState.Solved {
			status = "solved"
		}
		result += fmt.Sprintf("- %s (Puzzle: %s, Created: %s, %s)\n",
			s.ID, s.PuzzleName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Session: %s\nPuzzle: %s\nCreated: %s\n\n%s",
		session.ID, session.PuzzleName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state service.GameState
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	body := map[string]string{"direction": direction}

	var result service.MoveResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	if result.Moved {
		b.WriteString(fmt.Sprintf("Moved %s\n", result.Action))
	} else {
		b.WriteString(fmt.Sprintf("Blocked: moving %s would push something into a wall\n", result.Action))
	}
	if result.Solved {
		b.WriteString("Puzzle solved!\n")
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleApplyPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	plan, _ := args["plan"].(string)

	body := map[string]string{"plan": plan}

	var result service.PlanResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/plan", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Executed %d/%d actions of plan %s\n", result.Executed, result.Requested, result.Plan))
	if result.Truncated {
		b.WriteString("Plan was truncated to the maximum allowed length\n")
	}
	if result.StoppedEarly {
		b.WriteString("Stopped early: the puzzle was solved before the plan ended\n")
	}
	if result.Solved {
		b.WriteString("Puzzle solved!\n")
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string             `json:"message"`
		State   *service.GameState `json:"state"`
	}

	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListPuzzles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int                  `json:"count"`
		Puzzles []service.PuzzleInfo `json:"puzzles"`
	}

	if err := c.apiCall("GET", "/api/puzzles", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Available Puzzles (%d):\n\n", response.Count)
	for _, p := range response.Puzzles {
		result += fmt.Sprintf("- %s: %dx%d grid, %d movable(s), %d goal(s)\n",
			p.PuzzleID, p.Width, p.Height, p.Movables, p.Goals)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePuzzleText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	puzzleName, _ := args["puzzle_name"].(string)

	var response struct {
		PuzzleID string `json:"puzzle_id"`
		Text     string `json:"text"`
	}

	if err := c.apiCall("GET", fmt.Sprintf("/api/puzzles/%s", puzzleName), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Puzzle %s:\n\n%s", response.PuzzleID, response.Text)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleValidatePlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	puzzleName, _ := args["puzzle_name"].(string)
	plan, _ := args["plan"].(string)

	if puzzleName == "" {
		puzzleName = "level1"
	}

	body := map[string]string{"plan": plan}

	var validation service.PlanValidation
	if err := c.apiCall("POST", fmt.Sprintf("/api/puzzles/%s/validate", puzzleName), body, &validation); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if validation.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("Plan %s solves puzzle %s", validation.Plan, validation.PuzzleName)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Plan %s does not solve puzzle %s: %s",
		validation.Plan, validation.PuzzleName, validation.Reason)), nil
}

// Formatting helpers

// formatGameState renders a compact text summary of a session's state.
func formatGameState(state *service.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Puzzle: %s | Grid: %dx%d | Steps: %d | Goals: %d/%d",
		state.PuzzleName, state.Width, state.Height,
		state.Steps, state.AchievedGoals, state.TotalGoals))
	if state.Solved {
		b.WriteString(" | SOLVED")
	}
	b.WriteString("\n")

	for i, pos := range state.Positions {
		label := objectLabel(state.Roles, i)
		b.WriteString(fmt.Sprintf("  %s at (%d,%d)", label, pos.X, pos.Y))
		if i > 0 && i-1 < len(state.Goal) {
			goal := state.Goal[i-1]
			if pos == goal {
				b.WriteString(fmt.Sprintf(" [on goal (%d,%d)]", goal.X, goal.Y))
			} else {
				b.WriteString(fmt.Sprintf(" [goal (%d,%d)]", goal.X, goal.Y))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// objectLabel names the object at a state index for display.
func objectLabel(roles []engine.Role, index int) string {
	if index < len(roles) && roles[index].Label != "" {
		return roles[index].Label
	}
	if index == engine.AgentIndex {
		return "agent"
	}
	return fmt.Sprintf("m%d", index)
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "moved"
		if !move.Moved {
			status = "blocked"
		}
		if move.Solved {
			status = "solved"
		}
		result += fmt.Sprintf("%d. %s %s agent (%d,%d)->(%d,%d) goals=%d\n",
			move.MoveNumber, move.Action, status,
			move.AgentFrom.X, move.AgentFrom.Y, move.AgentTo.X, move.AgentTo.Y,
			move.AchievedGoals)
	}

	return result
}
