package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
	"github.com/wricardo/mcp-training/pathfinder/grid/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Grid Pathfinder",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid Pathfinder - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Edit a board of open (.), blocked (#), start (S) and end (E) cells, then ask
for the shortest 4-directional path from S to E.

AVAILABLE TOOLS:
- create_session: Create a new board session
- get_session / list_sessions: Inspect sessions
- board_state: Show the current board with any path overlay
- cycle_cell: Advance a cell start -> blocked -> end -> open -> start
- set_cell: Set a cell to an explicit label
- describe_cell: Details about one cell and its neighbours
- find_path: Search for the shortest path on the board
- clear_path / clear_board / reset_board: Undo things
- solve_layout: Search a layout without creating a session
- list_configs: List available boards
- board_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

func cellProperties(extra map[string]any) map[string]any {
	props := map[string]any{
		"session_id": sessionProperty(),
		"row": map[string]any{
			"type":        "integer",
			"description": "Row of the cell (0-based, top is 0)",
		},
		"col": map[string]any{
			"type":        "integer",
			"description": "Column of the cell (0-based, left is 0)",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// sessionTool builds a tool whose only argument is the session id
func sessionTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new board session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "ID of the config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active board sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(sessionTool("get_session", "Get details of a specific session"), c.handleGetSession)
	c.mcpServer.AddTool(sessionTool("board_state", "Get the current board with any path overlay"), c.handleBoardState)

	// Board editing
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cycle_cell",
		Description: "Advance the label of a cell: start -> blocked -> end -> open -> start",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(nil),
			Required:   []string{"session_id", "row", "col"},
		},
	}, c.handleCycleCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_cell",
		Description: "Set a cell to an explicit label",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: cellProperties(map[string]any{
				"label": map[string]any{
					"type":        "string",
					"enum":        []string{"open", "blocked", "start", "end"},
					"description": "New label of the cell",
				},
			}),
			Required: []string{"session_id", "row", "col", "label"},
		},
	}, c.handleSetCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about one cell: its label, path direction and neighbours",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(nil),
			Required:   []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(sessionTool("clear_board", "Set every cell of the board to open"), c.handleClearBoard)
	c.mcpServer.AddTool(sessionTool("reset_board", "Rebuild the board from its configuration"), c.handleResetBoard)

	// Pathfinding
	c.mcpServer.AddTool(sessionTool("find_path", "Search for the shortest path from S to E on the board"), c.handleFindPath)
	c.mcpServer.AddTool(sessionTool("clear_path", "Remove the path overlay from the board"), c.handleClearPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_layout",
		Description: "Search for the shortest path on a layout without creating a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"layout": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Rows of the board using . # S E, e.g. [\"S.#\", \"..E\"]",
				},
			},
			Required: []string{"layout"},
		},
	}, c.handleSolveLayout)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_instructions",
		Description: "Get the board rules and pathfinding semantics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleBoardInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool arguments, or an empty map when none were sent
func arguments(request mcp.CallToolRequest) map[string]any {
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		return args
	}
	return map[string]any{}
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer, got %v", key, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
}

// layoutArg accepts an array of rows or a single newline separated string
func layoutArg(args map[string]any) ([]string, error) {
	switch v := args["layout"].(type) {
	case []any:
		rows := make([]string, 0, len(v))
		for i, item := range v {
			row, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("layout row %d must be a string", i)
			}
			rows = append(rows, row)
		}
		return rows, nil
	case []string:
		return v, nil
	case string:
		return strings.Split(strings.TrimSpace(v), "\n"), nil
	default:
		return nil, fmt.Errorf("layout must be an array of strings")
	}
}

func cellPath(sessionID string, row, col int) string {
	return fmt.Sprintf("/api/sessions/%s/cells/%d/%d", sessionID, row, col)
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatBoard(session.Board))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&result, "- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var board service.BoardState
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID+"/board", nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handleCycleCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	row, col, err := cellArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.CellResult
	if err := c.apiCall(ctx, "POST", cellPath(sessionID, row, col)+"/cycle", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellResult(&result)), nil
}

func (c *Client) handleSetCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	label, _ := args["label"].(string)

	row, col, err := cellArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !engine.Label(label).Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid label %q: use open, blocked, start or end", label)), nil
	}

	var result service.CellResult
	body := map[string]string{"label": label}
	if err := c.apiCall(ctx, "PUT", cellPath(sessionID, row, col), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellResult(&result)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	row, col, err := cellArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var board service.BoardState
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID+"/board", nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if row < 0 || row >= board.Rows || col < 0 || col >= board.Cols {
		return mcp.NewToolResultError(fmt.Sprintf("Cell (%d, %d) is out of bounds. Board is %dx%d (rows 0-%d, cols 0-%d)",
			row, col, board.Rows, board.Cols, board.Rows-1, board.Cols-1)), nil
	}

	return mcp.NewToolResultText(describeCell(&board, engine.Cell{Row: row, Col: col})), nil
}

func (c *Client) handleClearBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.boardAction(ctx, request, "POST", "/clear", "Board cleared.")
}

func (c *Client) handleResetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Board *service.BoardState `json:"board"`
	}
	if err := c.apiCall(ctx, "POST", "/api/sessions/"+sessionID+"/reset", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Board reset.\n\n" + formatBoard(response.Board)), nil
}

func (c *Client) handleClearPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.boardAction(ctx, request, "DELETE", "/path", "Path cleared.")
}

// boardAction runs a session endpoint that answers with a BoardState
func (c *Client) boardAction(ctx context.Context, request mcp.CallToolRequest, method, suffix, header string) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var board service.BoardState
	if err := c.apiCall(ctx, method, "/api/sessions/"+sessionID+suffix, nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(header + "\n\n" + formatBoard(&board)), nil
}

func (c *Client) handleFindPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.PathResult
	if err := c.apiCall(ctx, "POST", "/api/sessions/"+sessionID+"/path", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPathResult(&result)), nil
}

func (c *Client) handleSolveLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	layout, err := layoutArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.PathResult
	if err := c.apiCall(ctx, "POST", "/api/solve", map[string]any{"layout": layout}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPathResult(&result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&result, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d\n\n",
			config.Name, config.ConfigID, config.Description, config.Rows, config.Cols)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleBoardInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Grid Pathfinder - Instructions

BOARD:
• A rectangular grid, 1 to 50 rows and columns
• Cells are addressed (row, col), 0-based, row 0 at the top

LABELS:
• . open     - free cell
• # blocked  - wall
• S start    - where the path begins (at most one)
• E end      - where the path ends (at most one)

EDITING:
• cycle_cell advances a label: start -> blocked -> end -> open -> start
• set_cell sets a label directly
• Any edit removes the current path overlay

PATHFINDING:
• Moves are 4-directional (up, right, down, left), each costs 1
• A blocked cell can be entered but never left, so a path can
  only end on one. Blocked cells therefore never lie inside a path.
• Ties between equally short paths are broken deterministically
• The overlay marks every cell strictly between S and E with an arrow
  (^ > v <) pointing at the next cell

OUTCOMES:
• found          - length is the number of steps
• missing_endpoints - the board has no S or no E
• not_found      - E cannot be reached from S
• invalid_grid   - the board is malformed (bad size, two S, two E)

TIPS:
• Use board_state to see the rendering, describe_cell to inspect one cell
• Use solve_layout to try an idea without touching a session`

	return mcp.NewToolResultText(instructions), nil
}

func cellArgs(args map[string]any) (int, int, error) {
	row, err := intArg(args, "row")
	if err != nil {
		return 0, 0, err
	}
	col, err := intArg(args, "col")
	if err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoard(session.Board))
}

func formatBoard(board *service.BoardState) string {
	if board == nil {
		return "No board available"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Board: %dx%d | Edits: %d | Searches: %d\n", board.Rows, board.Cols, board.Edits, board.Searches)
	if board.HasPath {
		fmt.Fprintf(&result, "Path: %d steps\n", board.PathLength)
	}
	result.WriteString("\n")
	result.WriteString(board.Rendered)

	if board.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", board.Message)
	}

	return result.String()
}

func formatCellResult(result *service.CellResult) string {
	return fmt.Sprintf("Cell (%d, %d) is now %s\n\n%s",
		result.Cell.Row, result.Cell.Col, result.Label, formatBoard(result.Board))
}

func formatPathResult(result *service.PathResult) string {
	var out strings.Builder

	if result.Found {
		fmt.Fprintf(&out, "✅ %s\n", result.Message)
		out.WriteString("Route: ")
		for i, cell := range result.Path {
			if i > 0 {
				out.WriteString(" -> ")
			}
			out.WriteString(cell.String())
		}
		out.WriteString("\n")
	} else {
		fmt.Fprintf(&out, "❌ %s (%s)\n", result.Message, result.ErrorKind)
	}
	fmt.Fprintf(&out, "Cells expanded: %d\n", result.Expanded)

	if result.Board != nil {
		out.WriteString("\n")
		out.WriteString(formatBoard(result.Board))
	}
	return out.String()
}

// describeCell reports the label of cell, its overlay arrow and its neighbours
func describeCell(board *service.BoardState, cell engine.Cell) string {
	char := board.Layout[cell.Row][cell.Col]
	label, _ := engine.LabelForChar(rune(char))

	var out strings.Builder
	fmt.Fprintf(&out, "Cell (%d, %d): '%c' %s\n", cell.Row, cell.Col, char, label)

	for _, step := range board.Overlay {
		if step.Cell == cell {
			fmt.Fprintf(&out, "On path: next step is %s\n", step.Direction)
			break
		}
	}
	if label == engine.Blocked {
		out.WriteString("Blocked: a path may end here but cannot leave\n")
	}

	out.WriteString("Neighbours:\n")
	neighbours := []struct {
		dir engine.Direction
		dr  int
		dc  int
	}{
		{engine.Up, -1, 0},
		{engine.Right, 0, 1},
		{engine.Down, 1, 0},
		{engine.Left, 0, -1},
	}
	for _, n := range neighbours {
		r, c := cell.Row+n.dr, cell.Col+n.dc
		if r < 0 || r >= board.Rows || c < 0 || c >= board.Cols {
			fmt.Fprintf(&out, "  %-5s edge of board\n", n.dir)
			continue
		}
		fmt.Fprintf(&out, "  %-5s (%d, %d) '%c'\n", n.dir, r, c, board.Layout[r][c])
	}

	return out.String()
}
