// Package mcp exposes the pathfinder REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two REST
// requests against a running server, and the JSON answer is rendered as
// plain text an agent can read.
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - board_state: board rendering with the path overlay
//   - cycle_cell, set_cell, describe_cell: single cell editing and inspection
//   - clear_board, reset_board: whole board edits
//   - find_path, clear_path: shortest path search on a session board
//   - solve_layout: search an ad-hoc layout without a session
//   - list_configs, board_instructions: reference material
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
