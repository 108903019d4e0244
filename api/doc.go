// Package api provides the HTTP REST API for the pathfinder boards.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "maze"}, body optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Board Editing:
//   - GET /api/sessions/{id}/board - Current labels, overlay and rendering
//   - POST /api/sessions/{id}/cells/{row}/{col}/cycle - Advance a cell label
//   - PUT /api/sessions/{id}/cells/{row}/{col} - Set a cell label ({"label": "blocked"})
//   - POST /api/sessions/{id}/clear - Set every cell to open
//   - POST /api/sessions/{id}/reset - Rebuild the board from its configuration
//
// Pathfinding:
//   - POST /api/sessions/{id}/path - Search for the shortest path
//   - DELETE /api/sessions/{id}/path - Remove the path overlay
//   - POST /api/solve - Search a layout without a session ({"layout": ["S.#", "..E"]})
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration
//
// A search that finds no path is a normal 200 response with "found": false
// and an "error_kind" of missing_endpoints, not_found or invalid_grid.
//
// Usage:
//
//	server := api.NewServer(boardService, hub, logger)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message",
//	  "code": 404
//	}
//
// Unknown sessions and configs map to 404, bad cells and configs to 400.
package api
