// Package service provides the business logic layer for the pathfinder.
//
// The service package implements:
//   - Multi-session board management
//   - Cell editing and path search on a session board
//   - Stateless solving of a layout without a session
//   - Configuration listing, loading and saving
//
// Core Interfaces:
//
// BoardService is the main service interface used by the REST API, the
// WebSocket hub and the MCP client. SessionManager stores sessions and
// ConfigManager loads board configurations; both are implemented in the
// grid/session and grid/config packages.
//
// Path Results:
//
// A search that cannot produce a path is a normal outcome, not an error.
// FindPath and Solve return a PathResult with Found set to false, the error
// kind (missing_endpoints, not_found, invalid_grid) and the message shown to
// the user. Only unknown sessions and corrupt paths are returned as errors.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	boardService := service.NewBoardService(sessionMgr, configMgr, logger)
//
//	info, err := boardService.CreateSession(ctx, "maze")
//	if err != nil {
//		return err
//	}
//
//	result, err := boardService.FindPath(ctx, info.ID)
package service
