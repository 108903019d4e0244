// Package websocket pushes live board updates to browser clients.
//
// A central Hub owns every connection. Clients attach to one session with
// ?sessionId=abc1 on /ws and receive a "connected" message carrying their
// client id, then a message each time the board of that session changes:
//
//	{"session_id": "abc1", "event": "board_update", "board": {...}}
//
// Events are board_update after edits, path_result after a search and
// session_deleted when the session goes away. Incoming client messages are
// ignored; edits go through the REST API, which broadcasts the result.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.BroadcastBoard(sessionID, websocket.EventBoardUpdate, board)
//
// Broadcasting never blocks the caller. When the hub falls behind, new
// updates are dropped, and clients that cannot keep up are disconnected.
package websocket
