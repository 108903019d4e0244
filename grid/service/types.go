package service

import (
	"time"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
)

// SessionInfo provides information about a board session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Board          *BoardState         `json:"board"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// BoardState is the client view of a board: labels as layout strings plus
// the current path overlay
type BoardState struct {
	Rows       int           `json:"rows"`
	Cols       int           `json:"cols"`
	Layout     []string      `json:"layout"`
	Overlay    []engine.Step `json:"overlay"`
	HasPath    bool          `json:"has_path"`
	PathLength int           `json:"path_length"`
	Message    string        `json:"message"`
	ConfigName string        `json:"config_name"`
	Edits      int           `json:"edits"`
	Searches   int           `json:"searches"`
	Rendered   string        `json:"rendered"`
}

// CellResult is returned after a cell edit
type CellResult struct {
	Cell  engine.Cell  `json:"cell"`
	Label engine.Label `json:"label"`
	Board *BoardState  `json:"board"`
}

// PathResult reports the outcome of a path search. A search that finds no
// path is not an error: Found is false and ErrorKind says why.
type PathResult struct {
	Found     bool             `json:"found"`
	Length    int              `json:"length"`
	Path      engine.Path      `json:"path,omitempty"`
	Steps     []engine.Step    `json:"steps,omitempty"`
	ErrorKind engine.ErrorKind `json:"error_kind,omitempty"`
	Message   string           `json:"message"`
	Expanded  int              `json:"expanded"`
	Board     *BoardState      `json:"board,omitempty"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
}

// NewBoardState builds the client view of b
func NewBoardState(b *engine.Board) *BoardState {
	if b == nil {
		return nil
	}
	overlay := b.Overlay
	if overlay == nil {
		overlay = []engine.Step{}
	}
	return &BoardState{
		Rows:       b.Grid.Rows,
		Cols:       b.Grid.Cols,
		Layout:     engine.FormatLayout(b.Grid),
		Overlay:    overlay,
		HasPath:    b.HasPath,
		PathLength: b.PathLength,
		Message:    b.Message,
		ConfigName: b.ConfigName,
		Edits:      b.Edits,
		Searches:   b.Searches,
		Rendered:   b.Render(),
	}
}
