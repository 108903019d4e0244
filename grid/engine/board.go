package engine

import (
	"fmt"
	"strings"
)

// Board is the editable state behind one pathfinder session: the labels the
// user has placed plus the overlay of the last path found. The pathfinding
// core only ever sees a snapshot of its grid.
type Board struct {
	Grid       *Grid  `json:"grid"`
	Overlay    []Step `json:"overlay,omitempty"`
	PathLength int    `json:"path_length"`
	HasPath    bool   `json:"has_path"`
	Message    string `json:"message"`
	ConfigName string `json:"config_name"`
	Edits      int    `json:"edits"`
	Searches   int    `json:"searches"`
}

// NewBoard creates a board initialised from the given configuration
func NewBoard(config *BoardConfig) (*Board, error) {
	if config == nil {
		config = DefaultBoardConfig()
	}
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	grid, err := NewGridFromConfig(config)
	if err != nil {
		return nil, err
	}

	return &Board{
		Grid:       grid,
		ConfigName: config.Name,
		Message:    "Mark a start, an end and any obstacles, then find the path.",
	}, nil
}

// Snapshot returns an independent copy of the board grid
func (b *Board) Snapshot() *Grid {
	return b.Grid.Clone()
}

// CycleCell advances the label of c along open -> start -> blocked -> end.
// Any displayed path is cleared because it may no longer be valid.
func (b *Board) CycleCell(c Cell) (Label, error) {
	if !b.Grid.InBounds(c) {
		return "", fmt.Errorf("cell %s out of bounds for %dx%d board", c, b.Grid.Rows, b.Grid.Cols)
	}
	next := NextLabel(b.Grid.Label(c))
	if err := b.Grid.Set(c, next); err != nil {
		return "", err
	}
	b.Edits++
	b.ClearPath()
	return next, nil
}

// SetCell assigns a label to c directly
func (b *Board) SetCell(c Cell, l Label) error {
	if err := b.Grid.Set(c, l); err != nil {
		return err
	}
	b.Edits++
	b.ClearPath()
	return nil
}

// FindPath runs the pathfinding core on a snapshot of the board. On success
// the path overlay is stored; on failure the user-facing message is.
func (b *Board) FindPath() (*Result, error) {
	b.Searches++
	b.ClearPath()

	result, err := ComputePath(b.Snapshot())
	if err != nil {
		b.Message = UserMessage(err)
		return nil, err
	}

	b.Overlay = result.Steps
	b.PathLength = result.Length
	b.HasPath = true
	b.Message = fmt.Sprintf("Path found: %d steps.", result.Length)
	return result, nil
}

// ClearPath removes the path overlay and leaves the labels untouched
func (b *Board) ClearPath() {
	b.Overlay = nil
	b.PathLength = 0
	b.HasPath = false
	b.Message = ""
}

// ClearBoard resets every cell to open and removes the overlay
func (b *Board) ClearBoard() {
	for r := range b.Grid.Labels {
		for c := range b.Grid.Labels[r] {
			b.Grid.Labels[r][c] = Open
		}
	}
	b.Edits++
	b.ClearPath()
}

// OverlayAt returns the direction drawn on c, if any
func (b *Board) OverlayAt(c Cell) (Direction, bool) {
	for _, s := range b.Overlay {
		if s.Cell == c {
			return s.Direction, true
		}
	}
	return "", false
}

// Render draws the board as text: layout characters with path arrows on top
func (b *Board) Render() string {
	arrows := make(map[Cell]Direction, len(b.Overlay))
	for _, s := range b.Overlay {
		arrows[s.Cell] = s.Direction
	}

	var sb strings.Builder
	for r, row := range b.Grid.Labels {
		for c, l := range row {
			if dir, ok := arrows[Cell{Row: r, Col: c}]; ok {
				sb.WriteString(dir.Arrow())
				continue
			}
			sb.WriteByte(CharForLabel(l))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
