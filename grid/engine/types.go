package engine

import (
	"fmt"
	"math"
)

// Label represents the role assigned to a grid cell
type Label string

const (
	Open    Label = "open"
	Start   Label = "start"
	End     Label = "end"
	Blocked Label = "blocked"

	// Validation constants
	MinGridSize = 1
	MaxGridSize = 50
	DefaultRows = 9
	DefaultCols = 16
)

// Impassable is the weight of an edge leaving a blocked cell.
var Impassable = math.Inf(1)

// Valid reports whether l is one of the four defined labels
func (l Label) Valid() bool {
	switch l {
	case Open, Start, End, Blocked:
		return true
	}
	return false
}

// Direction is the step from one path cell to the next
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Cell is a grid coordinate. Identity is the coordinate itself.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is a rows x cols matrix of labels
type Grid struct {
	Rows   int       `json:"rows"`
	Cols   int       `json:"cols"`
	Labels [][]Label `json:"labels"`
}

// NewGrid creates an all-open grid
func NewGrid(rows, cols int) (*Grid, error) {
	if rows < MinGridSize || rows > MaxGridSize || cols < MinGridSize || cols > MaxGridSize {
		return nil, fmt.Errorf("%w: dimensions %dx%d outside [%d, %d]",
			ErrInvalidGrid, rows, cols, MinGridSize, MaxGridSize)
	}

	labels := make([][]Label, rows)
	for r := range labels {
		labels[r] = make([]Label, cols)
		for c := range labels[r] {
			labels[r][c] = Open
		}
	}
	return &Grid{Rows: rows, Cols: cols, Labels: labels}, nil
}

// InBounds reports whether c lies inside the grid
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// Label returns the label at c. Out of range cells read as Blocked.
func (g *Grid) Label(c Cell) Label {
	if !g.InBounds(c) {
		return Blocked
	}
	return g.Labels[c.Row][c.Col]
}

// Set assigns a label to c
func (g *Grid) Set(c Cell, l Label) error {
	if !g.InBounds(c) {
		return fmt.Errorf("cell %s out of bounds for %dx%d grid", c, g.Rows, g.Cols)
	}
	if !l.Valid() {
		return fmt.Errorf("%w: unknown label %q", ErrInvalidGrid, l)
	}
	g.Labels[c.Row][c.Col] = l
	return nil
}

// Clone returns a deep copy that shares nothing with g
func (g *Grid) Clone() *Grid {
	labels := make([][]Label, len(g.Labels))
	for r, row := range g.Labels {
		labels[r] = append([]Label(nil), row...)
	}
	return &Grid{Rows: g.Rows, Cols: g.Cols, Labels: labels}
}

// Cells returns every coordinate in row-major order
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.Rows*g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

// index is the row-major position of c, used as the tie-break key
func (g *Grid) index(c Cell) int {
	return c.Row*g.Cols + c.Col
}

// Validate checks the structural invariants of the grid: dimensions in range,
// every row the declared width, every label in the defined set, and at most
// one start and one end.
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: grid is nil", ErrInvalidGrid)
	}
	if g.Rows < MinGridSize || g.Rows > MaxGridSize || g.Cols < MinGridSize || g.Cols > MaxGridSize {
		return fmt.Errorf("%w: dimensions %dx%d outside [%d, %d]",
			ErrInvalidGrid, g.Rows, g.Cols, MinGridSize, MaxGridSize)
	}
	if len(g.Labels) != g.Rows {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidGrid, g.Rows, len(g.Labels))
	}

	starts, ends := 0, 0
	for r, row := range g.Labels {
		if len(row) != g.Cols {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidGrid, r, len(row), g.Cols)
		}
		for c, l := range row {
			switch l {
			case Start:
				starts++
			case End:
				ends++
			case Open, Blocked:
			default:
				return fmt.Errorf("%w: invalid label %q at (%d,%d)", ErrInvalidGrid, l, r, c)
			}
		}
	}

	if starts > 1 {
		return fmt.Errorf("%w: %d start cells, at most one allowed", ErrInvalidGrid, starts)
	}
	if ends > 1 {
		return fmt.Errorf("%w: %d end cells, at most one allowed", ErrInvalidGrid, ends)
	}
	return nil
}

// Endpoints locates the start and end cells. The grid must already be valid.
func (g *Grid) Endpoints() (start, end Cell, err error) {
	var hasStart, hasEnd bool
	for r, row := range g.Labels {
		for c, l := range row {
			switch l {
			case Start:
				start, hasStart = Cell{Row: r, Col: c}, true
			case End:
				end, hasEnd = Cell{Row: r, Col: c}, true
			}
		}
	}

	switch {
	case !hasStart && !hasEnd:
		return start, end, fmt.Errorf("%w: no start and no end cell", ErrMissingEndpoints)
	case !hasStart:
		return start, end, fmt.Errorf("%w: no start cell", ErrMissingEndpoints)
	case !hasEnd:
		return start, end, fmt.Errorf("%w: no end cell", ErrMissingEndpoints)
	}
	return start, end, nil
}

// Count returns how many cells carry label l
func (g *Grid) Count(l Label) int {
	count := 0
	for _, row := range g.Labels {
		for _, cell := range row {
			if cell == l {
				count++
			}
		}
	}
	return count
}

// Edge is a directed connection between two 4-adjacent cells
type Edge struct {
	From   Cell
	To     Cell
	Weight float64
}

// Passable reports whether the edge can be used by a path
func (e Edge) Passable() bool {
	return !math.IsInf(e.Weight, 1)
}

// Path is the ordered sequence of cells from start to end inclusive
type Path []Cell

// Len returns the number of steps (edges) in the path
func (p Path) Len() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Step annotates an interior path cell with the direction to the next cell
type Step struct {
	Cell      Cell      `json:"cell"`
	Direction Direction `json:"direction"`
}

// Result is the outcome of a successful ComputePath call
type Result struct {
	Start    Cell   `json:"start"`
	End      Cell   `json:"end"`
	Path     Path   `json:"path"`
	Steps    []Step `json:"steps"`
	Length   int    `json:"length"`
	Expanded int    `json:"expanded"`
}
