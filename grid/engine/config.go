package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Layout characters
const (
	OpenChar    = '.'
	StartChar   = 'S'
	EndChar     = 'E'
	BlockedChar = '#'
)

// BoardConfig describes a board layout stored as JSON
type BoardConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rows        int      `json:"rows"`
	Cols        int      `json:"cols"`
	Layout      []string `json:"layout,omitempty"`
}

// LabelForChar maps a layout character to its label
func LabelForChar(ch rune) (Label, bool) {
	switch ch {
	case OpenChar:
		return Open, true
	case StartChar:
		return Start, true
	case EndChar:
		return End, true
	case BlockedChar:
		return Blocked, true
	}
	return "", false
}

// CharForLabel maps a label to its layout character
func CharForLabel(l Label) byte {
	switch l {
	case Start:
		return StartChar
	case End:
		return EndChar
	case Blocked:
		return BlockedChar
	}
	return OpenChar
}

// ValidateBoardConfig validates a board configuration
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Rows < MinGridSize || config.Rows > MaxGridSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Rows)
	}
	if config.Cols < MinGridSize || config.Cols > MaxGridSize {
		return fmt.Errorf("config validation: cols must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Cols)
	}

	// An empty layout means an all-open board.
	if len(config.Layout) == 0 {
		return nil
	}

	if len(config.Layout) != config.Rows {
		return fmt.Errorf("config validation: layout must have %d rows to match rows, got %d",
			config.Rows, len(config.Layout))
	}

	starts, ends := 0, 0
	for i, row := range config.Layout {
		if len(row) != config.Cols {
			return fmt.Errorf("config validation: row %d must have %d characters to match cols, got %d",
				i+1, config.Cols, len(row))
		}
		for j, ch := range row {
			label, ok := LabelForChar(ch)
			if !ok {
				return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d", ch, i+1, j+1)
			}
			switch label {
			case Start:
				starts++
			case End:
				ends++
			}
		}
	}

	if starts > 1 {
		return fmt.Errorf("config validation: layout has %d start (S) cells, at most one allowed", starts)
	}
	if ends > 1 {
		return fmt.Errorf("config validation: layout has %d end (E) cells, at most one allowed", ends)
	}
	return nil
}

// ParseLayout converts layout strings into a grid. All rows must have the
// same width.
func ParseLayout(layout []string) (*Grid, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: layout is empty", ErrInvalidGrid)
	}

	grid, err := NewGrid(len(layout), len(layout[0]))
	if err != nil {
		return nil, err
	}

	for r, row := range layout {
		if len(row) != grid.Cols {
			return nil, fmt.Errorf("%w: row %d has %d characters, expected %d", ErrInvalidGrid, r, len(row), grid.Cols)
		}
		for c, ch := range row {
			label, ok := LabelForChar(ch)
			if !ok {
				return nil, fmt.Errorf("%w: invalid character '%c' at (%d,%d)", ErrInvalidGrid, ch, r, c)
			}
			grid.Labels[r][c] = label
		}
	}
	return grid, nil
}

// FormatLayout converts a grid back into layout strings
func FormatLayout(g *Grid) []string {
	layout := make([]string, len(g.Labels))
	for r, row := range g.Labels {
		var b strings.Builder
		b.Grow(len(row))
		for _, l := range row {
			b.WriteByte(CharForLabel(l))
		}
		layout[r] = b.String()
	}
	return layout
}

// NewGridFromConfig builds the initial grid of a configuration
func NewGridFromConfig(config *BoardConfig) (*Grid, error) {
	if config == nil {
		config = DefaultBoardConfig()
	}
	if len(config.Layout) == 0 {
		return NewGrid(config.Rows, config.Cols)
	}
	return ParseLayout(config.Layout)
}

// LoadBoardConfig loads and validates a board configuration from a JSON file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateBoardConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultBoardConfig returns an empty 9x16 board
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "default",
		Description: "Empty 9x16 board",
		Rows:        DefaultRows,
		Cols:        DefaultCols,
	}
}
