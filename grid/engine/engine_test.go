package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, layout ...string) *Grid {
	t.Helper()
	grid, err := ParseLayout(layout)
	if err != nil {
		t.Fatalf("ParseLayout(%v) failed: %v", layout, err)
	}
	return grid
}

func TestComputePath_OpenGrid(t *testing.T) {
	grid := mustParse(t,
		"S..",
		"...",
		"..E",
	)

	result, err := ComputePath(grid)
	if err != nil {
		t.Fatalf("ComputePath failed: %v", err)
	}

	if result.Length != 4 {
		t.Errorf("Expected length 4, got %d", result.Length)
	}

	wantPath := Path{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}}
	if diff := cmp.Diff(wantPath, result.Path); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}

	wantSteps := []Step{
		{Cell: Cell{0, 1}, Direction: Right},
		{Cell: Cell{0, 2}, Direction: Down},
		{Cell: Cell{1, 2}, Direction: Down},
	}
	if diff := cmp.Diff(wantSteps, result.Steps); diff != "" {
		t.Errorf("Steps mismatch (-want +got):\n%s", diff)
	}

	if result.Start != (Cell{0, 0}) || result.End != (Cell{2, 2}) {
		t.Errorf("Unexpected endpoints %v -> %v", result.Start, result.End)
	}
}

func TestComputePath_CenterBlocked(t *testing.T) {
	grid := mustParse(t,
		"S..",
		".#.",
		"..E",
	)

	result, err := ComputePath(grid)
	if err != nil {
		t.Fatalf("ComputePath failed: %v", err)
	}
	if result.Length != 4 {
		t.Errorf("Expected length 4, got %d", result.Length)
	}
	for _, c := range result.Path {
		if c == (Cell{1, 1}) {
			t.Errorf("Path passes through blocked cell %v", c)
		}
	}
}

func TestComputePath_WallBlocksPath(t *testing.T) {
	grid := mustParse(t,
		"S..",
		"###",
		"..E",
	)

	result, err := ComputePath(grid)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got result=%v err=%v", result, err)
	}
	if result != nil {
		t.Errorf("Expected nil result, got %+v", result)
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("Expected kind %q, got %q", KindNotFound, KindOf(err))
	}
}

func TestComputePath_MissingEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
	}{
		{"no start", []string{"...", ".E.", "..."}},
		{"no end", []string{"S..", "...", "..."}},
		{"neither", []string{"...", ".#.", "..."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputePath(mustParse(t, tt.layout...))
			if !errors.Is(err, ErrMissingEndpoints) {
				t.Fatalf("Expected ErrMissingEndpoints, got %v", err)
			}
			if result != nil {
				t.Errorf("Expected no result, got %+v", result)
			}
			if got := UserMessage(err); got != "Please select both start and end nodes to proceed." {
				t.Errorf("Unexpected user message %q", got)
			}
		})
	}
}

func TestComputePath_InvalidGrid(t *testing.T) {
	twoStarts := mustParse(t, "S.S", "...", "..E")

	ragged := mustParse(t, "S..", "...", "..E")
	ragged.Labels[1] = ragged.Labels[1][:2]

	badLabel := mustParse(t, "S..", "...", "..E")
	badLabel.Labels[1][1] = Label("water")

	wrongRows := mustParse(t, "S..", "...", "..E")
	wrongRows.Rows = 4

	tests := []struct {
		name string
		grid *Grid
	}{
		{"two starts", twoStarts},
		{"ragged row", ragged},
		{"unknown label", badLabel},
		{"row count mismatch", wrongRows},
		{"nil grid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePath(tt.grid)
			if !errors.Is(err, ErrInvalidGrid) {
				t.Fatalf("Expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestComputePath_StartEqualsNeighborOfEnd(t *testing.T) {
	result, err := ComputePath(mustParse(t, "SE"))
	if err != nil {
		t.Fatalf("ComputePath failed: %v", err)
	}
	if result.Length != 1 {
		t.Errorf("Expected length 1, got %d", result.Length)
	}
	if len(result.Steps) != 0 {
		t.Errorf("Two-cell path must have no interior steps, got %v", result.Steps)
	}
}

func TestComputePath_DoesNotMutateGrid(t *testing.T) {
	grid := mustParse(t,
		"S.#.",
		"..#.",
		"...E",
	)
	before := grid.Clone()

	if _, err := ComputePath(grid); err != nil {
		t.Fatalf("ComputePath failed: %v", err)
	}
	if diff := cmp.Diff(before, grid); diff != "" {
		t.Errorf("Grid mutated (-before +after):\n%s", diff)
	}
}

func TestComputePath_Deterministic(t *testing.T) {
	grid := mustParse(t,
		"S.......",
		"..#..#..",
		"..#..#..",
		"........",
		"...##..E",
	)

	first, err := ComputePath(grid)
	if err != nil {
		t.Fatalf("ComputePath failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		again, err := ComputePath(grid)
		if err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestComputePath_DetourAroundWall(t *testing.T) {
	grid := mustParse(t,
		"S#...",
		".#.#.",
		".#.#.",
		"...#E",
	)

	result, err := ComputePath(grid)
	if err != nil {
		t.Fatalf("ComputePath failed: %v", err)
	}

	// down 3, right 2, up 3, right 2, down 3
	if result.Length != 13 {
		t.Errorf("Expected length 13, got %d (path %v)", result.Length, result.Path)
	}
	assertValidPath(t, grid, result)
}

// assertValidPath checks adjacency, passability and annotation completeness
func assertValidPath(t *testing.T, grid *Grid, result *Result) {
	t.Helper()

	path := result.Path
	if len(path) == 0 {
		t.Fatal("Empty path")
	}
	if grid.Label(path[0]) != Start || grid.Label(path[len(path)-1]) != End {
		t.Errorf("Path does not run start to end: %v", path)
	}

	for i := 0; i < len(path)-1; i++ {
		if ManhattanDistance(path[i], path[i+1]) != 1 {
			t.Errorf("Cells %v and %v are not 4-connected", path[i], path[i+1])
		}
		if grid.Label(path[i]) == Blocked {
			t.Errorf("Path leaves blocked cell %v", path[i])
		}
	}

	wantSteps := len(path) - 2
	if wantSteps < 0 {
		wantSteps = 0
	}
	if len(result.Steps) != wantSteps {
		t.Fatalf("Expected %d steps for %d-cell path, got %d", wantSteps, len(path), len(result.Steps))
	}
	for i, step := range result.Steps {
		cur, next := path[i+1], path[i+2]
		if step.Cell != cur {
			t.Errorf("Step %d annotates %v, expected %v", i, step.Cell, cur)
		}
		var want Direction
		switch {
		case next.Col == cur.Col+1:
			want = Right
		case next.Col == cur.Col-1:
			want = Left
		case next.Row == cur.Row+1:
			want = Down
		case next.Row == cur.Row-1:
			want = Up
		}
		if step.Direction != want {
			t.Errorf("Step %d at %v: expected %s, got %s", i, cur, want, step.Direction)
		}
	}
}
