package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBoard(t *testing.T) {
	board, err := NewBoard(nil)
	if err != nil {
		t.Fatalf("NewBoard(nil) failed: %v", err)
	}
	if board.Grid.Rows != DefaultRows || board.Grid.Cols != DefaultCols {
		t.Errorf("Expected default dimensions, got %dx%d", board.Grid.Rows, board.Grid.Cols)
	}
	if board.ConfigName != "default" {
		t.Errorf("Expected config name 'default', got %q", board.ConfigName)
	}

	if _, err := NewBoard(&BoardConfig{Name: "x"}); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestBoard_CycleCell(t *testing.T) {
	board, _ := NewBoard(&BoardConfig{Name: "t", Description: "t", Rows: 2, Cols: 2})
	c := Cell{0, 0}

	want := []Label{Start, Blocked, End, Open, Start}
	for i, w := range want {
		got, err := board.CycleCell(c)
		if err != nil {
			t.Fatalf("cycle %d failed: %v", i, err)
		}
		if got != w {
			t.Errorf("cycle %d: expected %s, got %s", i, w, got)
		}
	}
	if board.Edits != len(want) {
		t.Errorf("Expected %d edits, got %d", len(want), board.Edits)
	}

	if _, err := board.CycleCell(Cell{9, 9}); err == nil {
		t.Error("Expected error cycling out-of-bounds cell")
	}
}

func TestBoard_FindPathAndClear(t *testing.T) {
	board, _ := NewBoard(&BoardConfig{
		Name: "t", Description: "t", Rows: 3, Cols: 3,
		Layout: []string{"S..", ".#.", "..E"},
	})

	result, err := board.FindPath()
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	if !board.HasPath || board.PathLength != result.Length || len(board.Overlay) != len(result.Steps) {
		t.Errorf("Overlay not stored: %+v", board)
	}
	if dir, ok := board.OverlayAt(Cell{0, 1}); !ok || dir != Right {
		t.Errorf("Expected Right at (0,1), got %q (%v)", dir, ok)
	}

	rendered := board.Render()
	if rendered != "S>v\n.#v\n..E\n" {
		t.Errorf("Unexpected rendering:\n%s", rendered)
	}

	board.ClearPath()
	if board.HasPath || len(board.Overlay) != 0 {
		t.Error("ClearPath did not remove overlay")
	}
	if board.Grid.Label(Cell{1, 1}) != Blocked {
		t.Error("ClearPath must keep labels")
	}

	board.ClearBoard()
	if board.Grid.Count(Open) != 9 {
		t.Errorf("ClearBoard left %d non-open cells", 9-board.Grid.Count(Open))
	}
}

func TestBoard_FindPathFailureSetsMessage(t *testing.T) {
	board, _ := NewBoard(&BoardConfig{Name: "t", Description: "t", Rows: 2, Cols: 3})

	if _, err := board.FindPath(); !errors.Is(err, ErrMissingEndpoints) {
		t.Fatalf("Expected ErrMissingEndpoints, got %v", err)
	}
	if !strings.Contains(board.Message, "start and end") {
		t.Errorf("Unexpected message %q", board.Message)
	}

	board.SetCell(Cell{0, 0}, Start)
	board.SetCell(Cell{1, 2}, End)
	board.SetCell(Cell{0, 1}, Blocked)
	board.SetCell(Cell{1, 1}, Blocked)

	if _, err := board.FindPath(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if board.Message != "No path found." {
		t.Errorf("Unexpected message %q", board.Message)
	}
	if board.Searches != 2 {
		t.Errorf("Expected 2 searches, got %d", board.Searches)
	}
}

func TestBoard_EditClearsOverlay(t *testing.T) {
	board, _ := NewBoard(&BoardConfig{
		Name: "t", Description: "t", Rows: 1, Cols: 4,
		Layout: []string{"S..E"},
	})
	if _, err := board.FindPath(); err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}

	if err := board.SetCell(Cell{0, 1}, Blocked); err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}
	if board.HasPath {
		t.Error("Editing a cell must clear the displayed path")
	}
}

func TestBoard_SnapshotIsIndependent(t *testing.T) {
	board, _ := NewBoard(nil)
	snap := board.Snapshot()
	board.SetCell(Cell{0, 0}, Blocked)

	if snap.Label(Cell{0, 0}) != Open {
		t.Error("Snapshot changed after board edit")
	}
}
