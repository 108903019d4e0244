package engine

import (
	"errors"
	"math"
	"testing"
)

func TestBuildGraph_EdgeCount(t *testing.T) {
	tests := []struct {
		rows, cols int
		expected   int
	}{
		{1, 1, 0},
		{1, 2, 2},
		{2, 2, 8},
		{3, 3, 24},
		{9, 16, 2 * (9*15 + 8*16)},
	}

	for _, tt := range tests {
		grid, err := NewGrid(tt.rows, tt.cols)
		if err != nil {
			t.Fatalf("NewGrid(%d,%d): %v", tt.rows, tt.cols, err)
		}
		graph, err := BuildGraph(grid)
		if err != nil {
			t.Fatalf("BuildGraph failed: %v", err)
		}
		if got := graph.EdgeCount(); got != tt.expected {
			t.Errorf("%dx%d: expected %d edges, got %d", tt.rows, tt.cols, tt.expected, got)
		}
		if got := len(graph.Edges()); got != tt.expected {
			t.Errorf("%dx%d: Edges() returned %d, expected %d", tt.rows, tt.cols, got, tt.expected)
		}
	}
}

func TestBuildGraph_NeighborOrder(t *testing.T) {
	grid, _ := NewGrid(3, 3)
	graph, err := BuildGraph(grid)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	center := Cell{1, 1}
	want := []Cell{{0, 1}, {1, 2}, {2, 1}, {1, 0}}
	got := graph.Neighbors(center)
	if len(got) != len(want) {
		t.Fatalf("Expected %d neighbors, got %d", len(want), len(got))
	}
	for i, e := range got {
		if e.From != center || e.To != want[i] {
			t.Errorf("Neighbor %d: expected %v->%v, got %v->%v", i, center, want[i], e.From, e.To)
		}
	}

	corner := graph.Neighbors(Cell{0, 0})
	if len(corner) != 2 || corner[0].To != (Cell{0, 1}) || corner[1].To != (Cell{1, 0}) {
		t.Errorf("Unexpected corner neighbors %v", corner)
	}
}

func TestBuildGraph_NoDiagonalsSelfLoopsOrWraparound(t *testing.T) {
	grid, _ := NewGrid(4, 5)
	graph, _ := BuildGraph(grid)

	for _, e := range graph.Edges() {
		if e.From == e.To {
			t.Errorf("Self loop at %v", e.From)
		}
		if ManhattanDistance(e.From, e.To) != 1 {
			t.Errorf("Edge %v->%v is not 4-connected", e.From, e.To)
		}
		if !grid.InBounds(e.To) {
			t.Errorf("Edge %v->%v leaves the grid", e.From, e.To)
		}
	}
}

func TestBuildGraph_WeightFollowsSourceLabel(t *testing.T) {
	grid := mustParse(t,
		"S#.",
		"...",
		"..E",
	)
	graph, err := BuildGraph(grid)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	blocked := Cell{0, 1}
	for _, e := range graph.Neighbors(blocked) {
		if !math.IsInf(e.Weight, 1) || e.Passable() {
			t.Errorf("Edge leaving blocked cell %v->%v has weight %v", e.From, e.To, e.Weight)
		}
	}

	// Edges into the blocked cell keep the source's weight.
	w, ok := graph.Weight(Cell{0, 0}, blocked)
	if !ok || w != 1 {
		t.Errorf("Expected weight 1 into blocked cell, got %v (exists=%v)", w, ok)
	}

	if _, ok := graph.Weight(Cell{0, 0}, Cell{2, 2}); ok {
		t.Error("Non-adjacent cells must not share an edge")
	}
}

func TestBuildGraph_InvalidGrid(t *testing.T) {
	grid := mustParse(t, "S.", ".E")
	grid.Labels[0][1] = "lava"

	if _, err := BuildGraph(grid); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("Expected ErrInvalidGrid, got %v", err)
	}
}

func TestGraph_NeighborsOutOfRange(t *testing.T) {
	grid, _ := NewGrid(2, 2)
	graph, _ := BuildGraph(grid)

	if n := graph.Neighbors(Cell{5, 5}); n != nil {
		t.Errorf("Expected nil neighbors for out-of-range cell, got %v", n)
	}
	if graph.VertexCount() != 4 || graph.Rows() != 2 || graph.Cols() != 2 {
		t.Errorf("Unexpected graph dimensions %dx%d (%d vertices)", graph.Rows(), graph.Cols(), graph.VertexCount())
	}
}
