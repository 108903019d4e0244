package engine

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// randomGrid places start, end and roughly density*cells obstacles
func randomGrid(r *rand.Rand, rows, cols int, density float64) *Grid {
	grid, _ := NewGrid(rows, cols)
	for _, c := range grid.Cells() {
		if r.Float64() < density {
			grid.Labels[c.Row][c.Col] = Blocked
		}
	}

	start := Cell{Row: r.Intn(rows), Col: r.Intn(cols)}
	end := start
	for end == start && rows*cols > 1 {
		end = Cell{Row: r.Intn(rows), Col: r.Intn(cols)}
	}
	grid.Labels[start.Row][start.Col] = Start
	grid.Labels[end.Row][end.Col] = End
	return grid
}

// gonumDistance runs gonum's Dijkstra over the passable edges of grid
func gonumDistance(grid *Grid, start, end Cell) float64 {
	built, err := BuildGraph(grid)
	if err != nil {
		return math.Inf(1)
	}

	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for _, c := range grid.Cells() {
		g.AddNode(simple.Node(grid.index(c)))
	}
	for _, e := range built.Edges() {
		if !e.Passable() {
			continue
		}
		from := simple.Node(grid.index(e.From))
		to := simple.Node(grid.index(e.To))
		g.SetWeightedEdge(g.NewWeightedEdge(from, to, e.Weight))
	}

	shortest := path.DijkstraFrom(simple.Node(grid.index(start)), g)
	return shortest.WeightTo(int64(grid.index(end)))
}

func TestComputePath_MatchesBreadthFirstSearch(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		grid := randomGrid(r, 2+r.Intn(10), 2+r.Intn(14), 0.3)
		start, end, err := grid.Endpoints()
		if err != nil {
			t.Fatalf("grid %d: endpoints: %v", i, err)
		}

		steps, reachable := StepCounts(grid, start)[end]
		result, err := ComputePath(grid)

		if !reachable {
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("grid %d: BFS says unreachable, ComputePath returned %v\n%s", i, err, FormatLayout(grid))
			}
			continue
		}
		if err != nil {
			t.Fatalf("grid %d: ComputePath failed: %v\n%v", i, err, FormatLayout(grid))
		}
		if result.Length != steps {
			t.Fatalf("grid %d: length %d, BFS minimum %d\n%v", i, result.Length, steps, FormatLayout(grid))
		}
		assertValidPath(t, grid, result)
	}
}

func TestComputePath_MatchesGonumDijkstra(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		grid := randomGrid(r, 3+r.Intn(8), 3+r.Intn(8), 0.25)
		start, end, _ := grid.Endpoints()

		want := gonumDistance(grid, start, end)
		result, err := ComputePath(grid)

		if math.IsInf(want, 1) {
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("grid %d: gonum found no path, got %v", i, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("grid %d: ComputePath failed: %v", i, err)
		}
		if float64(result.Length) != want {
			t.Fatalf("grid %d: length %d, gonum %v\n%v", i, result.Length, want, FormatLayout(grid))
		}
	}
}

func TestComputePath_NeverCorrupt(t *testing.T) {
	r := rand.New(rand.NewSource(99))

	for i := 0; i < 300; i++ {
		grid := randomGrid(r, 1+r.Intn(12), 2+r.Intn(12), r.Float64()*0.5)
		_, err := ComputePath(grid)
		if errors.Is(err, ErrCorruptPath) {
			t.Fatalf("grid %d: corrupt path reported: %v\n%v", i, err, FormatLayout(grid))
		}
	}
}
