package engine

import "fmt"

// ComputePath is the single entry point of the pathfinding core. It validates
// the grid, locates the endpoints, builds the weighted graph, runs Dijkstra
// and annotates the interior of the resulting path.
//
// The grid is only read; callers that keep editing a grid should pass a
// snapshot (see Board.Snapshot).
func ComputePath(g *Grid) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	start, end, err := g.Endpoints()
	if err != nil {
		return nil, err
	}

	graph, err := BuildGraph(g)
	if err != nil {
		return nil, err
	}

	path, expanded, err := ShortestPath(graph, start, end)
	if err != nil {
		return nil, err
	}

	if err := checkPath(g, path, start, end); err != nil {
		return nil, err
	}

	steps, err := Annotate(path)
	if err != nil {
		return nil, err
	}

	return &Result{
		Start:    start,
		End:      end,
		Path:     path,
		Steps:    steps,
		Length:   path.Len(),
		Expanded: expanded,
	}, nil
}

// checkPath verifies the path runs start -> end and never leaves a blocked cell
func checkPath(g *Grid, path Path, start, end Cell) error {
	if len(path) == 0 || path[0] != start || path[len(path)-1] != end {
		return fmt.Errorf("%w: path does not run from %s to %s", ErrCorruptPath, start, end)
	}
	for i := 0; i < len(path)-1; i++ {
		if g.Label(path[i]) == Blocked {
			return fmt.Errorf("%w: path leaves blocked cell %s", ErrCorruptPath, path[i])
		}
	}
	return nil
}
