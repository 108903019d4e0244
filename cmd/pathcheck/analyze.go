package main

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
)

// Analysis summarises one board
type Analysis struct {
	Rows, Cols int
	Open       int // every non-blocked cell, endpoints included
	Blocked    int

	Start, End       engine.Cell
	HasStart, HasEnd bool

	// Regions of non-blocked cells joined by 4-directional moves
	Components int
	Largest    int
	Connected  bool // start and end share a region

	Outcome   engine.ErrorKind
	Length    int
	Expanded  int
	Manhattan int
}

// Found reports whether the pathfinder reached the end
func (a *Analysis) Found() bool {
	return a.HasStart && a.HasEnd && a.Outcome == engine.KindNone
}

// analyzeGrid computes connectivity with gonum and the shortest path with the engine
func analyzeGrid(grid *engine.Grid) *Analysis {
	a := &Analysis{Rows: grid.Rows, Cols: grid.Cols}

	id := func(c engine.Cell) int64 { return int64(c.Row*grid.Cols + c.Col) }

	g := simple.NewUndirectedGraph()
	for _, c := range grid.Cells() {
		switch grid.Label(c) {
		case engine.Blocked:
			a.Blocked++
			continue
		case engine.Start:
			a.Start, a.HasStart = c, true
		case engine.End:
			a.End, a.HasEnd = c, true
		}
		a.Open++
		g.AddNode(simple.Node(id(c)))
	}

	// Right and down neighbours cover every undirected edge once
	for _, c := range grid.Cells() {
		if grid.Label(c) == engine.Blocked {
			continue
		}
		for _, next := range []engine.Cell{{Row: c.Row, Col: c.Col + 1}, {Row: c.Row + 1, Col: c.Col}} {
			if grid.InBounds(next) && grid.Label(next) != engine.Blocked {
				g.SetEdge(g.NewEdge(simple.Node(id(c)), simple.Node(id(next))))
			}
		}
	}

	region := make(map[int64]int)
	components := topo.ConnectedComponents(g)
	a.Components = len(components)
	for i, component := range components {
		if len(component) > a.Largest {
			a.Largest = len(component)
		}
		for _, n := range component {
			region[n.ID()] = i
		}
	}

	if a.HasStart && a.HasEnd {
		a.Connected = region[id(a.Start)] == region[id(a.End)]
		a.Manhattan = engine.ManhattanDistance(a.Start, a.End)
	}

	result, err := engine.ComputePath(grid.Clone())
	if err != nil {
		a.Outcome = engine.KindOf(err)
		if a.Outcome == engine.KindNone {
			a.Outcome = engine.KindCorruptPath
		}
		return a
	}
	a.Length = result.Length
	a.Expanded = result.Expanded
	return a
}

func writeAnalysis(w io.Writer, name string, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", name)
	fmt.Fprintf(w, "Grid: %d x %d (%d open, %d blocked)\n", a.Rows, a.Cols, a.Open, a.Blocked)
	fmt.Fprintf(w, "Regions: %d (largest %d cells)\n", a.Components, a.Largest)

	if a.HasStart {
		fmt.Fprintf(w, "Start: %s\n", a.Start)
	} else {
		fmt.Fprintln(w, "Start: none")
	}
	if a.HasEnd {
		fmt.Fprintf(w, "End: %s\n", a.End)
	} else {
		fmt.Fprintln(w, "End: none")
	}

	if a.Found() {
		fmt.Fprintf(w, "Shortest path: %d steps (Manhattan %d, detour %d, %d cells expanded)\n",
			a.Length, a.Manhattan, a.Length-a.Manhattan, a.Expanded)
	} else {
		fmt.Fprintf(w, "Shortest path: none (%s)\n", a.Outcome)
	}

	if a.HasStart && a.HasEnd && a.Connected != a.Found() {
		fmt.Fprintln(w, "⚠️  connectivity and pathfinder disagree")
	}
}
