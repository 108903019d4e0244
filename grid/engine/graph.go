package engine

// neighborOffsets fixes the discovery order of 4-connected neighbors:
// up, right, down, left. The shortest-path tie-break depends on it.
var neighborOffsets = []struct {
	dRow, dCol int
}{
	{-1, 0}, // up
	{0, 1},  // right
	{1, 0},  // down
	{0, -1}, // left
}

// Graph is a directed, weighted graph over the cells of a grid.
// Adjacency lists are indexed by the row-major position of the source cell.
type Graph struct {
	rows, cols int
	adj        [][]Edge
}

// BuildGraph converts a grid into its weighted directed graph. Every cell gets
// an edge to each in-bounds 4-neighbor; the weight is Impassable when the
// source cell is blocked and 1 otherwise.
func BuildGraph(g *Grid) (*Graph, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	graph := &Graph{
		rows: g.Rows,
		cols: g.Cols,
		adj:  make([][]Edge, g.Rows*g.Cols),
	}

	for _, from := range g.Cells() {
		weight := 1.0
		if g.Label(from) == Blocked {
			weight = Impassable
		}

		edges := make([]Edge, 0, len(neighborOffsets))
		for _, off := range neighborOffsets {
			to := Cell{Row: from.Row + off.dRow, Col: from.Col + off.dCol}
			if !g.InBounds(to) {
				continue
			}
			edges = append(edges, Edge{From: from, To: to, Weight: weight})
		}
		graph.adj[g.index(from)] = edges
	}

	return graph, nil
}

// Rows returns the row count of the source grid
func (gr *Graph) Rows() int { return gr.rows }

// Cols returns the column count of the source grid
func (gr *Graph) Cols() int { return gr.cols }

// Contains reports whether c is a vertex of the graph
func (gr *Graph) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < gr.rows && c.Col >= 0 && c.Col < gr.cols
}

// Neighbors returns the outgoing edges of c in discovery order
func (gr *Graph) Neighbors(c Cell) []Edge {
	if !gr.Contains(c) {
		return nil
	}
	return gr.adj[gr.index(c)]
}

// Weight returns the weight of the edge from -> to and whether it exists
func (gr *Graph) Weight(from, to Cell) (float64, bool) {
	for _, e := range gr.Neighbors(from) {
		if e.To == to {
			return e.Weight, true
		}
	}
	return 0, false
}

// Edges returns every edge, grouped by source in row-major order
func (gr *Graph) Edges() []Edge {
	edges := make([]Edge, 0, gr.EdgeCount())
	for _, list := range gr.adj {
		edges = append(edges, list...)
	}
	return edges
}

// EdgeCount returns the total number of directed edges
func (gr *Graph) EdgeCount() int {
	n := 0
	for _, list := range gr.adj {
		n += len(list)
	}
	return n
}

// VertexCount returns rows x cols
func (gr *Graph) VertexCount() int {
	return gr.rows * gr.cols
}

func (gr *Graph) index(c Cell) int {
	return c.Row*gr.cols + c.Col
}
