package engine

import (
	"container/heap"
	"fmt"
)

// frontierItem is a tentative distance for a cell in the frontier
type frontierItem struct {
	cell         Cell
	distance     float64
	order        int // row-major index, the secondary key
	indexInQueue int
}

// frontier is a min-heap on (distance, row-major order)
type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].distance != f[j].distance {
		return f[i].distance < f[j].distance
	}
	return f[i].order < f[j].order
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].indexInQueue = i
	f[j].indexInQueue = j
}

func (f *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.indexInQueue = len(*f)
	*f = append(*f, item)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra from start to end over graph and returns the path
// together with the number of cells extracted from the frontier.
//
// Cells with equal tentative distance are extracted in row-major order, and
// a predecessor is replaced only on strict improvement, so the chosen path is
// the same on every call for the same graph.
func ShortestPath(graph *Graph, start, end Cell) (Path, int, error) {
	if graph == nil {
		return nil, 0, fmt.Errorf("%w: nil graph", ErrInvalidGrid)
	}
	if !graph.Contains(start) || !graph.Contains(end) {
		return nil, 0, fmt.Errorf("%w: endpoints %s -> %s outside %dx%d graph",
			ErrInvalidGrid, start, end, graph.rows, graph.cols)
	}

	if start == end {
		return Path{start}, 1, nil
	}

	distance := map[Cell]float64{start: 0}
	cameFrom := make(map[Cell]Cell)
	visited := make(map[Cell]bool)
	inQueue := make(map[Cell]*frontierItem)

	open := make(frontier, 0, graph.VertexCount())
	heap.Init(&open)
	startItem := &frontierItem{cell: start, distance: 0, order: graph.index(start)}
	heap.Push(&open, startItem)
	inQueue[start] = startItem

	expanded := 0
	for open.Len() > 0 {
		current := heap.Pop(&open).(*frontierItem)
		delete(inQueue, current.cell)
		if visited[current.cell] {
			continue
		}
		visited[current.cell] = true
		expanded++

		if current.cell == end {
			return reconstructPath(cameFrom, start, end), expanded, nil
		}

		for _, edge := range graph.Neighbors(current.cell) {
			if !edge.Passable() || visited[edge.To] {
				continue
			}

			tentative := current.distance + edge.Weight
			if known, ok := distance[edge.To]; ok && tentative >= known {
				continue
			}

			distance[edge.To] = tentative
			cameFrom[edge.To] = current.cell
			if item, ok := inQueue[edge.To]; ok {
				item.distance = tentative
				heap.Fix(&open, item.indexInQueue)
				continue
			}
			item := &frontierItem{cell: edge.To, distance: tentative, order: graph.index(edge.To)}
			heap.Push(&open, item)
			inQueue[edge.To] = item
		}
	}

	return nil, expanded, fmt.Errorf("%w: %s is unreachable from %s", ErrNotFound, end, start)
}

// reconstructPath follows predecessors from end back to start, then reverses
func reconstructPath(cameFrom map[Cell]Cell, start, end Cell) Path {
	path := Path{end}
	for current := end; current != start; {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
