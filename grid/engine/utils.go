package engine

// ManhattanDistance calculates the Manhattan distance between two cells
func ManhattanDistance(from, to Cell) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// NextLabel returns the label a cell takes when clicked: open -> start ->
// blocked -> end -> open. Unknown labels restart the cycle at open.
func NextLabel(l Label) Label {
	switch l {
	case Open:
		return Start
	case Start:
		return Blocked
	case Blocked:
		return End
	default:
		return Open
	}
}

// StepCounts returns the fewest number of steps from src to every reachable
// cell using breadth-first search over the same passability rules as
// BuildGraph. Unreachable cells are absent from the map. The neighbor list is
// spelled out here rather than shared with BuildGraph so the two can check
// each other.
func StepCounts(g *Grid, src Cell) map[Cell]int {
	if !g.InBounds(src) {
		return map[Cell]int{}
	}
	dist := map[Cell]int{src: 0}

	queue := []Cell{src}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if g.Label(current) == Blocked {
			continue
		}
		r, c := current.Row, current.Col
		for _, next := range [4]Cell{{r - 1, c}, {r, c + 1}, {r + 1, c}, {r, c - 1}} {
			if !g.InBounds(next) {
				continue
			}
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// ReachableOpenCells counts the non-blocked cells reachable from src
func ReachableOpenCells(g *Grid, src Cell) int {
	count := 0
	for c := range StepCounts(g, src) {
		if g.Label(c) != Blocked {
			count++
		}
	}
	return count
}
