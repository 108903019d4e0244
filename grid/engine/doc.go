// Package engine provides the pathfinding core of the grid pathfinder.
//
// The engine package implements:
//   - The grid model: cells, labels (open, start, end, blocked) and validation
//   - Graph construction over 4-connected neighbors
//   - Dijkstra shortest-path search with a deterministic tie-break
//   - Annotation of interior path cells with movement directions
//   - Board state and layout configuration used by the session layer
//
// Core Types:
//
// Grid is an immutable-per-call snapshot of cell labels. BuildGraph turns it
// into a Graph whose edges leaving a blocked cell are Impassable. ShortestPath
// returns a Path, and Annotate turns the interior of that path into Steps.
// ComputePath composes all four stages.
//
// Usage:
//
//	grid, err := engine.ParseLayout([]string{
//		"S..",
//		"###",
//		"..E",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := engine.ComputePath(grid)
//	switch engine.KindOf(err) {
//	case engine.KindNone:
//		fmt.Println(result.Length, result.Steps)
//	case engine.KindNotFound:
//		fmt.Println(engine.UserMessage(err))
//	}
//
// Determinism:
//
// Neighbors are discovered in the order up, right, down, left. When several
// frontier cells share the smallest tentative distance, the one with the
// lowest row-major index is extracted first, and predecessors only change on
// strict improvement. The same grid therefore always yields the same path.
//
// Errors:
//
// Failures are returned as wrapped sentinels: ErrMissingEndpoints,
// ErrNotFound, ErrInvalidGrid and ErrCorruptPath. KindOf maps them to stable
// machine-readable names and UserMessage to text for the user.
package engine
