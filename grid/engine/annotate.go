package engine

import "fmt"

// DirectionBetween returns the direction of a single step from -> to.
// The two cells must be 4-adjacent.
func DirectionBetween(from, to Cell) (Direction, error) {
	if ManhattanDistance(from, to) != 1 {
		return "", fmt.Errorf("%w: %s -> %s is not a 4-connected step", ErrCorruptPath, from, to)
	}

	switch {
	case to.Col == from.Col+1:
		return Right, nil
	case to.Col == from.Col-1:
		return Left, nil
	case to.Row == from.Row+1:
		return Down, nil
	default:
		return Up, nil
	}
}

// Annotate assigns a direction to every interior cell of p, pointing at the
// next cell. The first and last cells get no annotation, so paths of one or
// two cells produce no steps.
func Annotate(p Path) ([]Step, error) {
	if len(p) <= 2 {
		return []Step{}, nil
	}

	steps := make([]Step, 0, len(p)-2)
	for i := 1; i < len(p)-1; i++ {
		dir, err := DirectionBetween(p[i], p[i+1])
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, Step{Cell: p[i], Direction: dir})
	}

	// The first edge is not annotated but must still be a valid step.
	if _, err := DirectionBetween(p[0], p[1]); err != nil {
		return nil, fmt.Errorf("step 0: %w", err)
	}

	return steps, nil
}

// Arrow returns the single-character marker used when rendering a direction
func (d Direction) Arrow() string {
	switch d {
	case Up:
		return "^"
	case Down:
		return "v"
	case Left:
		return "<"
	case Right:
		return ">"
	}
	return "?"
}
