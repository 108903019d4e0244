package engine

import "errors"

var (
	ErrMissingEndpoints = errors.New("missing endpoints")
	ErrNotFound         = errors.New("no path found")
	ErrInvalidGrid      = errors.New("invalid grid")
	ErrCorruptPath      = errors.New("corrupt path")
)

// ErrorKind is the machine-friendly name of a pathfinding failure
type ErrorKind string

const (
	KindNone             ErrorKind = ""
	KindMissingEndpoints ErrorKind = "missing_endpoints"
	KindNotFound         ErrorKind = "not_found"
	KindInvalidGrid      ErrorKind = "invalid_grid"
	KindCorruptPath      ErrorKind = "corrupt_path"
)

// KindOf classifies err into one of the pathfinding error kinds.
// Errors outside the taxonomy return KindNone.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMissingEndpoints):
		return KindMissingEndpoints
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidGrid):
		return KindInvalidGrid
	case errors.Is(err, ErrCorruptPath):
		return KindCorruptPath
	}
	return KindNone
}

// UserMessage returns the text shown to a user for a pathfinding error
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindNone:
		if err == nil {
			return ""
		}
		return err.Error()
	case KindMissingEndpoints:
		return "Please select both start and end nodes to proceed."
	case KindNotFound:
		return "No path found."
	case KindInvalidGrid:
		return "The board is not valid: " + err.Error()
	}
	return "Internal error while computing the path."
}
