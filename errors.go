package dbscan

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched (via errors.Is) by every error reporting
// malformed input to the clustering functions.
var ErrInvalidArgument = errors.New("dbscan: invalid argument")

// ArgumentError describes which argument failed validation.
type ArgumentError struct {
	// Arg names the offending argument or config field, e.g. "Epsilon".
	Arg string
	// Reason is a human-readable description of the violated precondition.
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("dbscan: invalid %s: %s", e.Arg, e.Reason)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgument(arg, format string, args ...any) error {
	return &ArgumentError{Arg: arg, Reason: fmt.Sprintf(format, args...)}
}
