package graph

import (
	"errors"
	"fmt"
)

// GraphIntegrityError reports a graph that cannot be applied safely: a
// dependency on a node that is not part of the graph, a duplicate node or a
// cycle. It signals a programming error rather than bad input.
type GraphIntegrityError struct {
	Reason string
	Err    error
}

func (e *GraphIntegrityError) Error() string {
	if e.Err == nil {
		return "graph integrity violated: " + e.Reason
	}
	return fmt.Sprintf("graph integrity violated: %s: %v", e.Reason, e.Err)
}

func (e *GraphIntegrityError) Unwrap() error { return e.Err }

// IsGraphIntegrityError reports whether err (or any error in its chain) is a
// GraphIntegrityError.
func IsGraphIntegrityError(err error) bool {
	var ge *GraphIntegrityError
	return errors.As(err, &ge)
}

func integrityf(format string, a ...any) error {
	return &GraphIntegrityError{Reason: fmt.Sprintf(format, a...)}
}
