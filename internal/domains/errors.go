package domains

import (
	"errors"
	"fmt"
)

// AmbiguousRouteError reports a host that would have to route to more than
// one backend port.
type AmbiguousRouteError struct {
	Host  string
	Ports []int32
}

func (e *AmbiguousRouteError) Error() string {
	return fmt.Sprintf("ambiguous route: host %q maps to ports %v", e.Host, e.Ports)
}

// IsAmbiguousRoute reports whether err (or any error in its chain) is an
// AmbiguousRouteError.
func IsAmbiguousRoute(err error) bool {
	var are *AmbiguousRouteError
	return errors.As(err, &are)
}
