package apply

import (
	"errors"
	"fmt"
	"strings"
)

// ProtectedError is returned by Destroy when the graph contains protected
// nodes. Nothing is deleted.
type ProtectedError struct {
	Nodes []string
}

func (e *ProtectedError) Error() string {
	return fmt.Sprintf("refusing to destroy protected resources: %s (set protect: false and apply first)", strings.Join(e.Nodes, ", "))
}

// IsProtected reports whether err is or wraps a *ProtectedError.
func IsProtected(err error) bool {
	var pe *ProtectedError
	return errors.As(err, &pe)
}

// MissingAPIError is returned when the cluster does not serve a kind the
// graph needs, typically the cert-manager Certificate CRD.
type MissingAPIError struct {
	GroupVersion string
	Kind         string
}

func (e *MissingAPIError) Error() string {
	return fmt.Sprintf("cluster does not serve %s %s", e.GroupVersion, e.Kind)
}
