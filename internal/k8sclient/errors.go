package k8sclient

import (
	"errors"
	"fmt"
)

// MappingError is returned when the cluster does not serve an object's kind,
// typically because its CRD is not installed.
type MappingError struct {
	GVK string
	Err error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("failed to get REST mapping for %s: %v", e.GVK, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// IsMappingError reports whether err is or wraps a *MappingError.
func IsMappingError(err error) bool {
	var me *MappingError
	return errors.As(err, &me)
}
