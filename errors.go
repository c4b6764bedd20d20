package multiview

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

// DegenerateGeometryError reports a point with no valid projection for a
// camera, typically because it lies behind or at the camera center. A
// CameraSet propagates it unmodified: the whole Project call is aborted and
// no partial output is usable.
type DegenerateGeometryError struct {
	Point r3.Vector
	Depth float64
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry: point %v has depth %g", e.Point, e.Depth)
}

// IsDegenerateGeometry reports whether err is (or wraps) a
// DegenerateGeometryError.
func IsDegenerateGeometry(err error) bool {
	var dg *DegenerateGeometryError
	return errors.As(err, &dg)
}

// InvalidConfigurationError reports cameras with incompatible dimensions in
// one CameraSet, or an output buffer whose shape does not match the request.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

func invalidConfigurationf(format string, args ...any) error {
	return &InvalidConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
