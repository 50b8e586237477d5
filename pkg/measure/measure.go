// Package measure turns clicks on a room photo into real-world lengths and areas.
//
// Two independent tools are provided:
//
//   - Ruler: the user clicks both ends of an object of known length to
//     calibrate a pixels-per-unit ratio, then measures arbitrary point pairs.
//   - Tracer: the user traces a closed polygon over the floor and supplies a
//     reference length; the enclosed area is computed with the shoelace formula
//     and scaled by the square of the linear scale.
//
// Both tools work in the image's native pixel space. Coordinates captured on a
// scaled display must go through Viewport.ToNative first.
package measure

import (
	"errors"
	"math"
)

var (
	// ErrInvalidLength is returned when a reference length is not a positive finite number
	ErrInvalidLength = errors.New("measure: reference length must be a positive number")
	// ErrInvalidReference is returned when area reference values are not positive finite numbers
	ErrInvalidReference = errors.New("measure: reference feet and pixels must be positive numbers")
	// ErrDegenerateSegment is returned when the two calibration points coincide
	ErrDegenerateSegment = errors.New("measure: calibration points must not coincide")
	// ErrNotCalibrated is returned when measuring before a calibration exists
	ErrNotCalibrated = errors.New("measure: ruler is not calibrated")
	// ErrAlreadyCalibrated is returned when calibrating a ruler twice without a reset
	ErrAlreadyCalibrated = errors.New("measure: ruler is already calibrated")
	// ErrPairComplete is returned for a click after a point pair is complete.
	// A new pair requires an explicit reset.
	ErrPairComplete = errors.New("measure: point pair already complete, reset to start again")
	// ErrIncompletePair is returned when an operation needs two points and fewer exist
	ErrIncompletePair = errors.New("measure: two points are required")
	// ErrPolygonClosed is returned when adding a vertex to a closed polygon
	ErrPolygonClosed = errors.New("measure: polygon is closed")
	// ErrPolygonOpen is returned when a closed polygon is required
	ErrPolygonOpen = errors.New("measure: polygon is not closed")
	// ErrInvalidViewport is returned for non-positive display or native dimensions
	ErrInvalidViewport = errors.New("measure: viewport dimensions must be positive")
)

// InchesPerFoot converts inch results to feet for display
const InchesPerFoot = 12.0

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
