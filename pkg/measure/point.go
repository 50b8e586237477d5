package measure

import "math"

// Point is a coordinate in image pixel space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered vertex loop. The last vertex connects back to the first
type Polygon []Point

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Viewport describes how an image is displayed relative to its native resolution
type Viewport struct {
	NativeWidth   float64 `json:"nativeWidth"`
	NativeHeight  float64 `json:"nativeHeight"`
	DisplayWidth  float64 `json:"displayWidth"`
	DisplayHeight float64 `json:"displayHeight"`
}

// Validate checks that all four dimensions are positive
func (v Viewport) Validate() error {
	if !positiveFinite(v.NativeWidth) || !positiveFinite(v.NativeHeight) ||
		!positiveFinite(v.DisplayWidth) || !positiveFinite(v.DisplayHeight) {
		return ErrInvalidViewport
	}
	return nil
}

// Scale returns the display-to-native factors for each axis
func (v Viewport) Scale() (sx, sy float64) {
	return v.NativeWidth / v.DisplayWidth, v.NativeHeight / v.DisplayHeight
}

// ToNative maps a point clicked on the displayed element to native image pixels.
// X and Y are scaled independently so a stretched display is handled too.
func (v Viewport) ToNative(p Point) (Point, error) {
	if err := v.Validate(); err != nil {
		return Point{}, err
	}
	sx, sy := v.Scale()
	return Point{X: p.X * sx, Y: p.Y * sy}, nil
}

// ToNativeAll maps a list of display points. The input is not modified
func (v Viewport) ToNativeAll(points []Point) ([]Point, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	sx, sy := v.Scale()
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X * sx, Y: p.Y * sy}
	}
	return out, nil
}
