package measure

import "math"

// Stage is the progress of a Tracer
type Stage int

const (
	StageEmpty Stage = iota
	StageDrawing
	StageCloseable
	StageClosed
	StageCalibrating
	StageComputed
)

func (s Stage) String() string {
	switch s {
	case StageEmpty:
		return "empty"
	case StageDrawing:
		return "drawing"
	case StageCloseable:
		return "closeable"
	case StageClosed:
		return "closed"
	case StageCalibrating:
		return "calibrating"
	case StageComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// MinVertices is the smallest vertex count that can be closed into a polygon
const MinVertices = 3

// PixelArea returns the area enclosed by the vertex loop using the shoelace
// formula. The result is independent of winding direction and starting vertex.
func PixelArea(vertices []Point) float64 {
	n := len(vertices)
	if n < MinVertices {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += vertices[i].X*vertices[j].Y - vertices[j].X*vertices[i].Y
	}
	return math.Abs(sum) / 2
}

// Area returns the pixel area of the polygon
func (p Polygon) Area() float64 {
	return PixelArea(p)
}

// RealArea scales a pixel area into square feet. The linear scale is
// referenceFeet/referencePixels, so area scales with its square.
func RealArea(pixelArea, referenceFeet, referencePixels float64) (float64, error) {
	if !positiveFinite(referenceFeet) || !positiveFinite(referencePixels) {
		return 0, ErrInvalidReference
	}
	scale := referenceFeet / referencePixels
	return pixelArea * scale * scale, nil
}

// RectangleArea is the manual-entry fallback: width times length
func RectangleArea(width, length float64) (float64, error) {
	if !positiveFinite(width) || !positiveFinite(length) {
		return 0, ErrInvalidLength
	}
	return width * length, nil
}

// Tracer traces a polygon over an image and converts its area to square feet.
// Transitions only move forward; Reset discards the whole trace. A Tracer is not
// safe for concurrent use.
type Tracer struct {
	vertices []Point
	closed   bool

	referenceFeet   float64
	referencePixels float64
	referenced      bool

	area     float64
	computed bool
}

// NewTracer returns an empty tracer
func NewTracer() *Tracer {
	return &Tracer{}
}

// AddVertex appends a vertex while the polygon is open
func (t *Tracer) AddVertex(p Point) error {
	if t.closed {
		return ErrPolygonClosed
	}
	t.vertices = append(t.vertices, p)
	return nil
}

// Close closes the polygon. With fewer than MinVertices vertices it does nothing
// and reports false.
func (t *Tracer) Close() bool {
	if t.closed {
		return true
	}
	if len(t.vertices) < MinVertices {
		return false
	}
	t.closed = true
	return true
}

// Closed reports whether the polygon has been closed
func (t *Tracer) Closed() bool {
	return t.closed
}

// Vertices returns a copy of the traced vertices
func (t *Tracer) Vertices() Polygon {
	return append(Polygon(nil), t.vertices...)
}

// SetReference records a known real length and its length in pixels.
// Invalid values are rejected and the tracer is left unchanged.
func (t *Tracer) SetReference(feet, pixels float64) error {
	if !t.closed {
		return ErrPolygonOpen
	}
	if !positiveFinite(feet) || !positiveFinite(pixels) {
		return ErrInvalidReference
	}
	t.referenceFeet = feet
	t.referencePixels = pixels
	t.referenced = true
	if t.computed {
		// stay in StageComputed with the new reference
		_, err := t.Compute()
		return err
	}
	return nil
}

// SetReferenceSegment records a reference from two clicked points spanning feet
func (t *Tracer) SetReferenceSegment(a, b Point, feet float64) error {
	return t.SetReference(feet, Distance(a, b))
}

// Compute calculates the real area of the closed polygon
func (t *Tracer) Compute() (float64, error) {
	if !t.closed {
		return 0, ErrPolygonOpen
	}
	if !t.referenced {
		return 0, ErrInvalidReference
	}
	area, err := RealArea(PixelArea(t.vertices), t.referenceFeet, t.referencePixels)
	if err != nil {
		return 0, err
	}
	t.area = area
	t.computed = true
	return area, nil
}

// Area returns the computed area and whether it is available
func (t *Tracer) Area() (float64, bool) {
	return t.area, t.computed
}

// Stage reports where the tracer is in its lifecycle
func (t *Tracer) Stage() Stage {
	switch {
	case t.computed:
		return StageComputed
	case t.referenced:
		return StageCalibrating
	case t.closed:
		return StageClosed
	case len(t.vertices) >= MinVertices:
		return StageCloseable
	case len(t.vertices) > 0:
		return StageDrawing
	default:
		return StageEmpty
	}
}

// Reset returns the tracer to StageEmpty
func (t *Tracer) Reset() {
	*t = Tracer{}
}
