package measure

import (
	"errors"
	"math"
	"testing"
)

func square(size float64) []Point {
	return []Point{{0, 0}, {size, 0}, {size, size}, {0, size}}
}

func TestPixelAreaSquare(t *testing.T) {
	if got := PixelArea(square(10)); got != 100 {
		t.Errorf("Expected area 100, got %f", got)
	}
}

func TestPixelAreaRotationAndReversal(t *testing.T) {
	poly := []Point{{0, 0}, {40, 0}, {40, 10}, {15, 30}, {0, 25}}
	want := PixelArea(poly)

	for shift := 1; shift < len(poly); shift++ {
		rotated := append(append([]Point{}, poly[shift:]...), poly[:shift]...)
		if got := PixelArea(rotated); math.Abs(got-want) > tolerance {
			t.Errorf("rotation %d: expected %f, got %f", shift, want, got)
		}
	}

	reversed := make([]Point, len(poly))
	for i, p := range poly {
		reversed[len(poly)-1-i] = p
	}
	if got := PixelArea(reversed); math.Abs(got-want) > tolerance {
		t.Errorf("reversed: expected %f, got %f", want, got)
	}
}

func TestPixelAreaShapes(t *testing.T) {
	tests := []struct {
		name     string
		vertices []Point
		want     float64
	}{
		{"triangle", []Point{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"l-shape", []Point{{0, 0}, {20, 0}, {20, 10}, {10, 10}, {10, 20}, {0, 20}}, 300},
		{"collinear", []Point{{0, 0}, {5, 5}, {10, 10}}, 0},
		{"too few", []Point{{0, 0}, {5, 5}}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelArea(tt.vertices); math.Abs(got-tt.want) > tolerance {
				t.Errorf("PixelArea() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRealArea(t *testing.T) {
	got, err := RealArea(400, 10, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-4.0) > tolerance {
		t.Errorf("Expected 4.0 sq ft, got %f", got)
	}

	bad := [][2]float64{{0, 100}, {10, 0}, {-1, 100}, {10, -5}, {math.NaN(), 100}, {10, math.Inf(1)}}
	for _, ref := range bad {
		if _, err := RealArea(400, ref[0], ref[1]); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("reference %v: expected ErrInvalidReference, got %v", ref, err)
		}
	}
}

func TestRectangleArea(t *testing.T) {
	got, err := RectangleArea(12.5, 15)
	if err != nil || got != 187.5 {
		t.Errorf("RectangleArea(12.5, 15) = %f, %v", got, err)
	}
	if _, err := RectangleArea(0, 15); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestTracerCloseRequiresThreeVertices(t *testing.T) {
	tr := NewTracer()
	_ = tr.AddVertex(Point{0, 0})
	_ = tr.AddVertex(Point{10, 0})

	if tr.Close() {
		t.Error("Closing with 2 vertices should be rejected")
	}
	if tr.Closed() {
		t.Error("Tracer must stay open")
	}
	if tr.Stage() != StageDrawing {
		t.Errorf("Expected stage drawing, got %s", tr.Stage())
	}
}

func TestTracerLifecycle(t *testing.T) {
	tr := NewTracer()
	if tr.Stage() != StageEmpty {
		t.Errorf("Expected empty, got %s", tr.Stage())
	}

	for i, p := range []Point{{0, 0}, {20, 0}, {20, 20}} {
		if err := tr.AddVertex(p); err != nil {
			t.Fatalf("AddVertex %d: %v", i, err)
		}
	}
	if tr.Stage() != StageCloseable {
		t.Errorf("Expected closeable, got %s", tr.Stage())
	}
	_ = tr.AddVertex(Point{0, 20})

	if _, err := tr.Compute(); !errors.Is(err, ErrPolygonOpen) {
		t.Errorf("Compute on open polygon: expected ErrPolygonOpen, got %v", err)
	}
	if err := tr.SetReference(10, 100); !errors.Is(err, ErrPolygonOpen) {
		t.Errorf("SetReference on open polygon: expected ErrPolygonOpen, got %v", err)
	}

	if !tr.Close() {
		t.Fatal("Close should succeed with 4 vertices")
	}
	if tr.Stage() != StageClosed {
		t.Errorf("Expected closed, got %s", tr.Stage())
	}
	if err := tr.AddVertex(Point{5, 5}); !errors.Is(err, ErrPolygonClosed) {
		t.Errorf("Expected ErrPolygonClosed, got %v", err)
	}

	if err := tr.SetReference(0, 100); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected ErrInvalidReference, got %v", err)
	}
	if tr.Stage() != StageClosed {
		t.Errorf("Invalid reference must not change stage, got %s", tr.Stage())
	}

	if err := tr.SetReference(10, 100); err != nil {
		t.Fatalf("SetReference: %v", err)
	}
	if tr.Stage() != StageCalibrating {
		t.Errorf("Expected calibrating, got %s", tr.Stage())
	}

	area, err := tr.Compute()
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(area-4.0) > tolerance {
		t.Errorf("Expected 4.0 sq ft, got %f", area)
	}
	if tr.Stage() != StageComputed {
		t.Errorf("Expected computed, got %s", tr.Stage())
	}

	// a new reference keeps the tracer computed
	if err := tr.SetReference(20, 100); err != nil {
		t.Fatalf("SetReference after compute: %v", err)
	}
	if got, ok := tr.Area(); !ok || math.Abs(got-16.0) > tolerance {
		t.Errorf("Expected 16.0 sq ft after new reference, got %f (ok=%v)", got, ok)
	}

	tr.Reset()
	if tr.Stage() != StageEmpty || len(tr.Vertices()) != 0 {
		t.Error("Reset should return to empty")
	}
}

func TestTracerReferenceSegment(t *testing.T) {
	tr := NewTracer()
	for _, p := range square(100) {
		_ = tr.AddVertex(p)
	}
	tr.Close()
	if err := tr.SetReferenceSegment(Point{0, 0}, Point{0, 50}, 5); err != nil {
		t.Fatal(err)
	}
	area, err := tr.Compute()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(area-100) > tolerance {
		t.Errorf("Expected 100 sq ft, got %f", area)
	}
}

func BenchmarkPixelArea(b *testing.B) {
	poly := make([]Point, 64)
	for i := range poly {
		angle := 2 * math.Pi * float64(i) / float64(len(poly))
		poly[i] = Point{X: 500 + 300*math.Cos(angle), Y: 500 + 300*math.Sin(angle)}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PixelArea(poly)
	}
}
