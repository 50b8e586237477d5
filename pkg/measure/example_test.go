package measure_test

import (
	"fmt"

	"github.com/markremodeling/renovation/pkg/measure"
)

func ExampleRuler() {
	r := measure.NewRuler()

	// a standard 80" door spans 400 native pixels
	r.SetRealLength(80)
	_ = r.RecordCalibrationPoint(measure.Point{X: 120, Y: 100})
	_ = r.RecordCalibrationPoint(measure.Point{X: 120, Y: 500})

	_ = r.RecordMeasurementPoint(measure.Point{X: 200, Y: 300})
	_ = r.RecordMeasurementPoint(measure.Point{X: 380, Y: 300})

	inches, _ := r.Result()
	fmt.Println(measure.FormatLength(inches))
	// Output: 36.00 in (~3.00 ft)
}

func ExampleTracer() {
	t := measure.NewTracer()
	for _, p := range []measure.Point{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 100}, {X: 0, Y: 100}} {
		_ = t.AddVertex(p)
	}
	t.Close()

	// a 3 ft doorway is 60 pixels wide
	_ = t.SetReference(3, 60)
	area, _ := t.Compute()
	fmt.Println(measure.FormatArea(area))
	// Output: 50.00 ft²
}
