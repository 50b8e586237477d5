package measure

import "errors"

// Ruler is a calibrated pixel ruler for one image.
//
// Calibration: two clicks on an object of known length plus that length give
// the pixels-per-unit ratio. Measurement: two further clicks give a length in
// the calibration unit. A Ruler is not safe for concurrent use.
type Ruler struct {
	calibration   []Point
	realLength    float64
	pixelsPerUnit float64
	calibrated    bool

	measuring []Point
	result    float64
	measured  bool
}

// NewRuler returns an empty ruler
func NewRuler() *Ruler {
	return &Ruler{}
}

// CalculateCalibration returns the pixels-per-unit ratio for two points spanning realLength units
func CalculateCalibration(a, b Point, realLength float64) (float64, error) {
	if !positiveFinite(realLength) {
		return 0, ErrInvalidLength
	}
	d := Distance(a, b)
	if d == 0 {
		return 0, ErrDegenerateSegment
	}
	return d / realLength, nil
}

// CalculateMeasurement converts the pixel distance between two points into units
func CalculateMeasurement(a, b Point, pixelsPerUnit float64) (float64, error) {
	if !positiveFinite(pixelsPerUnit) {
		return 0, ErrNotCalibrated
	}
	return Distance(a, b) / pixelsPerUnit, nil
}

// SetRealLength records the reference length used by the next calibration
func (r *Ruler) SetRealLength(v float64) {
	r.realLength = v
}

// RealLength returns the current reference length
func (r *Ruler) RealLength() float64 {
	return r.realLength
}

// RecordCalibrationPoint stores a calibration click. The second click triggers
// calibration. If the reference length is invalid both points are kept so
// Calibrate can be retried after fixing the length. A second click on the first
// point is dropped so the pair can be completed with another click.
func (r *Ruler) RecordCalibrationPoint(p Point) error {
	if r.calibrated || len(r.calibration) >= 2 {
		return ErrPairComplete
	}
	r.calibration = append(r.calibration, p)
	if len(r.calibration) < 2 {
		return nil
	}
	err := r.Calibrate()
	if errors.Is(err, ErrDegenerateSegment) {
		r.calibration = r.calibration[:1]
	}
	return err
}

// Calibrate computes pixels-per-unit from the two stored calibration points and
// the current reference length.
func (r *Ruler) Calibrate() error {
	if r.calibrated {
		return ErrAlreadyCalibrated
	}
	if len(r.calibration) < 2 {
		return ErrIncompletePair
	}
	ppu, err := CalculateCalibration(r.calibration[0], r.calibration[1], r.realLength)
	if err != nil {
		return err
	}
	r.pixelsPerUnit = ppu
	r.calibrated = true
	return nil
}

// RecordMeasurementPoint stores a measuring click. The second click computes the result
func (r *Ruler) RecordMeasurementPoint(p Point) error {
	if !r.calibrated {
		return ErrNotCalibrated
	}
	if len(r.measuring) >= 2 {
		return ErrPairComplete
	}
	if len(r.measuring) == 0 {
		r.measuring = append(r.measuring, p)
		return nil
	}
	result, err := CalculateMeasurement(r.measuring[0], p, r.pixelsPerUnit)
	if err != nil {
		return err
	}
	r.measuring = append(r.measuring, p)
	r.result = result
	r.measured = true
	return nil
}

// PixelsPerUnit returns the calibration ratio and whether it is set
func (r *Ruler) PixelsPerUnit() (float64, bool) {
	return r.pixelsPerUnit, r.calibrated
}

// Result returns the last measurement and whether one exists
func (r *Ruler) Result() (float64, bool) {
	return r.result, r.measured
}

// CalibrationPoints returns a copy of the recorded calibration points
func (r *Ruler) CalibrationPoints() []Point {
	return append([]Point(nil), r.calibration...)
}

// MeasuringPoints returns a copy of the recorded measuring points
func (r *Ruler) MeasuringPoints() []Point {
	return append([]Point(nil), r.measuring...)
}

// ResetMeasurement clears the measuring pair and result but keeps the calibration
func (r *Ruler) ResetMeasurement() {
	r.measuring = nil
	r.result = 0
	r.measured = false
}

// ResetAll discards calibration and measurement, as when a new image is loaded
func (r *Ruler) ResetAll() {
	*r = Ruler{}
}
