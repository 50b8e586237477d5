package api

import (
	"net/http"

	"github.com/markremodeling/renovation/internal/httputil"
	"github.com/markremodeling/renovation/pkg/estimate"
	"github.com/markremodeling/renovation/pkg/measure"
)

// Points may be sent in display coordinates together with the viewport they
// were captured in. Numeric reference pixels are always native pixels.

type rulerRequest struct {
	Viewport    *measure.Viewport `json:"viewport,omitempty"`
	Calibration []measure.Point   `json:"calibration"`
	RealLength  float64           `json:"realLength"`
	Measure     []measure.Point   `json:"measure,omitempty"`
}

type rulerResponse struct {
	PixelsPerUnit float64         `json:"pixelsPerUnit"`
	Calibration   []measure.Point `json:"calibration"`
	Measure       []measure.Point `json:"measure,omitempty"`
	Inches        *float64        `json:"inches,omitempty"`
	Feet          *float64        `json:"feet,omitempty"`
	Display       string          `json:"display,omitempty"`
}

type areaRequest struct {
	Viewport         *measure.Viewport `json:"viewport,omitempty"`
	Points           []measure.Point   `json:"points"`
	ReferenceFeet    float64           `json:"referenceFeet"`
	ReferencePixels  float64           `json:"referencePixels"`
	ReferenceSegment []measure.Point   `json:"referenceSegment,omitempty"`

	// manual entry
	Width  float64 `json:"width,omitempty"`
	Length float64 `json:"length,omitempty"`
}

type areaResponse struct {
	Method    string          `json:"method"`
	Vertices  []measure.Point `json:"vertices,omitempty"`
	PixelArea float64         `json:"pixelArea,omitempty"`
	AreaSqFt  float64         `json:"areaSqFt"`
	Display   string          `json:"display"`
	Stage     string          `json:"stage,omitempty"`
}

type estimateResponse struct {
	estimate.Estimate
	Markdown string `json:"markdown"`
}

func toNative(vp *measure.Viewport, points []measure.Point) ([]measure.Point, error) {
	if vp == nil {
		return points, nil
	}
	return vp.ToNativeAll(points)
}

func (s *Server) measureRuler(w http.ResponseWriter, r *http.Request) {
	var req rulerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, "Bad JSON")
		return
	}
	if len(req.Calibration) != 2 {
		httputil.BadRequest(w, "two calibration points are required")
		return
	}
	if len(req.Measure) != 0 && len(req.Measure) != 2 {
		httputil.BadRequest(w, "two measuring points are required")
		return
	}

	calibration, err := toNative(req.Viewport, req.Calibration)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	measuring, err := toNative(req.Viewport, req.Measure)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	ruler := measure.NewRuler()
	ruler.SetRealLength(req.RealLength)
	for _, p := range calibration {
		if err := ruler.RecordCalibrationPoint(p); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
	}
	for _, p := range measuring {
		if err := ruler.RecordMeasurementPoint(p); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
	}

	ppu, _ := ruler.PixelsPerUnit()
	resp := rulerResponse{
		PixelsPerUnit: ppu,
		Calibration:   ruler.CalibrationPoints(),
		Measure:       ruler.MeasuringPoints(),
	}
	if inches, ok := ruler.Result(); ok {
		in := measure.Round2(inches)
		ft := measure.Round2(inches / measure.InchesPerFoot)
		resp.Inches, resp.Feet = &in, &ft
		resp.Display = measure.FormatLength(inches)
	}
	httputil.WriteJSONOK(w, resp)
}

func (s *Server) measureArea(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, "Bad JSON")
		return
	}

	if len(req.Points) == 0 {
		area, err := measure.RectangleArea(req.Width, req.Length)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.WriteJSONOK(w, areaResponse{
			Method:   "manual",
			AreaSqFt: measure.Round2(area),
			Display:  measure.FormatArea(area),
		})
		return
	}

	points, err := toNative(req.Viewport, req.Points)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	tracer := measure.NewTracer()
	for _, p := range points {
		if err := tracer.AddVertex(p); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
	}
	if !tracer.Close() {
		httputil.BadRequest(w, "at least 3 points are required to close the shape")
		return
	}

	if len(req.ReferenceSegment) == 2 {
		seg, err := toNative(req.Viewport, req.ReferenceSegment)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		err = tracer.SetReferenceSegment(seg[0], seg[1], req.ReferenceFeet)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
	} else if err := tracer.SetReference(req.ReferenceFeet, req.ReferencePixels); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	area, err := tracer.Compute()
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	vertices := tracer.Vertices()
	httputil.WriteJSONOK(w, areaResponse{
		Method:    "trace",
		Vertices:  vertices,
		PixelArea: measure.Round2(vertices.Area()),
		AreaSqFt:  measure.Round2(area),
		Display:   measure.FormatArea(area),
		Stage:     tracer.Stage().String(),
	})
}

func (s *Server) estimate(w http.ResponseWriter, r *http.Request) {
	var req estimate.Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, "Bad JSON")
		return
	}

	est, err := estimate.Calculate(req)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, estimateResponse{Estimate: est, Markdown: est.Markdown()})
}
