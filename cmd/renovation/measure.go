package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/markremodeling/renovation/internal/utils"
	"github.com/markremodeling/renovation/pkg/measure"
	"github.com/markremodeling/renovation/pkg/processing"
)

var (
	// Shared measure flags
	measureImage   string
	measureDisplay string
	measureOverlay bool
	measureJSON    bool

	// ruler
	rulerCal    []string
	rulerPoints []string
	rulerLength float64

	// area
	areaPoints    []string
	areaRefFeet   float64
	areaRefPixels float64
	areaRefSeg    []string
	areaWidth     float64
	areaLength    float64
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Measure lengths and areas on a photo",
	Long: `Measure lengths with a calibrated pixel ruler or areas with a traced outline.

Points are given as x,y. With --display WxH the points are read as clicks on an
image shown at that size and are mapped to the native pixels of --image.`,
}

var rulerCmd = &cobra.Command{
	Use:   "ruler",
	Short: "Calibrate on a known length and measure a second segment",
	Example: `  renovation measure ruler --cal 100,40 --cal 400,40 --length 36 --point 120,300 --point 520,300
  renovation measure ruler --image wall.jpg --display 800x600 --cal 10,10 --cal 110,10 --length 12 --overlay`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mapper, err := newPointMapper(measureImage, measureDisplay)
		if err != nil {
			return err
		}
		calibration, err := mapper.points(rulerCal)
		if err != nil {
			return err
		}
		measuring, err := mapper.points(rulerPoints)
		if err != nil {
			return err
		}
		if len(calibration) != 2 {
			return fmt.Errorf("two --cal points are required")
		}
		if len(measuring) != 0 && len(measuring) != 2 {
			return fmt.Errorf("two --point values are required")
		}

		res, err := runRuler(calibration, rulerLength, measuring)
		if err != nil {
			return err
		}
		if err := writeResult(cmd.OutOrStdout(), res, measureJSON); err != nil {
			return err
		}

		if measureOverlay {
			return mapper.saveOverlay(processing.Overlay{
				Calibration: calibration,
				Measurement: measuring,
			})
		}
		return nil
	},
}

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Compute square footage from a traced outline or width and length",
	Example: `  renovation measure area --point 0,0 --point 100,0 --point 100,50 --ref-feet 10 --ref-pixels 100
  renovation measure area --width 12 --length 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(areaPoints) == 0 {
			area, err := measure.RectangleArea(areaWidth, areaLength)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), areaResult{
				Method:   "manual",
				AreaSqFt: measure.Round2(area),
				Display:  measure.FormatArea(area),
			}, measureJSON)
		}

		mapper, err := newPointMapper(measureImage, measureDisplay)
		if err != nil {
			return err
		}
		points, err := mapper.points(areaPoints)
		if err != nil {
			return err
		}
		segment, err := mapper.points(areaRefSeg)
		if err != nil {
			return err
		}

		res, err := runTrace(points, areaRefFeet, areaRefPixels, segment)
		if err != nil {
			return err
		}
		if err := writeResult(cmd.OutOrStdout(), res, measureJSON); err != nil {
			return err
		}

		if measureOverlay {
			return mapper.saveOverlay(processing.Overlay{
				Calibration: segment,
				Outline:     points,
				Closed:      true,
			})
		}
		return nil
	},
}

type rulerResult struct {
	PixelsPerUnit float64  `json:"pixelsPerUnit"`
	Inches        *float64 `json:"inches,omitempty"`
	Feet          *float64 `json:"feet,omitempty"`
	Display       string   `json:"display,omitempty"`
}

func (r rulerResult) String() string {
	s := fmt.Sprintf("Calibration: %.4f px/in", r.PixelsPerUnit)
	if r.Display != "" {
		s += "\nMeasurement: " + r.Display
	}
	return s
}

type areaResult struct {
	Method    string  `json:"method"`
	PixelArea float64 `json:"pixelArea,omitempty"`
	AreaSqFt  float64 `json:"areaSqFt"`
	Display   string  `json:"display"`
}

func (a areaResult) String() string {
	if a.Method == "manual" {
		return "Area: " + a.Display
	}
	return fmt.Sprintf("Area: %s (%.0f px²)", a.Display, a.PixelArea)
}

func runRuler(calibration []measure.Point, length float64, measuring []measure.Point) (rulerResult, error) {
	ruler := measure.NewRuler()
	ruler.SetRealLength(length)
	for _, p := range calibration {
		if err := ruler.RecordCalibrationPoint(p); err != nil {
			return rulerResult{}, err
		}
	}
	for _, p := range measuring {
		if err := ruler.RecordMeasurementPoint(p); err != nil {
			return rulerResult{}, err
		}
	}

	ppu, _ := ruler.PixelsPerUnit()
	res := rulerResult{PixelsPerUnit: ppu}
	if inches, ok := ruler.Result(); ok {
		in := measure.Round2(inches)
		ft := measure.Round2(inches / measure.InchesPerFoot)
		res.Inches, res.Feet = &in, &ft
		res.Display = measure.FormatLength(inches)
	}
	return res, nil
}

func runTrace(points []measure.Point, refFeet, refPixels float64, segment []measure.Point) (areaResult, error) {
	tracer := measure.NewTracer()
	for _, p := range points {
		if err := tracer.AddVertex(p); err != nil {
			return areaResult{}, err
		}
	}
	if !tracer.Close() {
		return areaResult{}, fmt.Errorf("at least %d points are required", measure.MinVertices)
	}

	var err error
	switch {
	case len(segment) == 2:
		err = tracer.SetReferenceSegment(segment[0], segment[1], refFeet)
	case len(segment) != 0:
		err = fmt.Errorf("two --ref-segment points are required")
	default:
		err = tracer.SetReference(refFeet, refPixels)
	}
	if err != nil {
		return areaResult{}, err
	}

	area, err := tracer.Compute()
	if err != nil {
		return areaResult{}, err
	}
	return areaResult{
		Method:    "trace",
		PixelArea: measure.Round2(tracer.Vertices().Area()),
		AreaSqFt:  measure.Round2(area),
		Display:   measure.FormatArea(area),
	}, nil
}

// pointMapper turns flag values into native image points
type pointMapper struct {
	image    string
	viewport *measure.Viewport
	proc     *processing.Processor
}

func newPointMapper(image, display string) (*pointMapper, error) {
	m := &pointMapper{image: image, proc: processing.NewProcessor()}
	if display == "" {
		return m, nil
	}
	if image == "" {
		return nil, fmt.Errorf("--display requires --image")
	}

	dw, dh, err := parseSize(display)
	if err != nil {
		return nil, err
	}
	data, err := m.proc.LoadSource(image)
	if err != nil {
		return nil, err
	}
	nw, nh, _, err := m.proc.DecodeConfig(data)
	if err != nil {
		return nil, err
	}
	m.viewport = &measure.Viewport{
		NativeWidth:   float64(nw),
		NativeHeight:  float64(nh),
		DisplayWidth:  dw,
		DisplayHeight: dh,
	}
	return m, nil
}

func (m *pointMapper) points(values []string) ([]measure.Point, error) {
	points := make([]measure.Point, 0, len(values))
	for _, v := range values {
		p, err := parsePoint(v)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if m.viewport == nil {
		return points, nil
	}
	return m.viewport.ToNativeAll(points)
}

func (m *pointMapper) saveOverlay(o processing.Overlay) error {
	if m.image == "" {
		return fmt.Errorf("--overlay requires --image")
	}
	data, err := m.proc.LoadSource(m.image)
	if err != nil {
		return err
	}
	img, _, err := m.proc.Decode(data)
	if err != nil {
		return err
	}

	out := utils.OverlayFilename(m.image)
	if err := m.proc.SaveImage(m.proc.DrawOverlay(img, o), out, "png", 0); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	logger.Info("overlay saved", zap.String("path", out))
	return nil
}

func parsePoint(s string) (measure.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return measure.Point{}, fmt.Errorf("invalid point %q, expected x,y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return measure.Point{}, fmt.Errorf("invalid point %q, expected x,y", s)
	}
	return measure.Point{X: x, Y: y}, nil
}

func parseSize(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, expected WxH", s)
	}
	w, errW := strconv.ParseFloat(ws, 64)
	h, errH := strconv.ParseFloat(hs, 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, expected WxH", s)
	}
	return w, h, nil
}

func writeResult(w io.Writer, v fmt.Stringer, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, v.String())
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{rulerCmd, areaCmd} {
		c.Flags().StringVar(&measureImage, "image", "", "photo path or URL the points were taken on")
		c.Flags().StringVar(&measureDisplay, "display", "", "displayed image size WxH the points were clicked at")
		c.Flags().BoolVar(&measureOverlay, "overlay", false, "write <image>_overlay.png with the marks drawn in")
		c.Flags().BoolVar(&measureJSON, "json", false, "print the result as JSON")
	}

	rulerCmd.Flags().StringArrayVar(&rulerCal, "cal", nil, "calibration point x,y (twice)")
	rulerCmd.Flags().Float64Var(&rulerLength, "length", 0, "real length of the calibration segment in inches")
	rulerCmd.Flags().StringArrayVar(&rulerPoints, "point", nil, "measuring point x,y (twice)")

	areaCmd.Flags().StringArrayVar(&areaPoints, "point", nil, "outline vertex x,y (at least three)")
	areaCmd.Flags().Float64Var(&areaRefFeet, "ref-feet", 0, "known reference length in feet")
	areaCmd.Flags().Float64Var(&areaRefPixels, "ref-pixels", 0, "reference length in native pixels")
	areaCmd.Flags().StringArrayVar(&areaRefSeg, "ref-segment", nil, "reference segment end point x,y (twice), instead of --ref-pixels")
	areaCmd.Flags().Float64Var(&areaWidth, "width", 0, "room width in feet (manual entry)")
	areaCmd.Flags().Float64Var(&areaLength, "length", 0, "room length in feet (manual entry)")

	measureCmd.AddCommand(rulerCmd, areaCmd)
	rootCmd.AddCommand(measureCmd)
}
