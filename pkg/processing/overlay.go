package processing

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/markremodeling/renovation/pkg/measure"
)

var (
	calibrationColor = color.NRGBA{245, 158, 11, 255} // amber
	measureColor     = color.NRGBA{30, 58, 138, 255}  // blue
	outlineColor     = color.NRGBA{0, 200, 83, 255}   // green
	vertexColor      = color.NRGBA{255, 0, 0, 255}
)

// Overlay describes measurement marks in native image pixels
type Overlay struct {
	Calibration []measure.Point
	Measurement []measure.Point
	Outline     measure.Polygon
	Closed      bool
}

// DrawOverlay draws ruler segments and the traced outline onto a copy of img
func (p *Processor) DrawOverlay(img image.Image, o Overlay) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()

	stroke := int(math.Max(2, 0.004*float64(minInt(w, h)))) // ~0.4% of min side
	cross := int(math.Max(4, 0.01*float64(minInt(w, h))))   // ~1% of min side

	drawSegment(nrgba, o.Calibration, calibrationColor, stroke, cross)
	drawSegment(nrgba, o.Measurement, measureColor, stroke, cross)

	for i := 0; i+1 < len(o.Outline); i++ {
		drawLine(nrgba, o.Outline[i], o.Outline[i+1], outlineColor, stroke)
	}
	if o.Closed && len(o.Outline) >= measure.MinVertices {
		drawLine(nrgba, o.Outline[len(o.Outline)-1], o.Outline[0], outlineColor, stroke)
	}
	for _, v := range o.Outline {
		drawCross(nrgba, v, vertexColor, cross)
	}

	return nrgba
}

func drawSegment(img *image.NRGBA, pts []measure.Point, c color.NRGBA, stroke, cross int) {
	for _, pt := range pts {
		drawCross(img, pt, c, cross)
	}
	if len(pts) == 2 {
		drawLine(img, pts[0], pts[1], c, stroke)
	}
}

func drawCross(img *image.NRGBA, pt measure.Point, c color.NRGBA, cross int) {
	px, py := int(pt.X+0.5), int(pt.Y+0.5)
	drawHLine(img, py, px-cross, px+cross, c)
	drawVLine(img, px, py-cross, py+cross, c)
}

// drawLine plots a thick line by stamping squares along the segment
func drawLine(img *image.NRGBA, a, b measure.Point, c color.NRGBA, stroke int) {
	steps := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
	if steps == 0 {
		steps = 1
	}
	half := stroke / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(a.X + (b.X-a.X)*t + 0.5)
		y := int(a.Y + (b.Y-a.Y)*t + 0.5)
		for dy := -half; dy < stroke-half; dy++ {
			drawHLine(img, y+dy, x-half, x-half+stroke, c)
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
