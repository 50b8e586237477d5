// Package crop finds the part of a photo worth keeping when it has to be cut
// to a different aspect ratio, such as square thumbnails of project photos.
//
// Subjects are found on a small working copy with a saliency map built from
// local edge strength and brightness. Crop windows are then placed to cover as
// much subject score as possible.
package crop

import (
	"errors"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrEmptyImage   = errors.New("crop: image has no pixels")
	ErrInvalidRatio = errors.New("crop: aspect ratio must be positive")
	ErrInvalidSize  = errors.New("crop: target size must be positive")
)

// Ratio is a named aspect ratio
type Ratio struct {
	Width  int
	Height int
	Name   string
}

var (
	Square     = Ratio{1, 1, "square"}
	Landscape  = Ratio{4, 3, "landscape"}
	Portrait   = Ratio{3, 4, "portrait"}
	Widescreen = Ratio{16, 9, "widescreen"}
)

// Ratios lists the supported ratios
func Ratios() []Ratio {
	return []Ratio{Square, Landscape, Portrait, Widescreen}
}

// ParseRatio looks a ratio up by name. An empty name is Square.
func ParseRatio(name string) (Ratio, bool) {
	if name == "" {
		return Square, true
	}
	for _, r := range Ratios() {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Ratio{}, false
}

// Float returns width over height
func (r Ratio) Float() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Size returns the dimensions of a box with this ratio whose long edge is long
func (r Ratio) Size(long int) (int, int) {
	f := r.Float()
	if f >= 1 {
		return long, max(1, int(math.Round(float64(long)/f)))
	}
	return max(1, int(math.Round(float64(long)*f))), long
}

// Region is a rectangle in image pixels with a saliency score
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
	Score  float64
}

// Rect returns the region as an image.Rectangle relative to the image origin
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area returns the region area in pixels
func (r Region) Area() int {
	return r.Width * r.Height
}

// Config tunes subject detection
type Config struct {
	EdgeWeight       float64
	BrightnessWeight float64
	// Threshold is the mean saliency a window needs to count as a subject
	Threshold float64
	// MinSubjectRatio drops windows smaller than this share of the image
	MinSubjectRatio float64
	// MaxSubjects caps the number of subjects considered for placement
	MaxSubjects int
	// WorkSize is the long edge of the working copy
	WorkSize int
}

// DefaultConfig returns the tuning used for room photos
func DefaultConfig() Config {
	return Config{
		EdgeWeight:       0.3,
		BrightnessWeight: 0.2,
		Threshold:        0.01,
		MinSubjectRatio:  0.05,
		MaxSubjects:      10,
		WorkSize:         256,
	}
}

// Detector places crop windows over salient regions
type Detector struct {
	cfg Config
}

func New() *Detector {
	return &Detector{cfg: DefaultConfig()}
}

func NewWithConfig(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.WorkSize <= 0 {
		cfg.WorkSize = def.WorkSize
	}
	if cfg.MaxSubjects <= 0 {
		cfg.MaxSubjects = def.MaxSubjects
	}
	return &Detector{cfg: cfg}
}

// Subjects returns the highest scoring regions, best first, in image pixels
func (d *Detector) Subjects(img image.Image) ([]Region, error) {
	w, err := d.prepare(img)
	if err != nil {
		return nil, err
	}
	subjects := w.subjects(d.cfg)
	for i := range subjects {
		subjects[i] = w.toImage(subjects[i])
	}
	return subjects, nil
}

// BestRegion returns the largest window of the given aspect ratio that covers
// the most subject score. Ties go to the window closest to the centre.
func (d *Detector) BestRegion(img image.Image, ratio float64) (Region, error) {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return Region{}, ErrInvalidRatio
	}
	w, err := d.prepare(img)
	if err != nil {
		return Region{}, err
	}

	// crop size in image pixels, then in working pixels
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	cw, ch := iw, ih
	if ratio > float64(iw)/float64(ih) {
		ch = max(1, int(float64(iw)/ratio))
	} else {
		cw = max(1, int(float64(ih)*ratio))
	}

	wcw := min(w.width, max(1, int(math.Round(float64(cw)*w.scale))))
	wch := min(w.height, max(1, int(math.Round(float64(ch)*w.scale))))
	best := w.place(w.subjects(d.cfg), wcw, wch)

	r := w.toImage(best)
	r.Width, r.Height = cw, ch
	r.X = clamp(r.X, 0, iw-cw)
	r.Y = clamp(r.Y, 0, ih-ch)
	return r, nil
}

// Cover crops img around its subjects to width x height
func (d *Detector) Cover(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	r, err := d.BestRegion(img, float64(width)/float64(height))
	if err != nil {
		return nil, err
	}
	rect := r.Rect().Add(img.Bounds().Min)
	return imaging.Resize(imaging.Crop(img, rect), width, height, imaging.Lanczos), nil
}

// workImage is the downscaled copy with its saliency integral
type workImage struct {
	width, height int
	scale         float64 // working pixels per image pixel
	integral      []float64
}

func (d *Detector) prepare(img image.Image) (*workImage, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	var small *image.NRGBA
	if b.Dx() > d.cfg.WorkSize || b.Dy() > d.cfg.WorkSize {
		small = imaging.Fit(img, d.cfg.WorkSize, d.cfg.WorkSize, imaging.Box)
	} else {
		small = imaging.Clone(img)
	}

	w := &workImage{
		width:  small.Bounds().Dx(),
		height: small.Bounds().Dy(),
		scale:  float64(small.Bounds().Dx()) / float64(b.Dx()),
	}
	w.integral = integrate(saliency(small, d.cfg), w.width, w.height)
	return w, nil
}

var neighbours = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

// saliency scores each interior pixel by colour difference to its eight
// neighbours plus its brightness. Border pixels score zero.
func saliency(img *image.NRGBA, cfg Config) []float64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := make([]float64, w*h)

	rgb := func(x, y int) (float64, float64, float64) {
		i := y*img.Stride + x*4
		return float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			r1, g1, b1 := rgb(x, y)
			var edge float64
			for _, o := range neighbours {
				r2, g2, b2 := rgb(x+o[0], y+o[1])
				dr, dg, db := r1-r2, g1-g2, b1-b2
				edge += math.Sqrt(dr*dr + dg*dg + db*db)
			}
			edge /= 8 * 255
			brightness := (r1 + g1 + b1) / (3 * 255)
			out[y*w+x] = cfg.EdgeWeight*edge + cfg.BrightnessWeight*brightness
		}
	}
	return out
}

// integrate builds a summed-area table with one row and column of padding
func integrate(m []float64, w, h int) []float64 {
	stride := w + 1
	sat := make([]float64, stride*(h+1))
	for y := 0; y < h; y++ {
		var row float64
		for x := 0; x < w; x++ {
			row += m[y*w+x]
			sat[(y+1)*stride+x+1] = sat[y*stride+x+1] + row
		}
	}
	return sat
}

func (w *workImage) sum(x, y, rw, rh int) float64 {
	stride := w.width + 1
	x2, y2 := x+rw, y+rh
	return w.integral[y2*stride+x2] - w.integral[y*stride+x2] - w.integral[y2*stride+x] + w.integral[y*stride+x]
}

func (w *workImage) mean(x, y, rw, rh int) float64 {
	if rw <= 0 || rh <= 0 {
		return 0
	}
	return w.sum(x, y, rw, rh) / float64(rw*rh)
}

// subjects slides square windows of several sizes over the map and keeps
// those above the threshold, best first.
func (w *workImage) subjects(cfg Config) []Region {
	minArea := int(float64(w.width*w.height) * cfg.MinSubjectRatio)

	var found []Region
	for _, div := range []int{20, 16, 12, 8, 4} {
		size := w.width / div
		if size < 4 || size > w.height || size*size < minArea {
			continue
		}
		step := max(1, size/8)
		for y := 0; y <= w.height-size; y += step {
			for x := 0; x <= w.width-size; x += step {
				score := w.mean(x, y, size, size)
				if score > cfg.Threshold {
					found = append(found, Region{X: x, Y: y, Width: size, Height: size, Score: score})
				}
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Score > found[j].Score })
	if len(found) > cfg.MaxSubjects {
		found = found[:cfg.MaxSubjects]
	}
	return found
}

// place slides a cw x ch window and returns the position covering the most
// subject score
func (w *workImage) place(subjects []Region, cw, ch int) Region {
	cx, cy := float64(w.width-cw)/2, float64(w.height-ch)/2
	best := Region{X: int(cx), Y: int(cy), Width: cw, Height: ch}
	if len(subjects) == 0 {
		return best
	}

	bestDist := math.Inf(1)
	best.Score = -1
	step := max(1, max(cw, ch)/20)
	for _, y := range positions(w.height-ch, step) {
		for _, x := range positions(w.width-cw, step) {
			score := coverage(subjects, x, y, cw, ch)
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			if score > best.Score+1e-12 || (math.Abs(score-best.Score) <= 1e-12 && dist < bestDist) {
				best = Region{X: x, Y: y, Width: cw, Height: ch, Score: score}
				bestDist = dist
			}
		}
	}
	return best
}

// positions returns 0, step, 2*step... and always limit itself
func positions(limit, step int) []int {
	if limit <= 0 {
		return []int{0}
	}
	var out []int
	for p := 0; p < limit; p += step {
		out = append(out, p)
	}
	return append(out, limit)
}

// coverage sums the covered share of each subject weighted by its score
func coverage(subjects []Region, x, y, cw, ch int) float64 {
	var score float64
	for _, s := range subjects {
		ox := min(x+cw, s.X+s.Width) - max(x, s.X)
		oy := min(y+ch, s.Y+s.Height) - max(y, s.Y)
		if ox > 0 && oy > 0 {
			score += float64(ox*oy) / float64(s.Area()) * s.Score
		}
	}
	return score
}

// toImage maps a working region back to image pixels
func (w *workImage) toImage(r Region) Region {
	return Region{
		X:      int(math.Round(float64(r.X) / w.scale)),
		Y:      int(math.Round(float64(r.Y) / w.scale)),
		Width:  int(math.Round(float64(r.Width) / w.scale)),
		Height: int(math.Round(float64(r.Height) / w.scale)),
		Score:  r.Score,
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
