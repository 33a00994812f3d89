/*
Package fit works out the final dimensions of an image from optional
requested dimensions and resizes it accordingly.

When only one dimension is requested the other is derived from the source
aspect ratio. When both are requested the image is resized to exactly that
size; if that changes the aspect ratio the resulting Plan is marked as
distorted so the caller can warn about it.
*/
package fit

import (
	"errors"
	"image"
	"io"
	"log"

	"github.com/disintegration/imaging"
)

// CoverSize is the width and height of cover art on the player display.
const CoverSize = 128

// ErrDistorted is reported when both dimensions were requested and they
// don't match the source aspect ratio. It is a warning, the image is
// still resized.
var ErrDistorted = errors.New("aspect ratio not preserved")

// Plan describes the target size of an image.
type Plan struct {
	Width, Height int
	// Resize is false when the source is used as-is
	Resize bool
	// Distorted is true when the target aspect ratio differs from the
	// source
	Distorted bool
}

// Integer division rounding half away from zero, never less than 1
func divRound(n, d int) int {
	q := (2*n + d) / (2 * d)
	if q < 1 {
		return 1
	}
	return q
}

// NewPlan computes the target size of an origW by origH image. A requested
// width or height that is zero or negative is treated as absent.
func NewPlan(origW, origH, reqW, reqH int) Plan {
	switch {
	case reqW > 0 && reqH > 0:
		return Plan{
			Width:     reqW,
			Height:    reqH,
			Resize:    true,
			Distorted: reqW*origH != reqH*origW,
		}
	case reqW > 0 && origW > 0:
		return Plan{Width: reqW, Height: divRound(reqW*origH, origW), Resize: true}
	case reqH > 0 && origH > 0:
		return Plan{Width: divRound(reqH*origW, origH), Height: reqH, Resize: true}
	default:
		return Plan{Width: origW, Height: origH}
	}
}

// Fixed returns a Plan that always resizes to w by h. It is never marked
// as distorted.
func Fixed(w, h int) Plan {
	return Plan{Width: w, Height: h, Resize: true}
}

// Fitter resizes images using the configured Filter.
type Fitter struct {
	Filter Filter
	Logger *log.Logger
}

// New returns a Fitter using filter f. Warnings are written to logger,
// which may be nil.
func New(f Filter, logger *log.Logger) *Fitter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Fitter{
		Filter: f,
		Logger: logger,
	}
}

// Fit resizes m to the requested dimensions following NewPlan and returns
// the result along with the Plan used.
func (f *Fitter) Fit(m image.Image, reqW, reqH int) (image.Image, Plan) {
	b := m.Bounds()
	p := NewPlan(b.Dx(), b.Dy(), reqW, reqH)
	if p.Distorted && f.Logger != nil {
		f.Logger.Printf("Warning: %v, resizing %dx%d to %dx%d\n", ErrDistorted, b.Dx(), b.Dy(), p.Width, p.Height)
	}
	return f.Apply(m, p), p
}

// Apply resizes m according to p.
func (f *Fitter) Apply(m image.Image, p Plan) image.Image {
	if !p.Resize {
		return m
	}
	return imaging.Resize(m, p.Width, p.Height, f.Filter.resample())
}

var cover = &Fitter{Filter: Lanczos}

// CoverArt resizes m to CoverSize by CoverSize regardless of its aspect
// ratio.
func CoverArt(m image.Image) image.Image {
	return cover.Apply(m, Fixed(CoverSize, CoverSize))
}
