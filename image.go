package minimp3

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bodgit/minimp3/fit"
	"github.com/bodgit/minimp3/rgb565"
	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const maxColors = 256

// ImageOptions controls ConvertImage.
type ImageOptions struct {
	// Width and Height are the requested size, zero if absent
	Width, Height int
	Filter        fit.Filter
	// Colors reduces the image to at most this many colors before
	// packing, zero disables it
	Colors int
	// Dither applies Floyd-Steinberg error diffusion when reducing colors
	Dither bool
}

// Open decodes the image in file, applying any EXIF orientation.
func Open(file string) (image.Image, error) {
	m, err := imaging.Open(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return m, nil
}

// Quantize reduces m to a palette of at most n colors using median cut.
func Quantize(m image.Image, n int, dither bool) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	b := m.Bounds()

	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), m))
	if dither {
		draw.FloydSteinberg.Draw(pm, b, m, b.Min)
	} else {
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}
	return pm
}

// WriteRaw writes m to file as an RGB565 dump, replacing any existing file.
func WriteRaw(file string, m image.Image) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := rgb565.Encode(w, m); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// ConvertImage converts the image in src to an RGB565 dump in dst, resized
// according to opts. The returned Plan reports whether the aspect ratio was
// preserved.
func (c *Converter) ConvertImage(src, dst string, opts ImageOptions) (fit.Plan, error) {
	if opts.Width < 0 || opts.Height < 0 {
		return fit.Plan{}, fmt.Errorf("invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.Colors < 0 || opts.Colors == 1 || opts.Colors > maxColors {
		return fit.Plan{}, fmt.Errorf("colors must be between 2 and %d", maxColors)
	}

	m, err := Open(src)
	if err != nil {
		return fit.Plan{}, err
	}

	// Distortion is reported through the returned Plan
	m, p := fit.New(opts.Filter, nil).Fit(m, opts.Width, opts.Height)
	if opts.Colors > 0 {
		m = Quantize(m, opts.Colors, opts.Dither)
	}

	c.logger.Printf("Writing %dx%d image to %s\n", p.Width, p.Height, dst)

	return p, WriteRaw(dst, m)
}

func (c *Converter) convertCover(src, dst string) error {
	m, err := Open(src)
	if err != nil {
		return err
	}
	return WriteRaw(dst, fit.CoverArt(m))
}
