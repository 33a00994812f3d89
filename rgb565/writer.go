package rgb565

import (
	"image"
	"image/color"
	"io"
)

// Convert to non-premultiplied colour so alpha is dropped rather than
// composited over black
func rgb(c color.Color) (uint8, uint8, uint8) {
	switch c := c.(type) {
	case color.NRGBA:
		return c.R, c.G, c.B
	case color.RGBA:
		if c.A == 0xff {
			return c.R, c.G, c.B
		}
	case color.Gray:
		return c.Y, c.Y, c.Y
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}

func putRow(dst []byte, m image.Image, y int) {
	b := m.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		p := Pack(rgb(m.At(x, y)))
		i := (x - b.Min.X) * bytesPerPixel
		dst[i+0] = byte(p >> 8)
		dst[i+1] = byte(p)
	}
}

// Bytes returns the Image m encoded as an RGB565 dump.
func Bytes(m image.Image) []byte {
	b := m.Bounds()
	out := make([]byte, Size(b.Dx(), b.Dy()))
	if len(out) == 0 {
		return out
	}

	stride := b.Dx() * bytesPerPixel
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := (y - b.Min.Y) * stride
		putRow(out[off:off+stride], m, y)
	}
	return out
}

// Encode writes the Image m to w as an RGB565 dump.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return nil
	}

	row := make([]byte, b.Dx()*bytesPerPixel)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		putRow(row, m, y)
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
