/*
Package rgb565 implements an encoder for the raw RGB565 pixel dumps read by
the mini MP3 player display.

The format has no header or padding. Pixels are written row by row from the
top-left corner, each as a packed 16-bit value stored big-endian:

	bit  15 ........ 11 10 .......... 5 4 ......... 0
	     R4 R3 R2 R1 R0 G5 G4 G3 G2 G1 G0 B4 B3 B2 B1 B0

The lower bits of each 8-bit channel are discarded, so a W by H image is
always exactly 2*W*H bytes.
*/
package rgb565

const (
	redBits   = 5
	greenBits = 6
	blueBits  = 5

	blueShift  = 0
	greenShift = blueShift + blueBits
	redShift   = greenShift + greenBits

	bytesPerPixel = 2
)

// Pack returns the 16-bit RGB565 value for the given 8-bit channels.
func Pack(r, g, b uint8) uint16 {
	return uint16(r>>(8-redBits))<<redShift |
		uint16(g>>(8-greenBits))<<greenShift |
		uint16(b>>(8-blueBits))<<blueShift
}

// Size returns the number of bytes needed to store a w by h image.
func Size(w, h int) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	return bytesPerPixel * w * h
}
