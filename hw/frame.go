package hw

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

const (
	Width  = 256
	Height = 240
)

// Frame is the PPU output: one packed 0xRRGGBB color per pixel, row major.
type Frame [Width * Height]uint32

func (f *Frame) Set(x, y int, rgb uint32) {
	f[y*Width+x] = rgb
}

func (f *Frame) At(x, y int) uint32 {
	return f[y*Width+x]
}

// RGBA converts the frame into the given image, which is allocated if nil.
func (f *Frame) RGBA(dst *image.RGBA) *image.RGBA {
	if dst == nil {
		dst = image.NewRGBA(image.Rect(0, 0, Width, Height))
	}
	for i, rgb := range f {
		off := 4 * i
		dst.Pix[off+0] = uint8(rgb >> 16)
		dst.Pix[off+1] = uint8(rgb >> 8)
		dst.Pix[off+2] = uint8(rgb)
		dst.Pix[off+3] = 0xFF
	}
	return dst
}

// Color returns the color of the pixel at (x, y).
func (f *Frame) Color(x, y int) color.RGBA {
	rgb := f.At(x, y)
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xFF}
}

// WritePNG encodes the frame as a PNG image.
func (f *Frame) WritePNG(w io.Writer) error {
	return png.Encode(w, f.RGBA(nil))
}
