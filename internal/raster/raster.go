// Package raster provides the dense float32 RGBA pixel buffer the kernels
// render into, plus conversions to and from the standard image types.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Pixel is one 4-channel float pixel. Channel values are nominally in [0,1]
// but may exceed that range for unclamped outputs.
type Pixel struct {
	R float32
	G float32
	B float32
	A float32
}

// Buffer is a dense row-major raster of float pixels. Row 0 is the top row.
type Buffer struct {
	Pix    []Pixel
	Width  int
	Height int
}

// New allocates a zeroed buffer. Width and height must be positive.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("buffer dimensions must be positive, got %dx%d", width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}, nil
}

// Index returns the slice offset of (x, y).
func (b *Buffer) Index(x, y int) int { return y*b.Width + x }

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) Pixel { return b.Pix[y*b.Width+x] }

// Set stores a pixel at (x, y).
func (b *Buffer) Set(x, y int, p Pixel) { b.Pix[y*b.Width+x] = p }

// FromImage converts any image into a float buffer. Color channels are
// straight (non-premultiplied) and normalized to [0,1].
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	buf, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("source image has no pixels: %w", err)
	}

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			c := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			buf.Set(x, y, Pixel{
				R: float32(c.R) / math.MaxUint16,
				G: float32(c.G) / math.MaxUint16,
				B: float32(c.B) / math.MaxUint16,
				A: float32(c.A) / math.MaxUint16,
			})
		}
	}
	return buf, nil
}

// NRGBA converts the buffer to an 8-bit image. Values are clamped to [0,1];
// non-finite values map to 0.
func (b *Buffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := b.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: channelToByte(p.R),
				G: channelToByte(p.G),
				B: channelToByte(p.B),
				A: channelToByte(p.A),
			})
		}
	}
	return img
}

// NRGBA64 converts the buffer to a 16-bit image for precision-sensitive
// consumers (scaling, filtering).
func (b *Buffer) NRGBA64() *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := b.At(x, y)
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: channelToWord(p.R),
				G: channelToWord(p.G),
				B: channelToWord(p.B),
				A: channelToWord(p.A),
			})
		}
	}
	return img
}

func channelToByte(v float32) uint8 {
	return uint8(clamp01(v)*math.MaxUint8 + 0.5)
}

func channelToWord(v float32) uint16 {
	return uint16(clamp01(v)*math.MaxUint16 + 0.5)
}

func clamp01(v float32) float32 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WritePNG encodes the buffer as an 8-bit PNG file.
func WritePNG(path string, b *Buffer) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, b.NRGBA()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// ReadPNG decodes a PNG file into a float buffer.
func ReadPNG(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return FromImage(img)
}
