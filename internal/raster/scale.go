package raster

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Downscale reduces a buffer by an integer factor using Catmull-Rom
// resampling. Rendering at a multiple of the target size and downscaling
// through this gives anti-aliased cell boundaries.
func Downscale(src *Buffer, factor int) (*Buffer, error) {
	if factor < 1 {
		return nil, fmt.Errorf("downscale factor must be >= 1, got %d", factor)
	}
	if src.Width%factor != 0 || src.Height%factor != 0 {
		return nil, fmt.Errorf("buffer %dx%d is not divisible by factor %d", src.Width, src.Height, factor)
	}
	if factor == 1 {
		out, err := New(src.Width, src.Height)
		if err != nil {
			return nil, err
		}
		copy(out.Pix, src.Pix)
		return out, nil
	}

	// Go through 16-bit so the resampler keeps more precision than 8-bit
	// would allow.
	hi := src.NRGBA64()
	lo := image.NewNRGBA64(image.Rect(0, 0, src.Width/factor, src.Height/factor))
	draw.CatmullRom.Scale(lo, lo.Bounds(), hi, hi.Bounds(), draw.Src, nil)

	return FromImage(lo)
}
