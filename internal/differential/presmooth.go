package differential

import (
	"image"

	"github.com/disintegration/gift"

	"github.com/MeKo-Tech/texturefield/internal/raster"
)

// PreSmooth applies a Gaussian blur to the source buffer before gradient
// extraction. Smoothing first stabilizes derivatives on noisy inputs. A
// sigma <= 0 returns the source unchanged.
func PreSmooth(src *raster.Buffer, sigma float32) (*raster.Buffer, error) {
	if sigma <= 0 {
		return src, nil
	}

	g := gift.New(gift.GaussianBlur(sigma))

	// Filter through 16-bit images so the roundtrip keeps more precision
	// than the 8-bit path would.
	hi := src.NRGBA64()
	dst := image.NewNRGBA64(g.Bounds(hi.Bounds()))
	g.Draw(dst, hi)

	return raster.FromImage(dst)
}
