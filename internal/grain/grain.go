// Package grain overlays film-grain style noise on a rendered buffer. Hashed
// white noise supplies the per-pixel sparkle; low-frequency Perlin noise
// modulates its local strength so the grain clumps organically instead of
// reading as uniform static.
package grain

import (
	"fmt"

	"github.com/aquilax/go-perlin"

	"github.com/MeKo-Tech/texturefield/internal/hash"
	"github.com/MeKo-Tech/texturefield/internal/raster"
)

// Params configures a grain pass.
type Params struct {
	// Strength is the peak noise amplitude in channel units, within [0,1].
	Strength float32
	// Scale is the Perlin modulation wavelength in pixels.
	Scale float64
	Seed  int64
}

// Apply overlays grain onto buf in place and returns buf. Alpha is left
// untouched. Strength 0 is a no-op.
func Apply(buf *raster.Buffer, p Params) (*raster.Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("grain target buffer is nil")
	}
	if p.Strength < 0 || p.Strength > 1 {
		return nil, fmt.Errorf("grain strength must be within [0,1], got %v", p.Strength)
	}
	if p.Strength == 0 {
		return buf, nil
	}
	scale := p.Scale
	if scale <= 0 {
		scale = 64
	}

	// alpha=2, beta=2, 3 octaves
	pn := perlin.NewPerlin(2.0, 2.0, 3, p.Seed)
	seed := uint32(p.Seed)

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			// Noise2D returns roughly [-1,1]; fold into [0,1] as a
			// local strength multiplier.
			mod := (pn.Noise2D(float64(x)/scale, float64(y)/scale) + 1) * 0.5
			amp := p.Strength * float32(mod)

			h := hash.Hash3(int32(x), int32(y), 0, seed)
			n := (hash.Rand01(h)*2 - 1) * amp

			px := buf.At(x, y)
			px.R = clamp01(px.R + n)
			px.G = clamp01(px.G + n)
			px.B = clamp01(px.B + n)
			buf.Set(x, y, px)
		}
	}

	return buf, nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
