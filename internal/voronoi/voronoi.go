// Package voronoi implements the procedural cellular field generator: a
// jittered, hashed 3-D lattice of sites sampled per pixel under a selectable
// distance metric.
package voronoi

import (
	"context"
	"fmt"
	"math"

	"github.com/MeKo-Tech/texturefield/internal/raster"
	"github.com/MeKo-Tech/texturefield/internal/render"
)

// Mode selects what the generator renders from the nearest-site search.
type Mode int

const (
	// ModeColor renders a pseudo-random color per site, blended across
	// soft boundaries.
	ModeColor Mode = iota
	// ModePosition encodes the nearest site's continuous (x, y), normalized
	// by the lattice extent of the output, into the red and green channels.
	ModePosition
	// ModeSmoothDistance renders the nearest distance blended toward the
	// second-nearest near boundaries.
	ModeSmoothDistance
	// ModeNearestDistance renders the raw nearest distance.
	ModeNearestDistance
	// ModeDistanceGap renders second-nearest minus nearest, bright at cell
	// boundaries and dark in cell interiors.
	ModeDistanceGap
)

// ParseMode maps a render mode name to its constant.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "color":
		return ModeColor, nil
	case "position":
		return ModePosition, nil
	case "smooth-distance":
		return ModeSmoothDistance, nil
	case "nearest-distance":
		return ModeNearestDistance, nil
	case "distance-gap":
		return ModeDistanceGap, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", name)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeColor:
		return "color"
	case ModePosition:
		return "position"
	case ModeSmoothDistance:
		return "smooth-distance"
	case ModeNearestDistance:
		return "nearest-distance"
	case ModeDistanceGap:
		return "distance-gap"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Params configures one field evaluation. The struct is immutable for the
// duration of a render.
type Params struct {
	Width  int
	Height int
	Seed   uint32

	Metric     Metric
	LpExponent float32
	Randomness float32 // clamped to [0,1]
	Smoothness float32 // 0 disables boundary blending

	// CellSize is the lattice cell extent per axis in output pixels
	// (x, y) and w units (w). All components must be positive.
	CellSize [3]float32
	// W is the third noise axis, typically an animation phase.
	W float32
	// Offset shifts the lattice in output pixels.
	OffsetX float32
	OffsetY float32

	Mode Mode
	// Clamp restricts output channels to [0,1] after sanitizing.
	Clamp bool
}

// Validate reports configuration errors. Per-pixel evaluation is total once
// this passes.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("output size must be positive, got %dx%d", p.Width, p.Height)
	}
	for i, c := range p.CellSize {
		if !(c > 0) {
			return fmt.Errorf("cell size must be positive, axis %d is %v", i, c)
		}
	}
	switch p.Mode {
	case ModeColor, ModePosition, ModeSmoothDistance, ModeNearestDistance, ModeDistanceGap:
	default:
		return fmt.Errorf("unknown render mode %d", int(p.Mode))
	}
	switch p.Metric {
	case Euclidean, Manhattan, Chebyshev, Minkowski:
	default:
		return fmt.Errorf("unknown distance metric %d", int(p.Metric))
	}
	return nil
}

// Generator is a resolved field evaluation: mode and metric branches are
// decided once here, not re-decoded per pixel.
type Generator struct {
	params Params

	invCellX float32
	invCellY float32
	pw       float32
	gridW    float32
	gridH    float32
	lpExp    float32
	rand     float32
}

// NewGenerator validates params and fixes the per-invocation constants.
func NewGenerator(p Params) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	randomness := p.Randomness
	if randomness < 0 {
		randomness = 0
	} else if randomness > 1 {
		randomness = 1
	}

	lpExp := p.LpExponent
	if lpExp < minLpExponent {
		lpExp = minLpExponent
	}

	g := &Generator{
		params:   p,
		invCellX: 1 / p.CellSize[0],
		invCellY: 1 / p.CellSize[1],
		pw:       p.W / p.CellSize[2],
		lpExp:    lpExp,
		rand:     randomness,
	}

	// Lattice extent of the output, used by the position encoding. Floored
	// so tiny outputs cannot divide by zero.
	g.gridW = max32(float32(p.Width)*g.invCellX, 1e-6)
	g.gridH = max32(float32(p.Height)*g.invCellY, 1e-6)

	return g, nil
}

// Pixel evaluates the field at one output coordinate. It is pure and safe to
// call concurrently.
func (g *Generator) Pixel(x, y int) raster.Pixel {
	p := &g.params

	px := (float32(x) + 0.5 - p.OffsetX) * g.invCellX
	py := (float32(y) + 0.5 - p.OffsetY) * g.invCellY
	pw := g.pw

	cx := int32(floor32(px))
	cy := int32(floor32(py))
	cw := int32(floor32(pw))

	// A jittered site never leaves its cell, so the true nearest and
	// second-nearest sites are always within the 3x3x3 neighborhood.
	d1 := float32(math.Inf(1))
	d2 := float32(math.Inf(1))
	var nearest, second Site

	for nw := cw - 1; nw <= cw+1; nw++ {
		for ny := cy - 1; ny <= cy+1; ny++ {
			for nx := cx - 1; nx <= cx+1; nx++ {
				site := cellSite(nx, ny, nw, g.rand, p.Seed)
				d := Distance(px-site.X, py-site.Y, pw-site.W, p.Metric, g.lpExp)
				if d < d1 {
					d2, second = d1, nearest
					d1, nearest = d, site
				} else if d < d2 {
					d2, second = d, site
				}
			}
		}
	}

	if !finite32(d1) {
		d1 = 0
	}
	if !finite32(d2) {
		d2, second = d1, nearest
	}
	if d2 < d1 {
		d1, d2 = d2, d1
		nearest, second = second, nearest
	}

	blend := smoothBlend(d1, d2, p.Smoothness)

	var out raster.Pixel
	switch p.Mode {
	case ModeColor:
		r1, g1, b1 := siteColor(nearest.Hash)
		r2, g2, b2 := siteColor(second.Hash)
		out = raster.Pixel{
			R: lerp(r1, r2, blend),
			G: lerp(g1, g2, blend),
			B: lerp(b1, b2, blend),
			A: 1,
		}
	case ModePosition:
		out = raster.Pixel{
			R: nearest.X / g.gridW,
			G: nearest.Y / g.gridH,
			B: 0,
			A: 1,
		}
	case ModeSmoothDistance:
		v := lerp(d1, d2, blend)
		out = raster.Pixel{R: v, G: v, B: v, A: 1}
	case ModeNearestDistance:
		out = raster.Pixel{R: d1, G: d1, B: d1, A: 1}
	default: // ModeDistanceGap
		v := d2 - d1
		if v < 0 {
			v = 0
		}
		out = raster.Pixel{R: v, G: v, B: v, A: 1}
	}

	out.R = g.sanitize(out.R)
	out.G = g.sanitize(out.G)
	out.B = g.sanitize(out.B)
	return out
}

// Render evaluates the whole field into a freshly allocated buffer.
func (g *Generator) Render(ctx context.Context, workers int) (*raster.Buffer, error) {
	dst, err := raster.New(g.params.Width, g.params.Height)
	if err != nil {
		return nil, err
	}
	if err := render.Fill(ctx, dst, g.Pixel, render.Options{Workers: workers}); err != nil {
		return nil, err
	}
	return dst, nil
}

// smoothBlend is exactly 0.5 on the cell boundary (d1 == d2) and decays to 0
// as the distances diverge, producing soft boundaries instead of hard edges.
func smoothBlend(d1, d2, smoothness float32) float32 {
	if smoothness <= 0 || !finite32(d1) || !finite32(d2) {
		return 0
	}
	t := (d2 - d1) / smoothness
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return 0.5 * (1 - smoothstep(t))
}

func smoothstep(t float32) float32 {
	return t * t * (3 - 2*t)
}

func (g *Generator) sanitize(v float32) float32 {
	if !finite32(v) {
		return 0
	}
	if g.params.Clamp {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
	}
	return v
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func floor32(v float32) float32 { return float32(math.Floor(float64(v))) }

func finite32(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
