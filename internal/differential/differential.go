// Package differential computes finite-difference gradient maps from a
// source raster, with configurable boundary handling and response curves.
package differential

import (
	"context"
	"fmt"
	"math"

	"github.com/MeKo-Tech/texturefield/internal/raster"
	"github.com/MeKo-Tech/texturefield/internal/render"
)

// Axis selects which derivative the extractor emits.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	// AxisMagnitude emits sqrt(gx^2+gy^2) per channel; each of R, G, B, A
	// gets its own magnitude, not one shared scalar.
	AxisMagnitude
)

// ParseAxis maps an axis name to its constant.
func ParseAxis(name string) (Axis, error) {
	switch name {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "magnitude", "xy":
		return AxisMagnitude, nil
	default:
		return 0, fmt.Errorf("unknown axis %q", name)
	}
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisMagnitude:
		return "magnitude"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Params configures one extraction.
type Params struct {
	Axis     Axis
	EdgeMode EdgeMode
	Response ResponseMode

	// MapOffset and MapScale remap the raw derivative: out = base + diff*scale.
	MapOffset float32
	MapScale  float32

	// RawOutput reinterprets MapOffset as an unmapped signed value
	// (base = offset - 0.5) instead of a value already in the output range.
	// The response curve still applies.
	RawOutput bool

	// AlphaPassthrough copies the center pixel's original alpha instead of
	// running alpha through the gradient pipeline.
	AlphaPassthrough bool
}

// Validate reports configuration errors.
func (p Params) Validate() error {
	switch p.Axis {
	case AxisX, AxisY, AxisMagnitude:
	default:
		return fmt.Errorf("unknown axis %d", int(p.Axis))
	}
	switch p.EdgeMode {
	case EdgeNone, EdgeRepeat, EdgeTile, EdgeMirror:
	default:
		return fmt.Errorf("unknown edge mode %d", int(p.EdgeMode))
	}
	switch p.Response {
	case ResponseClamp, ResponseSoftClamp, ResponseMirror, ResponseWrap, ResponseIdentity:
	default:
		return fmt.Errorf("unknown response curve %d", int(p.Response))
	}
	return nil
}

// Extractor is a resolved extraction over one source buffer. The source is
// read-only and shared safely across workers.
type Extractor struct {
	src    *raster.Buffer
	params Params
	base   float32
}

// NewExtractor validates the configuration against the source raster.
func NewExtractor(src *raster.Buffer, p Params) (*Extractor, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if src == nil || src.Width <= 0 || src.Height <= 0 {
		return nil, fmt.Errorf("source raster must be non-empty")
	}

	base := p.MapOffset
	if p.RawOutput {
		base = p.MapOffset - 0.5
	}

	return &Extractor{src: src, params: p, base: base}, nil
}

// sample resolves one neighbor coordinate pair under the edge policy. An
// unresolvable coordinate yields the transparent zero sentinel.
func (e *Extractor) sample(x, y int) raster.Pixel {
	xx, okX := ResolveCoord(x, e.src.Width, e.params.EdgeMode)
	yy, okY := ResolveCoord(y, e.src.Height, e.params.EdgeMode)
	if !okX || !okY {
		return raster.Pixel{}
	}
	return e.src.At(xx, yy)
}

// Pixel computes the remapped derivative at one coordinate. It is pure and
// safe to call concurrently.
func (e *Extractor) Pixel(x, y int) raster.Pixel {
	left := e.sample(x-1, y)
	right := e.sample(x+1, y)
	up := e.sample(x, y-1)
	down := e.sample(x, y+1)

	gx := halfDiff(right, left)
	gy := halfDiff(down, up)

	var diff raster.Pixel
	switch e.params.Axis {
	case AxisX:
		diff = gx
	case AxisY:
		diff = gy
	default:
		diff = raster.Pixel{
			R: hypot32(gx.R, gy.R),
			G: hypot32(gx.G, gy.G),
			B: hypot32(gx.B, gy.B),
			A: hypot32(gx.A, gy.A),
		}
	}

	out := raster.Pixel{
		R: e.remap(diff.R),
		G: e.remap(diff.G),
		B: e.remap(diff.B),
	}
	if e.params.AlphaPassthrough {
		out.A = e.src.At(x, y).A
	} else {
		out.A = e.remap(diff.A)
	}
	return out
}

// remap applies the offset/scale mapping, sanitizes non-finite results, and
// runs the response curve.
func (e *Extractor) remap(diff float32) float32 {
	v := e.base + diff*e.params.MapScale
	if !finite32(v) {
		v = 0
	}
	return ApplyResponse(v, e.params.Response)
}

// Render extracts the full differential map into a new buffer of the source
// dimensions.
func (e *Extractor) Render(ctx context.Context, workers int) (*raster.Buffer, error) {
	dst, err := raster.New(e.src.Width, e.src.Height)
	if err != nil {
		return nil, err
	}
	if err := render.Fill(ctx, dst, e.Pixel, render.Options{Workers: workers}); err != nil {
		return nil, err
	}
	return dst, nil
}

// halfDiff is the central-difference step: (a-b)/2 per channel.
func halfDiff(a, b raster.Pixel) raster.Pixel {
	return raster.Pixel{
		R: 0.5 * (a.R - b.R),
		G: 0.5 * (a.G - b.G),
		B: 0.5 * (a.B - b.B),
		A: 0.5 * (a.A - b.A),
	}
}

func hypot32(a, b float32) float32 {
	return float32(math.Sqrt(float64(a*a + b*b)))
}

func finite32(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
