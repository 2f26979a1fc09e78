package voronoi

import (
	"context"
	"math"
	"testing"
)

func baseParams() Params {
	return Params{
		Width:      32,
		Height:     32,
		Seed:       42,
		Metric:     Euclidean,
		LpExponent: 2,
		Randomness: 1,
		CellSize:   [3]float32{8, 8, 1},
		Mode:       ModeColor,
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		want Mode
	}{
		{"color", ModeColor},
		{"position", ModePosition},
		{"smooth-distance", ModeSmoothDistance},
		{"nearest-distance", ModeNearestDistance},
		{"distance-gap", ModeDistanceGap},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.name)
		if err != nil {
			t.Errorf("ParseMode(%q) returned error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.name, got, tt.want)
		}
		if got.String() != tt.name {
			t.Errorf("Mode(%v).String() = %q, want %q", got, got.String(), tt.name)
		}
	}

	if _, err := ParseMode("voronoi"); err == nil {
		t.Error("Expected error for unknown mode name")
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero width", func(p *Params) { p.Width = 0 }},
		{"negative height", func(p *Params) { p.Height = -1 }},
		{"zero cell x", func(p *Params) { p.CellSize[0] = 0 }},
		{"negative cell w", func(p *Params) { p.CellSize[2] = -2 }},
		{"nan cell y", func(p *Params) { p.CellSize[1] = float32(math.NaN()) }},
		{"bad mode", func(p *Params) { p.Mode = Mode(99) }},
		{"bad metric", func(p *Params) { p.Metric = Metric(99) }},
	}

	for _, tt := range tests {
		p := baseParams()
		tt.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
		if _, err := NewGenerator(p); err == nil {
			t.Errorf("%s: NewGenerator should reject invalid params", tt.name)
		}
	}

	if err := baseParams().Validate(); err != nil {
		t.Errorf("Base params should validate, got %v", err)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	p := baseParams()

	g1, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	g2, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if g1.Pixel(x, y) != g2.Pixel(x, y) {
				t.Fatalf("Pixel(%d,%d) differs between identical generators", x, y)
			}
		}
	}
}

func TestGenerator_SeedChangesOutput(t *testing.T) {
	pa := baseParams()
	pb := baseParams()
	pb.Seed = pa.Seed + 1

	ga, err := NewGenerator(pa)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	gb, err := NewGenerator(pb)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var differing int
	for y := 0; y < pa.Height; y++ {
		for x := 0; x < pa.Width; x++ {
			if ga.Pixel(x, y) != gb.Pixel(x, y) {
				differing++
			}
		}
	}

	// A one-bit seed change must rearrange essentially the whole field.
	total := pa.Width * pa.Height
	if differing < total/2 {
		t.Errorf("Expected most pixels to differ across seeds, got %d of %d", differing, total)
	}
}

// With randomness 0 and an aligned w slice, every site sits at its cell
// center, so nearest distances are exact pixel-to-center distances in
// lattice units.
func TestGenerator_RegularLatticeDistances(t *testing.T) {
	p := Params{
		Width:      4,
		Height:     4,
		Seed:       0,
		Metric:     Euclidean,
		LpExponent: 2,
		Randomness: 0,
		CellSize:   [3]float32{4, 4, 1},
		W:          0.5, // aligns the w sample with the site plane
		Mode:       ModeNearestDistance,
	}

	g, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	const eps = 1e-6
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			dx := (float64(x) + 0.5 - 2) / 4
			dy := (float64(y) + 0.5 - 2) / 4
			want := math.Sqrt(dx*dx + dy*dy)

			got := float64(g.Pixel(x, y).R)
			if math.Abs(got-want) > eps {
				t.Errorf("Pixel(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestGenerator_DistanceInvariants(t *testing.T) {
	for _, metric := range []Metric{Euclidean, Manhattan, Chebyshev, Minkowski} {
		p := baseParams()
		p.Metric = metric
		p.LpExponent = 3

		pNear := p
		pNear.Mode = ModeNearestDistance
		gNear, err := NewGenerator(pNear)
		if err != nil {
			t.Fatalf("NewGenerator failed: %v", err)
		}

		pGap := p
		pGap.Mode = ModeDistanceGap
		gGap, err := NewGenerator(pGap)
		if err != nil {
			t.Fatalf("NewGenerator failed: %v", err)
		}

		for y := 0; y < p.Height; y++ {
			for x := 0; x < p.Width; x++ {
				near := gNear.Pixel(x, y)
				if near.R < 0 || math.IsNaN(float64(near.R)) || math.IsInf(float64(near.R), 0) {
					t.Fatalf("%v: nearest distance at (%d,%d) = %v, want finite >= 0", metric, x, y, near.R)
				}
				gap := gGap.Pixel(x, y)
				if gap.R < 0 || math.IsNaN(float64(gap.R)) || math.IsInf(float64(gap.R), 0) {
					t.Fatalf("%v: distance gap at (%d,%d) = %v, want finite >= 0", metric, x, y, gap.R)
				}
			}
		}
	}
}

func TestGenerator_SmoothnessZeroMatchesNearest(t *testing.T) {
	pSmooth := baseParams()
	pSmooth.Mode = ModeSmoothDistance
	pSmooth.Smoothness = 0

	pNear := baseParams()
	pNear.Mode = ModeNearestDistance

	gs, err := NewGenerator(pSmooth)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	gn, err := NewGenerator(pNear)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	for y := 0; y < pSmooth.Height; y++ {
		for x := 0; x < pSmooth.Width; x++ {
			if gs.Pixel(x, y) != gn.Pixel(x, y) {
				t.Fatalf("Smoothness 0 should equal nearest distance at (%d,%d)", x, y)
			}
		}
	}
}

func TestGenerator_SmoothnessBlendsTowardSecond(t *testing.T) {
	pNear := baseParams()
	pNear.Mode = ModeNearestDistance

	pSmooth := baseParams()
	pSmooth.Mode = ModeSmoothDistance
	pSmooth.Smoothness = 0.5

	gn, err := NewGenerator(pNear)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	gs, err := NewGenerator(pSmooth)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	for y := 0; y < pSmooth.Height; y++ {
		for x := 0; x < pSmooth.Width; x++ {
			near := gn.Pixel(x, y).R
			smooth := gs.Pixel(x, y).R
			// Blending only ever moves the value up toward the
			// second-nearest distance.
			if smooth < near-1e-6 {
				t.Fatalf("Smoothed distance %v below nearest %v at (%d,%d)", smooth, near, x, y)
			}
		}
	}
}

func TestGenerator_ColorModeOpaque(t *testing.T) {
	p := baseParams()
	p.Smoothness = 0.3

	g, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			px := g.Pixel(x, y)
			if px.A != 1 {
				t.Fatalf("Expected opaque alpha at (%d,%d), got %v", x, y, px.A)
			}
			for _, c := range []float32{px.R, px.G, px.B} {
				if c < 0 || c > 1 {
					t.Fatalf("Color channel out of range at (%d,%d): %v", x, y, c)
				}
			}
		}
	}
}

func TestGenerator_PositionModeEncoding(t *testing.T) {
	p := baseParams()
	p.Mode = ModePosition
	p.Randomness = 0

	g, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	// 32px wide at cell size 8 gives 4 lattice cells; cell centers sit at
	// 0.5, 1.5, 2.5, 3.5 so normalized positions are k/4 + 1/8.
	px := g.Pixel(0, 0)
	want := float32(0.5 / 4.0)
	if math.Abs(float64(px.R-want)) > 1e-6 || math.Abs(float64(px.G-want)) > 1e-6 {
		t.Errorf("Pixel(0,0) position = (%v, %v), want (%v, %v)", px.R, px.G, want, want)
	}
	if px.B != 0 {
		t.Errorf("Position mode blue channel = %v, want 0", px.B)
	}

	px = g.Pixel(31, 31)
	want = float32(3.5 / 4.0)
	if math.Abs(float64(px.R-want)) > 1e-6 || math.Abs(float64(px.G-want)) > 1e-6 {
		t.Errorf("Pixel(31,31) position = (%v, %v), want (%v, %v)", px.R, px.G, want, want)
	}
}

func TestGenerator_ClampBoundsChannels(t *testing.T) {
	p := baseParams()
	p.Mode = ModeNearestDistance
	p.Metric = Manhattan
	p.Clamp = true

	g, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			px := g.Pixel(x, y)
			for _, c := range []float32{px.R, px.G, px.B} {
				if c < 0 || c > 1 {
					t.Fatalf("Clamped channel out of range at (%d,%d): %v", x, y, c)
				}
			}
		}
	}
}

func TestGenerator_OffsetShiftsField(t *testing.T) {
	p := baseParams()
	p.Mode = ModeNearestDistance

	shifted := p
	shifted.OffsetX = 8 // exactly one cell

	g, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	gs, err := NewGenerator(shifted)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var differing int
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if g.Pixel(x, y) != gs.Pixel(x, y) {
				differing++
			}
		}
	}
	if differing == 0 {
		t.Error("Expected offset to change the rendered field")
	}
}

func TestRender_MatchesPixel(t *testing.T) {
	p := baseParams()
	p.Smoothness = 0.25

	g, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	buf, err := g.Render(context.Background(), 4)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if buf.At(x, y) != g.Pixel(x, y) {
				t.Fatalf("Rendered pixel (%d,%d) differs from direct evaluation", x, y)
			}
		}
	}
}

func TestRender_Cancelled(t *testing.T) {
	p := baseParams()
	p.Width = 256
	p.Height = 256

	g, err := NewGenerator(p)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Render(ctx, 2); err == nil {
		t.Error("Expected error from cancelled render")
	}
}
