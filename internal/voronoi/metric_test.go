package voronoi

import (
	"math"
	"testing"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		name string
		want Metric
	}{
		{"euclidean", Euclidean},
		{"manhattan", Manhattan},
		{"chebyshev", Chebyshev},
		{"minkowski", Minkowski},
		{"lp", Minkowski},
	}

	for _, tt := range tests {
		got, err := ParseMetric(tt.name)
		if err != nil {
			t.Errorf("ParseMetric(%q) returned error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMetric(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := ParseMetric("taxicab"); err == nil {
		t.Error("Expected error for unknown metric name")
	}
}

func TestDistance_KnownValues(t *testing.T) {
	const eps = 1e-6

	tests := []struct {
		name       string
		dx, dy, dw float32
		metric     Metric
		lpExp      float32
		want       float64
	}{
		{"euclidean 3-4-0", 3, 4, 0, Euclidean, 2, 5},
		{"euclidean 1-2-2", 1, 2, 2, Euclidean, 2, 3},
		{"manhattan", 1, -2, 3, Manhattan, 2, 6},
		{"chebyshev", 1, -5, 3, Chebyshev, 2, 5},
		{"minkowski p=2 matches euclidean", 3, 4, 0, Minkowski, 2, 5},
		{"minkowski p=1 matches manhattan", 1, -2, 3, Minkowski, 1, 6},
	}

	for _, tt := range tests {
		got := float64(Distance(tt.dx, tt.dy, tt.dw, tt.metric, tt.lpExp))
		if math.Abs(got-tt.want) > eps {
			t.Errorf("%s: Distance = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDistance_MinkowskiLargePApproachesChebyshev(t *testing.T) {
	dx, dy, dw := float32(1.0), float32(-0.7), float32(0.3)

	mink := Distance(dx, dy, dw, Minkowski, 64)
	cheb := Distance(dx, dy, dw, Chebyshev, 2)

	if diff := math.Abs(float64(mink - cheb)); diff > 0.02 {
		t.Errorf("Minkowski p=64 should approach Chebyshev: got %v vs %v", mink, cheb)
	}
}

func TestDistance_LpExponentFloored(t *testing.T) {
	dx, dy, dw := float32(0.5), float32(0.25), float32(0.125)

	got := Distance(dx, dy, dw, Minkowski, 0)
	want := Distance(dx, dy, dw, Minkowski, minLpExponent)

	if got != want {
		t.Errorf("Exponent 0 should behave like the floor %v: got %v, want %v", minLpExponent, got, want)
	}
	if math.IsNaN(float64(got)) || math.IsInf(float64(got), 0) {
		t.Errorf("Floored exponent must stay finite, got %v", got)
	}
}

func TestDistance_NonNegative(t *testing.T) {
	offsets := [][3]float32{
		{0, 0, 0},
		{-1.5, 0.25, 0.75},
		{2, -3, 4},
	}
	metrics := []Metric{Euclidean, Manhattan, Chebyshev, Minkowski}

	for _, o := range offsets {
		for _, m := range metrics {
			if d := Distance(o[0], o[1], o[2], m, 2.5); d < 0 {
				t.Errorf("Distance(%v, %v) = %v, want >= 0", o, m, d)
			}
		}
	}
}
