package voronoi

import (
	"fmt"
	"math"
)

// Metric selects the distance function used for the site search.
type Metric int

const (
	Euclidean Metric = iota
	Manhattan
	Chebyshev
	Minkowski
)

// minLpExponent is the floor applied to the Minkowski exponent. Exponents
// near zero degenerate numerically, so they are silently raised instead of
// rejected.
const minLpExponent = 0.1

// ParseMetric maps a metric name to its constant.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	case "chebyshev":
		return Chebyshev, nil
	case "minkowski", "lp":
		return Minkowski, nil
	default:
		return 0, fmt.Errorf("unknown distance metric %q", name)
	}
}

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	case Minkowski:
		return "minkowski"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Distance evaluates the metric over a 3-D offset. lpExp is only consulted
// for Minkowski.
func Distance(dx, dy, dw float32, m Metric, lpExp float32) float32 {
	switch m {
	case Manhattan:
		return abs32(dx) + abs32(dy) + abs32(dw)
	case Chebyshev:
		return max32(abs32(dx), max32(abs32(dy), abs32(dw)))
	case Minkowski:
		p := float64(max32(lpExp, minLpExponent))
		s := math.Pow(float64(abs32(dx)), p) +
			math.Pow(float64(abs32(dy)), p) +
			math.Pow(float64(abs32(dw)), p)
		return float32(math.Pow(s, 1/p))
	default:
		return float32(math.Sqrt(float64(dx*dx + dy*dy + dw*dw)))
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
