package differential

import (
	"fmt"
	"math"
)

// ResponseMode maps an unbounded channel value into the output range.
type ResponseMode int

const (
	// ResponseClamp truncates to [0,1].
	ResponseClamp ResponseMode = iota
	// ResponseSoftClamp compresses asymptotically into (0,1); finite inputs
	// never reach the bounds, avoiding a clipping discontinuity.
	ResponseSoftClamp
	// ResponseMirror folds a period-2 triangle wave into [0,1].
	ResponseMirror
	// ResponseWrap takes the value modulo 1 into [0,1).
	ResponseWrap
	// ResponseIdentity passes the value through unclamped.
	ResponseIdentity
)

// ParseResponseMode maps a response curve name to its constant.
func ParseResponseMode(name string) (ResponseMode, error) {
	switch name {
	case "clamp":
		return ResponseClamp, nil
	case "soft-clamp":
		return ResponseSoftClamp, nil
	case "mirror":
		return ResponseMirror, nil
	case "wrap":
		return ResponseWrap, nil
	case "identity", "pass-through":
		return ResponseIdentity, nil
	default:
		return 0, fmt.Errorf("unknown response curve %q", name)
	}
}

func (m ResponseMode) String() string {
	switch m {
	case ResponseClamp:
		return "clamp"
	case ResponseSoftClamp:
		return "soft-clamp"
	case ResponseMirror:
		return "mirror"
	case ResponseWrap:
		return "wrap"
	case ResponseIdentity:
		return "identity"
	default:
		return fmt.Sprintf("response(%d)", int(m))
	}
}

// ApplyResponse maps v through the response curve.
func ApplyResponse(v float32, mode ResponseMode) float32 {
	switch mode {
	case ResponseSoftClamp:
		return softClamp01(v)
	case ResponseMirror:
		return mirror01(v)
	case ResponseWrap:
		return wrap01(v)
	case ResponseIdentity:
		return v
	default: // ResponseClamp
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
}

func softClamp01(v float32) float32 {
	centered := v - 0.5
	return 0.5 + 0.5*(centered/(1+abs32(centered)))
}

func wrap01(v float32) float32 {
	return floorModf(v, 1)
}

func mirror01(v float32) float32 {
	t := floorModf(v, 2)
	if t <= 1 {
		return t
	}
	return 2 - t
}

// floorModf is the non-negative remainder of v / n.
func floorModf(v, n float32) float32 {
	r := float32(math.Mod(float64(v), float64(n)))
	if r < 0 {
		r += n
	}
	return r
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
