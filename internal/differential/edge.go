package differential

import "fmt"

// EdgeMode is the policy for resolving an out-of-range sample coordinate.
type EdgeMode int

const (
	// EdgeNone yields no sample; the caller substitutes a transparent
	// zero pixel.
	EdgeNone EdgeMode = iota
	// EdgeRepeat clamps to the nearest valid coordinate.
	EdgeRepeat
	// EdgeTile wraps periodically with period len.
	EdgeTile
	// EdgeMirror reflects with period 2*len-2; the endpoints are fixed
	// points, so the seam pixel is not doubled.
	EdgeMirror
)

// ParseEdgeMode maps an edge mode name to its constant.
func ParseEdgeMode(name string) (EdgeMode, error) {
	switch name {
	case "none":
		return EdgeNone, nil
	case "repeat":
		return EdgeRepeat, nil
	case "tile":
		return EdgeTile, nil
	case "mirror":
		return EdgeMirror, nil
	default:
		return 0, fmt.Errorf("unknown edge mode %q", name)
	}
}

func (m EdgeMode) String() string {
	switch m {
	case EdgeNone:
		return "none"
	case EdgeRepeat:
		return "repeat"
	case EdgeTile:
		return "tile"
	case EdgeMirror:
		return "mirror"
	default:
		return fmt.Sprintf("edge(%d)", int(m))
	}
}

// ResolveCoord maps a possibly out-of-range 1-D coordinate to a valid sample
// coordinate under the edge policy. ok is false only under EdgeNone, or when
// the axis is empty.
func ResolveCoord(coord, length int, mode EdgeMode) (int, bool) {
	if length <= 0 {
		return 0, false
	}
	switch mode {
	case EdgeNone:
		if coord < 0 || coord >= length {
			return 0, false
		}
		return coord, true
	case EdgeTile:
		return floorMod(coord, length), true
	case EdgeMirror:
		return mirrorCoord(coord, length), true
	default: // EdgeRepeat
		if coord < 0 {
			return 0, true
		}
		if coord >= length {
			return length - 1, true
		}
		return coord, true
	}
}

func mirrorCoord(coord, length int) int {
	if length <= 1 {
		return 0
	}
	period := 2*length - 2
	t := floorMod(coord, period)
	if t < length {
		return t
	}
	return period - t
}

// floorMod is the non-negative remainder.
func floorMod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
