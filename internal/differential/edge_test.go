package differential

import "testing"

func TestParseEdgeMode(t *testing.T) {
	tests := []struct {
		name string
		want EdgeMode
	}{
		{"none", EdgeNone},
		{"repeat", EdgeRepeat},
		{"tile", EdgeTile},
		{"mirror", EdgeMirror},
	}

	for _, tt := range tests {
		got, err := ParseEdgeMode(tt.name)
		if err != nil {
			t.Errorf("ParseEdgeMode(%q) returned error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEdgeMode(%q) = %v, want %v", tt.name, got, tt.want)
		}
		if got.String() != tt.name {
			t.Errorf("EdgeMode(%v).String() = %q, want %q", got, got.String(), tt.name)
		}
	}

	if _, err := ParseEdgeMode("clamp"); err == nil {
		t.Error("Expected error for unknown edge mode name")
	}
}

func TestResolveCoord(t *testing.T) {
	tests := []struct {
		name   string
		coord  int
		length int
		mode   EdgeMode
		want   int
		wantOK bool
	}{
		{"none in range", 3, 8, EdgeNone, 3, true},
		{"none below", -1, 8, EdgeNone, 0, false},
		{"none above", 8, 8, EdgeNone, 0, false},

		{"repeat in range", 3, 8, EdgeRepeat, 3, true},
		{"repeat below", -5, 8, EdgeRepeat, 0, true},
		{"repeat above", 12, 8, EdgeRepeat, 7, true},

		{"tile in range", 3, 8, EdgeTile, 3, true},
		{"tile below", -1, 8, EdgeTile, 7, true},
		{"tile below far", -9, 8, EdgeTile, 7, true},
		{"tile above", 8, 8, EdgeTile, 0, true},
		{"tile above far", 19, 8, EdgeTile, 3, true},

		{"mirror in range", 3, 8, EdgeMirror, 3, true},
		{"mirror below", -1, 8, EdgeMirror, 1, true},
		{"mirror above", 8, 8, EdgeMirror, 6, true},
		{"mirror above two", 9, 8, EdgeMirror, 5, true},
		{"mirror full period", 14, 8, EdgeMirror, 0, true},
		{"mirror past period", 15, 8, EdgeMirror, 1, true},
		{"mirror single pixel", 5, 1, EdgeMirror, 0, true},

		{"empty axis", 0, 0, EdgeRepeat, 0, false},
	}

	for _, tt := range tests {
		got, ok := ResolveCoord(tt.coord, tt.length, tt.mode)
		if ok != tt.wantOK {
			t.Errorf("%s: ResolveCoord ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("%s: ResolveCoord = %d, want %d", tt.name, got, tt.want)
		}
	}
}

// Mirror endpoints are fixed points: stepping one past either end lands one
// pixel inside, never on the end pixel twice.
func TestResolveCoord_MirrorSeam(t *testing.T) {
	const length = 6

	left, _ := ResolveCoord(-1, length, EdgeMirror)
	inside, _ := ResolveCoord(1, length, EdgeMirror)
	if left != inside {
		t.Errorf("Mirror at -1 = %d, want %d", left, inside)
	}

	right, _ := ResolveCoord(length, length, EdgeMirror)
	insideRight, _ := ResolveCoord(length-2, length, EdgeMirror)
	if right != insideRight {
		t.Errorf("Mirror at %d = %d, want %d", length, right, insideRight)
	}
}

func TestResolveCoord_TilePeriodic(t *testing.T) {
	const length = 5
	for coord := -12; coord < 12; coord++ {
		a, _ := ResolveCoord(coord, length, EdgeTile)
		b, _ := ResolveCoord(coord+length, length, EdgeTile)
		if a != b {
			t.Errorf("Tile not periodic at %d: %d vs %d", coord, a, b)
		}
		if a < 0 || a >= length {
			t.Errorf("Tile result out of range at %d: %d", coord, a)
		}
	}
}
