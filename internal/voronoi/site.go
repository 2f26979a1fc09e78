package voronoi

import "github.com/MeKo-Tech/texturefield/internal/hash"

// Site is one jittered lattice point. It is a pure function of its integer
// cell coordinate, the randomness amount, and the seed; it is recomputed on
// demand and never stored.
type Site struct {
	X    float32
	Y    float32
	W    float32
	Hash uint32
}

// cellSite derives the site for one lattice cell. Jitter per axis lies in
// [0.5-randomness/2, 0.5+randomness/2] of the cell, so randomness 0 yields
// the regular grid and randomness 1 lets sites reach cell boundaries.
func cellSite(cx, cy, cw int32, randomness float32, seed uint32) Site {
	h := hash.Hash3(cx, cy, cw, seed)
	rx := hash.Rand01(hash.U32(h ^ hash.JitterX))
	ry := hash.Rand01(hash.U32(h ^ hash.JitterY))
	rw := hash.Rand01(hash.U32(h ^ hash.JitterW))
	return Site{
		X:    float32(cx) + 0.5 + (rx-0.5)*randomness,
		Y:    float32(cy) + 0.5 + (ry-0.5)*randomness,
		W:    float32(cw) + 0.5 + (rw-0.5)*randomness,
		Hash: h,
	}
}

// siteColor derives a stable pseudo-random RGB triple from a site hash.
func siteColor(h uint32) (r, g, b float32) {
	r = hash.Rand01(hash.U32(h ^ hash.ColorR))
	g = hash.Rand01(hash.U32(h ^ hash.ColorG))
	b = hash.Rand01(hash.U32(h ^ hash.ColorB))
	return r, g, b
}
