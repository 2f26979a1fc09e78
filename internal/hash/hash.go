// Package hash provides the deterministic integer hashing shared by the
// procedural kernels. All functions are pure and produce identical results
// on every platform, which keeps renders reproducible across machines.
package hash

import "math"

// Derived-value constants. Each per-cell value XORs the cell's base hash with
// one of these before re-hashing, so a single Hash3 call yields several
// independent-looking streams.
const (
	JitterX = 0xA511E9B3
	JitterY = 0x63D83595
	JitterW = 0x1F1D8E33
	ColorR  = 0xB5297A4D
	ColorG  = 0x68E31DA4
	ColorB  = 0x1B56C4E9
)

// U32 is a branchless avalanche mix over a 32-bit value.
func U32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7FEB352D
	x ^= x >> 15
	x *= 0x846CA68B
	x ^= x >> 16
	return x
}

// Hash3 folds an integer lattice coordinate and a seed into a single hash.
func Hash3(x, y, w int32, seed uint32) uint32 {
	h := seed ^ 0x9E3779B9
	h += uint32(x) * 0x85EBCA6B
	h += uint32(y) * 0xC2B2AE35
	h += uint32(w) * 0x27D4EB2D
	return U32(h)
}

// Rand01 maps a hash to [0,1].
func Rand01(h uint32) float32 {
	return float32(h) / float32(math.MaxUint32)
}
