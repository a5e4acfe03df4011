// Package random provides the seeded generator shared by every sketch.
//
// Two sfc32 generators are derived from the halves of a 256-bit seed and
// alternate on every draw. All state arithmetic wraps at 32 bits so a seed
// reproduces the same sequence bit for bit.
package random

import "math"

// warmupDraws is the number of outputs discarded from each generator.
const warmupDraws = 500_000

type sfc32 struct {
	a, b, c, d uint32
}

func newSFC32(state [4]uint32) *sfc32 {
	return &sfc32{a: state[0], b: state[1], c: state[2], d: state[3]}
}

func (s *sfc32) next() uint32 {
	t := s.a + s.b + s.d
	s.d++
	s.a = s.b ^ (s.b >> 9)
	s.b = s.c + (s.c << 3)
	s.c = (s.c<<21 | s.c>>11) + t
	return t
}

// Random alternates between two sfc32 generators, starting with A.
// It is not safe for concurrent use.
type Random struct {
	seed  Seed
	prngA *sfc32
	prngB *sfc32
	useA  bool
}

// New builds and warms up both generators for seed.
func New(seed Seed) *Random {
	a, b := seed.halves()
	r := &Random{
		seed:  seed,
		prngA: newSFC32(a),
		prngB: newSFC32(b),
	}
	for i := 0; i < warmupDraws; i++ {
		r.prngA.next()
		r.prngB.next()
	}
	return r
}

// Seed returns the seed the generator was built from.
func (r *Random) Seed() Seed {
	return r.seed
}

// Uint32 returns the next raw 32-bit output.
func (r *Random) Uint32() uint32 {
	r.useA = !r.useA
	if r.useA {
		return r.prngA.next()
	}
	return r.prngB.next()
}

// Float64 returns a value in [0, 1).
func (r *Random) Float64() float64 {
	return float64(r.Uint32()) / 4294967296
}

// Range returns a value in [a, b).
func (r *Random) Range(a, b float64) float64 {
	return a + (b-a)*r.Float64()
}

// IntRange returns an integer in [a, b], both ends inclusive.
func (r *Random) IntRange(a, b int) int {
	return int(math.Floor(r.Range(float64(a), float64(b+1))))
}

// Bool returns true with probability p.
func (r *Random) Bool(p float64) bool {
	return r.Float64() < p
}

// Choice returns a uniformly selected element of list, or the zero value
// when list is empty.
func Choice[T any](r *Random, list []T) T {
	var zero T
	if len(list) == 0 {
		return zero
	}
	return list[r.IntRange(0, len(list)-1)]
}
