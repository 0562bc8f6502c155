// Package rng provides the battle's deterministic random source.
//
// Source is a xorshift64* generator held by value. Every draw returns the
// advanced Source instead of mutating shared state, so two equal sources
// always produce the same sequence regardless of platform or runtime.
package rng

// defaultSeed replaces a zero seed, which would lock xorshift at zero.
const defaultSeed uint64 = 0x9E3779B97F4A7C15

const multiplier uint64 = 0x2545F4914F6CDD1D

// Source is a value-typed pseudo-random generator.
type Source struct {
	State uint64 `json:"state"`
}

// New seeds a source.
func New(seed uint64) Source {
	if seed == 0 {
		seed = defaultSeed
	}
	return Source{State: seed}
}

func (s Source) next() (uint64, Source) {
	x := s.State
	if x == 0 {
		x = defaultSeed
	}
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	return x * multiplier, Source{State: x}
}

// NextInt returns a value in [0, bound) and the advanced source. A
// non-positive bound returns 0 without consuming state.
func (s Source) NextInt(bound int) (int, Source) {
	if bound <= 0 {
		return 0, s
	}
	out, next := s.next()
	return int((out >> 32) % uint64(bound)), next
}

// Chance rolls a percentage. Certain outcomes (<=0 or >=100) do not
// consume state.
func (s Source) Chance(percent int) (bool, Source) {
	if percent <= 0 {
		return false, s
	}
	if percent >= 100 {
		return true, s
	}
	roll, next := s.NextInt(100)
	return roll < percent, next
}
