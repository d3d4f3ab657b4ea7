package vmath

import "time"

// FastRand is a xorshift64 generator (13, 17, 5)
// Not safe for concurrent use; one instance per goroutine
type FastRand struct {
	state uint64
}

// NewFastRand seeds a generator; zero seed is remapped since xorshift sticks at zero
func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

// NewTimeSeeded seeds from the wall clock
func NewTimeSeeded() *FastRand {
	return NewFastRand(uint64(time.Now().UnixNano()))
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Uint64 satisfies math/rand/v2.Source
func (r *FastRand) Uint64() uint64 {
	return r.Next()
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a uniform sample in [0,1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}
