// Package rng provides a pure, seed-threaded pseudo-random stream.
//
// # Determinism
//
// Every function takes the current Seed and returns the value it produced
// together with the next Seed. There is no hidden generator state: the same
// Seed always yields the same (value, next) pair, so callers store the
// returned seed in their own state and pass it into the next draw.
package rng

// Seed is the complete state of the stream.
type Seed uint32

// golden is the mulberry32 increment.
const golden = 0x6D2B79F5

// Next advances the seed and returns a float in [0, 1).
func Next(seed Seed) (float64, Seed) {
	next := uint32(seed) + golden
	t := next
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	t ^= t >> 14
	return float64(t) / 4294967296.0, Seed(next)
}

// Intn returns an integer in [0, n). n <= 0 yields 0 without advancing.
func Intn(seed Seed, n int) (int, Seed) {
	if n <= 0 {
		return 0, seed
	}
	v, next := Next(seed)
	i := int(v * float64(n))
	if i >= n {
		i = n - 1
	}
	return i, next
}

// Roll returns a die result in [1, sides].
func Roll(seed Seed, sides int) (int, Seed) {
	v, next := Intn(seed, sides)
	return v + 1, next
}

// Shuffle returns a Fisher-Yates shuffled copy of items.
func Shuffle[T any](seed Seed, items []T) ([]T, Seed) {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		var j int
		j, seed = Intn(seed, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out, seed
}
