package helpers

import "math/rand/v2"

// SystemRandom draws from the process-wide generator, which is safe for concurrent use.
type SystemRandom struct{}

func (SystemRandom) Float64() float64 {
	return rand.Float64()
}

// FixedRandom always returns the same value. Used to pin the jittered fields.
type FixedRandom float64

func (f FixedRandom) Float64() float64 {
	return float64(f)
}
