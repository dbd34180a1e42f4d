package scratch

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// Source yields uniform integers in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type secureSource struct{}

// IntN returns a uniform random int in [0, n) using crypto/rand (CSPRNG).
func (secureSource) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// SecureSource is the default source for real plays. Safe for concurrent use.
var SecureSource Source = secureSource{}

// NewSeededSource returns a reproducible source. Not safe for concurrent use.
func NewSeededSource(seed uint64) Source {
	return newStream(seed, seed)
}

func newStream(seed, stream uint64) *mrand.Rand {
	return mrand.New(mrand.NewPCG(seed, stream))
}
