// Package weighted provides frequency-keyed weighted tables and the
// randomness abstraction consumed by the item generation pipeline.
package weighted

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/big"
	"math/rand"
)

// Source is the randomness provider for weighted selection.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a random float64 in [0, 1).
	Float64() float64
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "weighted: Intn called with n <= 0" if n <= 0.
// Panics with "weighted: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("weighted: Intn called with n <= 0")
	}
	val, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("weighted: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure random float64 in [0, 1).
func (c *cryptoSource) Float64() float64 {
	// 53 bits is the full precision of a float64 mantissa.
	return float64(c.Intn(1<<53)) / (1 << 53)
}

// seededSource implements Source using a seeded math/rand generator.
// It is NOT safe for concurrent use; it exists for reproducible runs
// and deterministic tests.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a Source producing a reproducible stream for
// the given seed.
//
// Postcondition: Two seededSources with equal seeds produce identical streams.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("weighted: Intn called with n <= 0")
	}
	return s.rng.Intn(n)
}

func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}

// NewSeed generates a random seed using crypto/rand, suitable for
// NewSeededSource when a reproducible-but-unpredictable run is wanted.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
