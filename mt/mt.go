// Package mt implements the 32-bit Mersenne Twister (MT19937) used as the
// single entropy source of every distribution in pdgen.
//
// A Source is not safe for concurrent use. Wrap it (or the pdgen.Generator
// built on it) in a pdgen.SyncGenerator when several goroutines share it.
package mt

import (
	"math"
	"math/rand"
)

var _ rand.Source = (*Source)(nil)
var _ rand.Source64 = (*Source)(nil)

const (
	n = 624
	m = 397

	initMultiplier = 1812433253
	matrixA        = 0x9908b0df // 2567483615
	upperMask      = 0x80000000
	lowerMask      = 0x7fffffff
	temperingB     = 0x9d2c5680
	temperingC     = 0xefc60000

	// MaxWord is the divisor of the unit interval mapping. Division by
	// 2^32-1 rather than 2^32 makes the all-ones word map to exactly 1.0.
	MaxWord = math.MaxUint32
)

// MaxBelowOne is what Float64 returns in place of 1.0.
var MaxBelowOne = math.Nextafter(1, 0)

// SmallestPositive is the smallest non-zero value Float64 can return.
const SmallestPositive = 1.0 / MaxWord

// Source holds the generator state: 624 words and a cursor. The zero value is
// not usable; create sources with New.
type Source struct {
	state [n]uint32
	index int
	seed  uint32
}

// New returns a Source seeded with seed.
func New(seed uint32) *Source {
	s := &Source{}
	s.init(seed)
	return s
}

func (s *Source) init(seed uint32) {
	s.seed = seed
	s.index = 0
	s.state[0] = seed
	for i := 1; i < n; i++ {
		prev := s.state[i-1]
		s.state[i] = initMultiplier*(prev^(prev>>30)) + uint32(i)
	}
}

// Seed implements rand.Source. Only the low 32 bits of seed are used.
func (s *Source) Seed(seed int64) {
	s.init(uint32(seed))
}

// SeedValue returns the seed the state was initialised from.
func (s *Source) SeedValue() uint32 {
	return s.seed
}

// twist refills the whole state. It runs once every 624 extractions.
func (s *Source) twist() {
	for i := 0; i < n; i++ {
		y := (s.state[i] & upperMask) | (s.state[(i+1)%n] & lowerMask)
		s.state[i] = s.state[(i+m)%n] ^ (y >> 1)
		if y&1 != 0 {
			s.state[i] ^= matrixA
		}
	}
}

// Uint32 returns the next tempered word and advances the cursor.
func (s *Source) Uint32() uint32 {
	if s.index == 0 {
		s.twist()
	}

	y := s.state[s.index]
	y ^= y >> 11
	y ^= (y << 7) & temperingB
	y ^= (y << 15) & temperingC
	y ^= y >> 18

	s.index = (s.index + 1) % n
	return y
}

// Uint64 implements rand.Source64 by joining two consecutive words, high word
// first.
func (s *Source) Uint64() uint64 {
	hi := uint64(s.Uint32())
	lo := uint64(s.Uint32())
	return hi<<32 | lo
}

// Int63 implements rand.Source.
func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Inclusive returns the next word divided by 2^32-1, a value in [0, 1].
func (s *Source) Inclusive() float64 {
	return float64(s.Uint32()) / MaxWord
}

// Float64 returns the next word as a value in [0, 1). It is Inclusive with
// the single value 1.0 replaced by MaxBelowOne, so consumers may rely on
// 1-u > 0.
func (s *Source) Float64() float64 {
	w := s.Uint32()
	if w == MaxWord {
		return MaxBelowOne
	}
	return float64(w) / MaxWord
}
