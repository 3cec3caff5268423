package pdgen

import (
	"sync"
)

// SyncGenerator is concurrency safe generator. Requests from different
// goroutines are served one at a time, each drawing a contiguous run of the
// shared state, so the interleaving of callers decides who gets which run.
type SyncGenerator struct {
	g  *Generator
	mu sync.Mutex
}

// Sample implements Sample of the wrapped Generator under the lock.
func (s *SyncGenerator) Sample(req Request) (Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Sample(req)
}

// Seed returns the seed of the wrapped Generator.
func (s *SyncGenerator) Seed() uint32 {
	return s.g.Seed()
}

// NewSyncGenerator create a new SyncGenerator
func NewSyncGenerator(g *Generator) *SyncGenerator {
	return &SyncGenerator{g: g}
}

// Sampler is implemented by Generator and SyncGenerator.
type Sampler interface {
	Sample(req Request) (Sequence, error)
	Seed() uint32
}

var _ Sampler = (*Generator)(nil)
var _ Sampler = (*SyncGenerator)(nil)
