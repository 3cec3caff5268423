package pdgen

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns a seed read from crypto/rand, for callers that want a
// fresh stream rather than a reproducible one.
func NewSeed() (uint32, error) {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint32(b[:]), nil
}
