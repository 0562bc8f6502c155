// Package random provides cryptographic seed generation helpers.
//
// It uses crypto/rand to generate high-entropy seeds suitable for
// initializing the deterministic battle RNG.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// NewSeed generates a random battle seed using crypto/rand.
func NewSeed() (uint64, error) {
	return seedFrom(crand.Reader)
}

func seedFrom(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}
