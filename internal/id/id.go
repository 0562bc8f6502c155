package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a fresh random identifier.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// Valid reports whether s has the shape produced by NewID.
func Valid(s string) bool {
	if len(s) != 26 {
		return false
	}
	decoded, err := encoding.DecodeString(strings.ToUpper(s))
	return err == nil && len(decoded) == 16 && strings.ToLower(s) == s
}
