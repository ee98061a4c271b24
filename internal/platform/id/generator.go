package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator produces opaque public identifiers. Database surrogate keys
// never leave the repository layer, so every externally visible record
// carries one of these instead.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator emits 32 hex characters of crypto/rand entropy.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
