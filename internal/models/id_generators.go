package models

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

type IDGenerator interface {
	ID() (string, error)
}

// ULIDGenerator implements models.IDGenerator and generates ULIDs used for request correlation IDs
type ULIDGenerator struct{}

func (ULIDGenerator) ID() (string, error) {
	now := time.Now()
	ms := ulid.Timestamp(now)
	id, err := ulid.New(ms, rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), err
}

// RandomGenerator implements models.IDGenerator and generates hex-encoded random
// values used for oauth state nonces
type RandomGenerator struct {
	Length int
}

func (r RandomGenerator) ID() (string, error) {
	b := make([]byte, r.Length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func NewRandomGenerator(length int) RandomGenerator {
	return RandomGenerator{length}
}
