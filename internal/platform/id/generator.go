package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers, e.g. for sync runs.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time-ordered v7 UUIDs so run ids sort by start time.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Valid reports whether raw parses as a UUID.
func Valid(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}
