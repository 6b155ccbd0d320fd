package auth

import "github.com/google/uuid"

// IDGenerator produces opaque unique identifiers for new entities.
type IDGenerator interface {
	New() string
}

// UUIDGenerator implements IDGenerator with random UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a UUID-backed IDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// New returns a fresh UUID string.
func (*UUIDGenerator) New() string {
	return uuid.New().String()
}
