package util

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NewUUID returns a random UUID in base58, 22 characters at most.
func NewUUID() string {
	id := uuid.New()
	return base58.Encode(id[:])
}

// IsUUID reports whether s is a base58 string produced by NewUUID.
func IsUUID(s string) bool {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != len(uuid.UUID{}) {
		return false
	}
	_, err = uuid.FromBytes(raw)
	return err == nil
}
