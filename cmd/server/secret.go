package main

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// randomSecret is used when no JWT secret is configured.
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString() + uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
