package jobs

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID generates a random 32-character hex job identifier.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// GenerateSuffix generates a random 6-character hex suffix used to make job
// names collision-resistant.
func GenerateSuffix() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
