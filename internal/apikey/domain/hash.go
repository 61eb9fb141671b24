package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashAPIKey is the at-rest form of a key. Only the hash is stored;
// Verify recomputes it from the presented raw key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
