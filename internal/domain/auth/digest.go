package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex-encoded SHA-256 digest of a plaintext password.
// The same transform is applied at enrollment and at verification time;
// verification is digest equality, never plaintext comparison. It accepts
// any string, including empty — rejecting degenerate input is the caller's
// concern.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
