package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateResetToken mints a single-use password reset credential: a
// 256-bit random plaintext token and the sha256 digest stored in its
// place. Only the digest ever touches the database.
func GenerateResetToken() (rawToken string, tokenHash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	rawToken = hex.EncodeToString(b)
	return rawToken, HashResetToken(rawToken), nil
}

// HashResetToken re-derives the stored digest from a client-submitted
// plaintext token. Deterministic; same algorithm as GenerateResetToken.
func HashResetToken(rawToken string) string {
	h := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(h[:])
}
