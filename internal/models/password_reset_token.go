package models

import "time"

// PasswordResetToken stores the sha256 digest of an emailed single-use
// token. The plaintext is never persisted. A row past ExpiresAt or with
// UsedAt set can never authorize a password change again.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
