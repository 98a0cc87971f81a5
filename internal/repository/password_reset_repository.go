package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"snackreach/internal/models"
)

// ErrResetTokenInvalid covers every unusable-token case: no matching hash,
// wrong user, expired, or already consumed. Callers must not distinguish
// between them.
var ErrResetTokenInvalid = errors.New("reset token invalid")

type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	// Consume atomically redeems the matching unused, unexpired token for
	// the user and swaps in the new password hash. At most one concurrent
	// call per token succeeds; losers get ErrResetTokenInvalid.
	Consume(ctx context.Context, userID string, tokenHash string, newPasswordHash string, now time.Time) error
}

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query, token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt).Scan(&token.CreatedAt)
	return err
}

func (r *passwordResetRepository) Consume(ctx context.Context, userID string, tokenHash string, newPasswordHash string, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Row lock serializes concurrent redemptions of the same token.
	var tokenID string
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM password_reset_tokens
		WHERE user_id = $1
		  AND token_hash = $2
		  AND used_at IS NULL
		  AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, userID, tokenHash, now).Scan(&tokenID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrResetTokenInvalid
		}
		return err
	}

	// Password update comes first: if it fails the transaction rolls back
	// and the token stays redeemable for a retry.
	res, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, newPasswordHash, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResetTokenInvalid
	}

	res, err = tx.ExecContext(ctx, `UPDATE password_reset_tokens SET used_at = $1 WHERE id = $2 AND used_at IS NULL`, now, tokenID)
	if err != nil {
		return err
	}
	n, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResetTokenInvalid
	}

	return tx.Commit()
}
