package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"snackreach/internal/models"
)

func newResetRepo(t *testing.T) (PasswordResetRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewPasswordResetRepository(db), mock, func() { db.Close() }
}

func TestPasswordResetCreate(t *testing.T) {
	repo, mock, cleanup := newResetRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	token := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    "u-1",
		TokenHash: "hash",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}

	mock.ExpectQuery(`INSERT INTO password_reset_tokens`).
		WithArgs(token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeHappyPathCommits(t *testing.T) {
	repo, mock, cleanup := newResetRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id\s+FROM password_reset_tokens`).
		WithArgs("u-1", "hash", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t-1"))
	mock.ExpectExec(`UPDATE users SET password_hash = \$1 WHERE id = \$2`).
		WithArgs("newhash", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE password_reset_tokens SET used_at = \$1 WHERE id = \$2 AND used_at IS NULL`).
		WithArgs(now, "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Consume(context.Background(), "u-1", "hash", "newhash", now); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeNoMatchingToken(t *testing.T) {
	repo, mock, cleanup := newResetRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id\s+FROM password_reset_tokens`).
		WithArgs("u-1", "hash", now).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Consume(context.Background(), "u-1", "hash", "newhash", now)
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeRollsBackWhenPasswordUpdateFails(t *testing.T) {
	repo, mock, cleanup := newResetRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id\s+FROM password_reset_tokens`).
		WithArgs("u-1", "hash", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t-1"))
	mock.ExpectExec(`UPDATE users SET password_hash = \$1 WHERE id = \$2`).
		WithArgs("newhash", "u-1").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Consume(context.Background(), "u-1", "hash", "newhash", now)
	if err == nil || errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected the underlying error to surface, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("token row must stay untouched when the password write fails: %v", err)
	}
}

func TestConsumeLosingRaceDoesNotCommit(t *testing.T) {
	repo, mock, cleanup := newResetRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id\s+FROM password_reset_tokens`).
		WithArgs("u-1", "hash", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t-1"))
	mock.ExpectExec(`UPDATE users SET password_hash = \$1 WHERE id = \$2`).
		WithArgs("newhash", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE password_reset_tokens SET used_at = \$1 WHERE id = \$2 AND used_at IS NULL`).
		WithArgs(now, "t-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Consume(context.Background(), "u-1", "hash", "newhash", now)
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for the losing caller, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
