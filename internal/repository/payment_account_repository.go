package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"snackreach/internal/models"
)

type PaymentAccountRepository interface {
	Upsert(ctx context.Context, account *models.PaymentAccount) error
	GetByUserID(ctx context.Context, userID string) (*models.PaymentAccount, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type paymentAccountRepository struct {
	db *sql.DB
}

func NewPaymentAccountRepository(db *sql.DB) PaymentAccountRepository {
	return &paymentAccountRepository{db: db}
}

func (r *paymentAccountRepository) Upsert(ctx context.Context, account *models.PaymentAccount) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	query := `
		INSERT INTO payment_accounts (id, user_id, stripe_customer_id, stripe_bank_account_id, plaid_access_token, plaid_item_id, bank_name, last4, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			stripe_bank_account_id = EXCLUDED.stripe_bank_account_id,
			plaid_access_token = EXCLUDED.plaid_access_token,
			plaid_item_id = EXCLUDED.plaid_item_id,
			bank_name = EXCLUDED.bank_name,
			last4 = EXCLUDED.last4,
			status = EXCLUDED.status,
			updated_at = $10
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		account.ID, account.UserID, account.StripeCustomerID, account.StripeBankAccountID,
		account.PlaidAccessToken, account.PlaidItemID, account.BankName, account.Last4,
		account.Status, time.Now().UTC(),
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *paymentAccountRepository) GetByUserID(ctx context.Context, userID string) (*models.PaymentAccount, error) {
	query := `
		SELECT id, user_id, stripe_customer_id, stripe_bank_account_id, plaid_access_token, plaid_item_id, bank_name, last4, status, created_at, updated_at
		FROM payment_accounts
		WHERE user_id = $1
	`

	var a models.PaymentAccount
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&a.ID, &a.UserID, &a.StripeCustomerID, &a.StripeBankAccountID,
		&a.PlaidAccessToken, &a.PlaidItemID, &a.BankName, &a.Last4,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *paymentAccountRepository) DeleteByUserID(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_accounts WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
