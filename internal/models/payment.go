package models

import "time"

type PaymentAccountStatus string

const (
	PaymentAccountStatusLinked   PaymentAccountStatus = "linked"
	PaymentAccountStatusVerified PaymentAccountStatus = "verified"
)

// PaymentAccount records the Stripe/Plaid linkage for a user. Processor
// credentials never leave the API.
type PaymentAccount struct {
	ID                  string               `json:"id"`
	UserID              string               `json:"user_id"`
	StripeCustomerID    string               `json:"-"`
	StripeBankAccountID string               `json:"-"`
	PlaidAccessToken    string               `json:"-"`
	PlaidItemID         string               `json:"-"`
	BankName            string               `json:"bank_name,omitempty"`
	Last4               string               `json:"last4,omitempty"`
	Status              PaymentAccountStatus `json:"status"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type LinkBankAccountRequest struct {
	PublicToken string `json:"public_token" validate:"required"`
	AccountID   string `json:"account_id" validate:"required"`
}
