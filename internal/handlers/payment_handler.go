package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"snackreach/internal/middleware"
	"snackreach/internal/models"
	"snackreach/internal/repository"
	"snackreach/internal/services"
)

type PaymentHandler struct {
	accounts  repository.PaymentAccountRepository
	users     repository.UserRepository
	plaid     *services.PlaidClient
	stripe    *services.StripeClient
	validator *validator.Validate
}

func NewPaymentHandler(accounts repository.PaymentAccountRepository, users repository.UserRepository, plaid *services.PlaidClient, stripe *services.StripeClient) *PaymentHandler {
	return &PaymentHandler{
		accounts:  accounts,
		users:     users,
		plaid:     plaid,
		stripe:    stripe,
		validator: validator.New(),
	}
}

// @Tags Payments
// @Summary Create a Plaid Link token
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/payments/link-token [post]
func (h *PaymentHandler) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	linkToken, err := h.plaid.CreateLinkToken(r.Context(), userID)
	if err != nil {
		log.Printf("payments: link token creation failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "link_token_failed", "Failed to create link token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"link_token": linkToken})
}

// LinkBankAccount runs the Plaid → Stripe handoff: exchange the public
// token, mint a processor bank account token, attach it to the user's
// Stripe customer, and record the linkage.
// @Tags Payments
// @Summary Link a bank account
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.LinkBankAccountRequest true "Plaid Link result"
// @Success 201 {object} models.PaymentAccount
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/payments/bank-accounts [post]
func (h *PaymentHandler) LinkBankAccount(w http.ResponseWriter, r *http.Request) {
	var req models.LinkBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	userID := middleware.UserID(r.Context())
	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "link_failed", "Failed to link bank account")
		return
	}

	accessToken, itemID, err := h.plaid.ExchangePublicToken(r.Context(), req.PublicToken)
	if err != nil {
		log.Printf("payments: public token exchange failed: %v", err)
		writeJSONError(w, http.StatusBadRequest, "link_failed", "Failed to verify bank account")
		return
	}

	bankToken, err := h.plaid.CreateStripeBankAccountToken(r.Context(), accessToken, req.AccountID)
	if err != nil {
		log.Printf("payments: processor token creation failed: %v", err)
		writeJSONError(w, http.StatusBadRequest, "link_failed", "Failed to verify bank account")
		return
	}

	// Reuse the Stripe customer from a previous linkage when present.
	customerID := ""
	if existing, err := h.accounts.GetByUserID(r.Context(), userID); err == nil {
		customerID = existing.StripeCustomerID
	} else if err != sql.ErrNoRows {
		writeJSONError(w, http.StatusInternalServerError, "link_failed", "Failed to link bank account")
		return
	}
	if customerID == "" {
		customerID, err = h.stripe.CreateCustomer(r.Context(), u.Email, u.Name)
		if err != nil {
			log.Printf("payments: stripe customer creation failed: %v", err)
			writeJSONError(w, http.StatusInternalServerError, "link_failed", "Failed to link bank account")
			return
		}
	}

	source, err := h.stripe.AttachBankAccount(r.Context(), customerID, bankToken)
	if err != nil {
		log.Printf("payments: attaching bank account failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "link_failed", "Failed to link bank account")
		return
	}

	account := &models.PaymentAccount{
		UserID:              userID,
		StripeCustomerID:    customerID,
		StripeBankAccountID: source.ID,
		PlaidAccessToken:    accessToken,
		PlaidItemID:         itemID,
		BankName:            source.BankName,
		Last4:               source.Last4,
		Status:              models.PaymentAccountStatusLinked,
	}
	if source.Status == "verified" {
		account.Status = models.PaymentAccountStatusVerified
	}

	if err := h.accounts.Upsert(r.Context(), account); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "link_failed", "Failed to link bank account")
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

func (h *PaymentHandler) GetBankAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetByUserID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "not_linked", "No bank account linked")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_bank_account_failed", "Failed to get bank account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *PaymentHandler) UnlinkBankAccount(w http.ResponseWriter, r *http.Request) {
	err := h.accounts.DeleteByUserID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "not_linked", "No bank account linked")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "unlink_failed", "Failed to unlink bank account")
		return
	}

	writeJSONMessage(w, http.StatusOK, "bank account unlinked")
}
