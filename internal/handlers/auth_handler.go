package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"snackreach/internal/config"
	"snackreach/internal/middleware"
	"snackreach/internal/models"
	"snackreach/internal/repository"
	"snackreach/internal/services"
)

// Identical for every unusable-link outcome so callers cannot tell which
// check failed.
const (
	forgotPasswordMessage = "If an account exists, a reset link was sent."
	invalidLinkMessage    = "Invalid or expired link"
	genericFailureMessage = "Something went wrong"
)

const resetTokenTTL = 60 * time.Minute

type AuthHandler struct {
	users   repository.UserRepository
	resets  repository.PasswordResetRepository
	mailer  services.EmailSender
	limiter *middleware.LoginLimiter
	cfg     *config.Config
	v       *validator.Validate
}

func NewAuthHandler(db *sql.DB, cfg *config.Config, mailer services.EmailSender, limiter *middleware.LoginLimiter) *AuthHandler {
	return &AuthHandler{
		users:   repository.NewUserRepository(db),
		resets:  repository.NewPasswordResetRepository(db),
		mailer:  mailer,
		limiter: limiter,
		cfg:     cfg,
		v:       validator.New(),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "signup_failed", "Failed to create user")
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		AccountType:  models.AccountType(req.AccountType),
		Company:      req.Company,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			writeJSONError(w, http.StatusConflict, "email_taken", "An account with this email already exists")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "signup_failed", "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           u.ID,
		"email":        u.Email,
		"account_type": u.AccountType,
		"created_at":   u.CreatedAt,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	ip := r.RemoteAddr
	if blocked, retryAfter := h.limiter.Blocked(r.Context(), ip, req.Identifier); blocked {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		writeJSONError(w, http.StatusTooManyRequests, "too_many_attempts",
			fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Identifier)
	if err != nil {
		h.limiter.RecordFailure(r.Context(), ip, req.Identifier)
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		h.limiter.RecordFailure(r.Context(), ip, req.Identifier)
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}
	h.limiter.Reset(r.Context(), ip, req.Identifier)

	expiresIn := h.cfg.JWTExpiresInSeconds
	if expiresIn <= 0 {
		expiresIn = 86400
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "login_failed", "Failed to login")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   expiresIn,
		Email:       u.Email,
		Name:        u.Name,
		AccountType: string(u.AccountType),
		Company:     u.Company,
	})
}

// ForgotPassword always answers with the same generic message so the
// endpoint cannot be used to probe which emails have accounts. Store and
// mail failures are logged and swallowed for the same reason.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeJSONMessage(w, http.StatusOK, forgotPasswordMessage)
		return
	}

	rawToken, tokenHash, err := services.GenerateResetToken()
	if err != nil {
		log.Printf("forgot-password: token generation failed: %v", err)
		writeJSONMessage(w, http.StatusOK, forgotPasswordMessage)
		return
	}

	now := time.Now().UTC()
	prt := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if err := h.resets.Create(r.Context(), prt); err != nil {
		log.Printf("forgot-password: failed to persist reset record: %v", err)
		writeJSONMessage(w, http.StatusOK, forgotPasswordMessage)
		return
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", h.cfg.AppBaseURL, rawToken, url.QueryEscape(u.Email))
	subject := "Reset your SnackReach password"
	body := "We received a request to reset your password.\n\n" +
		"Open this link to choose a new one:\n\n" + link + "\n\n" +
		"The link expires in 60 minutes. If you didn't request this, you can ignore this email."
	if err := h.mailer.Send(u.Email, subject, body); err != nil {
		log.Printf("forgot-password: failed to send reset email: %v", err)
	}

	writeJSONMessage(w, http.StatusOK, forgotPasswordMessage)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	// Field and password-length checks run before any store lookup.
	if err := h.v.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if err.Error() == "user not found" {
			writeJSONError(w, http.StatusBadRequest, "invalid_link", invalidLinkMessage)
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", genericFailureMessage)
		return
	}

	tokenHash := services.HashResetToken(req.Token)

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", genericFailureMessage)
		return
	}

	if err := h.resets.Consume(r.Context(), u.ID, tokenHash, string(newHash), time.Now().UTC()); err != nil {
		if err == repository.ErrResetTokenInvalid {
			writeJSONError(w, http.StatusBadRequest, "invalid_link", invalidLinkMessage)
			return
		}
		log.Printf("reset-password: consume failed: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", genericFailureMessage)
		return
	}

	writeJSONMessage(w, http.StatusOK, "Password reset successful")
}
