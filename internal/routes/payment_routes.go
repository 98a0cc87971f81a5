package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"snackreach/internal/config"
	"snackreach/internal/handlers"
	"snackreach/internal/middleware"
	"snackreach/internal/repository"
	"snackreach/internal/services"
)

func RegisterPaymentRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	accountRepo := repository.NewPaymentAccountRepository(db)
	userRepo := repository.NewUserRepository(db)
	plaid := services.NewPlaidClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnvironment)
	stripe := services.NewStripeClient(cfg.StripeSecretKey)
	paymentHandler := handlers.NewPaymentHandler(accountRepo, userRepo, plaid, stripe)

	router.Route("/payments", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Post("/link-token", paymentHandler.CreateLinkToken)
		r.Post("/bank-accounts", paymentHandler.LinkBankAccount)
		r.Get("/bank-accounts", paymentHandler.GetBankAccount)
		r.Delete("/bank-accounts", paymentHandler.UnlinkBankAccount)
	})
}
