package routes

import (
	"database/sql"
	"log"

	"github.com/go-chi/chi/v5"
	"snackreach/internal/config"
	"snackreach/internal/handlers"
	"snackreach/internal/middleware"
	"snackreach/internal/services"
)

func RegisterAuthRoutes(router *chi.Mux, db *sql.DB, cfg *config.Config) {
	mailer := &services.SMTPSender{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPassword,
		From:   cfg.SMTPFrom,
		UseTLS: cfg.SMTPUseTLS,
	}

	var limiter *middleware.LoginLimiter
	if cfg.RedisURL != "" {
		var err error
		limiter, err = middleware.NewLoginLimiter(cfg.RedisURL)
		if err != nil {
			log.Printf("login limiter disabled: %v", err)
			limiter = nil
		}
	}

	authHandler := handlers.NewAuthHandler(db, cfg, mailer, limiter)

	// The reset pair lives at the root so the emailed link and the SPA
	// can hit stable paths.
	router.Post("/forgot-password", authHandler.ForgotPassword)
	router.Post("/reset-password", authHandler.ResetPassword)

	router.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
	})
}
