package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"snackreach/internal/config"
	"snackreach/internal/handlers"
	"snackreach/internal/middleware"
	"snackreach/internal/repository"
)

func RegisterUserRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	userRepo := repository.NewUserRepository(db)
	userHandler := handlers.NewUserHandler(userRepo)

	router.Route("/users", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Get("/", userHandler.ListUsers)

		r.Route("/me", func(r chi.Router) {
			r.Get("/", userHandler.Me)
			r.Put("/", userHandler.UpdateMe)
			r.Put("/password", userHandler.ChangePassword)
			r.Delete("/", userHandler.DeleteMe)
		})

		r.Get("/{id}", userHandler.GetUser)
	})
}
