package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"snackreach/internal/config"
	"snackreach/internal/handlers"
	"snackreach/internal/middleware"
	"snackreach/internal/repository"
)

func RegisterMessageRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	conversationRepo := repository.NewConversationRepository(db)
	userRepo := repository.NewUserRepository(db)
	messageHandler := handlers.NewMessageHandler(conversationRepo, userRepo)

	router.Route("/conversations", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))

		r.Post("/", messageHandler.StartConversation)
		r.Get("/", messageHandler.ListConversations)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/messages", messageHandler.ListMessages)
			r.Post("/messages", messageHandler.SendMessage)
		})
	})
}
