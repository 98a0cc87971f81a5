package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"snackreach/internal/config"
	"snackreach/internal/handlers"
	"snackreach/internal/middleware"
	"snackreach/internal/repository"
)

func RegisterBrandRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	brandRepo := repository.NewBrandRepository(db)
	brandHandler := handlers.NewBrandHandler(brandRepo)

	router.Route("/brands", func(r chi.Router) {
		// Discovery is public.
		r.Get("/", brandHandler.ListBrands)
		r.Get("/{id}", brandHandler.GetBrand)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Post("/", brandHandler.CreateBrand)
			r.Put("/{id}", brandHandler.UpdateBrand)
			r.Delete("/{id}", brandHandler.DeleteBrand)
		})
	})
}
