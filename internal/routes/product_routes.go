package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"snackreach/internal/config"
	"snackreach/internal/handlers"
	"snackreach/internal/middleware"
	"snackreach/internal/repository"
)

func RegisterProductRoutes(router chi.Router, db *sql.DB, cfg *config.Config, s3Config *config.S3Config) {
	productRepo := repository.NewProductRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	productHandler := handlers.NewProductHandler(productRepo, brandRepo, s3Config)

	router.Route("/products", func(r chi.Router) {
		// Discovery is public.
		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Post("/{id}/image", productHandler.UploadProductImage)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})
}
