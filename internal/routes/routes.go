// internal/routes/routes.go
package routes

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"snackreach/internal/config"
)

func SetupRoutes(db *sql.DB, cfg *config.Config, s3Config *config.S3Config) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "SnackReach API",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		type dbStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}
		resp := struct {
			Status string   `json:"status"`
			DB     dbStatus `json:"db"`
		}{Status: "ok", DB: dbStatus{Status: "ok"}}

		if err := db.PingContext(req.Context()); err != nil {
			resp.Status = "degraded"
			resp.DB.Status = "error"
			resp.DB.Error = err.Error()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(resp)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	// Auth also registers the root-level password reset endpoints.
	RegisterAuthRoutes(r, db, cfg)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		RegisterUserRoutes(r, db, cfg)
		RegisterBrandRoutes(r, db, cfg)
		RegisterProductRoutes(r, db, cfg, s3Config)
		RegisterMessageRoutes(r, db, cfg)
		RegisterPaymentRoutes(r, db, cfg)
	})

	RegisterSwaggerRoutes(r)

	return r
}
