package api

import (
	"net/http"

	"github.com/dom/country-explorer-server/internal/api/handlers"
	"github.com/dom/country-explorer-server/internal/api/middleware"
	"github.com/dom/country-explorer-server/internal/config"
	"github.com/dom/country-explorer-server/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)

	r.Route("/auth", func(r chi.Router) {
		// Public routes
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
		r.Get("/userdetails/{uid}", authHandler.GetUserDetailsByID)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Token))
			r.Get("/getuserdetails", authHandler.GetUserDetails)
			r.Delete("/deluser", authHandler.DeleteUser)
			r.Post("/toggle-favorite", authHandler.ToggleFavorite)
		})
	})

	return r
}
