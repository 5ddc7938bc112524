package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/middleware"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// SetupRoutes configures the route tree. The owner surface is mounted
// twice, under /api/master and /api/user, because older clients use the
// second alias. Guarded groups pass through the auth guard middleware.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Base middleware
	r.Use(middleware.CORS(&s.Config.CORS))
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}

	// Health and version (unprotected)
	r.Get(constants.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		if err := s.Db.HealthCheck(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
			return
		}

		utils.JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": s.Config.App.Version,
		})
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]string{
			"version":     s.Config.App.Version,
			"environment": s.Config.App.Environment,
		})
	})

	r.Route(constants.APIBasePath, func(r chi.Router) {
		// The owner surface answers on both aliases.
		for _, prefix := range []string{"/master", "/user"} {
			r.Route(prefix, func(r chi.Router) {
				// Public owner endpoints
				r.Group(func(r chi.Router) {
					r.Post("/register", s.Handlers.OwnerHandler.Register)
					r.Get("/check_logged", s.Handlers.OwnerHandler.CheckRegistered)

					r.Group(func(r chi.Router) {
						r.Use(middleware.LoginRateLimit(s.loginLimiter))
						r.Post("/login", s.Handlers.OwnerHandler.Login)
					})
				})

				// Guarded owner endpoints
				r.Group(func(r chi.Router) {
					r.Use(s.guard.Middleware)
					r.Get("/", s.Handlers.OwnerHandler.GetOwner)
					r.Patch("/", s.Handlers.OwnerHandler.Patch)
				})
			})
		}

		// API token management (all guarded)
		r.Route("/auth/tokens", func(r chi.Router) {
			r.Use(s.guard.Middleware)

			r.Get("/", s.Handlers.TokenHandler.List)
			r.Post("/", s.Handlers.TokenHandler.Create)
			r.Delete("/{"+constants.ParamTokenID+"}", s.Handlers.TokenHandler.Delete)
		})
	})

	s.router = r
}

// GetRouter returns the configured router. Used by tests.
func (s *Server) GetRouter() chi.Router {
	return s.router
}
