// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/config"
	"github.com/Innei/mx-gobackend/internal/utils"
	"github.com/Innei/mx-gobackend/internal/utils/ratelimit"
)

// LoginRateLimit throttles login attempts per client address. It sits on
// the login route only; authenticated traffic is never rate limited here.
func LoginRateLimit(store *ratelimit.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := utils.ClientIP(r)

			if !store.Allow(clientIP) {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Msg("Login rate limit exceeded")

				w.Header().Set("Retry-After", "3")
				utils.TooManyRequests(w, "Too many login attempts. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORS handles cross-origin requests according to the configured origins
func CORS(cfg *config.CORSSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && originAllowed(origin, cfg.AllowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed checks an origin against the allow list. A single "*"
// entry allows everything.
func originAllowed(origin string, allowed []string) bool {
	for _, entry := range allowed {
		if entry == "*" || strings.EqualFold(entry, origin) {
			return true
		}
	}
	return false
}

// SecurityHeaders sets conservative browser security headers on every
// response.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}
