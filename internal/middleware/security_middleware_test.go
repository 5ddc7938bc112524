package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Innei/mx-gobackend/internal/config"
	"github.com/Innei/mx-gobackend/internal/middleware"
	"github.com/Innei/mx-gobackend/internal/utils/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoginRateLimit(t *testing.T) {
	store := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 0.001, Burst: 1}, time.Hour)
	handler := middleware.LoginRateLimit(store)(okHandler())

	r := httptest.NewRequest("POST", "/api/master/login", nil)
	r.RemoteAddr = "1.2.3.4:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Burst exhausted: same client is throttled
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("Retry-After"))

	// Other clients are unaffected
	other := httptest.NewRequest("POST", "/api/master/login", nil)
	other.RemoteAddr = "5.6.7.8:51234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	cfg := &config.CORSSettings{AllowedOrigins: []string{"https://innei.in"}}
	handler := middleware.CORS(cfg)(okHandler())

	r := httptest.NewRequest("GET", "/api/master", nil)
	r.Header.Set("Origin", "https://innei.in")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, "https://innei.in", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	cfg := &config.CORSSettings{AllowedOrigins: []string{"https://innei.in"}}
	handler := middleware.CORS(cfg)(okHandler())

	r := httptest.NewRequest("GET", "/api/master", nil)
	r.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	// The request itself still goes through; CORS is enforced by the browser
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := &config.CORSSettings{AllowedOrigins: []string{"*"}}
	handler := middleware.CORS(cfg)(okHandler())

	r := httptest.NewRequest("GET", "/api/master", nil)
	r.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, "https://anywhere.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	cfg := &config.CORSSettings{AllowedOrigins: []string{"*"}, AllowCredentials: true}

	nextCalled := false
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	r := httptest.NewRequest("OPTIONS", "/api/master", nil)
	r.Header.Set("Origin", "https://innei.in")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, nextCalled)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestSecurityHeaders(t *testing.T) {
	handler := middleware.SecurityHeaders()(okHandler())

	r := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, r)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
}
