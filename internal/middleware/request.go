package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Innei/mx-gobackend/internal/auth"
	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/utils"
)

// RequestID assigns each request a unique identifier, echoed in the
// response headers and carried in the request context for log correlation.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set(constants.HeaderXRequestID, requestID)

			ctx := context.WithValue(r.Context(), auth.RequestIDContextKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the response status code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs every request with its latency and status
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			requestID, _ := auth.GetRequestID(r)
			utils.LogHTTPRequest(requestID, r.Method, r.URL.Path, r.RemoteAddr, rec.status, time.Since(start))
		})
	}
}
