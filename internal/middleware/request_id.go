package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with an ID and a request-scoped logger
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		r.Header.Set(requestIDHeader, requestID)

		ctx := logger.WithFields(r.Context(), "request_id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
