package httpapi

import (
	"net/http"

	"telegram_relay/internal/app"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// cors allows any origin to POST JSON to the relay endpoints.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

// requestID tags every request with a fresh UUID, in the context and the response headers.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(app.WithRequestID(r.Context(), id)))
	})
}

func requestIDFrom(r *http.Request) string {
	return app.RequestID(r.Context())
}
