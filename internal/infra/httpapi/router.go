package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	RouteSubmit = "/api/submit" // credentials in the request body
	RouteNotify = "/api/notify" // credentials from server configuration
)

// Routes are the handlers mounted by NewRouter. Metrics is optional.
type Routes struct {
	Submit  http.Handler
	Notify  http.Handler
	Metrics http.Handler
}

// NewRouter constructs the chi mux with all routes wired.
func NewRouter(routes Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)

	r.Get("/health", handleHealth)
	if routes.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", routes.Metrics)
	}

	// Relay endpoints accept every method: the handler itself answers
	// OPTIONS and rejects anything but POST with a JSON 405.
	r.Group(func(r chi.Router) {
		r.Use(cors)
		r.Handle(RouteSubmit, routes.Submit)
		r.Handle(RouteNotify, routes.Notify)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
