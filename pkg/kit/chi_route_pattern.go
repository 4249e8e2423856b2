package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiRoutePattern labels a request by its matched route ("/products/{id}").
// Unmatched requests collapse into a single label so ids never leak into series.
func ChiRoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if rp := rc.RoutePattern(); rp != "" {
			return rp
		}
	}
	return "unmatched"
}
